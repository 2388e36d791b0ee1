package respond

// UserInfoRespond 用户资料
// 查看他人时只返回公开字段
type UserInfoRespond struct {
	Id                  string `json:"id"`
	Nickname            string `json:"nickname"`
	Avatar              string `json:"avatar"`
	Email               string `json:"email,omitempty"`
	Wechat              string `json:"wechat,omitempty"`
	QQ                  string `json:"qq,omitempty"`
	IsPrivileged        bool   `json:"isPrivileged"`
	AutoShareContact    bool   `json:"autoShareContact"`
	MatchQuotaRemaining *int   `json:"matchQuotaRemaining,omitempty"`
	QuotaResetAt        string `json:"quotaResetAt,omitempty"`
}
