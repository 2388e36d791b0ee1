package request

// UpdateProfileRequest 更新个人资料
// 字段为 nil 表示不修改，空字符串表示清空
type UpdateProfileRequest struct {
	Nickname         *string `json:"nickname" binding:"omitempty,max=50"`
	Avatar           *string `json:"avatar" binding:"omitempty,max=500"`
	Wechat           *string `json:"wechat" binding:"omitempty,max=50"`
	QQ               *string `json:"qq" binding:"omitempty,max=20"`
	AutoShareContact *bool   `json:"autoShareContact"`
}
