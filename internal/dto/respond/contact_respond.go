package respond

// ContactRequestRespond 联系方式申请
type ContactRequestRespond struct {
	RequestId       string `json:"requestId"`
	RequesterId     string `json:"requesterId"`
	RequesterName   string `json:"requesterName,omitempty"`
	RequesterAvatar string `json:"requesterAvatar,omitempty"`
	TargetId        string `json:"targetId"`
	Status          string `json:"status"`
	Message         string `json:"message"`
	RoomId          string `json:"roomId"`
	CreatedAt       string `json:"createdAt"`
	RespondedAt     string `json:"respondedAt,omitempty"`
}

// ConnectionRespond 已建立的连接，连接双方互相可见联系方式
type ConnectionRespond struct {
	UserId      string `json:"userId"`
	Nickname    string `json:"nickname"`
	Avatar      string `json:"avatar"`
	Wechat      string `json:"wechat"`
	QQ          string `json:"qq"`
	RoomId      string `json:"roomId"`
	ConnectedAt string `json:"connectedAt"`
}

// ContactStatusRespond 两个用户之间的关系状态
type ContactStatusRespond struct {
	Status         string `json:"status"` // self / connected / pending / incoming / rejected / none
	CanRequest     bool   `json:"canRequest"`
	RequestId      string `json:"requestId,omitempty"`
	CooldownEndsAt string `json:"cooldownEndsAt,omitempty"`
}
