package respond

import "encoding/json"

// NotificationRespond 站内通知
type NotificationRespond struct {
	Id        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	IsRead    bool            `json:"isRead"`
	CreatedAt string          `json:"createdAt"`
}

// UnreadCountRespond 未读数
type UnreadCountRespond struct {
	Count int64 `json:"count"`
}

// MarkReadRespond 标记已读结果
type MarkReadRespond struct {
	Updated int64 `json:"updated"`
}
