package model

import "time"

// Notification 站内通知
// 客户端轮询读取，按 id 去重；payload 为 JSON 文本
type Notification struct {
	Id        string    `gorm:"column:id;primaryKey;type:varchar(36);comment:通知id"`
	UserId    string    `gorm:"column:user_id;type:varchar(36);not null;index:idx_notification_user_created,priority:1;comment:接收人"`
	Type      string    `gorm:"column:type;type:varchar(32);not null;comment:通知类型"`
	Payload   string    `gorm:"column:payload;type:text;not null;comment:通知内容JSON"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false;comment:是否已读"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_notification_user_created,priority:2"`
}

func (Notification) TableName() string {
	return "notification"
}
