package model

import "time"

// RoomPrivacySetting 用户在某个房间内的联系方式公开设置
// 与全局 auto_share_contact 相互独立；不存在记录表示用户尚未选择
type RoomPrivacySetting struct {
	UserId    string    `gorm:"column:user_id;primaryKey;type:varchar(36);comment:用户id"`
	RoomId    string    `gorm:"column:room_id;primaryKey;type:varchar(36);index;comment:房间id"`
	IsPublic  bool      `gorm:"column:is_public;not null;comment:是否在本房间公开联系方式"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (RoomPrivacySetting) TableName() string {
	return "room_privacy_setting"
}
