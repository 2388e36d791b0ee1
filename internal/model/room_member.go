package model

import "time"

// RoomMember 房间成员关系
// (room_id, user_id) 为联合主键，同一用户在同一房间只有一条记录，创建后不更新
type RoomMember struct {
	RoomId   string    `gorm:"column:room_id;primaryKey;type:varchar(36);comment:房间id"`
	UserId   string    `gorm:"column:user_id;primaryKey;type:varchar(36);index;comment:用户id"`
	JoinedAt time.Time `gorm:"column:joined_at;not null;comment:加入时间"`
}

func (RoomMember) TableName() string {
	return "room_member"
}

// RoomMemberWithUserInfo 房间成员及其用户资料
// 可见性判定需要的字段一次性查出，避免逐个成员查询
type RoomMemberWithUserInfo struct {
	UserId           string    `gorm:"column:user_id"`
	Nickname         string    `gorm:"column:nickname"`
	Avatar           string    `gorm:"column:avatar"`
	Wechat           string    `gorm:"column:wechat"`
	QQ               string    `gorm:"column:qq"`
	AutoShareContact bool      `gorm:"column:auto_share_contact"`
	JoinedAt         time.Time `gorm:"column:joined_at"`
}
