// Package model 定义数据库实体模型
// 本文件定义联系方式申请模型
package model

import "time"

// ContactRequest 联系方式申请
// 对应数据库 contact_request 表
// 每个有序对 (requester_id, target_id) 只保留一条当前记录，重新申请时先删除旧记录再插入
type ContactRequest struct {
	Id string `gorm:"column:id;primaryKey;type:varchar(36);comment:申请id"`

	// RequesterId 申请人
	RequesterId string `gorm:"column:requester_id;type:varchar(36);not null;uniqueIndex:idx_contact_request_pair,priority:1;comment:申请人id"`

	// TargetId 被申请人
	TargetId string `gorm:"column:target_id;type:varchar(36);not null;uniqueIndex:idx_contact_request_pair,priority:2;index;comment:被申请人id"`

	// Status 申请状态 pending / accepted / rejected
	Status string `gorm:"column:status;type:varchar(16);not null;comment:申请状态"`

	// Message 申请附言
	Message string `gorm:"column:message;type:varchar(200);not null;default:'';comment:附言"`

	// RoomId 发起申请时所在房间，可为空
	RoomId *string `gorm:"column:room_id;type:varchar(36);comment:来源房间"`

	// RespondedAt 处理时间，冷却期从此刻开始计算
	RespondedAt *time.Time `gorm:"column:responded_at;comment:处理时间"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ContactRequest) TableName() string {
	return "contact_request"
}
