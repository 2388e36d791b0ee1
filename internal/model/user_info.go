// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含联系方式、分享开关与每日额度
package model

import (
	"time"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表
// 用户 ID 来自认证服务（Token 的 sub），首次认证访问时创建，不做物理删除
type UserInfo struct {
	// Id 用户唯一标识，与认证服务身份一致
	Id string `gorm:"column:id;primaryKey;type:varchar(36);comment:用户id"`

	// Email 认证邮箱
	Email string `gorm:"column:email;type:varchar(255);not null;default:'';comment:邮箱"`

	// Nickname 昵称
	Nickname string `gorm:"column:nickname;type:varchar(50);not null;default:'';comment:昵称"`

	// Avatar 头像 URL
	Avatar string `gorm:"column:avatar;type:varchar(255);not null;default:'';comment:头像"`

	// Wechat / QQ 联系方式，是否对他人可见由可见性规则决定
	Wechat string `gorm:"column:wechat;type:varchar(64);not null;default:'';comment:微信号"`
	QQ     string `gorm:"column:qq;type:varchar(20);not null;default:'';comment:QQ号"`

	// IsPrivileged 是否为认证机构邮箱用户，认证用户不受每日额度限制
	IsPrivileged bool `gorm:"column:is_privileged;not null;default:false;comment:是否认证用户"`

	// AutoShareContact 全局公开联系方式
	AutoShareContact bool `gorm:"column:auto_share_contact;not null;default:false;comment:是否全局公开联系方式"`

	// MatchQuotaRemaining 今日剩余识别次数
	MatchQuotaRemaining int `gorm:"column:match_quota_remaining;not null;default:0;comment:剩余额度"`

	// QuotaResetAt 额度重置时间，已过期时在下一次消费时惰性重置
	QuotaResetAt *time.Time `gorm:"column:quota_reset_at;comment:额度重置时间"`

	CreatedAt time.Time `gorm:"column:created_at;comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at;comment:更新时间"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}
