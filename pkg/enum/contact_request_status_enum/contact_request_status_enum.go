// Package contact_request_status_enum 定义联系方式申请的状态
package contact_request_status_enum

const (
	PENDING  = "pending"  // 申请中（待对方处理）
	ACCEPTED = "accepted" // 已通过，双方建立连接
	REJECTED = "rejected" // 已拒绝，进入冷却期
)
