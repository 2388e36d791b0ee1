// Package contact_visibility_enum 定义房间成员列表中联系方式的展示状态
package contact_visibility_enum

const (
	VISIBLE  = "visible"  // 可见（本人、已连接、全局公开或本房间公开）
	HIDDEN   = "hidden"   // 隐藏，可发起申请
	PENDING  = "pending"  // 隐藏，查看者已发出待处理的申请
	REJECTED = "rejected" // 隐藏，查看者的申请被拒绝且仍在冷却期
)
