// Package notification_type_enum 定义站内通知类型
package notification_type_enum

const (
	NEW_MEMBER       = "new_member"       // 房间有新成员加入
	CONTACT_REQUEST  = "contact_request"  // 收到联系方式申请
	CONTACT_ACCEPTED = "contact_accepted" // 申请被通过
	CONTACT_REJECTED = "contact_rejected" // 申请被拒绝
	SYSTEM           = "system"           // 系统通知
)
