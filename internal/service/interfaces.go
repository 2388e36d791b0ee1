// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"

	"course_match_server/internal/dto/request"
	"course_match_server/internal/dto/respond"
	"course_match_server/internal/service/room"
	"course_match_server/pkg/util/jwt"
)

// RoomService 房间业务接口
// 处理房间解析、加入退出、隐私设置与房间详情
type RoomService interface {
	// ResolveRoom 按自然键查找或创建房间
	ResolveRoom(ctx context.Context, in room.RoomKeyInput) (string, error)
	// JoinRoom 加入房间，重复加入返回 false
	JoinRoom(ctx context.Context, userId, roomId string) (bool, error)
	// JoinByIndex 按课号加入该课号全部上课时段的房间
	JoinByIndex(ctx context.Context, userId string, req request.JoinRoomRequest) (*respond.JoinRoomRespond, error)
	// LeaveRoom 退出房间
	LeaveRoom(ctx context.Context, userId, roomId string) (*respond.LeaveRoomRespond, error)
	// SetPrivacy 设置本房间是否公开联系方式
	SetPrivacy(ctx context.Context, roomId, userId string, isPublic bool) (*respond.RoomPrivacyRespond, error)
	// GetPrivacy 查询本房间的隐私设置
	GetPrivacy(ctx context.Context, roomId, userId string) (*respond.RoomPrivacyRespond, error)
	// GetRoomDetail 房间详情，viewerId 为空表示匿名
	GetRoomDetail(ctx context.Context, roomId, viewerId string) (*respond.RoomDetailRespond, error)
	// ListUserRooms 用户加入的房间
	ListUserRooms(ctx context.Context, userId string) ([]respond.RoomInfoRespond, error)
}

// ContactService 联系方式业务接口
type ContactService interface {
	// CanRequest 是否可以发起申请
	CanRequest(ctx context.Context, requesterId, targetId string) (bool, error)
	// Request 发起申请
	Request(ctx context.Context, req request.SendContactRequest) (*respond.ContactRequestRespond, error)
	// Respond 通过或拒绝申请
	Respond(ctx context.Context, req request.RespondContactRequest) (*respond.ContactRequestRespond, error)
	// AreConnected 两个用户是否已连接
	AreConnected(ctx context.Context, userA, userB string) (bool, error)
	// ListConnections 已建立的连接
	ListConnections(ctx context.Context, userId string) ([]respond.ConnectionRespond, error)
	// ListPending 收到的待处理申请
	ListPending(ctx context.Context, userId string) ([]respond.ContactRequestRespond, error)
	// Status 与对方的关系状态
	Status(ctx context.Context, userId, targetId string) (*respond.ContactStatusRespond, error)
}

// UserService 用户业务接口
type UserService interface {
	// EnsureUser 首次认证访问时建档，之后同步邮箱与认证标记
	EnsureUser(ctx context.Context, identity *jwt.Identity) error
	// GetProfile 查看资料，他人只能看到公开字段
	GetProfile(ctx context.Context, userId, viewerId string) (*respond.UserInfoRespond, error)
	// UpdateProfile 更新本人资料
	UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*respond.UserInfoRespond, error)
}

// NotificationService 通知业务接口
type NotificationService interface {
	// List 按时间倒序查询通知
	List(ctx context.Context, userId string, unreadOnly bool, limit int) ([]respond.NotificationRespond, error)
	// UnreadCount 未读数
	UnreadCount(ctx context.Context, userId string) (*respond.UnreadCountRespond, error)
	// MarkRead 标记已读
	MarkRead(ctx context.Context, req request.MarkNotificationsReadRequest) (*respond.MarkReadRespond, error)
}

// QuotaService 每日识别额度接口
type QuotaService interface {
	// Consume 消费一次额度，认证用户不受限制
	Consume(ctx context.Context, userId string, isPrivileged bool) error
	// Refund 归还一次额度
	Refund(ctx context.Context, userId string, isPrivileged bool) error
}

// ScheduleService 课表导入接口
type ScheduleService interface {
	// Parse 识别课表图片
	Parse(ctx context.Context, userId string, image []byte) (*respond.ParseScheduleRespond, error)
	// Confirm 确认导入并加入房间
	Confirm(ctx context.Context, req request.ConfirmScheduleRequest) (*respond.ConfirmScheduleRespond, error)
}
