// Package notification 站内通知：写入、轮询、未读数与已读标记
// 通知写入是尽力而为的，失败只记录日志，不影响触发它的业务操作
package notification

import (
	"context"
	"encoding/json"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/dto/request"
	"course_match_server/internal/dto/respond"
	"course_match_server/internal/infrastructure/mq"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/constants"

	"go.uber.org/zap"
)

// notificationService 通知业务逻辑实现
type notificationService struct {
	repos     *repository.Repositories
	publisher mq.NotificationPublisher
	env       common.Env
}

// NewNotificationService 构造函数，publisher 为 nil 时不做 Kafka 镜像
func NewNotificationService(repos *repository.Repositories, publisher mq.NotificationPublisher, opts ...common.Option) *notificationService {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	return &notificationService{repos: repos, publisher: publisher, env: common.NewEnv(opts...)}
}

// Build 生成一条待写入的通知
func (s *notificationService) Build(userId, typ string, payload any) model.Notification {
	data, err := json.Marshal(payload)
	if err != nil {
		zap.L().Warn("marshal notification payload failed", zap.String("type", typ), zap.Error(err))
		data = []byte("{}")
	}
	return model.Notification{
		Id:        s.env.NewID(),
		UserId:    userId,
		Type:      typ,
		Payload:   string(data),
		CreatedAt: s.env.Now(),
	}
}

// Notify 批量写入通知并异步镜像到 Kafka
// 写库失败只记录日志
func (s *notificationService) Notify(ctx context.Context, notifications ...model.Notification) {
	if len(notifications) == 0 {
		return
	}
	if err := s.repos.Notification.CreateBatch(ctx, notifications); err != nil {
		zap.L().Error("notification fan-out failed",
			zap.Int("count", len(notifications)),
			zap.String("type", notifications[0].Type),
			zap.Error(err))
		return
	}
	s.publisher.Publish(ctx, notifications...)
}

// List 按时间倒序查询通知
func (s *notificationService) List(ctx context.Context, userId string, unreadOnly bool, limit int) ([]respond.NotificationRespond, error) {
	if limit <= 0 {
		limit = constants.NOTIFICATION_PAGE_SIZE
	}
	if limit > constants.NOTIFICATION_PAGE_MAX {
		limit = constants.NOTIFICATION_PAGE_MAX
	}
	list, err := s.repos.Notification.FindByUser(ctx, userId, unreadOnly, limit)
	if err != nil {
		return nil, common.Internal(err, "list notifications", zap.String("user_id", userId))
	}
	rsp := make([]respond.NotificationRespond, 0, len(list))
	for _, n := range list {
		payload := json.RawMessage(n.Payload)
		if !json.Valid(payload) {
			payload = json.RawMessage("{}")
		}
		rsp = append(rsp, respond.NotificationRespond{
			Id:        n.Id,
			Type:      n.Type,
			Payload:   payload,
			IsRead:    n.IsRead,
			CreatedAt: common.FormatTime(n.CreatedAt),
		})
	}
	return rsp, nil
}

// UnreadCount 未读数
func (s *notificationService) UnreadCount(ctx context.Context, userId string) (*respond.UnreadCountRespond, error) {
	n, err := s.repos.Notification.CountUnread(ctx, userId)
	if err != nil {
		return nil, common.Internal(err, "count unread notifications", zap.String("user_id", userId))
	}
	return &respond.UnreadCountRespond{Count: n}, nil
}

// MarkRead 标记已读
func (s *notificationService) MarkRead(ctx context.Context, req request.MarkNotificationsReadRequest) (*respond.MarkReadRespond, error) {
	n, err := s.repos.Notification.MarkRead(ctx, req.UserId, req.Ids)
	if err != nil {
		return nil, common.Internal(err, "mark notifications read", zap.String("user_id", req.UserId))
	}
	return &respond.MarkReadRespond{Updated: n}, nil
}
