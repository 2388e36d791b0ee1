// Package repository 提供数据访问层的具体实现
// 本文件实现 NotificationRepository 接口，处理站内通知相关的数据库操作
package repository

import (
	"context"

	"course_match_server/internal/model"

	"gorm.io/gorm"
)

// notificationRepository NotificationRepository 接口的实现
type notificationRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewNotificationRepository 创建 NotificationRepository 实例
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateBatch 批量写入通知
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(notifications, 100).Error; err != nil {
		return wrapDBErrorf(err, "批量写入通知 count=%d", len(notifications))
	}
	return nil
}

// FindByUser 按时间倒序查询通知
func (r *notificationRepository) FindByUser(ctx context.Context, userId string, unreadOnly bool, limit int) ([]model.Notification, error) {
	var list []model.Notification
	query := r.db.WithContext(ctx).Where("user_id = ?", userId)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询通知 user_id=%s", userId)
	}
	return list, nil
}

// CountUnread 未读数
func (r *notificationRepository) CountUnread(ctx context.Context, userId string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "查询未读数 user_id=%s", userId)
	}
	return count, nil
}

// MarkRead 标记已读，ids 为空时标记该用户全部通知
// 条件中带 user_id，用户只能标记自己的通知
func (r *notificationRepository) MarkRead(ctx context.Context, userId string, ids []string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ? AND is_read = ?", userId, false)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	res := query.Update("is_read", true)
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "标记通知已读 user_id=%s", userId)
	}
	return res.RowsAffected, nil
}
