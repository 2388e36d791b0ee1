// Package repository 提供数据访问层的具体实现
// 本文件实现 ContactRequestRepository 接口，处理联系方式申请相关的数据库操作
package repository

import (
	"context"
	"time"

	"course_match_server/internal/model"
	"course_match_server/pkg/enum/contact_request_status_enum"

	"gorm.io/gorm"
)

// contactRequestRepository ContactRequestRepository 接口的实现
type contactRequestRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewContactRequestRepository 创建 ContactRequestRepository 实例
func NewContactRequestRepository(db *gorm.DB) ContactRequestRepository {
	return &contactRequestRepository{db: db}
}

// FindById 根据 ID 查找申请
func (r *contactRequestRepository) FindById(ctx context.Context, id string) (*model.ContactRequest, error) {
	var req model.ContactRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询联系方式申请 id=%s", id)
	}
	return &req, nil
}

// FindByPair 查找有序对的当前申请
func (r *contactRequestRepository) FindByPair(ctx context.Context, requesterId, targetId string) (*model.ContactRequest, error) {
	var req model.ContactRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND target_id = ?", requesterId, targetId).
		First(&req).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询联系方式申请 requester=%s target=%s", requesterId, targetId)
	}
	return &req, nil
}

// DeleteStaleByPair 删除有序对已失效的旧申请（冷却期过后重新申请时使用）
// 条件删除：并发请求刚插入的 pending 不会被删掉
func (r *contactRequestRepository) DeleteStaleByPair(ctx context.Context, requesterId, targetId string, rejectedBefore time.Time) error {
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND target_id = ?", requesterId, targetId).
		Where("status = ? OR (status = ? AND responded_at <= ?)",
			contact_request_status_enum.ACCEPTED, contact_request_status_enum.REJECTED, rejectedBefore).
		Delete(&model.ContactRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "删除联系方式申请 requester=%s target=%s", requesterId, targetId)
	}
	return nil
}

// Create 创建申请
// (requester_id, target_id) 唯一索引冲突会被翻译为 CodeConflict
func (r *contactRequestRepository) Create(ctx context.Context, req *model.ContactRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return wrapDBErrorf(err, "创建联系方式申请 requester=%s target=%s", req.RequesterId, req.TargetId)
	}
	return nil
}

// RespondPending 条件更新：只有 pending 且被申请人匹配时才会生效
// 并发重复处理时只有一个请求能更新成功
func (r *contactRequestRepository) RespondPending(ctx context.Context, id, targetId, status string, respondedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ContactRequest{}).
		Where("id = ? AND target_id = ? AND status = ?", id, targetId, contact_request_status_enum.PENDING).
		Updates(map[string]interface{}{"status": status, "responded_at": respondedAt})
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "处理联系方式申请 id=%s", id)
	}
	return res.RowsAffected == 1, nil
}

// FindPendingByTarget 收到的待处理申请，按时间倒序
func (r *contactRequestRepository) FindPendingByTarget(ctx context.Context, targetId string) ([]model.ContactRequest, error) {
	var reqs []model.ContactRequest
	if err := r.db.WithContext(ctx).
		Where("target_id = ? AND status = ?", targetId, contact_request_status_enum.PENDING).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询待处理申请 target=%s", targetId)
	}
	return reqs, nil
}

// FindByRequesterAndTargets 某人发给一批用户的申请
func (r *contactRequestRepository) FindByRequesterAndTargets(ctx context.Context, requesterId string, targetIds []string) ([]model.ContactRequest, error) {
	var reqs []model.ContactRequest
	if len(targetIds) == 0 {
		return reqs, nil
	}
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND target_id IN ?", requesterId, targetIds).
		Find(&reqs).Error; err != nil {
		return nil, wrapDBErrorf(err, "批量查询联系方式申请 requester=%s", requesterId)
	}
	return reqs, nil
}
