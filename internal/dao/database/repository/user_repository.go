// Package repository 提供数据访问层的具体实现
// 本文件实现 UserRepository 接口，处理用户资料与额度相关的数据库操作
package repository

import (
	"context"
	"time"

	"course_match_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository UserRepository 接口的实现
type userRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindById 根据 ID 查找用户
func (r *userRepository) FindById(ctx context.Context, id string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 id=%s", id)
	}
	return &user, nil
}

// FindByIds 批量查找用户
func (r *userRepository) FindByIds(ctx context.Context, ids []string) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// CreateIfAbsent 用户不存在时创建
// 并发首次访问时依靠主键冲突兜底，ON CONFLICT DO NOTHING 不会报错
func (r *userRepository) CreateIfAbsent(ctx context.Context, user *model.UserInfo) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "创建用户 id=%s", user.Id)
	}
	return res.RowsAffected == 1, nil
}

// UpdateIdentity 同步认证服务的邮箱与认证标记
func (r *userRepository) UpdateIdentity(ctx context.Context, id, email string, isPrivileged bool) error {
	if err := r.db.WithContext(ctx).Model(&model.UserInfo{}).Where("id = ?", id).
		Updates(map[string]interface{}{"email": email, "is_privileged": isPrivileged}).Error; err != nil {
		return wrapDBErrorf(err, "同步用户身份 id=%s", id)
	}
	return nil
}

// UpdateProfile 更新资料字段
// 使用 map 以便把 false / 空字符串也写回数据库
func (r *userRepository) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.UserInfo{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "更新用户资料 id=%s", id)
	}
	if res.RowsAffected == 0 {
		return wrapDBErrorf(gorm.ErrRecordNotFound, "更新用户资料 id=%s", id)
	}
	return nil
}

// FindByIdForUpdate 加行锁读取用户（SELECT ... FOR UPDATE）
// 额度扣减在同一事务内读-改-写，行锁保证并发扣减不会超发
func (r *userRepository) FindByIdForUpdate(ctx context.Context, id string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "锁定用户 id=%s", id)
	}
	return &user, nil
}

// UpdateQuota 写回额度计数
func (r *userRepository) UpdateQuota(ctx context.Context, id string, remaining int, resetAt time.Time) error {
	if err := r.db.WithContext(ctx).Model(&model.UserInfo{}).Where("id = ?", id).
		Updates(map[string]interface{}{"match_quota_remaining": remaining, "quota_reset_at": resetAt}).Error; err != nil {
		return wrapDBErrorf(err, "更新用户额度 id=%s", id)
	}
	return nil
}
