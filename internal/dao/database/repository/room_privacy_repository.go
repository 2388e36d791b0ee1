package repository

import (
	"context"

	"course_match_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roomPrivacyRepository struct {
	db *gorm.DB
}

// NewRoomPrivacyRepository 创建房间隐私设置 Repository
func NewRoomPrivacyRepository(db *gorm.DB) RoomPrivacyRepository {
	return &roomPrivacyRepository{db: db}
}

// Upsert 写入或覆盖设置
// postgres 生成 ON CONFLICT ... DO UPDATE，mysql 生成 ON DUPLICATE KEY UPDATE
func (r *roomPrivacyRepository) Upsert(ctx context.Context, setting *model.RoomPrivacySetting) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_public", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return wrapDBErrorf(err, "写入房间隐私设置 room_id=%s user_id=%s", setting.RoomId, setting.UserId)
	}
	return nil
}

// Find 查找设置
func (r *roomPrivacyRepository) Find(ctx context.Context, roomId, userId string) (*model.RoomPrivacySetting, error) {
	var setting model.RoomPrivacySetting
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomId, userId).
		First(&setting).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间隐私设置 room_id=%s user_id=%s", roomId, userId)
	}
	return &setting, nil
}

// FindByRoomAndUsers 批量查询一个房间内多个用户的设置
func (r *roomPrivacyRepository) FindByRoomAndUsers(ctx context.Context, roomId string, userIds []string) ([]model.RoomPrivacySetting, error) {
	var settings []model.RoomPrivacySetting
	if len(userIds) == 0 {
		return settings, nil
	}
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id IN ?", roomId, userIds).
		Find(&settings).Error; err != nil {
		return nil, wrapDBErrorf(err, "批量查询房间隐私设置 room_id=%s", roomId)
	}
	return settings, nil
}
