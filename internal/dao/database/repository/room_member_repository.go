// Package repository 提供数据访问层的具体实现
// 本文件实现 RoomMemberRepository 接口，处理房间成员相关的数据库操作
package repository

import (
	"context"

	"course_match_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// roomMemberRepository RoomMemberRepository 接口的实现
type roomMemberRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewRoomMemberRepository 创建 RoomMemberRepository 实例
func NewRoomMemberRepository(db *gorm.DB) RoomMemberRepository {
	return &roomMemberRepository{db: db}
}

// Insert 插入成员关系
// 主键冲突时 DO NOTHING，RowsAffected 区分"新加入"和"已在房间"
func (r *roomMemberRepository) Insert(ctx context.Context, member *model.RoomMember) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(member)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "加入房间 room_id=%s user_id=%s", member.RoomId, member.UserId)
	}
	return res.RowsAffected == 1, nil
}

// Delete 删除成员关系
func (r *roomMemberRepository) Delete(ctx context.Context, roomId, userId string) (bool, error) {
	res := r.db.WithContext(ctx).Where("room_id = ? AND user_id = ?", roomId, userId).Delete(&model.RoomMember{})
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "退出房间 room_id=%s user_id=%s", roomId, userId)
	}
	return res.RowsAffected == 1, nil
}

// Exists 用户是否在房间中
func (r *roomMemberRepository) Exists(ctx context.Context, roomId, userId string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomId, userId).
		Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "查询房间成员 room_id=%s user_id=%s", roomId, userId)
	}
	return count > 0, nil
}

// FindMemberIds 房间所有成员 ID
func (r *roomMemberRepository) FindMemberIds(ctx context.Context, roomId string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.RoomMember{}).
		Where("room_id = ?", roomId).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间成员ID room_id=%s", roomId)
	}
	return ids, nil
}

// FindMembersWithUserInfo 查询房间成员详细信息
// 通过 JOIN 关联用户表一次取回可见性判定需要的资料
func (r *roomMemberRepository) FindMembersWithUserInfo(ctx context.Context, roomId string) ([]model.RoomMemberWithUserInfo, error) {
	var members []model.RoomMemberWithUserInfo
	if err := r.db.WithContext(ctx).Table("room_member").
		Select("room_member.user_id, room_member.joined_at, user_info.nickname, user_info.avatar, user_info.wechat, user_info.qq, user_info.auto_share_contact").
		Joins("JOIN user_info ON user_info.id = room_member.user_id").
		Where("room_member.room_id = ?", roomId).
		Order("room_member.joined_at ASC").
		Scan(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间成员详情 room_id=%s", roomId)
	}
	return members, nil
}
