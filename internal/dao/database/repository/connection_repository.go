package repository

import (
	"context"

	"course_match_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository 创建连接 Repository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// CreateIfAbsent 创建连接，调用方负责按 CanonicalPair 排好顺序
func (r *connectionRepository) CreateIfAbsent(ctx context.Context, conn *model.Connection) (bool, error) {
	conn.UserId1, conn.UserId2 = model.CanonicalPair(conn.UserId1, conn.UserId2)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(conn)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "创建连接 %s-%s", conn.UserId1, conn.UserId2)
	}
	return res.RowsAffected == 1, nil
}

// Exists 两个用户是否已连接
func (r *connectionRepository) Exists(ctx context.Context, userA, userB string) (bool, error) {
	a, b := model.CanonicalPair(userA, userB)
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Connection{}).
		Where("user_id1 = ? AND user_id2 = ?", a, b).
		Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "查询连接 %s-%s", a, b)
	}
	return count > 0, nil
}

// FindByUser 用户的所有连接，按建立时间倒序
func (r *connectionRepository) FindByUser(ctx context.Context, userId string) ([]model.Connection, error) {
	var conns []model.Connection
	if err := r.db.WithContext(ctx).
		Where("user_id1 = ? OR user_id2 = ?", userId, userId).
		Order("created_at DESC").
		Find(&conns).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户连接 user_id=%s", userId)
	}
	return conns, nil
}

// FindPeersAmong 在 others 中找出与 userId 已连接的用户
func (r *connectionRepository) FindPeersAmong(ctx context.Context, userId string, others []string) ([]string, error) {
	peers := make([]string, 0)
	if len(others) == 0 {
		return peers, nil
	}
	var conns []model.Connection
	if err := r.db.WithContext(ctx).
		Where("(user_id1 = ? AND user_id2 IN ?) OR (user_id2 = ? AND user_id1 IN ?)", userId, others, userId, others).
		Find(&conns).Error; err != nil {
		return nil, wrapDBErrorf(err, "批量查询连接 user_id=%s", userId)
	}
	for _, c := range conns {
		peers = append(peers, c.Peer(userId))
	}
	return peers, nil
}
