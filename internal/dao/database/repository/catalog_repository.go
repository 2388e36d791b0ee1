package repository

import (
	"context"

	"course_match_server/internal/model"

	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建课程目录 Repository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// FindMeetings 查询某学期某课号的所有上课时段
func (r *catalogRepository) FindMeetings(ctx context.Context, year, term int, index string) ([]model.CatalogSection, error) {
	var sections []model.CatalogSection
	if err := r.db.WithContext(ctx).
		Where("year = ? AND term = ? AND section_index = ?", year, term, index).
		Order("meeting_day ASC, start_time ASC").
		Find(&sections).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询课程目录 year=%d term=%d index=%s", year, term, index)
	}
	return sections, nil
}
