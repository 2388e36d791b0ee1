package repository

import (
	"context"

	"course_match_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository 创建课程 Repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// FindByNameAndSchool 按 (name, school) 查找课程
func (r *courseRepository) FindByNameAndSchool(ctx context.Context, name, school string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("name = ? AND school = ?", name, school).First(&course).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询课程 name=%s school=%s", name, school)
	}
	return &course, nil
}

// CreateIfAbsent 插入课程，(name, school) 冲突时不做任何事
func (r *courseRepository) CreateIfAbsent(ctx context.Context, course *model.Course) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(course)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "创建课程 name=%s", course.Name)
	}
	return res.RowsAffected == 1, nil
}
