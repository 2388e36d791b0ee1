// Package repository 提供数据访问层的具体实现
// 本文件实现 RoomRepository 接口，处理房间相关的数据库操作
package repository

import (
	"context"

	"course_match_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// roomRepository RoomRepository 接口的实现
type roomRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewRoomRepository 创建 RoomRepository 实例
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// roomWithCourseColumns 房间 JOIN 课程时选择的列
const roomWithCourseColumns = "room.*, course.name AS course_name, course.code AS course_code, course.school AS school"

// FindById 根据 ID 查找房间
func (r *roomRepository) FindById(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间 id=%s", id)
	}
	return &room, nil
}

// FindWithCourse 查找房间及其课程信息
func (r *roomRepository) FindWithCourse(ctx context.Context, id string) (*model.RoomWithCourse, error) {
	var room model.RoomWithCourse
	res := r.db.WithContext(ctx).Table("room").
		Select(roomWithCourseColumns).
		Joins("JOIN course ON course.id = room.course_id").
		Where("room.id = ?", id).
		Limit(1).
		Scan(&room)
	if res.Error != nil {
		return nil, wrapDBErrorf(res.Error, "查询房间详情 id=%s", id)
	}
	if res.RowsAffected == 0 {
		return nil, wrapDBErrorf(gorm.ErrRecordNotFound, "查询房间详情 id=%s", id)
	}
	return &room, nil
}

// FindByKey 根据完整自然键查找房间
func (r *roomRepository) FindByKey(ctx context.Context, key model.RoomKey) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND semester = ? AND day_of_week = ? AND start_time = ? AND end_time = ? AND instructor = ? AND location = ? AND weeks = ?",
			key.CourseId, key.Semester, key.DayOfWeek, key.StartTime, key.EndTime, key.Instructor, key.Location, key.Weeks).
		First(&room).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "按自然键查询房间 course_id=%s day=%d start=%s", key.CourseId, key.DayOfWeek, key.StartTime)
	}
	return &room, nil
}

// CreateIfAbsent 插入房间，自然键唯一索引冲突时不做任何事
func (r *roomRepository) CreateIfAbsent(ctx context.Context, room *model.Room) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(room)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "创建房间 course_id=%s", room.CourseId)
	}
	return res.RowsAffected == 1, nil
}

// FindSiblings 同一课程同一学期的其他上课时段
func (r *roomRepository) FindSiblings(ctx context.Context, courseId, semester, excludeId string) ([]model.Room, error) {
	var rooms []model.Room
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND semester = ? AND id <> ?", courseId, semester, excludeId).
		Order("day_of_week ASC, start_time ASC").
		Find(&rooms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询同课程房间 course_id=%s", courseId)
	}
	return rooms, nil
}

// FindByUser 用户加入的所有房间
func (r *roomRepository) FindByUser(ctx context.Context, userId string) ([]model.RoomWithCourse, error) {
	var rooms []model.RoomWithCourse
	if err := r.db.WithContext(ctx).Table("room").
		Select(roomWithCourseColumns).
		Joins("JOIN course ON course.id = room.course_id").
		Joins("JOIN room_member ON room_member.room_id = room.id").
		Where("room_member.user_id = ?", userId).
		Order("room.day_of_week ASC, room.start_time ASC").
		Scan(&rooms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户房间 user_id=%s", userId)
	}
	return rooms, nil
}

// IncrementMemberCount 原子增减成员数
// 使用 UpdateColumn + gorm.Expr 在数据库侧计算，避免读-改-写竞争
func (r *roomRepository) IncrementMemberCount(ctx context.Context, id string, delta int) error {
	if delta == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ? AND member_count + ? >= 0", id, delta).
		UpdateColumn("member_count", gorm.Expr("member_count + ?", delta))
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "更新房间成员数 id=%s delta=%d", id, delta)
	}
	if res.RowsAffected == 0 {
		return wrapDBErrorf(gorm.ErrRecordNotFound, "更新房间成员数 id=%s delta=%d", id, delta)
	}
	return nil
}
