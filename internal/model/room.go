// Package model 定义数据库实体模型
// 本文件定义房间模型：某门课程一个固定上课时段，是用户匹配的最小单位
package model

import "time"

// Room 房间
// 对应数据库 room 表
// 自然键 (course_id, semester, day_of_week, start_time, end_time, instructor, location, weeks) 唯一，
// 所有字段 NOT NULL，空字符串参与唯一性比较（NULL 在唯一索引中互不相等，会导致重复房间）
type Room struct {
	Id string `gorm:"column:id;primaryKey;type:varchar(36);comment:房间id"`

	CourseId   string `gorm:"column:course_id;type:varchar(36);not null;uniqueIndex:idx_room_natural_key,priority:1;comment:课程id"`
	Semester   string `gorm:"column:semester;type:varchar(50);not null;uniqueIndex:idx_room_natural_key,priority:2;comment:学期"`
	DayOfWeek  int    `gorm:"column:day_of_week;not null;uniqueIndex:idx_room_natural_key,priority:3;check:chk_room_day_of_week,day_of_week BETWEEN 1 AND 7;comment:星期1-7"`
	StartTime  string `gorm:"column:start_time;type:char(5);not null;uniqueIndex:idx_room_natural_key,priority:4;comment:开始时间HH:MM"`
	EndTime    string `gorm:"column:end_time;type:char(5);not null;uniqueIndex:idx_room_natural_key,priority:5;comment:结束时间HH:MM"`
	Instructor string `gorm:"column:instructor;type:varchar(100);not null;default:'';uniqueIndex:idx_room_natural_key,priority:6;comment:教师"`
	Location   string `gorm:"column:location;type:varchar(100);not null;default:'';uniqueIndex:idx_room_natural_key,priority:7;comment:上课地点"`
	Weeks      string `gorm:"column:weeks;type:varchar(50);not null;default:'';uniqueIndex:idx_room_natural_key,priority:8;comment:周次"`

	// MemberCount 成员数，派生字段
	// 只能随 room_member 的插入/删除在同一事务内增减，不允许直接写
	MemberCount int `gorm:"column:member_count;not null;default:0;comment:成员数"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Room) TableName() string {
	return "room"
}

// RoomKey 房间自然键（课程已解析为 CourseId）
type RoomKey struct {
	CourseId   string
	Semester   string
	DayOfWeek  int
	StartTime  string
	EndTime    string
	Instructor string
	Location   string
	Weeks      string
}

// Key 返回房间的自然键
func (r Room) Key() RoomKey {
	return RoomKey{
		CourseId:   r.CourseId,
		Semester:   r.Semester,
		DayOfWeek:  r.DayOfWeek,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Instructor: r.Instructor,
		Location:   r.Location,
		Weeks:      r.Weeks,
	}
}

// RoomWithCourse 房间及所属课程信息，用于详情和列表展示
type RoomWithCourse struct {
	Room
	CourseName string `gorm:"column:course_name"`
	CourseCode string `gorm:"column:course_code"`
	School     string `gorm:"column:school"`
}
