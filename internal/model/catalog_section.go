package model

import "time"

// CatalogSection 课程目录缓存中的一个上课时段
// 由外部同步任务写入，匹配时只读；一个课号（index）可能对应多个上课时段
type CatalogSection struct {
	Id          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Year        int       `gorm:"column:year;not null;uniqueIndex:idx_catalog_meeting,priority:1"`
	Term        int       `gorm:"column:term;not null;uniqueIndex:idx_catalog_meeting,priority:2"`
	Index       string    `gorm:"column:section_index;type:varchar(10);not null;uniqueIndex:idx_catalog_meeting,priority:3;comment:课号"`
	MeetingDay  string    `gorm:"column:meeting_day;type:char(1);not null;uniqueIndex:idx_catalog_meeting,priority:4;comment:星期字母 M/T/W/H/F/S/U"`
	StartTime   string    `gorm:"column:start_time;type:char(4);not null;uniqueIndex:idx_catalog_meeting,priority:5;comment:开始时间(4位军用时间)"`
	EndTime     string    `gorm:"column:end_time;type:char(4);not null;comment:结束时间(4位军用时间)"`
	Campus      string    `gorm:"column:campus;type:varchar(10);not null;default:''"`
	CourseCode  string    `gorm:"column:course_code;type:varchar(30);not null;default:'';comment:如 01:198:111"`
	Title       string    `gorm:"column:title;type:varchar(200);not null;comment:课程名"`
	Instructor  string    `gorm:"column:instructor;type:varchar(200);not null;default:''"`
	Building    string    `gorm:"column:building;type:varchar(50);not null;default:''"`
	RoomNumber  string    `gorm:"column:room_number;type:varchar(20);not null;default:''"`
	OpenStatus  bool      `gorm:"column:open_status;not null;default:true"`
	RefreshedAt time.Time `gorm:"column:refreshed_at"`
}

func (CatalogSection) TableName() string {
	return "catalog_section"
}
