package model

import "time"

// Course 课程
// (name, school) 唯一，由房间解析器在首次出现时惰性创建
type Course struct {
	Id        string    `gorm:"column:id;primaryKey;type:varchar(36);comment:课程id"`
	Name      string    `gorm:"column:name;type:varchar(200);not null;uniqueIndex:idx_course_name_school,priority:1;comment:课程名"`
	School    string    `gorm:"column:school;type:varchar(100);not null;uniqueIndex:idx_course_name_school,priority:2;comment:学校"`
	Code      string    `gorm:"column:code;type:varchar(50);not null;default:'';comment:外部课程代码"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Course) TableName() string {
	return "course"
}
