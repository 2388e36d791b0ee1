package request

// ScheduleCourse 识别结果中的一行课程，由用户确认后提交
// 每行在服务端单独校验，不合法的行只影响自己
type ScheduleCourse struct {
	Name      string `json:"name"`
	Day       int    `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Classroom string `json:"classroom"`
	Professor string `json:"professor"`
	Weeks     string `json:"weeks"`
}

// ConfirmScheduleRequest 确认识别结果并加入对应房间
type ConfirmScheduleRequest struct {
	UserId   string           `json:"userId" binding:"required"`
	Semester string           `json:"semester" binding:"required,max=50"`
	Courses  []ScheduleCourse `json:"courses" binding:"required,min=1,max=50"`
}
