package respond

// ParsedCourseRespond 识别出的一行课程（已规范化）
type ParsedCourseRespond struct {
	Name      string `json:"name"`
	Day       int    `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Classroom string `json:"classroom"`
	Professor string `json:"professor"`
	Weeks     string `json:"weeks"`
}

// DroppedRowRespond 被丢弃的识别行及原因
type DroppedRowRespond struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ParseScheduleRespond 课表识别结果
// Courses 为空时 Message 提示未识别到课程
type ParseScheduleRespond struct {
	Courses []ParsedCourseRespond `json:"courses"`
	Dropped []DroppedRowRespond   `json:"dropped"`
	Message string                `json:"message,omitempty"`
}

// ConfirmRowRespond 确认导入时每一行的结果
type ConfirmRowRespond struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	RoomId string `json:"roomId,omitempty"`
	Joined bool   `json:"joined"`
	Error  string `json:"error,omitempty"`
}

// ConfirmScheduleRespond 确认导入结果
type ConfirmScheduleRespond struct {
	Results []ConfirmRowRespond `json:"results"`
	RoomIds []string            `json:"roomIds"`
}
