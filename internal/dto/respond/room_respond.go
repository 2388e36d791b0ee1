package respond

// JoinRoomRespond 加入房间结果
// 一个课号可能有多个上课时段，RoomIds 为全部加入的房间，RoomId 为第一个
type JoinRoomRespond struct {
	RoomId  string   `json:"roomId"`
	RoomIds []string `json:"roomIds"`
}

// RoomInfoRespond 房间信息
type RoomInfoRespond struct {
	RoomId      string `json:"roomId"`
	CourseId    string `json:"courseId"`
	CourseName  string `json:"courseName"`
	CourseCode  string `json:"courseCode"`
	School      string `json:"school"`
	Semester    string `json:"semester"`
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Instructor  string `json:"instructor"`
	Location    string `json:"location"`
	Weeks       string `json:"weeks"`
	MemberCount int    `json:"memberCount"`
}

// RoomMemberRespond 房间成员
// 不可见时 Wechat / QQ 为 null
type RoomMemberRespond struct {
	Id            string  `json:"id"`
	Nickname      string  `json:"nickname"`
	Avatar        string  `json:"avatar"`
	Wechat        *string `json:"wechat"`
	QQ            *string `json:"qq"`
	JoinedAt      string  `json:"joinedAt"`
	ContactStatus string  `json:"contactStatus"`
	IsConnected   bool    `json:"isConnected"`
}

// RoomPrivacyRespond 房间隐私设置，未设置过时 Decided 为 false、IsPublic 为 null
type RoomPrivacyRespond struct {
	RoomId   string `json:"roomId"`
	UserId   string `json:"userId"`
	Decided  bool   `json:"decided"`
	IsPublic *bool  `json:"isPublic"`
}

// RoomDetailRespond 房间详情
type RoomDetailRespond struct {
	Room     RoomInfoRespond     `json:"room"`
	Members  []RoomMemberRespond `json:"members"`
	Siblings []RoomInfoRespond   `json:"siblings"`
	IsMember bool                `json:"isMember"`
	Privacy  *RoomPrivacyRespond `json:"privacy"`
}

// LeaveRoomRespond 退出房间结果
type LeaveRoomRespond struct {
	Left bool `json:"left"`
}
