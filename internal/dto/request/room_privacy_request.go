package request

// SetRoomPrivacyRequest 设置本房间是否公开联系方式
type SetRoomPrivacyRequest struct {
	UserId   string `json:"userId" binding:"required"`
	IsPublic *bool  `json:"isPublic" binding:"required"`
}

// LeaveRoomRequest 退出房间
type LeaveRoomRequest struct {
	UserId string `json:"userId" binding:"required"`
}
