package request

// SendContactRequest 发起联系方式申请
// 使用位置:
//   - internal/handler/contact_handler.go: Request
//   - internal/service/contact/service.go: Request
type SendContactRequest struct {
	RequesterId string `json:"requesterId" binding:"required"`
	TargetId    string `json:"targetId" binding:"required"`
	RoomId      string `json:"roomId"`
	Message     string `json:"message" binding:"max=200"`
}

// RespondContactRequest 处理收到的申请
type RespondContactRequest struct {
	RequestId string `json:"requestId" binding:"required"`
	UserId    string `json:"userId" binding:"required"`
	Accept    *bool  `json:"accept" binding:"required"`
}
