package request

// MarkNotificationsReadRequest 标记通知已读，ids 为空时标记全部
type MarkNotificationsReadRequest struct {
	UserId string   `json:"userId" binding:"required"`
	Ids    []string `json:"ids" binding:"omitempty,max=200"`
}
