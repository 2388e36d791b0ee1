package request

// JoinRoomRequest 按课号加入房间
// 使用位置:
//   - internal/handler/room_handler.go: JoinRoom
//   - internal/service/room/membership.go: JoinByIndex
type JoinRoomRequest struct {
	Index string `json:"index" binding:"required,sectionindex"`
	Year  int    `json:"year" binding:"required,min=2000,max=2100"`
	Term  int    `json:"term" binding:"oneof=0 1 7 9"` // 0 冬季 1 春季 7 夏季 9 秋季
}
