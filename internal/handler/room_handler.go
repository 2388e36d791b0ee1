// Package handler 提供 HTTP 请求处理器
// 本文件处理房间相关的 API 请求
package handler

import (
	"course_match_server/internal/dto/request"
	"course_match_server/internal/infrastructure/middleware"
	"course_match_server/internal/service"

	"github.com/gin-gonic/gin"
)

// RoomHandler 房间请求处理器
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler 创建房间处理器实例
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// Join 按课号加入房间
// POST /rooms/join
// 请求体: request.JoinRoomRequest
// 响应: respond.JoinRoomRespond
func (h *RoomHandler) Join(c *gin.Context) {
	var req request.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.roomSvc.JoinByIndex(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Detail 房间详情
// GET /rooms/:id?userId=xxx
// 可匿名访问；带 userId 时必须与登录用户一致
// 响应: respond.RoomDetailRespond
func (h *RoomHandler) Detail(c *gin.Context) {
	viewer := middleware.CurrentUserID(c)
	if userId := c.Query("userId"); userId != "" && !requireCaller(c, userId) {
		return
	}
	data, err := h.roomSvc.GetRoomDetail(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SetPrivacy 设置本房间是否公开联系方式
// POST /rooms/:id/privacy
// 请求体: request.SetRoomPrivacyRequest
// 响应: respond.RoomPrivacyRespond
func (h *RoomHandler) SetPrivacy(c *gin.Context) {
	var req request.SetRoomPrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !requireCaller(c, req.UserId) {
		return
	}
	data, err := h.roomSvc.SetPrivacy(c.Request.Context(), c.Param("id"), req.UserId, *req.IsPublic)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetPrivacy 查询本房间的隐私设置
// GET /rooms/:id/privacy?userId=xxx
func (h *RoomHandler) GetPrivacy(c *gin.Context) {
	userId := c.Query("userId")
	if !requireCaller(c, userId) {
		return
	}
	data, err := h.roomSvc.GetPrivacy(c.Request.Context(), c.Param("id"), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Leave 退出房间
// POST /rooms/:id/leave
// 请求体: request.LeaveRoomRequest
func (h *RoomHandler) Leave(c *gin.Context) {
	var req request.LeaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !requireCaller(c, req.UserId) {
		return
	}
	data, err := h.roomSvc.LeaveRoom(c.Request.Context(), req.UserId, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
