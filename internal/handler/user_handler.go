// Package handler 提供 HTTP 请求处理器
// 本文件处理用户资料相关的 API 请求
package handler

import (
	"course_match_server/internal/dto/request"
	"course_match_server/internal/infrastructure/middleware"
	"course_match_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户请求处理器
// 通过构造函数注入 Service，遵循依赖倒置原则
type UserHandler struct {
	userSvc service.UserService
	roomSvc service.RoomService
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userSvc service.UserService, roomSvc service.RoomService) *UserHandler {
	return &UserHandler{userSvc: userSvc, roomSvc: roomSvc}
}

// Me 当前登录用户的完整资料
// GET /users/me
// 响应: respond.UserInfoRespond
func (h *UserHandler) Me(c *gin.Context) {
	userId := middleware.CurrentUserID(c)
	data, err := h.userSvc.GetProfile(c.Request.Context(), userId, userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Get 查看用户资料，本人可见全部字段
// GET /users/:userId
func (h *UserHandler) Get(c *gin.Context) {
	data, err := h.userSvc.GetProfile(c.Request.Context(), c.Param("userId"), middleware.CurrentUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Update 更新本人资料
// PUT /users/:userId
// 请求体: request.UpdateProfileRequest
func (h *UserHandler) Update(c *gin.Context) {
	userId := c.Param("userId")
	if !requireCaller(c, userId) {
		return
	}
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.UpdateProfile(c.Request.Context(), userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Rooms 用户加入的房间
// GET /users/:userId/rooms
func (h *UserHandler) Rooms(c *gin.Context) {
	userId := c.Param("userId")
	if !requireCaller(c, userId) {
		return
	}
	data, err := h.roomSvc.ListUserRooms(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
