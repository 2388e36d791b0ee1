package handler

import (
	"strconv"

	"course_match_server/internal/dto/request"
	"course_match_server/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 通知请求处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List 通知列表，客户端轮询，按 id 去重
// GET /notifications/:userId?unreadOnly=true&limit=50
func (h *NotificationHandler) List(c *gin.Context) {
	userId := c.Param("userId")
	if !requireCaller(c, userId) {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.Query("unreadOnly"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	data, err := h.notificationSvc.List(c.Request.Context(), userId, unreadOnly, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UnreadCount 未读数
// GET /notifications/:userId/unreadCount
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userId := c.Param("userId")
	if !requireCaller(c, userId) {
		return
	}
	data, err := h.notificationSvc.UnreadCount(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead 标记已读
// POST /notifications/read
// 请求体: request.MarkNotificationsReadRequest
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req request.MarkNotificationsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !requireCaller(c, req.UserId) {
		return
	}
	data, err := h.notificationSvc.MarkRead(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
