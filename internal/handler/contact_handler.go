// Package handler 提供 HTTP 请求处理器
// 本文件处理联系方式申请相关的 API 请求
package handler

import (
	"course_match_server/internal/dto/request"
	"course_match_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler 联系方式请求处理器
type ContactHandler struct {
	contactSvc service.ContactService
}

// NewContactHandler 创建联系方式处理器实例
func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// Request 发起申请
// POST /contacts/request
// 请求体: request.SendContactRequest
// 响应: respond.ContactRequestRespond
func (h *ContactHandler) Request(c *gin.Context) {
	var req request.SendContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !requireCaller(c, req.RequesterId) {
		return
	}
	data, err := h.contactSvc.Request(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Respond 处理申请
// POST /contacts/respond
// 请求体: request.RespondContactRequest
func (h *ContactHandler) Respond(c *gin.Context) {
	var req request.RespondContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !requireCaller(c, req.UserId) {
		return
	}
	data, err := h.contactSvc.Respond(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Connections 已建立的连接
// GET /contacts/connections/:userId
func (h *ContactHandler) Connections(c *gin.Context) {
	userId := c.Param("userId")
	if !requireCaller(c, userId) {
		return
	}
	data, err := h.contactSvc.ListConnections(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Pending 收到的待处理申请
// GET /contacts/pending/:userId
func (h *ContactHandler) Pending(c *gin.Context) {
	userId := c.Param("userId")
	if !requireCaller(c, userId) {
		return
	}
	data, err := h.contactSvc.ListPending(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Status 与对方的关系状态
// GET /contacts/status/:userId/:targetId
func (h *ContactHandler) Status(c *gin.Context) {
	userId := c.Param("userId")
	if !requireCaller(c, userId) {
		return
	}
	data, err := h.contactSvc.Status(c.Request.Context(), userId, c.Param("targetId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
