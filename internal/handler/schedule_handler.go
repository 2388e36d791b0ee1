package handler

import (
	"io"

	"course_match_server/internal/dto/request"
	"course_match_server/internal/infrastructure/middleware"
	"course_match_server/internal/service"
	"course_match_server/pkg/constants"
	"course_match_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler 课表导入请求处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Parse 识别课表图片，消耗一次额度
// POST /schedule/parse (multipart/form-data, 字段 image)
// 响应: respond.ParseScheduleRespond
func (h *ScheduleHandler) Parse(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "请上传课表图片"))
		return
	}
	if fileHeader.Size > constants.SCHEDULE_IMAGE_MAX_SIZE {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "图片不能超过 10MB"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		HandleError(c, errorx.Wrap(err, errorx.CodeInvalidParam, "读取图片失败"))
		return
	}
	defer file.Close()
	image, err := io.ReadAll(io.LimitReader(file, constants.SCHEDULE_IMAGE_MAX_SIZE+1))
	if err != nil {
		HandleError(c, errorx.Wrap(err, errorx.CodeInvalidParam, "读取图片失败"))
		return
	}

	data, err := h.scheduleSvc.Parse(c.Request.Context(), middleware.CurrentUserID(c), image)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Confirm 确认导入并加入房间
// POST /schedule/confirm
// 请求体: request.ConfirmScheduleRequest
// 响应: respond.ConfirmScheduleRespond
func (h *ScheduleHandler) Confirm(c *gin.Context) {
	var req request.ConfirmScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !requireCaller(c, req.UserId) {
		return
	}
	data, err := h.scheduleSvc.Confirm(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
