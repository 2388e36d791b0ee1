// Package schedule 课表导入：识别图片得到课程行，用户确认后逐行解析房间并加入
package schedule

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/dto/request"
	"course_match_server/internal/dto/respond"
	"course_match_server/internal/service/common"
	"course_match_server/internal/service/room"
	"course_match_server/pkg/constants"
	"course_match_server/pkg/errorx"
	"course_match_server/pkg/util/timeslot"

	"go.uber.org/zap"
)

// QuotaGate 识别额度
type QuotaGate interface {
	Consume(ctx context.Context, userId string, isPrivileged bool) error
	Refund(ctx context.Context, userId string, isPrivileged bool) error
}

// RoomJoiner 房间解析与加入
type RoomJoiner interface {
	ResolveRoom(ctx context.Context, in room.RoomKeyInput) (string, error)
	JoinRoom(ctx context.Context, userId, roomId string) (bool, error)
}

// NoCoursesMessage 未识别到课程时的提示
const NoCoursesMessage = "未识别到课程，请确认图片是完整清晰的课表"

var allowedMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// scheduleService 课表导入业务逻辑实现
type scheduleService struct {
	repos  *repository.Repositories
	parser Parser
	quota  QuotaGate
	rooms  RoomJoiner
	school string
}

// NewScheduleService 构造函数，school 为导入课程所属学校
func NewScheduleService(repos *repository.Repositories, parser Parser, quota QuotaGate, rooms RoomJoiner, school string) *scheduleService {
	return &scheduleService{repos: repos, parser: parser, quota: quota, rooms: rooms, school: school}
}

// Parse 识别课表图片
// 先扣额度再调用识别服务，识别服务失败时归还额度；不合法的行被丢弃并说明原因
func (s *scheduleService) Parse(ctx context.Context, userId string, image []byte) (*respond.ParseScheduleRespond, error) {
	if len(image) == 0 {
		return nil, errorx.New(errorx.CodeInvalidParam, "请上传课表图片")
	}
	if len(image) > constants.SCHEDULE_IMAGE_MAX_SIZE {
		return nil, errorx.New(errorx.CodeInvalidParam, "图片不能超过 10MB")
	}
	mime := http.DetectContentType(image)
	if !allowedMimes[mime] {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "不支持的图片格式: %s", mime)
	}

	user, err := s.repos.User.FindById(ctx, userId)
	if err != nil {
		return nil, common.NotFoundAs(err, errorx.New(errorx.CodeUserNotExist, "用户不存在"), "find user", zap.String("user_id", userId))
	}
	if err := s.quota.Consume(ctx, userId, user.IsPrivileged); err != nil {
		return nil, err
	}

	rows, err := s.parser.ParseScheduleImage(ctx, image, mime)
	if err != nil {
		zap.L().Warn("schedule parse failed", zap.String("user_id", userId), zap.Error(err))
		if rerr := s.quota.Refund(ctx, userId, user.IsPrivileged); rerr != nil {
			zap.L().Error("refund quota failed", zap.String("user_id", userId), zap.Error(rerr))
		}
		if errorx.GetCode(err) == errorx.CodeUpstream {
			return nil, err
		}
		return nil, errorx.Wrap(err, errorx.CodeUpstream, errorx.ErrUpstream.Msg)
	}

	rsp := &respond.ParseScheduleRespond{
		Courses: make([]respond.ParsedCourseRespond, 0, len(rows)),
		Dropped: make([]respond.DroppedRowRespond, 0),
	}
	for i, row := range rows {
		course, err := normalizeRow(request.ScheduleCourse(row))
		if err != nil {
			rsp.Dropped = append(rsp.Dropped, respond.DroppedRowRespond{Row: i + 1, Name: strings.TrimSpace(row.Name), Reason: err.Error()})
			continue
		}
		rsp.Courses = append(rsp.Courses, respond.ParsedCourseRespond(course))
	}
	if len(rsp.Courses) == 0 {
		rsp.Message = NoCoursesMessage
	}
	zap.L().Info("schedule parsed", zap.String("user_id", userId),
		zap.Int("courses", len(rsp.Courses)), zap.Int("dropped", len(rsp.Dropped)))
	return rsp, nil
}

// normalizeRow 校验一行课程：课程名非空、星期在 1-7、时间可解析；选填字段去掉首尾空白
func normalizeRow(c request.ScheduleCourse) (request.ScheduleCourse, error) {
	out := request.ScheduleCourse{
		Name:      strings.TrimSpace(c.Name),
		Day:       c.Day,
		Classroom: strings.TrimSpace(c.Classroom),
		Professor: strings.TrimSpace(c.Professor),
		Weeks:     strings.TrimSpace(c.Weeks),
	}
	if out.Name == "" {
		return out, fmt.Errorf("课程名为空")
	}
	if !timeslot.ValidDay(out.Day) {
		return out, fmt.Errorf("星期不合法: %d", c.Day)
	}
	var err error
	if out.StartTime, err = timeslot.NormalizeClock(c.StartTime); err != nil {
		return out, fmt.Errorf("开始时间无法识别: %q", c.StartTime)
	}
	if out.EndTime, err = timeslot.NormalizeClock(c.EndTime); err != nil {
		return out, fmt.Errorf("结束时间无法识别: %q", c.EndTime)
	}
	return out, nil
}

// Confirm 确认导入，逐行解析房间并加入
// 每行相互独立，一行失败不影响其他行；重复提交是安全的
func (s *scheduleService) Confirm(ctx context.Context, req request.ConfirmScheduleRequest) (*respond.ConfirmScheduleRespond, error) {
	semester := strings.TrimSpace(req.Semester)
	if semester == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "学期不能为空")
	}

	rsp := &respond.ConfirmScheduleRespond{
		Results: make([]respond.ConfirmRowRespond, 0, len(req.Courses)),
		RoomIds: make([]string, 0, len(req.Courses)),
	}
	seen := make(map[string]bool)
	for i, c := range req.Courses {
		result := respond.ConfirmRowRespond{Row: i + 1, Name: strings.TrimSpace(c.Name)}
		course, err := normalizeRow(c)
		if err != nil {
			result.Error = err.Error()
			rsp.Results = append(rsp.Results, result)
			continue
		}

		roomId, err := s.rooms.ResolveRoom(ctx, room.RoomKeyInput{
			CourseName: course.Name,
			School:     s.school,
			Semester:   semester,
			DayOfWeek:  course.Day,
			StartTime:  course.StartTime,
			EndTime:    course.EndTime,
			Instructor: course.Professor,
			Location:   course.Classroom,
			Weeks:      course.Weeks,
		})
		if err == nil {
			result.RoomId = roomId
			_, err = s.rooms.JoinRoom(ctx, req.UserId, roomId)
		}
		if err != nil {
			result.Error = rowError(err)
			rsp.Results = append(rsp.Results, result)
			continue
		}

		result.Joined = true
		rsp.Results = append(rsp.Results, result)
		if !seen[roomId] {
			seen[roomId] = true
			rsp.RoomIds = append(rsp.RoomIds, roomId)
		}
	}
	return rsp, nil
}

// rowError 单行失败的提示，不暴露内部错误
func rowError(err error) string {
	var codeErr *errorx.CodeError
	if !errors.As(err, &codeErr) {
		return errorx.ErrServerBusy.Msg
	}
	switch codeErr.Code {
	case errorx.CodeServerBusy, errorx.CodeDBError, errorx.CodeCacheError:
		return errorx.ErrServerBusy.Msg
	}
	return codeErr.Msg
}
