package room

import (
	"context"
	"errors"
	"strings"

	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/errorx"
	"course_match_server/pkg/util/timeslot"

	"go.uber.org/zap"
)

// RoomKeyInput 解析房间所需的全部字段
// Instructor、Location、Weeks 为空也是合法值，和非空值互不相同
type RoomKeyInput struct {
	CourseName string
	CourseCode string
	School     string
	Semester   string
	DayOfWeek  int
	StartTime  string
	EndTime    string
	Instructor string
	Location   string
	Weeks      string
}

// normalize 校验并规范化输入，时间统一为 HH:MM
func (in RoomKeyInput) normalize() (RoomKeyInput, error) {
	out := RoomKeyInput{
		CourseName: strings.TrimSpace(in.CourseName),
		CourseCode: strings.TrimSpace(in.CourseCode),
		School:     strings.TrimSpace(in.School),
		Semester:   strings.TrimSpace(in.Semester),
		DayOfWeek:  in.DayOfWeek,
		Instructor: strings.TrimSpace(in.Instructor),
		Location:   strings.TrimSpace(in.Location),
		Weeks:      strings.TrimSpace(in.Weeks),
	}
	if out.CourseName == "" {
		return out, errorx.New(errorx.CodeInvalidParam, "课程名不能为空")
	}
	if out.School == "" || out.Semester == "" {
		return out, errorx.New(errorx.CodeInvalidParam, "学校和学期不能为空")
	}
	if !timeslot.ValidDay(out.DayOfWeek) {
		return out, errorx.Newf(errorx.CodeInvalidParam, "星期必须在 1-7 之间: %d", out.DayOfWeek)
	}
	var err error
	if out.StartTime, err = timeslot.NormalizeClock(in.StartTime); err != nil {
		return out, errorx.Wrapf(err, errorx.CodeInvalidParam, "开始时间格式错误: %q", in.StartTime)
	}
	if out.EndTime, err = timeslot.NormalizeClock(in.EndTime); err != nil {
		return out, errorx.Wrapf(err, errorx.CodeInvalidParam, "结束时间格式错误: %q", in.EndTime)
	}
	return out, nil
}

// ResolveRoom 按自然键查找或创建房间，返回房间 ID
// 课程与房间都是"先查，不存在则 ON CONFLICT DO NOTHING 插入，再查"，并发创建收敛到同一行
func (s *roomService) ResolveRoom(ctx context.Context, in RoomKeyInput) (string, error) {
	in, err := in.normalize()
	if err != nil {
		return "", err
	}

	course, err := s.resolveCourse(ctx, in.CourseName, in.School, in.CourseCode)
	if err != nil {
		return "", err
	}

	key := model.RoomKey{
		CourseId:   course.Id,
		Semester:   in.Semester,
		DayOfWeek:  in.DayOfWeek,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Instructor: in.Instructor,
		Location:   in.Location,
		Weeks:      in.Weeks,
	}
	room, err := s.repos.Room.FindByKey(ctx, key)
	if err == nil {
		return room.Id, nil
	}
	if !errorx.IsNotFound(err) {
		return "", common.Internal(err, "find room by key", zap.String("course_id", course.Id))
	}

	created := &model.Room{
		Id:         s.env.NewID(),
		CourseId:   key.CourseId,
		Semester:   key.Semester,
		DayOfWeek:  key.DayOfWeek,
		StartTime:  key.StartTime,
		EndTime:    key.EndTime,
		Instructor: key.Instructor,
		Location:   key.Location,
		Weeks:      key.Weeks,
		CreatedAt:  s.env.Now(),
	}
	ok, err := s.repos.Room.CreateIfAbsent(ctx, created)
	if err != nil && !errors.Is(err, errorx.ErrConflict) {
		return "", common.Internal(err, "create room", zap.String("course_id", course.Id))
	}
	if ok {
		zap.L().Info("room created", zap.String("room_id", created.Id), zap.String("course", in.CourseName))
		return created.Id, nil
	}

	// 其他请求刚刚创建了同一个房间
	room, err = s.repos.Room.FindByKey(ctx, key)
	if err != nil {
		return "", common.Internal(err, "refetch room by key", zap.String("course_id", course.Id))
	}
	return room.Id, nil
}

func (s *roomService) resolveCourse(ctx context.Context, name, school, code string) (*model.Course, error) {
	course, err := s.repos.Course.FindByNameAndSchool(ctx, name, school)
	if err == nil {
		return course, nil
	}
	if !errorx.IsNotFound(err) {
		return nil, common.Internal(err, "find course", zap.String("name", name))
	}

	created := &model.Course{Id: s.env.NewID(), Name: name, School: school, Code: code, CreatedAt: s.env.Now()}
	ok, err := s.repos.Course.CreateIfAbsent(ctx, created)
	if err != nil && !errors.Is(err, errorx.ErrConflict) {
		return nil, common.Internal(err, "create course", zap.String("name", name))
	}
	if ok {
		return created, nil
	}

	course, err = s.repos.Course.FindByNameAndSchool(ctx, name, school)
	if err != nil {
		return nil, common.Internal(err, "refetch course", zap.String("name", name))
	}
	return course, nil
}
