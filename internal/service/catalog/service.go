// Package catalog 读取课程目录缓存，把课号转换为房间自然键
// 目录同步任务不在本服务内，这里只读 catalog_section 表
package catalog

import (
	"context"
	"fmt"
	"strings"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/errorx"
	"course_match_server/pkg/util/timeslot"

	"go.uber.org/zap"
)

// Provider 外部课程目录接口，仅由同步任务使用
type Provider interface {
	FetchSections(ctx context.Context, year, term int, campus string) ([]model.CatalogSection, error)
}

// Meeting 一个上课时段，字段已规范化，可直接用于房间解析
type Meeting struct {
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

// catalogService 课程目录业务逻辑实现
type catalogService struct {
	repos  *repository.Repositories
	school string
}

// NewCatalogService 构造函数，school 为课程所属学校
func NewCatalogService(repos *repository.Repositories, school string) *catalogService {
	return &catalogService{repos: repos, school: school}
}

// FindMeetings 查询某学期某课号的全部上课时段
// 课号不存在时返回 NotFound；无法解析的时段（星期或时间异常）会被跳过
func (s *catalogService) FindMeetings(ctx context.Context, year, term int, index string) ([]Meeting, error) {
	semester, err := SemesterLabel(year, term)
	if err != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, err.Error())
	}
	index = strings.TrimSpace(index)
	if index == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "课号不能为空")
	}

	sections, err := s.repos.Catalog.FindMeetings(ctx, year, term, index)
	if err != nil {
		return nil, common.Internal(err, "find catalog meetings", zap.String("index", index))
	}
	if len(sections) == 0 {
		return nil, errorx.Newf(errorx.CodeNotFound, "课号 %s 在 %s 不存在", index, semester)
	}

	meetings := make([]Meeting, 0, len(sections))
	for _, sec := range sections {
		m, err := s.toMeeting(sec, semester)
		if err != nil {
			zap.L().Warn("skip malformed catalog section",
				zap.String("index", sec.Index), zap.String("day", sec.MeetingDay), zap.Error(err))
			continue
		}
		meetings = append(meetings, m)
	}
	if len(meetings) == 0 {
		return nil, errorx.Newf(errorx.CodeNotFound, "课号 %s 没有可用的上课时间", index)
	}
	return meetings, nil
}

func (s *catalogService) toMeeting(sec model.CatalogSection, semester string) (Meeting, error) {
	day, err := timeslot.DayFromCode(sec.MeetingDay)
	if err != nil {
		return Meeting{}, err
	}
	start, err := timeslot.NormalizeClock(sec.StartTime)
	if err != nil {
		return Meeting{}, err
	}
	end, err := timeslot.NormalizeClock(sec.EndTime)
	if err != nil {
		return Meeting{}, err
	}
	return Meeting{
		CourseName: strings.TrimSpace(sec.Title),
		CourseCode: strings.TrimSpace(sec.CourseCode),
		School:     s.school,
		Semester:   semester,
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    end,
		Instructor: strings.TrimSpace(sec.Instructor),
		Location:   location(sec.Building, sec.RoomNumber),
	}, nil
}

// location 拼接教学楼与教室，如 "HLL-114"
func location(building, room string) string {
	building, room = strings.TrimSpace(building), strings.TrimSpace(room)
	switch {
	case building == "":
		return room
	case room == "":
		return building
	default:
		return building + "-" + room
	}
}

// termNames 学期代码
var termNames = map[int]string{
	0: "Winter",
	1: "Spring",
	7: "Summer",
	9: "Fall",
}

// SemesterLabel 学期标签，如 (2026, 1) -> "Spring 2026"
func SemesterLabel(year, term int) (string, error) {
	name, ok := termNames[term]
	if !ok {
		return "", fmt.Errorf("unknown term %d", term)
	}
	if year < 2000 || year > 2100 {
		return "", fmt.Errorf("year %d out of range", year)
	}
	return fmt.Sprintf("%s %d", name, year), nil
}
