// Package room 房间业务：自然键解析、加入/退出、隐私设置与房间详情
package room

import (
	"context"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/dto/respond"
	"course_match_server/internal/model"
	"course_match_server/internal/service/catalog"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/errorx"
)

// CatalogLookup 课程目录查询
type CatalogLookup interface {
	FindMeetings(ctx context.Context, year, term int, index string) ([]catalog.Meeting, error)
}

// Notifier 尽力而为的通知写入
type Notifier interface {
	Build(userId, typ string, payload any) model.Notification
	Notify(ctx context.Context, notifications ...model.Notification)
}

// MemberResolver 成员列表可见性解析
type MemberResolver interface {
	ResolveMembers(ctx context.Context, roomId, viewerId string) ([]respond.RoomMemberRespond, error)
}

var errRoomNotFound = errorx.New(errorx.CodeNotFound, "房间不存在")

// roomService 房间业务逻辑实现
type roomService struct {
	repos    *repository.Repositories
	catalog  CatalogLookup
	notifier Notifier
	members  MemberResolver
	env      common.Env
}

// NewRoomService 构造函数
func NewRoomService(repos *repository.Repositories, catalog CatalogLookup, notifier Notifier, members MemberResolver, opts ...common.Option) *roomService {
	return &roomService{
		repos:    repos,
		catalog:  catalog,
		notifier: notifier,
		members:  members,
		env:      common.NewEnv(opts...),
	}
}

func toRoomInfo(r model.RoomWithCourse) respond.RoomInfoRespond {
	return respond.RoomInfoRespond{
		RoomId:      r.Id,
		CourseId:    r.CourseId,
		CourseName:  r.CourseName,
		CourseCode:  r.CourseCode,
		School:      r.School,
		Semester:    r.Semester,
		DayOfWeek:   r.DayOfWeek,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Instructor:  r.Instructor,
		Location:    r.Location,
		Weeks:       r.Weeks,
		MemberCount: r.MemberCount,
	}
}
