package room

import (
	"context"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/dto/request"
	"course_match_server/internal/dto/respond"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/enum/notification_type_enum"

	"go.uber.org/zap"
)

// newMemberPayload new_member 通知内容
type newMemberPayload struct {
	RoomId        string `json:"roomId"`
	NewMemberId   string `json:"newMemberId"`
	NewMemberName string `json:"newMemberName"`
}

// JoinRoom 加入房间，重复加入是无操作
// 成员插入与 member_count + 1 在同一事务内，只有插入真正生效时才加一
// 首次加入非空房间时给其他成员发送 new_member 通知，通知失败不影响加入结果
func (s *roomService) JoinRoom(ctx context.Context, userId, roomId string) (bool, error) {
	var created bool
	var others []string

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Room.FindById(ctx, roomId); err != nil {
			return err
		}
		inserted, err := tx.RoomMember.Insert(ctx, &model.RoomMember{RoomId: roomId, UserId: userId, JoinedAt: s.env.Now()})
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}
		if err := tx.Room.IncrementMemberCount(ctx, roomId, 1); err != nil {
			return err
		}
		created = true

		ids, err := tx.RoomMember.FindMemberIds(ctx, roomId)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id != userId {
				others = append(others, id)
			}
		}
		return nil
	})
	if err != nil {
		return false, common.NotFoundAs(err, errRoomNotFound, "join room",
			zap.String("room_id", roomId), zap.String("user_id", userId))
	}

	if created && len(others) > 0 {
		s.notifyNewMember(ctx, roomId, userId, others)
	}
	return created, nil
}

func (s *roomService) notifyNewMember(ctx context.Context, roomId, userId string, recipients []string) {
	payload := newMemberPayload{RoomId: roomId, NewMemberId: userId}
	if u, err := s.repos.User.FindById(ctx, userId); err == nil {
		payload.NewMemberName = u.Nickname
	}
	notes := make([]model.Notification, 0, len(recipients))
	for _, id := range recipients {
		notes = append(notes, s.notifier.Build(id, notification_type_enum.NEW_MEMBER, payload))
	}
	s.notifier.Notify(ctx, notes...)
}

// LeaveRoom 退出房间，不在房间中时是无操作
// 删除成员与 member_count - 1 在同一事务内
func (s *roomService) LeaveRoom(ctx context.Context, userId, roomId string) (*respond.LeaveRoomRespond, error) {
	var left bool
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Room.FindById(ctx, roomId); err != nil {
			return err
		}
		deleted, err := tx.RoomMember.Delete(ctx, roomId, userId)
		if err != nil || !deleted {
			return err
		}
		left = true
		return tx.Room.IncrementMemberCount(ctx, roomId, -1)
	})
	if err != nil {
		return nil, common.NotFoundAs(err, errRoomNotFound, "leave room",
			zap.String("room_id", roomId), zap.String("user_id", userId))
	}
	return &respond.LeaveRoomRespond{Left: left}, nil
}

// JoinByIndex 按课号加入房间
// 一个课号对应多个上课时段时，每个时段是一个房间，全部加入；每次加入各自幂等，失败后可直接重试
func (s *roomService) JoinByIndex(ctx context.Context, userId string, req request.JoinRoomRequest) (*respond.JoinRoomRespond, error) {
	meetings, err := s.catalog.FindMeetings(ctx, req.Year, req.Term, req.Index)
	if err != nil {
		return nil, err
	}

	roomIds := make([]string, 0, len(meetings))
	for _, m := range meetings {
		roomId, err := s.ResolveRoom(ctx, RoomKeyInput{
			CourseName: m.CourseName,
			CourseCode: m.CourseCode,
			School:     m.School,
			Semester:   m.Semester,
			DayOfWeek:  m.DayOfWeek,
			StartTime:  m.StartTime,
			EndTime:    m.EndTime,
			Instructor: m.Instructor,
			Location:   m.Location,
			Weeks:      m.Weeks,
		})
		if err != nil {
			return nil, err
		}
		if _, err := s.JoinRoom(ctx, userId, roomId); err != nil {
			return nil, err
		}
		roomIds = append(roomIds, roomId)
	}
	return &respond.JoinRoomRespond{RoomId: roomIds[0], RoomIds: roomIds}, nil
}
