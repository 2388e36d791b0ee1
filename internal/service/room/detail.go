package room

import (
	"context"

	"course_match_server/internal/dto/respond"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"

	"go.uber.org/zap"
)

// GetRoomDetail 房间详情：房间信息、成员（按查看者计算可见性）、同课程同学期的其他时段
// viewerId 为空表示匿名查看
func (s *roomService) GetRoomDetail(ctx context.Context, roomId, viewerId string) (*respond.RoomDetailRespond, error) {
	room, err := s.repos.Room.FindWithCourse(ctx, roomId)
	if err != nil {
		return nil, common.NotFoundAs(err, errRoomNotFound, "find room detail", zap.String("room_id", roomId))
	}

	members, err := s.members.ResolveMembers(ctx, roomId, viewerId)
	if err != nil {
		return nil, err
	}

	siblings, err := s.repos.Room.FindSiblings(ctx, room.CourseId, room.Semester, room.Id)
	if err != nil {
		return nil, common.Internal(err, "find sibling rooms", zap.String("room_id", roomId))
	}

	rsp := &respond.RoomDetailRespond{
		Room:     toRoomInfo(*room),
		Members:  members,
		Siblings: make([]respond.RoomInfoRespond, 0, len(siblings)),
	}
	for _, sib := range siblings {
		rsp.Siblings = append(rsp.Siblings, toRoomInfo(model.RoomWithCourse{
			Room:       sib,
			CourseName: room.CourseName,
			CourseCode: room.CourseCode,
			School:     room.School,
		}))
	}

	if viewerId != "" {
		for _, m := range members {
			if m.Id == viewerId {
				rsp.IsMember = true
				break
			}
		}
		if rsp.IsMember {
			if rsp.Privacy, err = s.GetPrivacy(ctx, roomId, viewerId); err != nil {
				return nil, err
			}
		}
	}
	return rsp, nil
}

// ListUserRooms 用户加入的全部房间
func (s *roomService) ListUserRooms(ctx context.Context, userId string) ([]respond.RoomInfoRespond, error) {
	rooms, err := s.repos.Room.FindByUser(ctx, userId)
	if err != nil {
		return nil, common.Internal(err, "list user rooms", zap.String("user_id", userId))
	}
	rsp := make([]respond.RoomInfoRespond, 0, len(rooms))
	for _, r := range rooms {
		rsp = append(rsp, toRoomInfo(r))
	}
	return rsp, nil
}
