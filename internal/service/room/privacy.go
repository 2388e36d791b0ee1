package room

import (
	"context"

	"course_match_server/internal/dto/respond"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/errorx"

	"go.uber.org/zap"
)

// SetPrivacy 设置本房间是否公开联系方式，只有房间成员可以设置
func (s *roomService) SetPrivacy(ctx context.Context, roomId, userId string, isPublic bool) (*respond.RoomPrivacyRespond, error) {
	if err := s.requireMember(ctx, roomId, userId); err != nil {
		return nil, err
	}
	setting := &model.RoomPrivacySetting{UserId: userId, RoomId: roomId, IsPublic: isPublic, UpdatedAt: s.env.Now()}
	if err := s.repos.RoomPrivacy.Upsert(ctx, setting); err != nil {
		return nil, common.Internal(err, "upsert room privacy", zap.String("room_id", roomId), zap.String("user_id", userId))
	}
	return &respond.RoomPrivacyRespond{RoomId: roomId, UserId: userId, Decided: true, IsPublic: &isPublic}, nil
}

// GetPrivacy 查询本房间的隐私设置，没有设置过时 Decided 为 false
func (s *roomService) GetPrivacy(ctx context.Context, roomId, userId string) (*respond.RoomPrivacyRespond, error) {
	if _, err := s.repos.Room.FindById(ctx, roomId); err != nil {
		return nil, common.NotFoundAs(err, errRoomNotFound, "find room", zap.String("room_id", roomId))
	}
	rsp := &respond.RoomPrivacyRespond{RoomId: roomId, UserId: userId}
	setting, err := s.repos.RoomPrivacy.Find(ctx, roomId, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return rsp, nil
		}
		return nil, common.Internal(err, "find room privacy", zap.String("room_id", roomId), zap.String("user_id", userId))
	}
	rsp.Decided = true
	rsp.IsPublic = &setting.IsPublic
	return rsp, nil
}

func (s *roomService) requireMember(ctx context.Context, roomId, userId string) error {
	if _, err := s.repos.Room.FindById(ctx, roomId); err != nil {
		return common.NotFoundAs(err, errRoomNotFound, "find room", zap.String("room_id", roomId))
	}
	ok, err := s.repos.RoomMember.Exists(ctx, roomId, userId)
	if err != nil {
		return common.Internal(err, "check room member", zap.String("room_id", roomId))
	}
	if !ok {
		return errorx.New(errorx.CodeForbidden, "请先加入该房间")
	}
	return nil
}
