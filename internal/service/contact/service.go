// Package contact 联系方式申请与连接
// 状态流转：none -> pending -> accepted | rejected；rejected 在冷却期过后可重新申请
package contact

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/dto/request"
	"course_match_server/internal/dto/respond"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/constants"
	"course_match_server/pkg/enum/contact_request_status_enum"
	"course_match_server/pkg/enum/notification_type_enum"
	"course_match_server/pkg/errorx"

	"go.uber.org/zap"
)

// Notifier 尽力而为的通知写入
type Notifier interface {
	Build(userId, typ string, payload any) model.Notification
	Notify(ctx context.Context, notifications ...model.Notification)
}

// 关系状态
const (
	StatusSelf      = "self"
	StatusConnected = "connected"
	StatusPending   = "pending"  // 我发出的申请待处理
	StatusIncoming  = "incoming" // 对方发给我的申请待处理
	StatusRejected  = "rejected" // 我的申请被拒绝，仍在冷却期
	StatusNone      = "none"
)

var (
	errRequestNotFound = errorx.New(errorx.CodeNotFound, "申请不存在或已处理")
	errTargetNotFound  = errorx.New(errorx.CodeNotFound, "目标用户不存在")
	errRoomNotFound    = errorx.New(errorx.CodeNotFound, "房间不存在")
)

type contactRequestPayload struct {
	RequestId     string `json:"requestId"`
	RequesterId   string `json:"requesterId"`
	RequesterName string `json:"requesterName"`
	RoomId        string `json:"roomId,omitempty"`
	Message       string `json:"message,omitempty"`
}

type contactResultPayload struct {
	RequestId  string `json:"requestId"`
	TargetId   string `json:"targetId"`
	TargetName string `json:"targetName"`
	RoomId     string `json:"roomId,omitempty"`
}

// contactService 联系方式业务逻辑实现
type contactService struct {
	repos    *repository.Repositories
	notifier Notifier
	cooldown time.Duration
	env      common.Env
}

// NewContactService 构造函数，cooldown 为申请被拒绝后的冷却时长
func NewContactService(repos *repository.Repositories, notifier Notifier, cooldown time.Duration, opts ...common.Option) *contactService {
	if cooldown <= 0 {
		cooldown = constants.CONTACT_REQUEST_COOLDOWN
	}
	return &contactService{repos: repos, notifier: notifier, cooldown: cooldown, env: common.NewEnv(opts...)}
}

// inCooldown 被拒绝的申请是否仍在冷却期
func (s *contactService) inCooldown(req *model.ContactRequest, now time.Time) bool {
	return req.Status == contact_request_status_enum.REJECTED &&
		req.RespondedAt != nil && now.Sub(*req.RespondedAt) < s.cooldown
}

// checkRequestable 返回不可申请的具体原因，可以申请时返回 nil
func (s *contactService) checkRequestable(ctx context.Context, requesterId, targetId string) error {
	if requesterId == targetId {
		return errorx.New(errorx.CodeInvalidParam, "不能向自己发起申请")
	}
	connected, err := s.repos.Connection.Exists(ctx, requesterId, targetId)
	if err != nil {
		return common.Internal(err, "check connection", zap.String("requester_id", requesterId), zap.String("target_id", targetId))
	}
	if connected {
		return errorx.New(errorx.CodeInvalidParam, "你们已经互相可见联系方式")
	}
	existing, err := s.repos.ContactRequest.FindByPair(ctx, requesterId, targetId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil
		}
		return common.Internal(err, "find contact request", zap.String("requester_id", requesterId), zap.String("target_id", targetId))
	}
	switch {
	case existing.Status == contact_request_status_enum.PENDING:
		return errorx.New(errorx.CodeInvalidParam, "已有待处理的申请")
	case s.inCooldown(existing, s.env.Now()):
		return errorx.Newf(errorx.CodeContactCooldown, "申请被拒绝，请在 %s 后再试",
			common.FormatTime(existing.RespondedAt.Add(s.cooldown)))
	}
	return nil
}

// CanRequest 是否可以向对方发起申请
func (s *contactService) CanRequest(ctx context.Context, requesterId, targetId string) (bool, error) {
	err := s.checkRequestable(ctx, requesterId, targetId)
	switch errorx.GetCode(err) {
	case errorx.CodeInvalidParam, errorx.CodeContactCooldown:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Request 发起申请
// 删除该有序对的失效记录与插入新申请在同一事务内；成功后通知对方
// 并发的同一对申请只有一个能插入，另一个撞唯一索引返回"已有待处理的申请"
func (s *contactService) Request(ctx context.Context, req request.SendContactRequest) (*respond.ContactRequestRespond, error) {
	message := strings.TrimSpace(req.Message)
	if utf8.RuneCountInString(message) > constants.REQUEST_MESSAGE_MAX_LENGTH {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "附言不能超过 %d 个字", constants.REQUEST_MESSAGE_MAX_LENGTH)
	}
	if err := s.checkRequestable(ctx, req.RequesterId, req.TargetId); err != nil {
		return nil, err
	}
	if _, err := s.repos.User.FindById(ctx, req.TargetId); err != nil {
		return nil, common.NotFoundAs(err, errTargetNotFound, "find target user", zap.String("target_id", req.TargetId))
	}

	var roomId *string
	if req.RoomId != "" {
		if _, err := s.repos.Room.FindById(ctx, req.RoomId); err != nil {
			return nil, common.NotFoundAs(err, errRoomNotFound, "find room", zap.String("room_id", req.RoomId))
		}
		roomId = &req.RoomId
	}

	record := &model.ContactRequest{
		Id:          s.env.NewID(),
		RequesterId: req.RequesterId,
		TargetId:    req.TargetId,
		Status:      contact_request_status_enum.PENDING,
		Message:     message,
		RoomId:      roomId,
		CreatedAt:   s.env.Now(),
	}
	rejectedBefore := record.CreatedAt.Add(-s.cooldown)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.ContactRequest.DeleteStaleByPair(ctx, req.RequesterId, req.TargetId, rejectedBefore); err != nil {
			return err
		}
		return tx.ContactRequest.Create(ctx, record)
	})
	if err != nil {
		// 并发请求已经插入了同一对的申请
		if errors.Is(err, errorx.ErrConflict) {
			return nil, errorx.New(errorx.CodeInvalidParam, "已有待处理的申请")
		}
		return nil, common.Internal(err, "create contact request",
			zap.String("requester_id", req.RequesterId), zap.String("target_id", req.TargetId))
	}

	var requesterName, requesterAvatar string
	if u, err := s.repos.User.FindById(ctx, req.RequesterId); err == nil {
		requesterName, requesterAvatar = u.Nickname, u.Avatar
	}
	s.notifier.Notify(ctx, s.notifier.Build(req.TargetId, notification_type_enum.CONTACT_REQUEST, contactRequestPayload{
		RequestId:     record.Id,
		RequesterId:   record.RequesterId,
		RequesterName: requesterName,
		RoomId:        req.RoomId,
		Message:       message,
	}))

	rsp := toRequestRespond(*record)
	rsp.RequesterName, rsp.RequesterAvatar = requesterName, requesterAvatar
	return &rsp, nil
}

// Respond 处理申请，只有被申请人可以处理且只能处理一次
// 申请不存在、不属于该用户、已处理都返回同一个 NotFound
func (s *contactService) Respond(ctx context.Context, req request.RespondContactRequest) (*respond.ContactRequestRespond, error) {
	accept := req.Accept != nil && *req.Accept
	status := contact_request_status_enum.REJECTED
	if accept {
		status = contact_request_status_enum.ACCEPTED
	}
	now := s.env.Now()

	var record *model.ContactRequest
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		ok, err := tx.ContactRequest.RespondPending(ctx, req.RequestId, req.UserId, status, now)
		if err != nil {
			return err
		}
		if !ok {
			return errRequestNotFound
		}
		if record, err = tx.ContactRequest.FindById(ctx, req.RequestId); err != nil {
			return err
		}
		if !accept {
			return nil
		}
		a, b := model.CanonicalPair(record.RequesterId, record.TargetId)
		_, err = tx.Connection.CreateIfAbsent(ctx, &model.Connection{UserId1: a, UserId2: b, RoomId: record.RoomId, CreatedAt: now})
		return err
	})
	if err != nil {
		return nil, common.NotFoundAs(err, errRequestNotFound, "respond contact request",
			zap.String("request_id", req.RequestId), zap.String("user_id", req.UserId))
	}

	typ := notification_type_enum.CONTACT_REJECTED
	if accept {
		typ = notification_type_enum.CONTACT_ACCEPTED
	}
	payload := contactResultPayload{RequestId: record.Id, TargetId: record.TargetId}
	if record.RoomId != nil {
		payload.RoomId = *record.RoomId
	}
	if u, err := s.repos.User.FindById(ctx, record.TargetId); err == nil {
		payload.TargetName = u.Nickname
	}
	s.notifier.Notify(ctx, s.notifier.Build(record.RequesterId, typ, payload))

	rsp := toRequestRespond(*record)
	return &rsp, nil
}

// AreConnected 两个用户是否已连接
func (s *contactService) AreConnected(ctx context.Context, userA, userB string) (bool, error) {
	ok, err := s.repos.Connection.Exists(ctx, userA, userB)
	if err != nil {
		return false, common.Internal(err, "check connection", zap.String("user_a", userA), zap.String("user_b", userB))
	}
	return ok, nil
}

// ListConnections 用户的全部连接及对方联系方式
func (s *contactService) ListConnections(ctx context.Context, userId string) ([]respond.ConnectionRespond, error) {
	conns, err := s.repos.Connection.FindByUser(ctx, userId)
	if err != nil {
		return nil, common.Internal(err, "list connections", zap.String("user_id", userId))
	}
	rsp := make([]respond.ConnectionRespond, 0, len(conns))
	if len(conns) == 0 {
		return rsp, nil
	}

	peerIds := make([]string, 0, len(conns))
	for _, c := range conns {
		peerIds = append(peerIds, c.Peer(userId))
	}
	users, err := s.findUsers(ctx, peerIds)
	if err != nil {
		return nil, err
	}
	for _, c := range conns {
		peer := c.Peer(userId)
		item := respond.ConnectionRespond{UserId: peer, ConnectedAt: common.FormatTime(c.CreatedAt)}
		if u, ok := users[peer]; ok {
			item.Nickname, item.Avatar, item.Wechat, item.QQ = u.Nickname, u.Avatar, u.Wechat, u.QQ
		}
		if c.RoomId != nil {
			item.RoomId = *c.RoomId
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}

// ListPending 收到的待处理申请，最新的在前
func (s *contactService) ListPending(ctx context.Context, userId string) ([]respond.ContactRequestRespond, error) {
	list, err := s.repos.ContactRequest.FindPendingByTarget(ctx, userId)
	if err != nil {
		return nil, common.Internal(err, "list pending requests", zap.String("user_id", userId))
	}
	rsp := make([]respond.ContactRequestRespond, 0, len(list))
	if len(list) == 0 {
		return rsp, nil
	}

	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.RequesterId)
	}
	users, err := s.findUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		item := toRequestRespond(r)
		if u, ok := users[r.RequesterId]; ok {
			item.RequesterName, item.RequesterAvatar = u.Nickname, u.Avatar
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}

// Status 查看者与对方的关系状态
func (s *contactService) Status(ctx context.Context, userId, targetId string) (*respond.ContactStatusRespond, error) {
	if userId == targetId {
		return &respond.ContactStatusRespond{Status: StatusSelf}, nil
	}
	connected, err := s.AreConnected(ctx, userId, targetId)
	if err != nil {
		return nil, err
	}
	if connected {
		return &respond.ContactStatusRespond{Status: StatusConnected}, nil
	}

	outgoing, err := s.findPair(ctx, userId, targetId)
	if err != nil {
		return nil, err
	}
	if outgoing != nil {
		if outgoing.Status == contact_request_status_enum.PENDING {
			return &respond.ContactStatusRespond{Status: StatusPending, RequestId: outgoing.Id}, nil
		}
		if s.inCooldown(outgoing, s.env.Now()) {
			return &respond.ContactStatusRespond{
				Status:         StatusRejected,
				RequestId:      outgoing.Id,
				CooldownEndsAt: common.FormatTime(outgoing.RespondedAt.Add(s.cooldown)),
			}, nil
		}
	}

	incoming, err := s.findPair(ctx, targetId, userId)
	if err != nil {
		return nil, err
	}
	if incoming != nil && incoming.Status == contact_request_status_enum.PENDING {
		// 对方的申请待我处理时我仍可主动申请
		return &respond.ContactStatusRespond{Status: StatusIncoming, CanRequest: true, RequestId: incoming.Id}, nil
	}
	return &respond.ContactStatusRespond{Status: StatusNone, CanRequest: true}, nil
}

func (s *contactService) findPair(ctx context.Context, requesterId, targetId string) (*model.ContactRequest, error) {
	req, err := s.repos.ContactRequest.FindByPair(ctx, requesterId, targetId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil
		}
		return nil, common.Internal(err, "find contact request", zap.String("requester_id", requesterId), zap.String("target_id", targetId))
	}
	return req, nil
}

func (s *contactService) findUsers(ctx context.Context, ids []string) (map[string]model.UserInfo, error) {
	users, err := s.repos.User.FindByIds(ctx, ids)
	if err != nil {
		return nil, common.Internal(err, "find users", zap.Int("count", len(ids)))
	}
	out := make(map[string]model.UserInfo, len(users))
	for _, u := range users {
		out[u.Id] = u
	}
	return out, nil
}

func toRequestRespond(r model.ContactRequest) respond.ContactRequestRespond {
	rsp := respond.ContactRequestRespond{
		RequestId:   r.Id,
		RequesterId: r.RequesterId,
		TargetId:    r.TargetId,
		Status:      r.Status,
		Message:     r.Message,
		CreatedAt:   common.FormatTime(r.CreatedAt),
	}
	if r.RoomId != nil {
		rsp.RoomId = *r.RoomId
	}
	if r.RespondedAt != nil {
		rsp.RespondedAt = common.FormatTime(*r.RespondedAt)
	}
	return rsp
}
