// Package visibility 决定房间成员列表中每个成员的联系方式是否对查看者可见
package visibility

import (
	"context"
	"time"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/dto/respond"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/enum/contact_request_status_enum"
	"course_match_server/pkg/enum/contact_visibility_enum"

	"go.uber.org/zap"
)

// Decision 单个成员的可见性判定输入
type Decision struct {
	IsSelf     bool
	Connected  bool
	AutoShare  bool
	RoomPublic bool
	// 查看者发给该成员的申请，没有时为 nil
	Request *model.ContactRequest
}

// CanSeeContact 任一条件成立即可见：本人、已连接、全局公开、本房间公开
func (d Decision) CanSeeContact() bool {
	return d.IsSelf || d.Connected || d.AutoShare || d.RoomPublic
}

// Status 成员的联系方式展示状态
// 被拒绝的申请只在冷却期内显示 rejected，过期后回到 hidden
func (d Decision) Status(now time.Time, cooldown time.Duration) string {
	if d.CanSeeContact() {
		return contact_visibility_enum.VISIBLE
	}
	if d.Request == nil {
		return contact_visibility_enum.HIDDEN
	}
	switch d.Request.Status {
	case contact_request_status_enum.PENDING:
		return contact_visibility_enum.PENDING
	case contact_request_status_enum.REJECTED:
		if d.Request.RespondedAt != nil && now.Sub(*d.Request.RespondedAt) < cooldown {
			return contact_visibility_enum.REJECTED
		}
	}
	return contact_visibility_enum.HIDDEN
}

// resolver 可见性解析实现
type resolver struct {
	repos    *repository.Repositories
	cooldown time.Duration
	env      common.Env
}

// NewResolver 构造函数
func NewResolver(repos *repository.Repositories, cooldown time.Duration, opts ...common.Option) *resolver {
	return &resolver{repos: repos, cooldown: cooldown, env: common.NewEnv(opts...)}
}

// ResolveMembers 计算房间成员列表
// 无论房间多大，固定为四次查询：成员及资料、查看者与成员的连接、查看者发出的申请、成员在本房间的隐私设置
// viewerId 为空表示匿名查看，此时只有全局公开或本房间公开的成员可见
func (r *resolver) ResolveMembers(ctx context.Context, roomId, viewerId string) ([]respond.RoomMemberRespond, error) {
	members, err := r.repos.RoomMember.FindMembersWithUserInfo(ctx, roomId)
	if err != nil {
		return nil, common.Internal(err, "find room members", zap.String("room_id", roomId))
	}
	if len(members) == 0 {
		return []respond.RoomMemberRespond{}, nil
	}

	others := make([]string, 0, len(members))
	memberIds := make([]string, 0, len(members))
	for _, m := range members {
		memberIds = append(memberIds, m.UserId)
		if m.UserId != viewerId {
			others = append(others, m.UserId)
		}
	}

	connected := make(map[string]bool)
	requests := make(map[string]*model.ContactRequest)
	if viewerId != "" {
		peers, err := r.repos.Connection.FindPeersAmong(ctx, viewerId, others)
		if err != nil {
			return nil, common.Internal(err, "find connections among members", zap.String("room_id", roomId))
		}
		for _, p := range peers {
			connected[p] = true
		}

		reqs, err := r.repos.ContactRequest.FindByRequesterAndTargets(ctx, viewerId, others)
		if err != nil {
			return nil, common.Internal(err, "find requests to members", zap.String("room_id", roomId))
		}
		for i := range reqs {
			requests[reqs[i].TargetId] = &reqs[i]
		}
	}

	settings, err := r.repos.RoomPrivacy.FindByRoomAndUsers(ctx, roomId, memberIds)
	if err != nil {
		return nil, common.Internal(err, "find member privacy settings", zap.String("room_id", roomId))
	}
	public := make(map[string]bool, len(settings))
	for _, s := range settings {
		public[s.UserId] = s.IsPublic
	}

	now := r.env.Now()
	rsp := make([]respond.RoomMemberRespond, 0, len(members))
	for _, m := range members {
		d := Decision{
			IsSelf:     viewerId != "" && m.UserId == viewerId,
			Connected:  connected[m.UserId],
			AutoShare:  m.AutoShareContact,
			RoomPublic: public[m.UserId],
			Request:    requests[m.UserId],
		}
		item := respond.RoomMemberRespond{
			Id:            m.UserId,
			Nickname:      m.Nickname,
			Avatar:        m.Avatar,
			JoinedAt:      common.FormatTime(m.JoinedAt),
			ContactStatus: d.Status(now, r.cooldown),
			IsConnected:   d.Connected,
		}
		if d.CanSeeContact() {
			wechat, qq := m.Wechat, m.QQ
			item.Wechat, item.QQ = &wechat, &qq
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}
