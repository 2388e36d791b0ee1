package visibility

import (
	"context"
	"testing"
	"time"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/internal/testfixtures"
	"course_match_server/pkg/enum/contact_request_status_enum"
	"course_match_server/pkg/enum/contact_visibility_enum"
)

// counting* 包装内存 Repository，统计批量查询的调用次数
type countingMembers struct {
	repository.RoomMemberRepository
	calls *int
}

func (c countingMembers) FindMembersWithUserInfo(ctx context.Context, roomId string) ([]model.RoomMemberWithUserInfo, error) {
	*c.calls++
	return c.RoomMemberRepository.FindMembersWithUserInfo(ctx, roomId)
}

type countingConnections struct {
	repository.ConnectionRepository
	calls *int
}

func (c countingConnections) FindPeersAmong(ctx context.Context, userId string, others []string) ([]string, error) {
	*c.calls++
	return c.ConnectionRepository.FindPeersAmong(ctx, userId, others)
}

type countingRequests struct {
	repository.ContactRequestRepository
	calls *int
}

func (c countingRequests) FindByRequesterAndTargets(ctx context.Context, requesterId string, targetIds []string) ([]model.ContactRequest, error) {
	*c.calls++
	return c.ContactRequestRepository.FindByRequesterAndTargets(ctx, requesterId, targetIds)
}

type countingPrivacy struct {
	repository.RoomPrivacyRepository
	calls *int
}

func (c countingPrivacy) FindByRoomAndUsers(ctx context.Context, roomId string, userIds []string) ([]model.RoomPrivacySetting, error) {
	*c.calls++
	return c.RoomPrivacyRepository.FindByRoomAndUsers(ctx, roomId, userIds)
}

type fixture struct {
	store *testfixtures.MemStore
	repos *repository.Repositories
	clock *testfixtures.Clock
	calls int
}

func newFixture(t *testing.T, users ...model.UserInfo) *fixture {
	t.Helper()
	f := &fixture{store: testfixtures.NewMemStore(), clock: testfixtures.NewClock(time.Time{})}
	repos := f.store.Repositories()
	repos.RoomMember = countingMembers{repos.RoomMember, &f.calls}
	repos.Connection = countingConnections{repos.Connection, &f.calls}
	repos.ContactRequest = countingRequests{repos.ContactRequest, &f.calls}
	repos.RoomPrivacy = countingPrivacy{repos.RoomPrivacy, &f.calls}
	f.repos = repos

	ctx := context.Background()
	for i, u := range users {
		f.store.PutUser(u)
		if _, err := repos.RoomMember.Insert(ctx, &model.RoomMember{RoomId: "r1", UserId: u.Id, JoinedAt: f.clock.Now().Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func (f *fixture) resolve(t *testing.T, viewer string) map[string]struct {
	status  string
	visible bool
	wechat  string
} {
	t.Helper()
	r := NewResolver(f.repos, time.Hour, common.WithClock(f.clock.Now))
	f.calls = 0
	members, err := r.ResolveMembers(context.Background(), "r1", viewer)
	if err != nil {
		t.Fatalf("ResolveMembers: %v", err)
	}
	out := make(map[string]struct {
		status  string
		visible bool
		wechat  string
	})
	for _, m := range members {
		e := out[m.Id]
		e.status = m.ContactStatus
		e.visible = m.Wechat != nil
		if m.Wechat != nil {
			e.wechat = *m.Wechat
		}
		out[m.Id] = e
	}
	return out
}

func TestResolveMembersRules(t *testing.T) {
	f := newFixture(t,
		model.UserInfo{Id: "viewer", Wechat: "wx-viewer"},
		model.UserInfo{Id: "friend", Wechat: "wx-friend"},
		model.UserInfo{Id: "sharer", Wechat: "wx-sharer", AutoShareContact: true},
		model.UserInfo{Id: "public", Wechat: "wx-public"},
		model.UserInfo{Id: "pending", Wechat: "wx-pending"},
		model.UserInfo{Id: "rejecter", Wechat: "wx-rejecter"},
		model.UserInfo{Id: "stranger", Wechat: "wx-stranger"},
	)
	ctx := context.Background()
	_, _ = f.repos.Connection.CreateIfAbsent(ctx, &model.Connection{UserId1: "viewer", UserId2: "friend"})
	_ = f.repos.RoomPrivacy.Upsert(ctx, &model.RoomPrivacySetting{UserId: "public", RoomId: "r1", IsPublic: true})
	_ = f.repos.RoomPrivacy.Upsert(ctx, &model.RoomPrivacySetting{UserId: "stranger", RoomId: "r1", IsPublic: false})
	_ = f.repos.ContactRequest.Create(ctx, &model.ContactRequest{Id: "q1", RequesterId: "viewer", TargetId: "pending", Status: contact_request_status_enum.PENDING})
	rejectedAt := f.clock.Now()
	_ = f.repos.ContactRequest.Create(ctx, &model.ContactRequest{Id: "q2", RequesterId: "viewer", TargetId: "rejecter", Status: contact_request_status_enum.REJECTED, RespondedAt: &rejectedAt})

	f.clock.Advance(30 * time.Minute)
	got := f.resolve(t, "viewer")

	want := map[string]string{
		"viewer":   contact_visibility_enum.VISIBLE,
		"friend":   contact_visibility_enum.VISIBLE,
		"sharer":   contact_visibility_enum.VISIBLE,
		"public":   contact_visibility_enum.VISIBLE,
		"pending":  contact_visibility_enum.PENDING,
		"rejecter": contact_visibility_enum.REJECTED,
		"stranger": contact_visibility_enum.HIDDEN,
	}
	for id, status := range want {
		if got[id].status != status {
			t.Errorf("%s: status %q, want %q", id, got[id].status, status)
		}
		visible := status == contact_visibility_enum.VISIBLE
		if got[id].visible != visible {
			t.Errorf("%s: visible %v, want %v", id, got[id].visible, visible)
		}
		if visible && got[id].wechat != "wx-"+id {
			t.Errorf("%s: wechat %q", id, got[id].wechat)
		}
	}
	if f.calls != 4 {
		t.Errorf("store round trips = %d, want 4", f.calls)
	}

	// 冷却期过后拒绝状态回到 hidden
	f.clock.Advance(31 * time.Minute)
	if s := f.resolve(t, "viewer")["rejecter"].status; s != contact_visibility_enum.HIDDEN {
		t.Errorf("after cooldown status = %q, want hidden", s)
	}
}

func TestResolveMembersAnonymousViewer(t *testing.T) {
	f := newFixture(t,
		model.UserInfo{Id: "a", Wechat: "wx-a", AutoShareContact: true},
		model.UserInfo{Id: "b", Wechat: "wx-b"},
	)
	got := f.resolve(t, "")
	if !got["a"].visible || got["b"].visible {
		t.Fatalf("anonymous view = %+v", got)
	}
	if f.calls != 2 {
		t.Errorf("anonymous round trips = %d, want 2", f.calls)
	}
}

func TestResolveMembersEmptyRoom(t *testing.T) {
	f := newFixture(t)
	if got := f.resolve(t, "x"); len(got) != 0 {
		t.Fatalf("want empty, got %+v", got)
	}
}

func TestDecisionCooldownBoundary(t *testing.T) {
	at := testfixtures.ReferenceTime()
	d := Decision{Request: &model.ContactRequest{Status: contact_request_status_enum.REJECTED, RespondedAt: &at}}
	if s := d.Status(at.Add(time.Hour-time.Second), time.Hour); s != contact_visibility_enum.REJECTED {
		t.Errorf("59m59s: %q", s)
	}
	if s := d.Status(at.Add(time.Hour+time.Second), time.Hour); s != contact_visibility_enum.HIDDEN {
		t.Errorf("1h00m01s: %q", s)
	}
	if !(Decision{RoomPublic: true, Request: d.Request}).CanSeeContact() {
		t.Error("room public must win over a rejected request")
	}
}
