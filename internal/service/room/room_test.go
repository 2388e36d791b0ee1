package room

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"course_match_server/internal/dto/request"
	"course_match_server/internal/model"
	"course_match_server/internal/service/catalog"
	"course_match_server/internal/service/common"
	"course_match_server/internal/service/notification"
	"course_match_server/internal/service/visibility"
	"course_match_server/internal/testfixtures"
	"course_match_server/pkg/enum/notification_type_enum"
	"course_match_server/pkg/errorx"
)

type fixture struct {
	store *testfixtures.MemStore
	clock *testfixtures.Clock
	svc   *roomService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testfixtures.NewMemStore()
	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("id")
	opts := []common.Option{common.WithClock(clock.Now), common.WithIDGenerator(ids.Next)}

	repos := store.Repositories()
	notifier := notification.NewNotificationService(repos, nil, opts...)
	members := visibility.NewResolver(repos, time.Hour, opts...)
	svc := NewRoomService(repos, catalog.NewCatalogService(repos, "Rutgers"), notifier, members, opts...)
	return &fixture{store: store, clock: clock, svc: svc}
}

func (f *fixture) user(id, nickname string) {
	f.store.PutUser(model.UserInfo{Id: id, Nickname: nickname, Wechat: "wx-" + id})
}

func baseKey() RoomKeyInput {
	return RoomKeyInput{
		CourseName: "Data Structures",
		School:     "Rutgers",
		Semester:   "Spring 2026",
		DayOfWeek:  2,
		StartTime:  "9:30 am",
		EndTime:    "1050",
		Instructor: "Smith",
		Location:   "HLL-114",
	}
}

func TestResolveRoomIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.ResolveRoom(ctx, baseKey())
	if err != nil {
		t.Fatalf("ResolveRoom: %v", err)
	}
	// 同一时间的不同写法规范化后是同一个房间
	again := baseKey()
	again.StartTime = "09:30"
	again.EndTime = "10:50:00"
	again.CourseName = "  Data Structures "
	second, err := f.svc.ResolveRoom(ctx, again)
	if err != nil {
		t.Fatalf("ResolveRoom again: %v", err)
	}
	if first != second {
		t.Fatalf("same tuple resolved to %s and %s", first, second)
	}
	if f.store.RoomCount() != 1 || f.store.CourseCount() != 1 {
		t.Fatalf("rooms=%d courses=%d, want 1/1", f.store.RoomCount(), f.store.CourseCount())
	}

	room, _ := f.store.Room(first)
	if room.StartTime != "09:30" || room.EndTime != "10:50" {
		t.Fatalf("times not normalized: %+v", room)
	}
}

func TestResolveRoomWidenedKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base, _ := f.svc.ResolveRoom(ctx, baseKey())

	variants := []func(*RoomKeyInput){
		func(k *RoomKeyInput) { k.EndTime = "11:00" },
		func(k *RoomKeyInput) { k.Weeks = "1-8" },
		func(k *RoomKeyInput) { k.Instructor = "" },
		func(k *RoomKeyInput) { k.Location = "" },
		func(k *RoomKeyInput) { k.Semester = "Fall 2026" },
	}
	seen := map[string]bool{base: true}
	for i, mutate := range variants {
		k := baseKey()
		mutate(&k)
		id, err := f.svc.ResolveRoom(ctx, k)
		if err != nil {
			t.Fatalf("variant %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("variant %d collided with an existing room", i)
		}
		seen[id] = true
	}
	if f.store.CourseCount() != 1 {
		t.Fatalf("all variants share one course, got %d", f.store.CourseCount())
	}
}

func TestResolveRoomConcurrentConverges(t *testing.T) {
	f := newFixture(t)
	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := f.svc.ResolveRoom(context.Background(), baseKey())
			if err != nil {
				t.Errorf("ResolveRoom: %v", err)
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("concurrent creates diverged: %v", ids)
		}
	}
	if f.store.RoomCount() != 1 {
		t.Fatalf("rooms = %d", f.store.RoomCount())
	}
}

func TestResolveRoomValidation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]func(*RoomKeyInput){
		"day zero":      func(k *RoomKeyInput) { k.DayOfWeek = 0 },
		"day eight":     func(k *RoomKeyInput) { k.DayOfWeek = 8 },
		"empty name":    func(k *RoomKeyInput) { k.CourseName = " " },
		"bad start":     func(k *RoomKeyInput) { k.StartTime = "noon" },
		"empty end":     func(k *RoomKeyInput) { k.EndTime = "" },
		"empty school":  func(k *RoomKeyInput) { k.School = "" },
		"bad 12h clock": func(k *RoomKeyInput) { k.StartTime = "13:00 pm" },
	}
	for name, mutate := range cases {
		k := baseKey()
		mutate(&k)
		if _, err := f.svc.ResolveRoom(context.Background(), k); errorx.GetCode(err) != errorx.CodeInvalidParam {
			t.Errorf("%s: err = %v, want invalid param", name, err)
		}
	}
	if f.store.RoomCount() != 0 {
		t.Fatal("invalid input must not create rooms")
	}
}

// 场景 A：X 加入空房间，无通知；Y 加入后 X 收到一条 new_member
func TestJoinRoomScenarioA(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user("x", "Xavier")
	f.user("y", "Yolanda")
	roomId, _ := f.svc.ResolveRoom(ctx, baseKey())

	created, err := f.svc.JoinRoom(ctx, "x", roomId)
	if err != nil || !created {
		t.Fatalf("x join: %v %v", created, err)
	}
	if r, _ := f.store.Room(roomId); r.MemberCount != 1 {
		t.Fatalf("member_count = %d, want 1", r.MemberCount)
	}
	if n := f.store.Notifications("x"); len(n) != 0 {
		t.Fatalf("first member must not be notified, got %d", len(n))
	}

	if _, err := f.svc.JoinRoom(ctx, "y", roomId); err != nil {
		t.Fatal(err)
	}
	if r, _ := f.store.Room(roomId); r.MemberCount != 2 {
		t.Fatalf("member_count = %d, want 2", r.MemberCount)
	}
	notes := f.store.Notifications("x")
	if len(notes) != 1 || notes[0].Type != notification_type_enum.NEW_MEMBER {
		t.Fatalf("x notifications = %+v", notes)
	}
	var payload newMemberPayload
	if err := json.Unmarshal([]byte(notes[0].Payload), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.RoomId != roomId || payload.NewMemberId != "y" || payload.NewMemberName != "Yolanda" {
		t.Fatalf("payload = %+v", payload)
	}
	if n := f.store.Notifications("y"); len(n) != 0 {
		t.Fatalf("joiner must not notify themself")
	}
}

func TestJoinRoomIdempotentAndCountInvariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomId, _ := f.svc.ResolveRoom(ctx, baseKey())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		user := fmt.Sprintf("u%d", i%5)
		f.user(user, user)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.JoinRoom(ctx, user, roomId); err != nil {
				t.Errorf("join: %v", err)
			}
		}()
	}
	wg.Wait()

	again, err := f.svc.JoinRoom(ctx, "u0", roomId)
	if err != nil || again {
		t.Fatalf("second join created=%v err=%v", again, err)
	}
	r, _ := f.store.Room(roomId)
	if r.MemberCount != 5 || f.store.MemberRows(roomId) != 5 {
		t.Fatalf("member_count=%d rows=%d, want 5/5", r.MemberCount, f.store.MemberRows(roomId))
	}
}

func TestJoinRoomNotificationFailureSwallowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user("x", "X")
	f.user("y", "Y")
	roomId, _ := f.svc.ResolveRoom(ctx, baseKey())
	_, _ = f.svc.JoinRoom(ctx, "x", roomId)

	f.store.NotificationErr = fmt.Errorf("notification table locked")
	created, err := f.svc.JoinRoom(ctx, "y", roomId)
	if err != nil || !created {
		t.Fatalf("join must succeed when fan-out fails: %v %v", created, err)
	}
}

func TestJoinRoomUnknownRoom(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.JoinRoom(context.Background(), "x", "missing"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestLeaveRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user("x", "X")
	roomId, _ := f.svc.ResolveRoom(ctx, baseKey())
	_, _ = f.svc.JoinRoom(ctx, "x", roomId)

	res, err := f.svc.LeaveRoom(ctx, "x", roomId)
	if err != nil || !res.Left {
		t.Fatalf("leave: %+v %v", res, err)
	}
	res, err = f.svc.LeaveRoom(ctx, "x", roomId)
	if err != nil || res.Left {
		t.Fatalf("second leave: %+v %v", res, err)
	}
	if r, _ := f.store.Room(roomId); r.MemberCount != 0 || f.store.MemberRows(roomId) != 0 {
		t.Fatalf("count after leave = %d", r.MemberCount)
	}
}

func TestJoinByIndexJoinsEveryMeeting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user("x", "X")
	f.store.PutCatalog(
		model.CatalogSection{Year: 2026, Term: 1, Index: "12345", MeetingDay: "T", StartTime: "1020", EndTime: "1140", Title: "ALGORITHMS", Building: "ARC", RoomNumber: "103"},
		model.CatalogSection{Year: 2026, Term: 1, Index: "12345", MeetingDay: "F", StartTime: "1020", EndTime: "1140", Title: "ALGORITHMS", Building: "ARC", RoomNumber: "103"},
	)

	req := request.JoinRoomRequest{Index: "12345", Year: 2026, Term: 1}
	res, err := f.svc.JoinByIndex(ctx, "x", req)
	if err != nil {
		t.Fatalf("JoinByIndex: %v", err)
	}
	if len(res.RoomIds) != 2 || res.RoomId != res.RoomIds[0] {
		t.Fatalf("result = %+v", res)
	}
	// 重试不会产生新房间或重复计数
	again, err := f.svc.JoinByIndex(ctx, "x", req)
	if err != nil || again.RoomIds[0] != res.RoomIds[0] || again.RoomIds[1] != res.RoomIds[1] {
		t.Fatalf("retry = %+v %v", again, err)
	}
	for _, id := range res.RoomIds {
		if r, _ := f.store.Room(id); r.MemberCount != 1 {
			t.Fatalf("room %s member_count = %d", id, r.MemberCount)
		}
	}

	if _, err := f.svc.JoinByIndex(ctx, "x", request.JoinRoomRequest{Index: "99999", Year: 2026, Term: 1}); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("unknown index err = %v", err)
	}
}

func TestPrivacyAndDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user("x", "X")
	f.user("y", "Y")
	roomId, _ := f.svc.ResolveRoom(ctx, baseKey())
	k := baseKey()
	k.DayOfWeek = 4
	siblingId, _ := f.svc.ResolveRoom(ctx, k)
	_, _ = f.svc.JoinRoom(ctx, "x", roomId)
	_, _ = f.svc.JoinRoom(ctx, "y", roomId)

	if _, err := f.svc.SetPrivacy(ctx, siblingId, "x", true); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("non-member privacy err = %v", err)
	}

	p, err := f.svc.GetPrivacy(ctx, roomId, "y")
	if err != nil || p.Decided || p.IsPublic != nil {
		t.Fatalf("undecided privacy = %+v %v", p, err)
	}

	detail, err := f.svc.GetRoomDetail(ctx, roomId, "x")
	if err != nil {
		t.Fatal(err)
	}
	if detail.Members[1].Id != "y" || detail.Members[1].Wechat != nil {
		t.Fatalf("y must be hidden before opting in: %+v", detail.Members[1])
	}

	if _, err := f.svc.SetPrivacy(ctx, roomId, "y", true); err != nil {
		t.Fatal(err)
	}
	detail, err = f.svc.GetRoomDetail(ctx, roomId, "x")
	if err != nil {
		t.Fatal(err)
	}
	if w := detail.Members[1].Wechat; w == nil || *w != "wx-y" {
		t.Fatalf("y must be visible after opting in: %+v", detail.Members[1])
	}
	if !detail.IsMember || detail.Privacy == nil || detail.Privacy.Decided {
		t.Fatalf("viewer privacy = %+v", detail.Privacy)
	}
	if len(detail.Siblings) != 1 || detail.Siblings[0].RoomId != siblingId || detail.Siblings[0].CourseName != "Data Structures" {
		t.Fatalf("siblings = %+v", detail.Siblings)
	}
	if detail.Room.MemberCount != 2 {
		t.Fatalf("member count = %d", detail.Room.MemberCount)
	}

	anon, err := f.svc.GetRoomDetail(ctx, roomId, "")
	if err != nil || anon.IsMember || anon.Privacy != nil {
		t.Fatalf("anonymous detail = %+v %v", anon, err)
	}

	rooms, err := f.svc.ListUserRooms(ctx, "x")
	if err != nil || len(rooms) != 1 || rooms[0].RoomId != roomId {
		t.Fatalf("ListUserRooms = %+v %v", rooms, err)
	}

	if _, err := f.svc.GetRoomDetail(ctx, "missing", ""); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("missing room err = %v", err)
	}
}
