package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"course_match_server/internal/dto/request"
	"course_match_server/internal/model"
	"course_match_server/internal/service/catalog"
	"course_match_server/internal/service/common"
	"course_match_server/internal/service/notification"
	"course_match_server/internal/service/quota"
	"course_match_server/internal/service/room"
	"course_match_server/internal/service/visibility"
	"course_match_server/internal/testfixtures"
	"course_match_server/pkg/errorx"
)

// pngHeader 足以被识别为 image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubParser struct {
	courses []ParsedCourse
	err     error
	calls   int
}

func (p *stubParser) ParseScheduleImage(_ context.Context, _ []byte, mime string) ([]ParsedCourse, error) {
	p.calls++
	return p.courses, p.err
}

type fixture struct {
	store  *testfixtures.MemStore
	parser *stubParser
	svc    *scheduleService
}

func newFixture(t *testing.T, allowance int) *fixture {
	t.Helper()
	store := testfixtures.NewMemStore()
	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("id")
	opts := []common.Option{common.WithClock(clock.Now), common.WithIDGenerator(ids.Next)}
	repos := store.Repositories()

	rooms := room.NewRoomService(repos, catalog.NewCatalogService(repos, "Rutgers"),
		notification.NewNotificationService(repos, nil, opts...), visibility.NewResolver(repos, time.Hour, opts...), opts...)
	parser := &stubParser{}
	svc := NewScheduleService(repos, parser, quota.NewQuotaService(repos, allowance, opts...), rooms, "Rutgers")

	store.PutUser(model.UserInfo{Id: "u", Nickname: "U"})
	store.PutUser(model.UserInfo{Id: "vip", Nickname: "V", IsPrivileged: true})
	return &fixture{store: store, parser: parser, svc: svc}
}

func TestParseNormalizesAndDropsRows(t *testing.T) {
	f := newFixture(t, 3)
	f.parser.courses = []ParsedCourse{
		{Name: " Calculus ", Day: 1, StartTime: "8:00 AM", EndTime: "0920", Classroom: "SEC-111"},
		{Name: "", Day: 2, StartTime: "10:00", EndTime: "11:00"},
		{Name: "Physics", Day: 8, StartTime: "10:00", EndTime: "11:00"},
		{Name: "Chemistry", Day: 3, StartTime: "ten", EndTime: "11:00"},
	}
	rsp, err := f.svc.Parse(context.Background(), "u", pngHeader)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rsp.Courses) != 1 || rsp.Courses[0].Name != "Calculus" || rsp.Courses[0].StartTime != "08:00" || rsp.Courses[0].EndTime != "09:20" {
		t.Fatalf("courses = %+v", rsp.Courses)
	}
	if len(rsp.Dropped) != 3 || rsp.Dropped[0].Row != 2 || rsp.Dropped[2].Name != "Chemistry" {
		t.Fatalf("dropped = %+v", rsp.Dropped)
	}
	if rsp.Message != "" {
		t.Fatalf("message = %q", rsp.Message)
	}
	if u, _ := f.store.User("u"); u.MatchQuotaRemaining != 2 {
		t.Fatalf("quota remaining = %d, want 2", u.MatchQuotaRemaining)
	}
}

func TestParseEmptyResultIsNotAnError(t *testing.T) {
	f := newFixture(t, 3)
	rsp, err := f.svc.Parse(context.Background(), "u", pngHeader)
	if err != nil {
		t.Fatal(err)
	}
	if len(rsp.Courses) != 0 || rsp.Message != NoCoursesMessage {
		t.Fatalf("rsp = %+v", rsp)
	}
}

func TestParseQuotaAndRefund(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	f.parser.err = errors.New("connection reset")
	if _, err := f.svc.Parse(ctx, "u", pngHeader); errorx.GetCode(err) != errorx.CodeUpstream {
		t.Fatalf("upstream failure err = %v", err)
	}
	// 识别失败时额度已归还
	f.parser.err = nil
	if _, err := f.svc.Parse(ctx, "u", pngHeader); err != nil {
		t.Fatalf("parse after refund: %v", err)
	}
	if _, err := f.svc.Parse(ctx, "u", pngHeader); errorx.GetCode(err) != errorx.CodeQuotaExceeded {
		t.Fatalf("over quota err = %v", err)
	}
	if f.parser.calls != 2 {
		t.Fatalf("parser called %d times; must not be called when quota is exhausted", f.parser.calls)
	}

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Parse(ctx, "vip", pngHeader); err != nil {
			t.Fatalf("privileged parse %d: %v", i, err)
		}
	}
}

func TestParseRejectsBadUploads(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	if _, err := f.svc.Parse(ctx, "u", nil); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("empty err = %v", err)
	}
	if _, err := f.svc.Parse(ctx, "u", []byte("plain text, not an image")); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("text err = %v", err)
	}
	if f.parser.calls != 0 {
		t.Fatal("parser must not be called for invalid uploads")
	}
}

func TestConfirmJoinsEachRowIndependently(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	req := request.ConfirmScheduleRequest{
		UserId:   "u",
		Semester: "Spring 2026",
		Courses: []request.ScheduleCourse{
			{Name: "Calculus", Day: 1, StartTime: "8:00", EndTime: "9:20", Classroom: "SEC-111", Professor: "Lee"},
			{Name: "Calculus", Day: 9, StartTime: "8:00", EndTime: "9:20"},
			{Name: "Calculus", Day: 3, StartTime: "8:00", EndTime: "9:20", Classroom: "SEC-111", Professor: "Lee"},
			{Name: "Calculus", Day: 1, StartTime: "08:00", EndTime: "09:20", Classroom: "SEC-111", Professor: "Lee"},
		},
	}
	rsp, err := f.svc.Confirm(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(rsp.Results) != 4 {
		t.Fatalf("results = %+v", rsp.Results)
	}
	if !rsp.Results[0].Joined || rsp.Results[1].Joined || rsp.Results[1].Error == "" || !rsp.Results[2].Joined {
		t.Fatalf("results = %+v", rsp.Results)
	}
	// 第 4 行与第 1 行是同一个房间
	if rsp.Results[3].RoomId != rsp.Results[0].RoomId || len(rsp.RoomIds) != 2 {
		t.Fatalf("room ids = %v, results = %+v", rsp.RoomIds, rsp.Results)
	}
	if r, _ := f.store.Room(rsp.RoomIds[0]); r.MemberCount != 1 || r.Location != "SEC-111" || r.Instructor != "Lee" {
		t.Fatalf("room = %+v", r)
	}

	// 重复提交不会重复计数
	if _, err := f.svc.Confirm(ctx, req); err != nil {
		t.Fatal(err)
	}
	if r, _ := f.store.Room(rsp.RoomIds[0]); r.MemberCount != 1 {
		t.Fatalf("member_count after resubmit = %d", r.MemberCount)
	}
}
