package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"course_match_server/internal/dto/request"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/internal/testfixtures"
	"course_match_server/pkg/enum/notification_type_enum"
)

type recordingPublisher struct {
	mu  sync.Mutex
	got []model.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, ns ...model.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, ns...)
}

func (p *recordingPublisher) Close() error { return nil }

func newService(store *testfixtures.MemStore, clock *testfixtures.Clock, pub *recordingPublisher) *notificationService {
	ids := testfixtures.NewIDGenerator("n")
	return NewNotificationService(store.Repositories(), pub, common.WithClock(clock.Now), common.WithIDGenerator(ids.Next))
}

func TestNotifyPersistsAndMirrors(t *testing.T) {
	store := testfixtures.NewMemStore()
	clock := testfixtures.NewClock(time.Time{})
	pub := &recordingPublisher{}
	svc := newService(store, clock, pub)
	ctx := context.Background()

	svc.Notify(ctx, svc.Build("u1", notification_type_enum.NEW_MEMBER, map[string]string{"roomId": "r1"}))
	clock.Advance(time.Second)
	svc.Notify(ctx, svc.Build("u1", notification_type_enum.SYSTEM, map[string]string{"text": "hi"}))

	list, err := svc.List(ctx, "u1", false, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Type != notification_type_enum.SYSTEM {
		t.Fatalf("want newest first, got %+v", list)
	}
	var payload map[string]string
	if err := json.Unmarshal(list[1].Payload, &payload); err != nil || payload["roomId"] != "r1" {
		t.Fatalf("payload = %s", list[1].Payload)
	}
	if len(pub.got) != 2 {
		t.Fatalf("mirrored %d notifications, want 2", len(pub.got))
	}
}

func TestNotifySwallowsStoreFailure(t *testing.T) {
	store := testfixtures.NewMemStore()
	store.NotificationErr = errors.New("disk full")
	pub := &recordingPublisher{}
	svc := newService(store, testfixtures.NewClock(time.Time{}), pub)

	svc.Notify(context.Background(), svc.Build("u1", notification_type_enum.SYSTEM, nil))
	if len(pub.got) != 0 {
		t.Fatal("failed notifications must not be mirrored")
	}
}

func TestUnreadAndMarkRead(t *testing.T) {
	store := testfixtures.NewMemStore()
	svc := newService(store, testfixtures.NewClock(time.Time{}), &recordingPublisher{})
	ctx := context.Background()

	a := svc.Build("u1", notification_type_enum.SYSTEM, nil)
	b := svc.Build("u1", notification_type_enum.SYSTEM, nil)
	other := svc.Build("u2", notification_type_enum.SYSTEM, nil)
	svc.Notify(ctx, a, b, other)

	cnt, err := svc.UnreadCount(ctx, "u1")
	if err != nil || cnt.Count != 2 {
		t.Fatalf("unread = %+v, %v", cnt, err)
	}

	// 不能标记别人的通知
	res, err := svc.MarkRead(ctx, request.MarkNotificationsReadRequest{UserId: "u1", Ids: []string{other.Id, a.Id}})
	if err != nil || res.Updated != 1 {
		t.Fatalf("MarkRead = %+v, %v", res, err)
	}
	unread, _ := svc.List(ctx, "u1", true, 10)
	if len(unread) != 1 || unread[0].Id != b.Id {
		t.Fatalf("unread list = %+v", unread)
	}

	res, _ = svc.MarkRead(ctx, request.MarkNotificationsReadRequest{UserId: "u1"})
	if res.Updated != 1 {
		t.Fatalf("mark all updated %d", res.Updated)
	}
	if cnt, _ := svc.UnreadCount(ctx, "u2"); cnt.Count != 1 {
		t.Fatalf("other user's notifications must stay unread")
	}
}
