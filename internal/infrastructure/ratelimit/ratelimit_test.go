package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course_match_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

func TestMemoryStoreWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(func() time.Time { return now })
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, ttl, err := s.Incr(ctx, "1.2.3.4", time.Minute)
		if err != nil || n != i {
			t.Fatalf("incr #%d = %d, %v", i, n, err)
		}
		if ttl != time.Minute {
			t.Fatalf("ttl = %v", ttl)
		}
	}

	now = now.Add(time.Minute)
	n, _, _ := s.Incr(ctx, "1.2.3.4", time.Minute)
	if n != 1 {
		t.Fatalf("counter must restart after window, got %d", n)
	}
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func newEngine(store Store, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(store, limit, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	r := newEngine(NewMemoryStore(nil), 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if i == 2 {
			if w.Header().Get("Retry-After") == "" {
				t.Error("missing Retry-After header")
			}
			var body struct {
				Code int    `json:"code"`
				Msg  string `json:"msg"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Code != errorx.ErrTooManyRequests.Code || body.Msg != errorx.ErrTooManyRequests.Msg {
				t.Errorf("limited body = %s (%v)", w.Body.String(), err)
			}
		}
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	// 其他 IP 不受影响
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("other ip got %d", w.Code)
	}
}

func TestMiddlewareFailsOpen(t *testing.T) {
	r := newEngine(failingStore{}, 1)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d got %d", i, w.Code)
		}
	}
}
