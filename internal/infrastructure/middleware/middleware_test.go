package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course_match_server/pkg/errorx"
	"course_match_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

type stubEnsurer struct {
	seen []string
	err  error
}

func (s *stubEnsurer) EnsureUser(_ context.Context, identity *jwt.Identity) error {
	s.seen = append(s.seen, identity.UserID)
	return s.err
}

func setup(t *testing.T, users UserEnsurer) *gin.Engine {
	t.Helper()
	jwt.Init("middleware-test-secret-middleware")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", JWTAuth(users), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c))
	})
	r.GET("/public", OptionalAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "anon:"+CurrentUserID(c))
	})
	return r
}

func do(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	users := &stubEnsurer{}
	r := setup(t, users)
	token, err := jwt.GenerateToken("u-42", "a@b.edu", true, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if w := do(r, "/private", ""); w.Code != http.StatusUnauthorized || bodyCode(t, w) != errorx.ErrUnauthorized.Code {
		t.Errorf("missing token: %d %s", w.Code, w.Body.String())
	}
	if w := do(r, "/private", "Token "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong scheme: %d", w.Code)
	}
	if w := do(r, "/private", "Bearer garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: %d", w.Code)
	}

	w := do(r, "/private", "Bearer "+token)
	if w.Code != http.StatusOK || w.Body.String() != "u-42" {
		t.Fatalf("valid token: %d %q", w.Code, w.Body.String())
	}
	if len(users.seen) != 1 || users.seen[0] != "u-42" {
		t.Fatalf("EnsureUser calls = %v", users.seen)
	}
}

func bodyCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body.Code
}

func TestJWTAuthEnsureFailure(t *testing.T) {
	r := setup(t, &stubEnsurer{err: errors.New("db down")})
	token, _ := jwt.GenerateToken("u-1", "", false, time.Minute)
	if w := do(r, "/private", "Bearer "+token); w.Code != http.StatusInternalServerError || bodyCode(t, w) != errorx.CodeServerBusy {
		t.Fatalf("status = %d %s", w.Code, w.Body.String())
	}
}

func TestOptionalAuth(t *testing.T) {
	r := setup(t, nil)
	token, _ := jwt.GenerateToken("u-7", "", false, time.Minute)

	if w := do(r, "/public", ""); w.Body.String() != "anon:" {
		t.Errorf("anonymous body %q", w.Body.String())
	}
	if w := do(r, "/public", "Bearer nope"); w.Code != http.StatusOK || w.Body.String() != "anon:" {
		t.Errorf("invalid token must be treated as anonymous, got %d %q", w.Code, w.Body.String())
	}
	if w := do(r, "/public", "Bearer "+token); w.Body.String() != "anon:u-7" {
		t.Errorf("authenticated body %q", w.Body.String())
	}
}
