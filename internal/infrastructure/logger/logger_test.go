package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"course_match_server/internal/config"

	"github.com/gin-gonic/gin"
)

func TestInitRejectsBadLevel(t *testing.T) {
	if err := Init(nil, "dev"); err == nil {
		t.Fatal("nil config must fail")
	}
	cfg := &config.LogConfig{LogPath: t.TempDir(), Level: "loud"}
	if err := Init(cfg, "release"); err == nil {
		t.Fatal("unknown level must fail")
	}
}

func TestInitFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.LogConfig{LogPath: dir}
	if err := Init(cfg, "release"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if cfg.FileName != filepath.Join(dir, "app.log") || cfg.Level != "info" || cfg.MaxSize != 100 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestGinRecoveryReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinLogger(), GinRecovery(true))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestIsBrokenPipeError(t *testing.T) {
	if !isBrokenPipeError(errors.New("write: Broken Pipe")) {
		t.Error("expected broken pipe")
	}
	if isBrokenPipeError(errors.New("timeout")) || isBrokenPipeError(nil) {
		t.Error("unexpected broken pipe")
	}
}
