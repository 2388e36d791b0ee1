package schedule

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"course_match_server/internal/config"
	"course_match_server/pkg/errorx"
)

func TestVisionParserSendsImageAndDecodesCourses(t *testing.T) {
	var got visionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"courses":[{"name":"Calculus","day":1,"startTime":"8:00","endTime":"9:20","classroom":"SEC-111","professor":"Lee","weeks":"1-14"}]}`))
	}))
	defer srv.Close()

	p := NewVisionParser(config.VisionConfig{Endpoint: srv.URL, ApiKey: "secret", TimeoutSeconds: 5})
	courses, err := p.ParseScheduleImage(context.Background(), []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("ParseScheduleImage: %v", err)
	}
	if len(courses) != 1 || courses[0].Name != "Calculus" || courses[0].Day != 1 || courses[0].Weeks != "1-14" {
		t.Fatalf("courses = %+v", courses)
	}
	if got.MimeType != "image/png" || got.Image != base64.StdEncoding.EncodeToString([]byte("img")) {
		t.Fatalf("request = %+v", got)
	}
}

func TestVisionParserFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		},
	}
	for name, h := range cases {
		srv := httptest.NewServer(h)
		p := NewVisionParser(config.VisionConfig{Endpoint: srv.URL, TimeoutSeconds: 5})
		_, err := p.ParseScheduleImage(context.Background(), []byte("img"), "image/png")
		if errorx.GetCode(err) != errorx.CodeUpstream {
			t.Errorf("%s: err = %v, want upstream", name, err)
		}
		srv.Close()
	}
}

func TestVisionParserDisabled(t *testing.T) {
	p := NewVisionParser(config.VisionConfig{TimeoutSeconds: 5})
	if _, err := p.ParseScheduleImage(context.Background(), []byte("img"), "image/png"); errorx.GetCode(err) != errorx.CodeUpstream {
		t.Fatalf("err = %v", err)
	}
}
