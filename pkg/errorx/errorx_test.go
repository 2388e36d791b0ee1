package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapKeepsCauseAndCode(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrapf(cause, CodeDBError, "查询房间 id=%s", "r1")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	if GetCode(err) != CodeDBError {
		t.Fatalf("GetCode = %d, want %d", GetCode(err), CodeDBError)
	}
	if err.Error() != "查询房间 id=r1: dial tcp: connection refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("consume: %w", Wrap(errors.New("remaining=0"), CodeQuotaExceeded, "额度不足"))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected errors.Is to match by code")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("different codes must not match")
	}
}

func TestGetCodeDefaultsToServerBusy(t *testing.T) {
	if got := GetCode(errors.New("boom")); got != CodeServerBusy {
		t.Fatalf("GetCode = %d, want %d", got, CodeServerBusy)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(Wrap(errors.New("record not found"), CodeNotFound, "x")) {
		t.Fatalf("wrapped not found should match")
	}
	if IsNotFound(ErrServerBusy) {
		t.Fatalf("server busy is not a not-found error")
	}
	if IsNotFound(nil) {
		t.Fatalf("nil is not a not-found error")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[int]int{
		CodeSuccess:         http.StatusOK,
		CodeInvalidParam:    http.StatusBadRequest,
		CodeContactCooldown: http.StatusBadRequest,
		CodeUnauthorized:    http.StatusUnauthorized,
		CodeForbidden:       http.StatusForbidden,
		CodeNotFound:        http.StatusNotFound,
		CodeQuotaExceeded:   http.StatusTooManyRequests,
		CodeTooManyRequests: http.StatusTooManyRequests,
		CodeUpstream:        http.StatusBadGateway,
		CodeDBError:         http.StatusInternalServerError,
		CodeConflict:        http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus(%d) = %d, want %d", code, got, want)
		}
	}
}
