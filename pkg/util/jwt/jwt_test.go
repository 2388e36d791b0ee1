package jwt

import (
	"testing"
	"time"
)

func TestParseTokenRoundTrip(t *testing.T) {
	Init("test-secret-test-secret-test-secret")
	token, err := GenerateToken("u-1", "alice@school.edu", true, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	id, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id.UserID != "u-1" || id.Email != "alice@school.edu" || !id.EmailConfirmed {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	Init("secret-a-secret-a-secret-a")
	expired, err := GenerateToken("u-1", "", false, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(expired); err == nil {
		t.Fatalf("expired token must be rejected")
	}

	foreign, err := GenerateToken("u-1", "", false, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	Init("secret-b-secret-b-secret-b")
	if _, err := ParseToken(foreign); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestParseTokenRequiresSubject(t *testing.T) {
	Init("secret-c-secret-c-secret-c")
	token, err := GenerateToken("", "x@y.z", true, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Fatalf("token without subject must be rejected")
	}
}
