package database

import (
	"testing"

	"course_match_server/internal/config"
)

func TestBuildDSN(t *testing.T) {
	pg := config.DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "app", Password: "pw", DatabaseName: "match", SSLMode: "disable"}
	if got, want := BuildDSN(pg), "host=db port=5432 user=app password=pw dbname=match sslmode=disable TimeZone=UTC"; got != want {
		t.Errorf("postgres dsn = %q, want %q", got, want)
	}

	my := config.DatabaseConfig{Driver: "mysql", Host: "127.0.0.1", Port: 3306, User: "root", Password: "pw", DatabaseName: "match"}
	if got, want := BuildDSN(my), "root:pw@tcp(127.0.0.1:3306)/match?charset=utf8mb4&parseTime=True&loc=UTC"; got != want {
		t.Errorf("mysql dsn = %q, want %q", got, want)
	}

	explicit := config.DatabaseConfig{Driver: "postgres", Dsn: "postgres://u:p@h/db", Host: "ignored"}
	if got := BuildDSN(explicit); got != "postgres://u:p@h/db" {
		t.Errorf("explicit dsn = %q", got)
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector(config.DatabaseConfig{Driver: "sqlite"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	for _, d := range []string{"postgres", "mysql"} {
		if _, err := Dialector(config.DatabaseConfig{Driver: d, Dsn: "x"}); err != nil {
			t.Errorf("driver %s: %v", d, err)
		}
	}
}
