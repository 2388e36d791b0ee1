package timeslot

import (
	"testing"
	"time"
)

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9:30", "09:30"},
		{"09:30", "09:30"},
		{"0930", "09:30"},
		{"930", "09:30"},
		{"1710", "17:10"},
		{"09:30:00", "09:30"},
		{"9:30 AM", "09:30"},
		{"12:15am", "00:15"},
		{"12:15 PM", "12:15"},
		{"1:05pm", "13:05"},
		{"1:05 p.m.", "13:05"},
		{"13:05", "13:05"},
		{" 8 ", "08:00"},
		{"9pm", "21:00"},
	}
	for _, tc := range cases {
		got, err := NormalizeClock(tc.in)
		if err != nil {
			t.Errorf("NormalizeClock(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeClockRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "  ", "25:00", "9:7", "13:00 pm", "abc", "12345", "10:60", "9:30:zz", "9:30:99", "9:30:6", "+9:30", "-930", "+930", "9:+3"} {
		if got, err := NormalizeClock(in); err == nil {
			t.Errorf("NormalizeClock(%q) = %q, expected error", in, got)
		}
	}
}

func TestDayFromCode(t *testing.T) {
	want := map[string]int{"M": 1, "T": 2, "W": 3, "H": 4, "F": 5, "S": 6, "U": 7, "h": 4}
	for code, day := range want {
		got, err := DayFromCode(code)
		if err != nil || got != day {
			t.Errorf("DayFromCode(%q) = %d, %v; want %d", code, got, err, day)
		}
	}
	if _, err := DayFromCode("X"); err == nil {
		t.Errorf("expected error for unknown code")
	}
}

func TestValidDay(t *testing.T) {
	if ValidDay(0) || ValidDay(8) || !ValidDay(1) || !ValidDay(7) {
		t.Fatalf("ValidDay bounds are wrong")
	}
}

func TestNextUTCMidnight(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	in := time.Date(2025, 9, 1, 7, 30, 0, 0, shanghai) // 2025-08-31 23:30 UTC
	got := NextUTCMidnight(in)
	want := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextUTCMidnight = %v, want %v", got, want)
	}

	exact := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if got := NextUTCMidnight(exact); !got.Equal(exact.AddDate(0, 0, 1)) {
		t.Fatalf("midnight should roll to next day, got %v", got)
	}
}
