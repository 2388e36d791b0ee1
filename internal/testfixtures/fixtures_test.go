package testfixtures

import (
	"testing"
	"time"
)

func TestClockAdvance(t *testing.T) {
	c := NewClock(time.Time{})
	if !c.Now().Equal(ReferenceTime()) {
		t.Fatalf("zero start must use ReferenceTime")
	}
	if got := c.Advance(time.Hour); !got.Equal(ReferenceTime().Add(time.Hour)) {
		t.Fatalf("Advance = %v", got)
	}
}

func TestIDGeneratorSequential(t *testing.T) {
	g := NewIDGenerator("room")
	if a, b := g.Next(), g.Next(); a != "room-1" || b != "room-2" {
		t.Fatalf("got %q %q", a, b)
	}
}
