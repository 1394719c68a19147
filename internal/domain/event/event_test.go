package event

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	e, err := New("conf-2025", "Conf 2025", time.Date(2025, 5, 1, 10, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.StartsAt().Location() != time.UTC {
		t.Error("expected start time in UTC")
	}
	if e.StartsAt().Hour() != 9 {
		t.Errorf("expected 09:00 UTC, got %v", e.StartsAt())
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New("", "x", time.Time{}); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := New("x", "", time.Time{}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestNew_ZeroStartAllowed(t *testing.T) {
	e, err := New("tbd", "To be announced", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.StartsAt().IsZero() {
		t.Error("expected zero start time")
	}
}
