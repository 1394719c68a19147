package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

func failing(context.Context) error { return errors.New("down") }
func passing(context.Context) error { return nil }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}).WithCheck("sessions", passing)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK || r.Checks["sessions"] != CheckOK {
		t.Errorf("unexpected checks %v", r.Checks)
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("connection refused")}).WithCheck("sessions", failing)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_AuxiliaryFailureDegrades(t *testing.T) {
	svc := New(&mockDBPinger{}).WithCheck("sessions", failing)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["sessions"] != CheckError {
		t.Errorf("expected sessions %q, got %q", CheckError, r.Checks["sessions"])
	}
}

func TestCheck_NoAuxiliaryChecks(t *testing.T) {
	r := New(&mockDBPinger{}).Check(context.Background())
	if len(r.Checks) != 1 {
		t.Errorf("expected only the database check, got %v", r.Checks)
	}
}
