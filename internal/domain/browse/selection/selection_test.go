package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToggle_CapacityScenario(t *testing.T) {
	s := New(3)
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Toggle(id)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, s.IDs()); diff != "" {
		t.Fatalf("after a,b,c,d (-want +got):\n%s", diff)
	}

	s.Toggle("a")
	if diff := cmp.Diff([]string{"b", "c"}, s.IDs()); diff != "" {
		t.Fatalf("after removing a (-want +got):\n%s", diff)
	}

	s.Toggle("d")
	if diff := cmp.Diff([]string{"b", "c", "d"}, s.IDs()); diff != "" {
		t.Fatalf("after adding d (-want +got):\n%s", diff)
	}
}

func TestToggle_NeverExceedsCapacity(t *testing.T) {
	s := New(2)
	for i := range 50 {
		s.Toggle(string(rune('a' + i%7)))
		if s.Len() > s.Cap() {
			t.Fatalf("size %d exceeds capacity %d", s.Len(), s.Cap())
		}
	}
}

func TestAdd(t *testing.T) {
	s := New(2)
	if s.Add("") {
		t.Error("expected empty id to be ignored")
	}
	if !s.Add("x") {
		t.Error("expected add")
	}
	if s.Add("x") {
		t.Error("expected duplicate to be ignored")
	}
	s.Add("y")
	if !s.Full() {
		t.Error("expected full")
	}
	if s.Add("z") {
		t.Error("expected overflow to be ignored")
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := New(3)
	s.Add("a")
	s.Add("b")

	if s.Remove("zzz") {
		t.Error("expected removing absent id to report false")
	}
	if !s.Remove("a") || s.Contains("a") {
		t.Error("expected a removed")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty, got %d", s.Len())
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	if New(0).Cap() != DefaultCapacity {
		t.Errorf("expected default capacity %d", DefaultCapacity)
	}
}

func TestIDs_ReturnsCopy(t *testing.T) {
	s := New(3)
	s.Add("a")
	ids := s.IDs()
	ids[0] = "mutated"
	if !s.Contains("a") {
		t.Error("IDs must return a copy")
	}
}
