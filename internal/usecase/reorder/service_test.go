package reorder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/browsekit/internal/domain"
	domreorder "github.com/kailas-cloud/browsekit/internal/domain/reorder"
)

// --- Mocks ---

type mockRepo struct {
	stored     map[domreorder.Partition][]domreorder.Assignment
	replaces   int
	getErr     error
	replaceErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{stored: make(map[domreorder.Partition][]domreorder.Assignment)}
}

func (m *mockRepo) Get(_ context.Context, p domreorder.Partition) ([]domreorder.Assignment, error) {
	return m.stored[p], m.getErr
}

func (m *mockRepo) Replace(_ context.Context, p domreorder.Partition, a []domreorder.Assignment) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaces++
	m.stored[p] = a
	return nil
}

type countRecorder struct{ commits int }

func (c *countRecorder) ReorderCommitted() { c.commits++ }

// --- Tests ---

func TestCommit_StoresDenseAssignments(t *testing.T) {
	repo := newMockRepo()
	rec := &countRecorder{}
	svc := New(repo).WithRecorder(rec)

	got, err := svc.Commit(context.Background(), "day-1", []string{"y", "z", "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domreorder.Assignment{{ID: "y", Order: 0}, {ID: "z", Order: 1}, {ID: "x", Order: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, repo.stored["day-1"]); diff != "" {
		t.Errorf("stored mismatch (-want +got):\n%s", diff)
	}
	if rec.commits != 1 {
		t.Errorf("expected 1 recorded commit, got %d", rec.commits)
	}
}

func TestCommit_Invalid(t *testing.T) {
	svc := New(newMockRepo())

	tests := []struct {
		name  string
		p     domreorder.Partition
		order []string
	}{
		{"empty partition", "", []string{"a"}},
		{"duplicate id", "day-1", []string{"a", "b", "a"}},
		{"empty id", "day-1", []string{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Commit(context.Background(), tt.p, tt.order); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestCommit_RepoError(t *testing.T) {
	repo := newMockRepo()
	repo.replaceErr = errors.New("down")
	rec := &countRecorder{}
	svc := New(repo).WithRecorder(rec)

	if _, err := svc.Commit(context.Background(), "day-1", []string{"a"}); err == nil {
		t.Fatal("expected error")
	}
	if rec.commits != 0 {
		t.Error("failed commit must not be recorded")
	}
}

func TestOrder_EmptyPartition(t *testing.T) {
	svc := New(newMockRepo())

	got, err := svc.Order(context.Background(), "day-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty order, got %v", got)
	}
}

func TestMove_PersistsNewOrder(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	ctx := context.Background()
	if _, err := svc.Commit(ctx, "day-1", []string{"x", "y", "z"}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := svc.Move(ctx, "day-1", "x", "z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"y", "z", "x"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	stored, _ := svc.Order(ctx, "day-1")
	if diff := cmp.Diff(got, stored); diff != "" {
		t.Errorf("stored order mismatch (-want +got):\n%s", diff)
	}
}

func TestMove_SameIDIsNoop(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	ctx := context.Background()
	if _, err := svc.Commit(ctx, "day-1", []string{"x", "y"}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := svc.Move(ctx, "day-1", "y", "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if repo.replaces != 1 {
		t.Errorf("expected no extra write, got %d replaces", repo.replaces)
	}
}

func TestMove_UnknownID(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	ctx := context.Background()
	if _, err := svc.Commit(ctx, "day-1", []string{"x", "y"}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if _, err := svc.Move(ctx, "day-1", "x", "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMove_LoadError(t *testing.T) {
	repo := newMockRepo()
	repo.getErr = errors.New("down")
	svc := New(repo)

	if _, err := svc.Move(context.Background(), "day-1", "a", "b"); err == nil {
		t.Fatal("expected error")
	}
}
