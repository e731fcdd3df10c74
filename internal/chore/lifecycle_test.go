package chore_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/petravell/choreboard/internal/chore"
	"github.com/petravell/choreboard/internal/model"
)

type memPhotoStore struct {
	saved map[string][]byte
}

func (m *memPhotoStore) Save(_ context.Context, data []byte, suggestedName string) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	handle := "photo-" + suggestedName
	m.saved[handle] = data
	return handle, nil
}

func newLifecycle(t *testing.T, f *fixture, photos chore.PhotoStore) *chore.Lifecycle {
	t.Helper()
	return chore.NewLifecycle(f.assignments, f.people, photos, slog.Default())
}

func TestLifecycleEndToEnd(t *testing.T) {
	_, f := setup(t)
	photos := &memPhotoStore{}
	lc := newLifecycle(t, f, photos)

	maya, _ := f.people.Create("Maya", model.RoleChild)
	adam, _ := f.people.Create("Adam", model.RoleParent)

	c, err := f.chores.Create("Kitchen", "Dishes", 15, "FREQ=DAILY")
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}

	day := date(t, "2026-03-02")
	if _, err := f.generator.Assign(c.ID, maya.ID, day, time.Time{}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	a, err := f.assignments.GetByChoreDate(c.ID, "2026-03-02")
	if err != nil || a == nil {
		t.Fatalf("get assignment: %v", err)
	}

	comp, err := lc.Complete(context.Background(), a.ID, 12, "all done", []byte("jpeg bytes"), "dishes.jpg")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if comp.ActualMinutes != 12 {
		t.Errorf("actual_minutes = %d, want 12", comp.ActualMinutes)
	}
	if comp.PhotoHandle == "" {
		t.Error("photo handle not recorded")
	}
	if _, ok := photos.saved[comp.PhotoHandle]; !ok {
		t.Errorf("photo %q not stored", comp.PhotoHandle)
	}

	rev, err := lc.Review(comp.ID, adam.ID, true, "great job")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !rev.Approved {
		t.Error("review not approved")
	}
	if rev.ReviewedBy != adam.ID {
		t.Errorf("reviewed_by = %d, want %d", rev.ReviewedBy, adam.ID)
	}

	details, err := f.assignments.ListForDate("2026-03-02")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("len = %d, want 1", len(details))
	}
	if details[0].Status != model.StatusReviewed {
		t.Errorf("status = %q, want reviewed", details[0].Status)
	}
}

func TestCompleteValidation(t *testing.T) {
	_, f := setup(t)
	lc := newLifecycle(t, f, &memPhotoStore{})

	maya, _ := f.people.Create("Maya", model.RoleChild)
	c, _ := f.chores.Create("Kitchen", "Dishes", 15, "")
	if _, err := f.generator.Assign(c.ID, maya.ID, date(t, "2026-03-02"), time.Time{}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	a, _ := f.assignments.GetByChoreDate(c.ID, "2026-03-02")

	_, err := lc.Complete(context.Background(), a.ID, 0, "", nil, "")
	if !errors.Is(err, chore.ErrInvalidInput) {
		t.Errorf("zero minutes: err = %v, want ErrInvalidInput", err)
	}

	_, err = lc.Complete(context.Background(), 999, 10, "", nil, "")
	if !errors.Is(err, chore.ErrNotFound) {
		t.Errorf("missing assignment: err = %v, want ErrNotFound", err)
	}

	if _, err := lc.Complete(context.Background(), a.ID, 10, "", nil, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	_, err = lc.Complete(context.Background(), a.ID, 10, "", nil, "")
	if !errors.Is(err, chore.ErrAlreadyCompleted) {
		t.Errorf("second completion: err = %v, want ErrAlreadyCompleted", err)
	}
}

func TestReviewValidation(t *testing.T) {
	_, f := setup(t)
	lc := newLifecycle(t, f, &memPhotoStore{})

	maya, _ := f.people.Create("Maya", model.RoleChild)
	adam, _ := f.people.Create("Adam", model.RoleParent)
	c, _ := f.chores.Create("Kitchen", "Dishes", 15, "")
	if _, err := f.generator.Assign(c.ID, maya.ID, date(t, "2026-03-02"), time.Time{}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	a, _ := f.assignments.GetByChoreDate(c.ID, "2026-03-02")
	comp, err := lc.Complete(context.Background(), a.ID, 10, "", nil, "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = lc.Review(comp.ID, maya.ID, true, "")
	if !errors.Is(err, chore.ErrForbiddenRole) {
		t.Errorf("child reviewer: err = %v, want ErrForbiddenRole", err)
	}

	_, err = lc.Review(comp.ID, 999, true, "")
	if !errors.Is(err, chore.ErrNotFound) {
		t.Errorf("missing reviewer: err = %v, want ErrNotFound", err)
	}

	_, err = lc.Review(999, adam.ID, true, "")
	if !errors.Is(err, chore.ErrNotFound) {
		t.Errorf("missing completion: err = %v, want ErrNotFound", err)
	}

	if _, err := lc.Review(comp.ID, adam.ID, false, "redo it"); err != nil {
		t.Fatalf("review: %v", err)
	}
	_, err = lc.Review(comp.ID, adam.ID, true, "")
	if !errors.Is(err, chore.ErrAlreadyReviewed) {
		t.Errorf("second review: err = %v, want ErrAlreadyReviewed", err)
	}
}

// A rejected review is terminal: the assignment stays reviewed and the
// chain cannot be reopened or re-judged.
func TestRejectedReviewIsFinal(t *testing.T) {
	_, f := setup(t)
	lc := newLifecycle(t, f, &memPhotoStore{})

	maya, _ := f.people.Create("Maya", model.RoleChild)
	adam, _ := f.people.Create("Adam", model.RoleParent)
	c, _ := f.chores.Create("Kitchen", "Dishes", 15, "")
	if _, err := f.generator.Assign(c.ID, maya.ID, date(t, "2026-03-02"), time.Time{}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	a, _ := f.assignments.GetByChoreDate(c.ID, "2026-03-02")
	comp, _ := lc.Complete(context.Background(), a.ID, 10, "", nil, "")

	if _, err := lc.Review(comp.ID, adam.ID, false, "missed spots"); err != nil {
		t.Fatalf("review: %v", err)
	}

	details, err := f.assignments.ListForDate("2026-03-02")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if details[0].Status != model.StatusReviewed {
		t.Errorf("status = %q, want reviewed", details[0].Status)
	}
	if details[0].Review.Approved {
		t.Error("review should be a rejection")
	}

	if _, err := lc.Review(comp.ID, adam.ID, true, ""); !errors.Is(err, chore.ErrAlreadyReviewed) {
		t.Errorf("re-judge: err = %v, want ErrAlreadyReviewed", err)
	}
}
