package store

import (
	"errors"
	"testing"

	"github.com/petravell/choreboard/internal/chore"
)

func TestChoreCRUD(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChoreStore(db)

	c := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "FREQ=DAILY")
	if c.Room != "Kitchen" || c.Task != "Dishes" {
		t.Errorf("chore = %q/%q, want Kitchen/Dishes", c.Room, c.Task)
	}
	if c.EstimatedMinutes != 15 {
		t.Errorf("estimated_minutes = %d, want 15", c.EstimatedMinutes)
	}

	updated, err := cs.Update(c.ID, "Kitchen", "Dishes", 20, "FREQ=WEEKLY;ANCHOR=MO")
	if err != nil {
		t.Fatalf("update chore: %v", err)
	}
	if updated.EstimatedMinutes != 20 {
		t.Errorf("estimated_minutes = %d, want 20", updated.EstimatedMinutes)
	}
	if updated.RecurrenceRule != "FREQ=WEEKLY;ANCHOR=MO" {
		t.Errorf("rule = %q", updated.RecurrenceRule)
	}

	if err := cs.Delete(c.ID); err != nil {
		t.Fatalf("delete chore: %v", err)
	}
	gone, err := cs.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get deleted chore: %v", err)
	}
	if gone != nil {
		t.Errorf("expected nil after delete, got %+v", gone)
	}
}

func TestChoreDeleteBlockedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	c := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "FREQ=DAILY")
	if _, err := as.Upsert(c.ID, nil, "2026-03-02", "2026-03-02"); err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	err := cs.Delete(c.ID)
	if !errors.Is(err, chore.ErrChoreInUse) {
		t.Fatalf("delete referenced chore: err = %v, want ErrChoreInUse", err)
	}
	if !chore.IsConflict(err) {
		t.Error("ErrChoreInUse not classified as a conflict")
	}

	// The chore and its history stay intact.
	kept, err := cs.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if kept == nil {
		t.Fatal("chore deleted despite assignment history")
	}
}

func TestChoreListRecurring(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChoreStore(db)

	mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "FREQ=DAILY")
	mustCreateChore(t, cs, "Garage", "Sweep", 30, "")
	mustCreateChore(t, cs, "Bathroom", "Scrub tub", 25, "FREQ=WEEKLY;ANCHOR=SA")

	recurring, err := cs.ListRecurring()
	if err != nil {
		t.Fatalf("list recurring: %v", err)
	}
	if len(recurring) != 2 {
		t.Fatalf("len = %d, want 2", len(recurring))
	}
	// Ordered by room, task.
	if recurring[0].Room != "Bathroom" || recurring[1].Room != "Kitchen" {
		t.Errorf("order = %q, %q", recurring[0].Room, recurring[1].Room)
	}
}

func TestChoreUpdateRecurrence(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChoreStore(db)

	c := mustCreateChore(t, cs, "Yard", "Mow lawn", 45, "")
	updated, err := cs.UpdateRecurrence(c.ID, "FREQ=DAYS;BYDAY=SA,SU")
	if err != nil {
		t.Fatalf("update recurrence: %v", err)
	}
	if updated.RecurrenceRule != "FREQ=DAYS;BYDAY=SA,SU" {
		t.Errorf("rule = %q", updated.RecurrenceRule)
	}
	if updated.Task != "Mow lawn" {
		t.Errorf("task changed: %q", updated.Task)
	}
}
