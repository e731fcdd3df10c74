package store

import (
	"errors"
	"testing"

	"github.com/petravell/choreboard/internal/chore"
	"github.com/petravell/choreboard/internal/model"
)

func TestUpsertGeneratedIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPersonStore(db)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	p := mustCreatePerson(t, ps, "Maya", model.RoleChild)
	c := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "FREQ=DAILY")

	created, err := as.UpsertGenerated(c.ID, &p.ID, "2026-03-02", "2026-03-02")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Fatal("first upsert should create a row")
	}

	created, err = as.UpsertGenerated(c.ID, nil, "2026-03-02", "2026-03-02")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert should be a no-op")
	}

	// The original assignee survives the no-op.
	assignee, err := as.Assignee(c.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("assignee: %v", err)
	}
	if assignee == nil || *assignee != p.ID {
		t.Errorf("assignee = %v, want %d", assignee, p.ID)
	}
}

func TestUpsertReassigns(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPersonStore(db)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	maya := mustCreatePerson(t, ps, "Maya", model.RoleChild)
	leo := mustCreatePerson(t, ps, "Leo", model.RoleChild)
	c := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "")

	first, err := as.Upsert(c.ID, &maya.ID, "2026-03-02", "2026-03-02")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := as.Upsert(c.ID, &leo.ID, "2026-03-02", "2026-03-03")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("reassignment created a new row: %d != %d", second.ID, first.ID)
	}
	if second.PersonID == nil || *second.PersonID != leo.ID {
		t.Errorf("person = %v, want %d", second.PersonID, leo.ID)
	}
	if second.DueDate != "2026-03-03" {
		t.Errorf("due_date = %q, want 2026-03-03", second.DueDate)
	}
}

func TestUpsertLockedAfterCompletion(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPersonStore(db)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	maya := mustCreatePerson(t, ps, "Maya", model.RoleChild)
	leo := mustCreatePerson(t, ps, "Leo", model.RoleChild)
	c := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "")

	a, err := as.Upsert(c.ID, &maya.ID, "2026-03-02", "2026-03-02")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := as.CreateCompletion(a.ID, 12, "", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = as.Upsert(c.ID, &leo.ID, "2026-03-02", "2026-03-02")
	if !errors.Is(err, chore.ErrAssignmentLocked) {
		t.Errorf("err = %v, want ErrAssignmentLocked", err)
	}
}

func TestUpsertMissingChore(t *testing.T) {
	db := setupTestDB(t)
	as := NewAssignmentStore(db)

	_, err := as.Upsert(999, nil, "2026-03-02", "2026-03-02")
	if !errors.Is(err, chore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDuplicateCompletionRejected(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPersonStore(db)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	maya := mustCreatePerson(t, ps, "Maya", model.RoleChild)
	c := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "")
	a, err := as.Upsert(c.ID, &maya.ID, "2026-03-02", "2026-03-02")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := as.CreateCompletion(a.ID, 12, "done", ""); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	_, err = as.CreateCompletion(a.ID, 5, "again", "")
	if !errors.Is(err, chore.ErrAlreadyCompleted) {
		t.Errorf("err = %v, want ErrAlreadyCompleted", err)
	}
}

func TestCompletionMissingAssignment(t *testing.T) {
	db := setupTestDB(t)
	as := NewAssignmentStore(db)

	_, err := as.CreateCompletion(999, 10, "", "")
	if !errors.Is(err, chore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDuplicateReviewRejected(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPersonStore(db)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	maya := mustCreatePerson(t, ps, "Maya", model.RoleChild)
	adam := mustCreatePerson(t, ps, "Adam", model.RoleParent)
	c := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "")
	a, err := as.Upsert(c.ID, &maya.ID, "2026-03-02", "2026-03-02")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	comp, err := as.CreateCompletion(a.ID, 12, "", "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := as.CreateReview(comp.ID, adam.ID, true, "nice"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err = as.CreateReview(comp.ID, adam.ID, false, "changed my mind")
	if !errors.Is(err, chore.ErrAlreadyReviewed) {
		t.Errorf("err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestListForDateStatusAndOrder(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPersonStore(db)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	maya := mustCreatePerson(t, ps, "Maya", model.RoleChild)
	adam := mustCreatePerson(t, ps, "Adam", model.RoleParent)

	dishes := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "")
	tub := mustCreateChore(t, cs, "Bathroom", "Scrub tub", 25, "")
	lawn := mustCreateChore(t, cs, "Yard", "Mow lawn", 45, "")

	// Same due date for dishes and tub, later due date for lawn.
	aDishes, _ := as.Upsert(dishes.ID, &maya.ID, "2026-03-02", "2026-03-02")
	as.Upsert(tub.ID, nil, "2026-03-02", "2026-03-02")
	as.Upsert(lawn.ID, &maya.ID, "2026-03-02", "2026-03-05")

	comp, err := as.CreateCompletion(aDishes.ID, 12, "sparkling", "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := as.CreateReview(comp.ID, adam.ID, true, ""); err != nil {
		t.Fatalf("review: %v", err)
	}

	details, err := as.ListForDate("2026-03-02")
	if err != nil {
		t.Fatalf("list for date: %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("len = %d, want 3", len(details))
	}

	// Due date first, then room: tub, dishes, lawn.
	if details[0].Task != "Scrub tub" || details[1].Task != "Dishes" || details[2].Task != "Mow lawn" {
		t.Errorf("order = %q, %q, %q", details[0].Task, details[1].Task, details[2].Task)
	}

	if details[0].Status != model.StatusPending {
		t.Errorf("tub status = %q, want pending", details[0].Status)
	}
	if details[1].Status != model.StatusReviewed {
		t.Errorf("dishes status = %q, want reviewed", details[1].Status)
	}
	if details[1].Completion == nil || details[1].Completion.ActualMinutes != 12 {
		t.Errorf("dishes completion = %+v", details[1].Completion)
	}
	if details[1].Review == nil || !details[1].Review.Approved {
		t.Errorf("dishes review = %+v", details[1].Review)
	}
	if details[1].ReviewerName != "Adam" {
		t.Errorf("reviewer = %q, want Adam", details[1].ReviewerName)
	}
	if details[0].PersonName != "" {
		t.Errorf("unassigned tub has person name %q", details[0].PersonName)
	}
}

func TestPendingReviewWindow(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPersonStore(db)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	maya := mustCreatePerson(t, ps, "Maya", model.RoleChild)
	adam := mustCreatePerson(t, ps, "Adam", model.RoleParent)
	c := mustCreateChore(t, cs, "Kitchen", "Dishes", 15, "")

	// Three days of completions; the middle one gets reviewed.
	for _, date := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		a, err := as.Upsert(c.ID, &maya.ID, date, date)
		if err != nil {
			t.Fatalf("upsert %s: %v", date, err)
		}
		comp, err := as.CreateCompletion(a.ID, 10, "", "")
		if err != nil {
			t.Fatalf("complete %s: %v", date, err)
		}
		if date == "2026-03-02" {
			if _, err := as.CreateReview(comp.ID, adam.ID, true, ""); err != nil {
				t.Fatalf("review: %v", err)
			}
		}
	}

	pending, err := as.PendingReview("", "")
	if err != nil {
		t.Fatalf("pending review: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("len = %d, want 2", len(pending))
	}

	bounded, err := as.PendingReview("2026-03-03", "")
	if err != nil {
		t.Fatalf("bounded pending review: %v", err)
	}
	if len(bounded) != 1 {
		t.Fatalf("bounded len = %d, want 1", len(bounded))
	}
	if bounded[0].AssignedDate != "2026-03-03" {
		t.Errorf("assigned_date = %q, want 2026-03-03", bounded[0].AssignedDate)
	}
	if bounded[0].PersonName != "Maya" {
		t.Errorf("person = %q, want Maya", bounded[0].PersonName)
	}
}
