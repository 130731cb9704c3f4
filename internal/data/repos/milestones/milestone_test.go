package milestones

import (
	"context"
	"testing"

	"github.com/yungbote/milestones-backend/internal/data/repos/testutil"
	"github.com/yungbote/milestones-backend/internal/domain"
)

func TestMilestoneRepoInsertAndGet(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	row, err := repo.Insert(ctx, tx, &domain.Milestone{
		Namespace:   "courseX",
		Name:        "entrance_exam",
		DisplayName: "Entrance Exam",
		Active:      true,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if row.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := repo.GetByID(ctx, tx, row.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: row=%v err=%v", got, err)
	}
	if got.Namespace != "courseX" || got.Name != "entrance_exam" {
		t.Fatalf("unexpected row: %+v", got)
	}

	missing, err := repo.GetByID(ctx, tx, row.ID+1000)
	if err != nil || missing != nil {
		t.Fatalf("expected nil,nil for missing row, got %v, %v", missing, err)
	}
}

func TestMilestoneRepoInsertConflictReturnsExisting(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	first, err := repo.Insert(ctx, tx, &domain.Milestone{Namespace: "courseX", Name: "exam", Active: true})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	second, err := repo.Insert(ctx, tx, &domain.Milestone{Namespace: "courseX", Name: "exam", Active: true})
	if err != nil {
		t.Fatalf("Insert duplicate: %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Fatalf("expected existing row back, got %+v", second)
	}
}

func TestMilestoneRepoActiveFiltering(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	m := testutil.SeedMilestone(t, tx, "courseX", "exam")
	if err := repo.Deactivate(ctx, tx, m.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	// GetActiveByID hides the row, GetByNamespaceAndName still sees it
	active, err := repo.GetActiveByID(ctx, tx, m.ID)
	if err != nil || active != nil {
		t.Fatalf("expected inactive row hidden, got %v, %v", active, err)
	}
	byName, err := repo.GetByNamespaceAndName(ctx, tx, "courseX", "exam")
	if err != nil || byName == nil || byName.Active {
		t.Fatalf("expected inactive row visible by name: %+v err=%v", byName, err)
	}

	if err := repo.Reactivate(ctx, tx, m.ID); err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	active, err = repo.GetActiveByID(ctx, tx, m.ID)
	if err != nil || active == nil {
		t.Fatalf("expected row active again: %v err=%v", active, err)
	}
}

func TestMilestoneRepoListActiveByNamespace(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	first := testutil.SeedMilestone(t, tx, "courseX", "exam")
	second := testutil.SeedMilestone(t, tx, "courseX", "orientation")
	testutil.SeedMilestone(t, tx, "courseY", "other")
	if err := repo.Deactivate(ctx, tx, second.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	rows, err := repo.ListActiveByNamespace(ctx, tx, "courseX")
	if err != nil {
		t.Fatalf("ListActiveByNamespace: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != first.ID {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestMilestoneRepoUpdate(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	m := testutil.SeedMilestone(t, tx, "courseX", "exam")
	m.DisplayName = "Final Exam"
	m.Description = "updated"
	if err := repo.Update(ctx, tx, m); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, m.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v, %v", got, err)
	}
	if got.DisplayName != "Final Exam" || got.Description != "updated" {
		t.Fatalf("update not persisted: %+v", got)
	}
}
