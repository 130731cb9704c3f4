package milestones

import (
	"context"
	"testing"

	"github.com/yungbote/milestones-backend/internal/data/repos/testutil"
	"github.com/yungbote/milestones-backend/internal/domain"
)

func TestCourseMilestoneRepoListMilestonesByCourses(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	exam := testutil.SeedMilestone(t, tx, "courseX", "exam")
	orientation := testutil.SeedMilestone(t, tx, "courseX", "orientation")
	testutil.SeedCourseMilestone(t, tx, "courseX", exam.ID, domain.RelationshipRequires)
	testutil.SeedCourseMilestone(t, tx, "courseX", orientation.ID, domain.RelationshipFulfills)
	testutil.SeedCourseMilestone(t, tx, "courseY", exam.ID, domain.RelationshipRequires)

	rows, err := repo.ListMilestonesByCourses(ctx, tx, []string{"courseX"}, nil, nil)
	if err != nil {
		t.Fatalf("ListMilestonesByCourses: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	requiresID := testutil.RelationshipTypeID(t, tx, domain.RelationshipRequires)
	rows, err = repo.ListMilestonesByCourses(ctx, tx, []string{"courseX"}, &requiresID, nil)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != exam.ID || rows[0].CourseID != "courseX" {
		t.Fatalf("unexpected filtered rows: %+v", rows)
	}

	rows, err = repo.ListMilestonesByCourses(ctx, tx, []string{"courseX", "courseY"}, &requiresID, nil)
	if err != nil {
		t.Fatalf("multi-course list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected one row per course link, got %+v", rows)
	}

	rows, err = repo.ListMilestonesByCourses(ctx, tx, nil, nil, nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("empty course list should match nothing: err=%v rows=%+v", err, rows)
	}
}

func TestCourseMilestoneRepoExcludesCollectedMilestones(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	exam := testutil.SeedMilestone(t, tx, "courseX", "exam")
	orientation := testutil.SeedMilestone(t, tx, "courseX", "orientation")
	testutil.SeedCourseMilestone(t, tx, "courseX", exam.ID, domain.RelationshipRequires)
	testutil.SeedCourseMilestone(t, tx, "courseX", orientation.ID, domain.RelationshipRequires)

	userID := int64(21)
	um := testutil.SeedUserMilestone(t, tx, userID, exam.ID)

	rows, err := repo.ListMilestonesByCourses(ctx, tx, []string{"courseX"}, nil, &userID)
	if err != nil {
		t.Fatalf("ListMilestonesByCourses: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != orientation.ID {
		t.Fatalf("expected collected milestone excluded: %+v", rows)
	}

	// a revoked collection no longer excludes
	if err := tx.Model(um).Update("active", false).Error; err != nil {
		t.Fatalf("revoke: %v", err)
	}
	rows, err = repo.ListMilestonesByCourses(ctx, tx, []string{"courseX"}, nil, &userID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("expected both rows after revocation: err=%v len=%d", err, len(rows))
	}
}

func TestCourseMilestoneRepoHidesInactiveLinksAndMilestones(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseMilestoneRepo(tx, testutil.Logger(t))
	milestoneRepo := NewMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	exam := testutil.SeedMilestone(t, tx, "courseX", "exam")
	testutil.SeedCourseMilestone(t, tx, "courseX", exam.ID, domain.RelationshipRequires)

	if err := repo.DeactivateByCourseAndMilestone(ctx, tx, "courseX", exam.ID); err != nil {
		t.Fatalf("DeactivateByCourseAndMilestone: %v", err)
	}
	rows, err := repo.ListMilestonesByCourses(ctx, tx, []string{"courseX"}, nil, nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("inactive link should be hidden: err=%v rows=%+v", err, rows)
	}

	if err := repo.ReactivateByMilestoneID(ctx, tx, exam.ID); err != nil {
		t.Fatalf("ReactivateByMilestoneID: %v", err)
	}
	if err := milestoneRepo.Deactivate(ctx, tx, exam.ID); err != nil {
		t.Fatalf("deactivate milestone: %v", err)
	}
	rows, err = repo.ListMilestonesByCourses(ctx, tx, []string{"courseX"}, nil, nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("link to inactive milestone should be hidden: err=%v rows=%+v", err, rows)
	}
}

func TestCourseMilestoneRepoListCoursesByMilestone(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	exam := testutil.SeedMilestone(t, tx, "courseX", "exam")
	testutil.SeedCourseMilestone(t, tx, "courseX", exam.ID, domain.RelationshipRequires)
	testutil.SeedCourseMilestone(t, tx, "prepA", exam.ID, domain.RelationshipFulfills)
	testutil.SeedCourseMilestone(t, tx, "prepB", exam.ID, domain.RelationshipFulfills)

	fulfillsID := testutil.RelationshipTypeID(t, tx, domain.RelationshipFulfills)
	rows, err := repo.ListCoursesByMilestone(ctx, tx, exam.ID, &fulfillsID)
	if err != nil {
		t.Fatalf("ListCoursesByMilestone: %v", err)
	}
	if len(rows) != 2 || rows[0].CourseID != "prepA" || rows[1].CourseID != "prepB" {
		t.Fatalf("unexpected fulfilling courses: %+v", rows)
	}
}

func TestCourseMilestoneRepoInsertConflictReturnsExisting(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseMilestoneRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	exam := testutil.SeedMilestone(t, tx, "courseX", "exam")
	first := testutil.SeedCourseMilestone(t, tx, "courseX", exam.ID, domain.RelationshipRequires)

	dup, err := repo.Insert(ctx, tx, &domain.CourseMilestone{
		CourseID:           "courseX",
		MilestoneID:        exam.ID,
		RelationshipTypeID: first.RelationshipTypeID,
		Active:             true,
	})
	if err != nil {
		t.Fatalf("Insert duplicate: %v", err)
	}
	if dup == nil || dup.ID != first.ID {
		t.Fatalf("expected existing link back, got %+v", dup)
	}
}
