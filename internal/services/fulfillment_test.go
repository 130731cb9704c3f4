package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/milestones-backend/internal/domain"
	apperr "github.com/yungbote/milestones-backend/internal/pkg/errors"
)

func TestGetCourseRequiredMilestonesShrinksAsUserCollects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := &domain.UserRef{ID: 3}

	first, err := svc.AddMilestone(ctx, &domain.MilestoneInput{Namespace: "courseA", Name: "entrance_exam"}, true)
	if err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	second, err := svc.AddMilestone(ctx, &domain.MilestoneInput{Namespace: "courseA", Name: "orientation"}, true)
	if err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	for _, id := range []int64{first.ID, second.ID} {
		if err := svc.AddCourseMilestone(ctx, "courseA", "requires", &domain.MilestoneInput{ID: id}); err != nil {
			t.Fatalf("AddCourseMilestone: %v", err)
		}
	}

	required, err := svc.GetCourseRequiredMilestones(ctx, "courseA", user)
	if err != nil {
		t.Fatalf("GetCourseRequiredMilestones: %v", err)
	}
	if len(required) != 2 {
		t.Fatalf("expected 2 required milestones, got %d", len(required))
	}

	if err := svc.AddUserMilestone(ctx, user, &domain.MilestoneInput{ID: first.ID}, "test"); err != nil {
		t.Fatalf("AddUserMilestone: %v", err)
	}
	required, err = svc.GetCourseRequiredMilestones(ctx, "courseA", user)
	if err != nil {
		t.Fatalf("GetCourseRequiredMilestones: %v", err)
	}
	if len(required) != 1 || required[0].ID != second.ID {
		t.Fatalf("expected only the uncollected milestone, got %+v", required)
	}

	// collections by other users never affect this user's view
	other := &domain.UserRef{ID: 99}
	if err := svc.AddUserMilestone(ctx, other, &domain.MilestoneInput{ID: second.ID}, "test"); err != nil {
		t.Fatalf("AddUserMilestone other: %v", err)
	}
	required, err = svc.GetCourseRequiredMilestones(ctx, "courseA", user)
	if err != nil || len(required) != 1 {
		t.Fatalf("other user leaked into result: err=%v len=%d", err, len(required))
	}

	if err := svc.AddUserMilestone(ctx, user, &domain.MilestoneInput{ID: second.ID}, "test"); err != nil {
		t.Fatalf("AddUserMilestone: %v", err)
	}
	required, err = svc.GetCourseRequiredMilestones(ctx, "courseA", user)
	if err != nil || len(required) != 0 {
		t.Fatalf("expected empty required set: err=%v len=%d", err, len(required))
	}
}

func TestGetCourseMilestonesFulfillmentPaths(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := &domain.UserRef{ID: 5}

	exam, err := svc.AddMilestone(ctx, &domain.MilestoneInput{Namespace: "courseA", Name: "entrance_exam"}, true)
	if err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	orientation, err := svc.AddMilestone(ctx, &domain.MilestoneInput{Namespace: "courseA", Name: "orientation"}, true)
	if err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	for _, id := range []int64{exam.ID, orientation.ID} {
		if err := svc.AddCourseMilestone(ctx, "courseA", "requires", &domain.MilestoneInput{ID: id}); err != nil {
			t.Fatalf("AddCourseMilestone: %v", err)
		}
	}

	// the exam milestone is fulfilled by a prep course and one content unit;
	// orientation has no fulfillment path at all
	if err := svc.AddCourseMilestone(ctx, "prepCourse", "fulfills", &domain.MilestoneInput{ID: exam.ID}); err != nil {
		t.Fatalf("AddCourseMilestone fulfills: %v", err)
	}
	if err := svc.AddCourseContentMilestone(ctx, "courseA", "block-exam", "fulfills", &domain.MilestoneInput{ID: exam.ID}, nil); err != nil {
		t.Fatalf("AddCourseContentMilestone fulfills: %v", err)
	}

	paths, err := svc.GetCourseMilestonesFulfillmentPaths(ctx, "courseA", user)
	if err != nil {
		t.Fatalf("GetCourseMilestonesFulfillmentPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 path entries, got %d: %v", len(paths), paths)
	}

	examPath, ok := paths["courseA.entrance_exam"]
	if !ok {
		t.Fatalf("missing entry for courseA.entrance_exam: %v", paths)
	}
	if len(examPath.Courses) != 1 || examPath.Courses[0] != "prepCourse" {
		t.Fatalf("unexpected fulfilling courses: %v", examPath.Courses)
	}
	if len(examPath.Content) != 1 || examPath.Content[0] != "block-exam" {
		t.Fatalf("unexpected fulfilling content: %v", examPath.Content)
	}

	orientationPath, ok := paths["courseA.orientation"]
	if !ok {
		t.Fatalf("missing entry for courseA.orientation: %v", paths)
	}
	if orientationPath.Courses != nil || orientationPath.Content != nil {
		t.Fatalf("expected absent slices for unfulfillable milestone, got %+v", orientationPath)
	}

	// requires-links never show up as fulfillment routes
	for key, path := range paths {
		for _, course := range path.Courses {
			if course == "courseA" {
				t.Fatalf("requiring course listed as fulfilling for %s", key)
			}
		}
	}

	// once everything is collected the map is empty
	for _, id := range []int64{exam.ID, orientation.ID} {
		if err := svc.AddUserMilestone(ctx, user, &domain.MilestoneInput{ID: id}, "test"); err != nil {
			t.Fatalf("AddUserMilestone: %v", err)
		}
	}
	paths, err = svc.GetCourseMilestonesFulfillmentPaths(ctx, "courseA", user)
	if err != nil {
		t.Fatalf("GetCourseMilestonesFulfillmentPaths: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected empty map, got %v", paths)
	}
}

func TestAddPrerequisiteCourseToCourse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := &domain.UserRef{ID: 8}

	if err := svc.AddPrerequisiteCourseToCourse(ctx, "courseA", "courseB", nil); err != nil {
		t.Fatalf("AddPrerequisiteCourseToCourse: %v", err)
	}

	// the auto-created milestone lives in the prerequisite course's namespace
	rows, err := svc.GetMilestones(ctx, "courseB")
	if err != nil {
		t.Fatalf("GetMilestones: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "course_completed" {
		t.Fatalf("unexpected auto milestone: %+v", rows)
	}

	required, err := svc.GetCourseRequiredMilestones(ctx, "courseA", user)
	if err != nil || len(required) != 1 {
		t.Fatalf("required: err=%v len=%d", err, len(required))
	}
	paths, err := svc.GetCourseMilestonesFulfillmentPaths(ctx, "courseA", user)
	if err != nil {
		t.Fatalf("paths: %v", err)
	}
	path, ok := paths["courseB.course_completed"]
	if !ok {
		t.Fatalf("missing path entry: %v", paths)
	}
	if len(path.Courses) != 1 || path.Courses[0] != "courseB" {
		t.Fatalf("prerequisite course should fulfill its own milestone, got %v", path.Courses)
	}

	// completing the prerequisite clears the requirement
	if err := svc.AddUserMilestone(ctx, user, &domain.MilestoneInput{ID: required[0].ID}, "completed courseB"); err != nil {
		t.Fatalf("AddUserMilestone: %v", err)
	}
	required, err = svc.GetCourseRequiredMilestones(ctx, "courseA", user)
	if err != nil || len(required) != 0 {
		t.Fatalf("expected no requirements left: err=%v len=%d", err, len(required))
	}

	// adding the same prerequisite twice stays idempotent
	if err := svc.AddPrerequisiteCourseToCourse(ctx, "courseA", "courseB", nil); err != nil {
		t.Fatalf("AddPrerequisiteCourseToCourse again: %v", err)
	}
	rows, err = svc.GetMilestones(ctx, "courseB")
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected single auto milestone: err=%v len=%d", err, len(rows))
	}
}

func TestPrerequisiteCourseRejectsNamespacelessMilestone(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	cases := []*domain.MilestoneInput{
		{Name: "foo"},
		{ID: 5},
	}
	for _, m := range cases {
		err := svc.AddPrerequisiteCourseToCourse(ctx, "courseA", "courseB", m)
		var invalid *apperr.InvalidMilestoneError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidMilestoneError for %+v, got %v", m, err)
		}
		err = svc.RemovePrerequisiteCourseFromCourse(ctx, "courseA", "courseB", m)
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidMilestoneError on remove for %+v, got %v", m, err)
		}
	}

	// nothing reached the store, and in particular no namespaceless row
	var count int64
	if err := tx.Model(&domain.Milestone{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no milestone rows, got %d", count)
	}
}

func TestRemovePrerequisiteCourseFromCourse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := &domain.UserRef{ID: 4}

	if err := svc.AddPrerequisiteCourseToCourse(ctx, "courseA", "courseB", nil); err != nil {
		t.Fatalf("AddPrerequisiteCourseToCourse: %v", err)
	}
	if err := svc.RemovePrerequisiteCourseFromCourse(ctx, "courseA", "courseB", nil); err != nil {
		t.Fatalf("RemovePrerequisiteCourseFromCourse: %v", err)
	}

	required, err := svc.GetCourseRequiredMilestones(ctx, "courseA", user)
	if err != nil || len(required) != 0 {
		t.Fatalf("expected requirement gone: err=%v len=%d", err, len(required))
	}

	// the milestone and the fulfilling link survive for other dependents
	rows, err := svc.GetMilestones(ctx, "courseB")
	if err != nil || len(rows) != 1 {
		t.Fatalf("auto milestone should survive: err=%v len=%d", err, len(rows))
	}
	fulfilling, err := svc.GetCourseMilestones(ctx, "courseB", "fulfills")
	if err != nil || len(fulfilling) != 1 {
		t.Fatalf("fulfilling link should survive: err=%v len=%d", err, len(fulfilling))
	}

	// removing again, or removing one that never existed, is a no-op
	if err := svc.RemovePrerequisiteCourseFromCourse(ctx, "courseA", "courseB", nil); err != nil {
		t.Fatalf("second removal: %v", err)
	}
	if err := svc.RemovePrerequisiteCourseFromCourse(ctx, "courseA", "courseC", nil); err != nil {
		t.Fatalf("removal of absent prerequisite: %v", err)
	}
}

func TestGetCourseRequiredMilestonesValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetCourseRequiredMilestones(ctx, "bad key", &domain.UserRef{ID: 1})
	var invalidKey *apperr.InvalidCourseKeyError
	if !errors.As(err, &invalidKey) {
		t.Fatalf("expected InvalidCourseKeyError, got %v", err)
	}

	_, err = svc.GetCourseRequiredMilestones(ctx, "courseA", nil)
	var invalidUser *apperr.InvalidUserError
	if !errors.As(err, &invalidUser) {
		t.Fatalf("expected InvalidUserError, got %v", err)
	}
}
