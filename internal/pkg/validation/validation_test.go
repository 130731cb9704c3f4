package validation

import (
	"testing"

	"github.com/yungbote/milestones-backend/internal/domain"
)

func TestCourseKeyIsValid(t *testing.T) {
	for _, good := range []string{"course-v1:edX+DemoX+Demo_Course", "the/course/key", "courseA"} {
		if !CourseKeyIsValid(good) {
			t.Fatalf("expected %q valid", good)
		}
	}
	for _, bad := range []string{"", "has space"} {
		if CourseKeyIsValid(bad) {
			t.Fatalf("expected %q invalid", bad)
		}
	}
}

func TestContentKeyIsValid(t *testing.T) {
	if !ContentKeyIsValid("i4x://the/content/key/123456789") {
		t.Fatal("i4x key should be valid")
	}
	if !ContentKeyIsValid("block-42") {
		t.Fatal("opaque content key should be valid")
	}
	if ContentKeyIsValid("") {
		t.Fatal("empty content key should be invalid")
	}
}

func TestMilestoneIsValid(t *testing.T) {
	if MilestoneIsValid(nil) {
		t.Fatal("nil milestone should be invalid")
	}
	if MilestoneIsValid(&domain.MilestoneInput{}) {
		t.Fatal("empty milestone should be invalid")
	}
	if !MilestoneIsValid(&domain.MilestoneInput{ID: 7}) {
		t.Fatal("id-only milestone should be valid for lookups")
	}
	if !MilestoneIsValid(&domain.MilestoneInput{Namespace: "courseA"}) {
		t.Fatal("namespace-only milestone should be valid for lookups")
	}
}

func TestMilestoneCanBeCreated(t *testing.T) {
	if MilestoneCanBeCreated(nil) {
		t.Fatal("nil milestone cannot be created")
	}
	if MilestoneCanBeCreated(&domain.MilestoneInput{Name: "x", Namespace: ""}) {
		t.Fatal("empty namespace cannot be created")
	}
	if MilestoneCanBeCreated(&domain.MilestoneInput{Namespace: "x"}) {
		t.Fatal("missing name cannot be created")
	}
	if !MilestoneCanBeCreated(&domain.MilestoneInput{Namespace: "courseA", Name: "entrance_exam"}) {
		t.Fatal("complete payload should be creatable")
	}
}

func TestRelationshipTypeIsValid(t *testing.T) {
	if !RelationshipTypeIsValid("requires") || !RelationshipTypeIsValid("fulfills") {
		t.Fatal("fixed relationship names should be valid")
	}
	for _, bad := range []string{"", "Requires", "whatever"} {
		if RelationshipTypeIsValid(bad) {
			t.Fatalf("expected %q invalid", bad)
		}
	}
}

func TestUserIsValid(t *testing.T) {
	if UserIsValid(nil) || UserIsValid(&domain.UserRef{ID: 0}) || UserIsValid(&domain.UserRef{ID: -3}) {
		t.Fatal("nil or non-positive user ids should be invalid")
	}
	if !UserIsValid(&domain.UserRef{ID: 42}) {
		t.Fatal("positive user id should be valid")
	}
}

func TestRequirementsIsValid(t *testing.T) {
	if !RequirementsIsValid(nil) {
		t.Fatal("nil requirements should be valid")
	}
	if !RequirementsIsValid(map[string]interface{}{"min_score": 80}) {
		t.Fatal("plain map should be valid")
	}
	if RequirementsIsValid(make(chan int)) {
		t.Fatal("non-serializable payload should be invalid")
	}
}
