// Package events is the bridge between the milestones core and the host's
// event system. The core has no opinion on transport: it publishes through
// Publisher and receives through the single-method handler interfaces below.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeCourseDeleted           = "course.deleted"
	TypePrerequisiteCourseAdded = "course.prerequisite_added"
	TypeCourseMilestoneAdded    = "course.milestone_added"
)

// CourseEvent is the envelope carried over the bus.
type CourseEvent struct {
	ID                    uuid.UUID `json:"id"`
	Type                  string    `json:"type"`
	CourseKey             string    `json:"course_key"`
	PrerequisiteCourseKey string    `json:"prerequisite_course_key,omitempty"`
	ContentKey            string    `json:"content_key,omitempty"`
	Relationship          string    `json:"relationship,omitempty"`
	MilestoneID           int64     `json:"milestone_id,omitempty"`
	OccurredAt            time.Time `json:"occurred_at"`
}

func NewCourseEvent(eventType, courseKey string) CourseEvent {
	return CourseEvent{
		ID:         uuid.New(),
		Type:       eventType,
		CourseKey:  courseKey,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher is the outbound half of the bus.
type Publisher interface {
	PublishCourseEvent(ctx context.Context, event CourseEvent) error
}

// Bus is a full transport: publish plus a blocking subscription loop that
// invokes onEvent for every decoded envelope until ctx is done.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context, onEvent func(CourseEvent)) error
	Close() error
}
