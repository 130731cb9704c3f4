package events

import (
	"context"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

// courseReferenceRemover is the slice of the orchestration layer the
// dispatcher needs; services.MilestoneService satisfies it.
type courseReferenceRemover interface {
	RemoveCourseReferences(ctx context.Context, courseKey string) error
	AddPrerequisiteCourseToCourse(ctx context.Context, courseKey, prerequisiteCourseKey string, m *domain.MilestoneInput) error
}

// Dispatcher routes inbound course events onto the orchestration layer.
// Unknown event types are ignored. Handler errors are logged, not retried.
type Dispatcher struct {
	log *logger.Logger
	svc courseReferenceRemover
}

func NewDispatcher(baseLog *logger.Logger, svc courseReferenceRemover) *Dispatcher {
	return &Dispatcher{log: baseLog.With("component", "EventDispatcher"), svc: svc}
}

func (d *Dispatcher) Handle(ctx context.Context, event CourseEvent) {
	switch event.Type {
	case TypeCourseDeleted:
		if err := d.svc.RemoveCourseReferences(ctx, event.CourseKey); err != nil {
			d.log.Error("failed to remove course references", "course_key", event.CourseKey, "error", err)
		}
	case TypePrerequisiteCourseAdded:
		if err := d.svc.AddPrerequisiteCourseToCourse(ctx, event.CourseKey, event.PrerequisiteCourseKey, nil); err != nil {
			d.log.Error("failed to link prerequisite course", "course_key", event.CourseKey, "prerequisite_course_key", event.PrerequisiteCourseKey, "error", err)
		}
	default:
		d.log.Debug("ignoring unhandled course event", "type", event.Type)
	}
}

// Run blocks on the bus subscription until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, bus Bus) error {
	return bus.Subscribe(ctx, func(event CourseEvent) {
		d.Handle(ctx, event)
	})
}
