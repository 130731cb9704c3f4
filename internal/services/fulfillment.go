package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/events"
	apperr "github.com/yungbote/milestones-backend/internal/pkg/errors"
	"github.com/yungbote/milestones-backend/internal/pkg/validation"
)

// prerequisiteMilestoneName is the fixed name for auto-generated
// course-completion milestones; their namespace is the fulfilling course's
// key, which keeps (namespace, name) unique per prerequisite course.
const prerequisiteMilestoneName = "course_completed"

// GetCourseRequiredMilestones returns the milestones the course requires
// that the user has not yet collected. The set difference happens in the
// store via an anti-join against the user's active collections.
func (s *milestoneService) GetCourseRequiredMilestones(ctx context.Context, courseKey string, user *domain.UserRef) ([]domain.MilestoneCourseView, error) {
	if err := s.validateCourseKey(courseKey); err != nil {
		return nil, err
	}
	if err := s.validateUser(user); err != nil {
		return nil, err
	}
	return s.GetCoursesMilestones(ctx, []string{courseKey}, domain.RelationshipRequires.String(), user)
}

// GetCourseMilestonesFulfillmentPaths computes, for every milestone the
// course still requires of the user, the courses and content units whose
// completion fulfills it. Entries carry no courses/content slice at all when
// nothing fulfills the milestone; once the user has collected everything the
// result is an empty map and no further queries run.
func (s *milestoneService) GetCourseMilestonesFulfillmentPaths(ctx context.Context, courseKey string, user *domain.UserRef) (map[string]domain.FulfillmentPath, error) {
	required, err := s.GetCourseRequiredMilestones(ctx, courseKey, user)
	if err != nil {
		return nil, err
	}

	paths := map[string]domain.FulfillmentPath{}
	if len(required) == 0 {
		return paths, nil
	}

	fulfillsID, err := s.resolveRelationship(ctx, nil, domain.RelationshipFulfills.String())
	if err != nil {
		return nil, err
	}

	for _, milestone := range required {
		path := domain.FulfillmentPath{}

		fulfillingCourses, err := s.courseRepo.ListCoursesByMilestone(ctx, nil, milestone.ID, fulfillsID)
		if err != nil {
			return nil, fmt.Errorf("fetch fulfilling courses: %w", err)
		}
		for _, row := range fulfillingCourses {
			path.Courses = append(path.Courses, row.CourseID)
		}

		fulfillingContent, err := s.courseContentRepo.ListContentByMilestone(ctx, nil, milestone.ID, fulfillsID)
		if err != nil {
			return nil, fmt.Errorf("fetch fulfilling content: %w", err)
		}
		for _, row := range fulfillingContent {
			path.Content = append(path.Content, row.ContentID)
		}

		paths[milestone.Milestone().Key()] = path
	}
	return paths, nil
}

// AddPrerequisiteCourseToCourse models "B is a prerequisite of A" as one
// milestone with two links: A requires it, B fulfills it. When no milestone
// payload is supplied one is auto-created in the prerequisite course's
// namespace.
func (s *milestoneService) AddPrerequisiteCourseToCourse(ctx context.Context, courseKey, prerequisiteCourseKey string, m *domain.MilestoneInput) error {
	if err := s.validateCourseKey(courseKey); err != nil {
		return err
	}
	if err := s.validateCourseKey(prerequisiteCourseKey); err != nil {
		return err
	}

	input := m
	if input == nil {
		input = &domain.MilestoneInput{
			Namespace:   prerequisiteCourseKey,
			Name:        prerequisiteMilestoneName,
			Description: fmt.Sprintf("Auto-generated Course Completion Milestone for %s", prerequisiteCourseKey),
		}
	} else {
		// this path may create a row, so the namespace must be present
		if !validation.MilestoneIsValid(input) || input.Namespace == "" {
			return &apperr.InvalidMilestoneError{Milestone: input}
		}
		if input.Name == "" {
			input.Name = prerequisiteMilestoneName
		}
	}

	var milestoneID int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.getOrCreateMilestone(ctx, tx, input, true)
		if err != nil {
			return err
		}
		milestoneID = row.ID
		return nil
	})
	if err != nil {
		return err
	}

	linked := &domain.MilestoneInput{ID: milestoneID}
	if err := s.AddCourseMilestone(ctx, courseKey, domain.RelationshipRequires.String(), linked); err != nil {
		return err
	}
	s.publishMilestoneAdded(ctx, courseKey, domain.RelationshipRequires, milestoneID)

	if err := s.AddCourseMilestone(ctx, prerequisiteCourseKey, domain.RelationshipFulfills.String(), linked); err != nil {
		return err
	}
	s.publishMilestoneAdded(ctx, prerequisiteCourseKey, domain.RelationshipFulfills, milestoneID)
	return nil
}

// RemovePrerequisiteCourseFromCourse unlinks the requiring course from the
// prerequisite milestone. The fulfilling link and the milestone stay; other
// courses may still depend on them. A missing milestone is a no-op.
func (s *milestoneService) RemovePrerequisiteCourseFromCourse(ctx context.Context, courseKey, prerequisiteCourseKey string, m *domain.MilestoneInput) error {
	if err := s.validateCourseKey(courseKey); err != nil {
		return err
	}
	if err := s.validateCourseKey(prerequisiteCourseKey); err != nil {
		return err
	}

	input := m
	if input == nil {
		input = &domain.MilestoneInput{
			Namespace: prerequisiteCourseKey,
			Name:      prerequisiteMilestoneName,
		}
	} else {
		if !validation.MilestoneIsValid(input) || input.Namespace == "" {
			return &apperr.InvalidMilestoneError{Milestone: input}
		}
		if input.Name == "" {
			input.Name = prerequisiteMilestoneName
		}
	}

	milestone, err := s.resolveMilestone(ctx, nil, input)
	if err != nil {
		return fmt.Errorf("resolve milestone: %w", err)
	}
	if milestone == nil {
		return nil
	}
	if err := s.courseRepo.DeactivateByCourseAndMilestone(ctx, nil, courseKey, milestone.ID); err != nil {
		return fmt.Errorf("deactivate prerequisite link: %w", err)
	}
	return nil
}

func (s *milestoneService) publishMilestoneAdded(ctx context.Context, courseKey string, relationship domain.Relationship, milestoneID int64) {
	if s.bus == nil {
		return
	}
	event := events.NewCourseEvent(events.TypeCourseMilestoneAdded, courseKey)
	event.Relationship = relationship.String()
	event.MilestoneID = milestoneID
	if err := s.bus.PublishCourseEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish course milestone event", "course_key", courseKey, "error", err)
	}
}
