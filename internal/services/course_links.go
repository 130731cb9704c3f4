package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/milestones-backend/internal/domain"
	apperr "github.com/yungbote/milestones-backend/internal/pkg/errors"
)

func (s *milestoneService) AddCourseMilestone(ctx context.Context, courseKey, relationship string, m *domain.MilestoneInput) error {
	if err := s.validateCourseKey(courseKey); err != nil {
		return err
	}
	if err := s.validateMilestone(m); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		relationshipTypeID, err := s.resolveRelationship(ctx, tx, relationship)
		if err != nil {
			return err
		}
		if relationshipTypeID == nil {
			return &apperr.InvalidRelationshipTypeError{Name: relationship}
		}
		milestone, err := s.resolveMilestone(ctx, tx, m)
		if err != nil {
			return fmt.Errorf("resolve milestone: %w", err)
		}
		if milestone == nil {
			return &apperr.InvalidMilestoneError{Milestone: m}
		}

		link, err := s.courseRepo.GetByCourseAndMilestone(ctx, tx, courseKey, milestone.ID)
		if err != nil {
			return fmt.Errorf("lookup course milestone: %w", err)
		}
		if link == nil {
			_, err := s.courseRepo.Insert(ctx, tx, &domain.CourseMilestone{
				CourseID:           courseKey,
				MilestoneID:        milestone.ID,
				RelationshipTypeID: *relationshipTypeID,
				Active:             true,
			})
			if err != nil {
				return fmt.Errorf("insert course milestone: %w", err)
			}
			return nil
		}
		if !link.Active {
			if err := s.courseRepo.Reactivate(ctx, tx, link.ID); err != nil {
				return fmt.Errorf("reactivate course milestone: %w", err)
			}
		}
		return nil
	})
}

func (s *milestoneService) GetCourseMilestones(ctx context.Context, courseKey, relationship string) ([]domain.MilestoneCourseView, error) {
	return s.GetCoursesMilestones(ctx, []string{courseKey}, relationship, nil)
}

// GetCoursesMilestones returns the milestones linked to any of the given
// courses. An unknown relationship name simply matches nothing here; at this
// call site it is a filter, not a caller bug.
func (s *milestoneService) GetCoursesMilestones(ctx context.Context, courseKeys []string, relationship string, user *domain.UserRef) ([]domain.MilestoneCourseView, error) {
	for _, courseKey := range courseKeys {
		if err := s.validateCourseKey(courseKey); err != nil {
			return nil, err
		}
	}

	relationshipTypeID, err := s.resolveRelationship(ctx, nil, relationship)
	if err != nil {
		var relErr *apperr.InvalidRelationshipTypeError
		if errors.As(err, &relErr) {
			return []domain.MilestoneCourseView{}, nil
		}
		return nil, err
	}

	var excludeUserID *int64
	if relationship == domain.RelationshipRequires.String() && user != nil && user.ID > 0 {
		excludeUserID = &user.ID
	}

	rows, err := s.courseRepo.ListMilestonesByCourses(ctx, nil, courseKeys, relationshipTypeID, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("fetch courses milestones: %w", err)
	}
	return rows, nil
}

// RemoveCourseMilestone soft-deletes the link. Removing a link that does not
// exist (or was already removed) is a successful no-op.
func (s *milestoneService) RemoveCourseMilestone(ctx context.Context, courseKey string, m *domain.MilestoneInput) error {
	if err := s.validateCourseKey(courseKey); err != nil {
		return err
	}
	if err := s.validateMilestone(m); err != nil {
		return err
	}

	milestone, err := s.resolveMilestone(ctx, nil, m)
	if err != nil {
		return fmt.Errorf("resolve milestone: %w", err)
	}
	if milestone == nil {
		return nil
	}
	if err := s.courseRepo.DeactivateByCourseAndMilestone(ctx, nil, courseKey, milestone.ID); err != nil {
		return fmt.Errorf("deactivate course milestone: %w", err)
	}
	return nil
}

// RemoveCourseReferences deactivates every relationship row pointing at the
// course. The milestones themselves survive; other courses may still fulfill
// or require them.
func (s *milestoneService) RemoveCourseReferences(ctx context.Context, courseKey string) error {
	if err := s.validateCourseKey(courseKey); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.courseRepo.DeactivateByCourse(ctx, tx, courseKey); err != nil {
			return fmt.Errorf("deactivate course links: %w", err)
		}
		if err := s.courseContentRepo.DeactivateByCourse(ctx, tx, courseKey); err != nil {
			return fmt.Errorf("deactivate course content links: %w", err)
		}
		return nil
	})
}

func (s *milestoneService) RemoveContentReferences(ctx context.Context, contentKey string) error {
	if err := s.validateContentKey(contentKey); err != nil {
		return err
	}
	if err := s.courseContentRepo.DeactivateByContent(ctx, nil, contentKey); err != nil {
		return fmt.Errorf("deactivate content links: %w", err)
	}
	return nil
}
