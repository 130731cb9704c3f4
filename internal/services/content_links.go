package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	milestonerepos "github.com/yungbote/milestones-backend/internal/data/repos/milestones"
	"github.com/yungbote/milestones-backend/internal/domain"
	apperr "github.com/yungbote/milestones-backend/internal/pkg/errors"
	"github.com/yungbote/milestones-backend/internal/pkg/validation"
)

// AddCourseContentMilestone links a (course, content) pair to a milestone.
// Re-adding an active link with different requirements updates them in
// place; re-adding an inactive link reactivates it and refreshes the
// requirements.
func (s *milestoneService) AddCourseContentMilestone(ctx context.Context, courseKey, contentKey, relationship string, m *domain.MilestoneInput, requirements interface{}) error {
	if err := s.validateCourseKey(courseKey); err != nil {
		return err
	}
	if err := s.validateContentKey(contentKey); err != nil {
		return err
	}
	if err := s.validateMilestone(m); err != nil {
		return err
	}
	if !validation.RequirementsIsValid(requirements) {
		return &apperr.InvalidRequirementsError{Requirements: requirements}
	}

	var serialized datatypes.JSON
	if requirements != nil {
		raw, err := json.Marshal(requirements)
		if err != nil {
			return &apperr.InvalidRequirementsError{Requirements: requirements}
		}
		serialized = datatypes.JSON(raw)
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

		link, err := s.courseContentRepo.GetByCourseContentAndMilestone(ctx, tx, courseKey, contentKey, milestone.ID)
		if err != nil {
			return fmt.Errorf("lookup course content milestone: %w", err)
		}
		if link == nil {
			_, err := s.courseContentRepo.Insert(ctx, tx, &domain.CourseContentMilestone{
				CourseID:           courseKey,
				ContentID:          contentKey,
				MilestoneID:        milestone.ID,
				RelationshipTypeID: *relationshipTypeID,
				Requirements:       serialized,
				Active:             true,
			})
			if err != nil {
				return fmt.Errorf("insert course content milestone: %w", err)
			}
			return nil
		}
		if !link.Active {
			if err := s.courseContentRepo.ReactivateWithRequirements(ctx, tx, link.ID, serialized); err != nil {
				return fmt.Errorf("reactivate course content milestone: %w", err)
			}
			return nil
		}
		if !bytes.Equal(link.Requirements, serialized) {
			if err := s.courseContentRepo.UpdateRequirements(ctx, tx, link.ID, serialized); err != nil {
				return fmt.Errorf("update requirements: %w", err)
			}
		}
		return nil
	})
}

// GetCourseContentMilestones retrieves content-level milestone links. Every
// filter is optional and they combine independently; pass "" to skip a key
// filter. Unknown relationship names match nothing.
func (s *milestoneService) GetCourseContentMilestones(ctx context.Context, courseKey, contentKey, relationship string, user *domain.UserRef) ([]domain.MilestoneContentView, error) {
	if courseKey != "" {
		if err := s.validateCourseKey(courseKey); err != nil {
			return nil, err
		}
	}
	if contentKey != "" {
		if err := s.validateContentKey(contentKey); err != nil {
			return nil, err
		}
	}

	relationshipTypeID, err := s.resolveRelationship(ctx, nil, relationship)
	if err != nil {
		var relErr *apperr.InvalidRelationshipTypeError
		if errors.As(err, &relErr) {
			return []domain.MilestoneContentView{}, nil
		}
		return nil, err
	}

	var excludeUserID *int64
	if relationship == domain.RelationshipRequires.String() && user != nil && user.ID > 0 {
		excludeUserID = &user.ID
	}

	rows, err := s.courseContentRepo.List(ctx, nil, milestonerepos.ContentMilestoneQuery{
		CourseID:           courseKey,
		ContentID:          contentKey,
		RelationshipTypeID: relationshipTypeID,
		ExcludeUserID:      excludeUserID,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch course content milestones: %w", err)
	}
	return rows, nil
}

func (s *milestoneService) RemoveCourseContentMilestone(ctx context.Context, courseKey, contentKey string, m *domain.MilestoneInput) error {
	if err := s.validateCourseKey(courseKey); err != nil {
		return err
	}
	if err := s.validateContentKey(contentKey); err != nil {
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
	if err := s.courseContentRepo.DeactivateByCourseContentAndMilestone(ctx, nil, courseKey, contentKey, milestone.ID); err != nil {
		return fmt.Errorf("deactivate course content milestone: %w", err)
	}
	return nil
}
