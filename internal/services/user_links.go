package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	milestonerepos "github.com/yungbote/milestones-backend/internal/data/repos/milestones"
	"github.com/yungbote/milestones-backend/internal/domain"
	apperr "github.com/yungbote/milestones-backend/internal/pkg/errors"
)

// AddUserMilestone records that the user collected the milestone. Collecting
// an already-collected milestone is a no-op; re-collecting a revoked one
// reactivates the original row.
func (s *milestoneService) AddUserMilestone(ctx context.Context, user *domain.UserRef, m *domain.MilestoneInput, source string) error {
	if err := s.validateUser(user); err != nil {
		return err
	}
	if err := s.validateMilestone(m); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		milestone, err := s.resolveMilestone(ctx, tx, m)
		if err != nil {
			return fmt.Errorf("resolve milestone: %w", err)
		}
		if milestone == nil {
			return &apperr.InvalidMilestoneError{Milestone: m}
		}

		link, err := s.userRepo.GetByUserAndMilestone(ctx, tx, user.ID, milestone.ID)
		if err != nil {
			return fmt.Errorf("lookup user milestone: %w", err)
		}
		if link == nil {
			now := time.Now().UTC()
			_, err := s.userRepo.Insert(ctx, tx, &domain.UserMilestone{
				UserID:      user.ID,
				MilestoneID: milestone.ID,
				Source:      source,
				Collected:   &now,
				Active:      true,
			})
			if err != nil {
				return fmt.Errorf("insert user milestone: %w", err)
			}
			return nil
		}
		if !link.Active {
			if err := s.userRepo.Reactivate(ctx, tx, link.ID); err != nil {
				return fmt.Errorf("reactivate user milestone: %w", err)
			}
		}
		return nil
	})
}

// GetUserMilestones lists the milestones the user has collected within a
// namespace. The namespace filter is mandatory, mirroring GetMilestones.
func (s *milestoneService) GetUserMilestones(ctx context.Context, user *domain.UserRef, namespace string) ([]domain.MilestoneView, error) {
	if err := s.validateUser(user); err != nil {
		return nil, err
	}
	if namespace == "" {
		return nil, &apperr.InvalidMilestoneError{Milestone: namespace}
	}
	rows, err := s.userRepo.ListMilestonesByUser(ctx, nil, user.ID, milestonerepos.UserMilestoneQuery{Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("fetch user milestones: %w", err)
	}
	return rows, nil
}

func (s *milestoneService) UserHasMilestone(ctx context.Context, user *domain.UserRef, m *domain.MilestoneInput) (bool, error) {
	if err := s.validateUser(user); err != nil {
		return false, err
	}
	if err := s.validateMilestone(m); err != nil {
		return false, err
	}

	milestone, err := s.resolveMilestone(ctx, nil, m)
	if err != nil {
		return false, fmt.Errorf("resolve milestone: %w", err)
	}
	if milestone == nil {
		return false, nil
	}
	rows, err := s.userRepo.ListMilestonesByUser(ctx, nil, user.ID, milestonerepos.UserMilestoneQuery{MilestoneID: milestone.ID})
	if err != nil {
		return false, fmt.Errorf("fetch user milestones: %w", err)
	}
	return len(rows) > 0, nil
}

func (s *milestoneService) RemoveUserMilestone(ctx context.Context, user *domain.UserRef, m *domain.MilestoneInput) error {
	if err := s.validateUser(user); err != nil {
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
	if err := s.userRepo.DeactivateByUserAndMilestone(ctx, nil, user.ID, milestone.ID); err != nil {
		return fmt.Errorf("deactivate user milestone: %w", err)
	}
	return nil
}
