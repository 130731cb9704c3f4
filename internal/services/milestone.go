package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/events"
	milestonerepos "github.com/yungbote/milestones-backend/internal/data/repos/milestones"
	apperr "github.com/yungbote/milestones-backend/internal/pkg/errors"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
	"github.com/yungbote/milestones-backend/internal/pkg/validation"
)

// MilestoneService is the orchestration layer: it validates inputs, composes
// the entity repos into the milestone workflows, and hands plain views back
// to callers. Validators always run before any store access.
type MilestoneService interface {
	GetMilestoneRelationshipTypes() []domain.Relationship

	AddMilestone(ctx context.Context, m *domain.MilestoneInput, propagate bool) (*domain.MilestoneView, error)
	EditMilestone(ctx context.Context, m *domain.MilestoneInput) (*domain.MilestoneView, error)
	GetMilestone(ctx context.Context, id int64) (*domain.MilestoneView, error)
	GetMilestones(ctx context.Context, namespace string) ([]domain.MilestoneView, error)
	RemoveMilestone(ctx context.Context, id int64) error

	AddCourseMilestone(ctx context.Context, courseKey, relationship string, m *domain.MilestoneInput) error
	GetCourseMilestones(ctx context.Context, courseKey, relationship string) ([]domain.MilestoneCourseView, error)
	GetCoursesMilestones(ctx context.Context, courseKeys []string, relationship string, user *domain.UserRef) ([]domain.MilestoneCourseView, error)
	RemoveCourseMilestone(ctx context.Context, courseKey string, m *domain.MilestoneInput) error

	AddCourseContentMilestone(ctx context.Context, courseKey, contentKey, relationship string, m *domain.MilestoneInput, requirements interface{}) error
	GetCourseContentMilestones(ctx context.Context, courseKey, contentKey, relationship string, user *domain.UserRef) ([]domain.MilestoneContentView, error)
	RemoveCourseContentMilestone(ctx context.Context, courseKey, contentKey string, m *domain.MilestoneInput) error

	AddUserMilestone(ctx context.Context, user *domain.UserRef, m *domain.MilestoneInput, source string) error
	GetUserMilestones(ctx context.Context, user *domain.UserRef, namespace string) ([]domain.MilestoneView, error)
	UserHasMilestone(ctx context.Context, user *domain.UserRef, m *domain.MilestoneInput) (bool, error)
	RemoveUserMilestone(ctx context.Context, user *domain.UserRef, m *domain.MilestoneInput) error

	GetCourseRequiredMilestones(ctx context.Context, courseKey string, user *domain.UserRef) ([]domain.MilestoneCourseView, error)
	GetCourseMilestonesFulfillmentPaths(ctx context.Context, courseKey string, user *domain.UserRef) (map[string]domain.FulfillmentPath, error)

	AddPrerequisiteCourseToCourse(ctx context.Context, courseKey, prerequisiteCourseKey string, m *domain.MilestoneInput) error
	RemovePrerequisiteCourseFromCourse(ctx context.Context, courseKey, prerequisiteCourseKey string, m *domain.MilestoneInput) error

	RemoveCourseReferences(ctx context.Context, courseKey string) error
	RemoveContentReferences(ctx context.Context, contentKey string) error
}

type milestoneService struct {
	db  *gorm.DB
	log *logger.Logger
	bus events.Publisher

	milestoneRepo     milestonerepos.MilestoneRepo
	relationshipRepo  milestonerepos.RelationshipTypeRepo
	courseRepo        milestonerepos.CourseMilestoneRepo
	courseContentRepo milestonerepos.CourseContentMilestoneRepo
	userRepo          milestonerepos.UserMilestoneRepo
}

// NewMilestoneService wires the orchestration layer. bus may be nil when the
// host has no interest in outbound notifications.
func NewMilestoneService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bus events.Publisher,
	milestoneRepo milestonerepos.MilestoneRepo,
	relationshipRepo milestonerepos.RelationshipTypeRepo,
	courseRepo milestonerepos.CourseMilestoneRepo,
	courseContentRepo milestonerepos.CourseContentMilestoneRepo,
	userRepo milestonerepos.UserMilestoneRepo,
) MilestoneService {
	return &milestoneService{
		db:                db,
		log:               baseLog.With("service", "MilestoneService"),
		bus:               bus,
		milestoneRepo:     milestoneRepo,
		relationshipRepo:  relationshipRepo,
		courseRepo:        courseRepo,
		courseContentRepo: courseContentRepo,
		userRepo:          userRepo,
	}
}

func (s *milestoneService) GetMilestoneRelationshipTypes() []domain.Relationship {
	return domain.RelationshipTypes()
}

func (s *milestoneService) AddMilestone(ctx context.Context, m *domain.MilestoneInput, propagate bool) (*domain.MilestoneView, error) {
	if !validation.MilestoneCanBeCreated(m) {
		return nil, &apperr.InvalidMilestoneError{Milestone: m}
	}

	var out *domain.MilestoneView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.getOrCreateMilestone(ctx, tx, m, propagate)
		if err != nil {
			return err
		}
		v := milestoneToView(row)
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// getOrCreateMilestone implements the reactivation upsert: absent rows are
// inserted, inactive rows are reactivated (optionally restoring their
// relationship history), active rows are returned untouched.
func (s *milestoneService) getOrCreateMilestone(ctx context.Context, tx *gorm.DB, m *domain.MilestoneInput, propagate bool) (*domain.Milestone, error) {
	row, err := s.milestoneRepo.GetByNamespaceAndName(ctx, tx, m.Namespace, m.Name)
	if err != nil {
		return nil, fmt.Errorf("lookup milestone: %w", err)
	}
	if row == nil {
		row = &domain.Milestone{
			Namespace:   m.Namespace,
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Description: m.Description,
			Active:      true,
		}
		row, err = s.milestoneRepo.Insert(ctx, tx, row)
		if err != nil {
			return nil, fmt.Errorf("insert milestone: %w", err)
		}
		return row, nil
	}
	if row.Active {
		return row, nil
	}
	if err := s.milestoneRepo.Reactivate(ctx, tx, row.ID); err != nil {
		return nil, fmt.Errorf("reactivate milestone: %w", err)
	}
	row.Active = true
	if propagate {
		if err := s.courseRepo.ReactivateByMilestoneID(ctx, tx, row.ID); err != nil {
			return nil, fmt.Errorf("reactivate course links: %w", err)
		}
		if err := s.courseContentRepo.ReactivateByMilestoneID(ctx, tx, row.ID); err != nil {
			return nil, fmt.Errorf("reactivate content links: %w", err)
		}
		if err := s.userRepo.ReactivateByMilestoneID(ctx, tx, row.ID); err != nil {
			return nil, fmt.Errorf("reactivate user links: %w", err)
		}
	}
	return row, nil
}

func (s *milestoneService) EditMilestone(ctx context.Context, m *domain.MilestoneInput) (*domain.MilestoneView, error) {
	if m == nil || m.ID == 0 || !validation.MilestoneCanBeCreated(m) {
		return nil, &apperr.InvalidMilestoneError{Milestone: m}
	}

	var out *domain.MilestoneView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.milestoneRepo.GetByID(ctx, tx, m.ID)
		if err != nil {
			return fmt.Errorf("lookup milestone: %w", err)
		}
		if row == nil {
			return &apperr.InvalidMilestoneError{Milestone: m}
		}
		row.Namespace = m.Namespace
		row.Name = m.Name
		row.DisplayName = m.DisplayName
		row.Description = m.Description
		if err := s.milestoneRepo.Update(ctx, tx, row); err != nil {
			return fmt.Errorf("update milestone: %w", err)
		}
		v := milestoneToView(row)
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *milestoneService) GetMilestone(ctx context.Context, id int64) (*domain.MilestoneView, error) {
	row, err := s.milestoneRepo.GetActiveByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("fetch milestone: %w", err)
	}
	if row == nil {
		return nil, &apperr.InvalidMilestoneError{Milestone: id}
	}
	v := milestoneToView(row)
	return &v, nil
}

func (s *milestoneService) GetMilestones(ctx context.Context, namespace string) ([]domain.MilestoneView, error) {
	if namespace == "" {
		return nil, &apperr.InvalidMilestoneError{Milestone: namespace}
	}
	rows, err := s.milestoneRepo.ListActiveByNamespace(ctx, nil, namespace)
	if err != nil {
		return nil, fmt.Errorf("fetch milestones: %w", err)
	}
	out := make([]domain.MilestoneView, 0, len(rows))
	for _, row := range rows {
		out = append(out, milestoneToView(row))
	}
	return out, nil
}

// RemoveMilestone soft-deletes the milestone and all of its relationship
// rows. Dependents go first so a crash mid-cascade never leaves an active
// link pointing at an inactive milestone. Removing a missing milestone is a
// no-op.
func (s *milestoneService) RemoveMilestone(ctx context.Context, id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.milestoneRepo.GetActiveByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("lookup milestone: %w", err)
		}
		if row == nil {
			return nil
		}
		if err := s.courseRepo.DeactivateByMilestoneID(ctx, tx, row.ID); err != nil {
			return fmt.Errorf("deactivate course links: %w", err)
		}
		if err := s.courseContentRepo.DeactivateByMilestoneID(ctx, tx, row.ID); err != nil {
			return fmt.Errorf("deactivate content links: %w", err)
		}
		if err := s.userRepo.DeactivateByMilestoneID(ctx, tx, row.ID); err != nil {
			return fmt.Errorf("deactivate user links: %w", err)
		}
		if err := s.milestoneRepo.Deactivate(ctx, tx, row.ID); err != nil {
			return fmt.Errorf("deactivate milestone: %w", err)
		}
		return nil
	})
}

// resolveMilestone maps a caller-supplied payload onto an existing row,
// preferring the id and falling back to (namespace, name). Returns nil when
// nothing matches.
func (s *milestoneService) resolveMilestone(ctx context.Context, tx *gorm.DB, m *domain.MilestoneInput) (*domain.Milestone, error) {
	if m.ID != 0 {
		return s.milestoneRepo.GetByID(ctx, tx, m.ID)
	}
	if m.Namespace != "" && m.Name != "" {
		return s.milestoneRepo.GetByNamespaceAndName(ctx, tx, m.Namespace, m.Name)
	}
	return nil, nil
}

// resolveRelationship turns a relationship name into its seeded row id. An
// unknown name yields InvalidRelationshipTypeError; get-site callers decide
// whether to swallow it.
func (s *milestoneService) resolveRelationship(ctx context.Context, tx *gorm.DB, relationship string) (*int64, error) {
	if relationship == "" {
		return nil, nil
	}
	if !validation.RelationshipTypeIsValid(relationship) {
		return nil, &apperr.InvalidRelationshipTypeError{Name: relationship}
	}
	row, err := s.relationshipRepo.GetByName(ctx, tx, relationship)
	if err != nil {
		return nil, fmt.Errorf("resolve relationship type: %w", err)
	}
	if row == nil {
		return nil, &apperr.InvalidRelationshipTypeError{Name: relationship}
	}
	return &row.ID, nil
}

func (s *milestoneService) validateCourseKey(courseKey string) error {
	if !validation.CourseKeyIsValid(courseKey) {
		return &apperr.InvalidCourseKeyError{Key: courseKey}
	}
	return nil
}

func (s *milestoneService) validateContentKey(contentKey string) error {
	if !validation.ContentKeyIsValid(contentKey) {
		return &apperr.InvalidContentKeyError{Key: contentKey}
	}
	return nil
}

func (s *milestoneService) validateUser(user *domain.UserRef) error {
	if !validation.UserIsValid(user) {
		return &apperr.InvalidUserError{User: user}
	}
	return nil
}

func (s *milestoneService) validateMilestone(m *domain.MilestoneInput) error {
	if !validation.MilestoneIsValid(m) {
		return &apperr.InvalidMilestoneError{Milestone: m}
	}
	return nil
}

func milestoneToView(row *domain.Milestone) domain.MilestoneView {
	return domain.MilestoneView{
		ID:          row.ID,
		Namespace:   row.Namespace,
		Name:        row.Name,
		DisplayName: row.DisplayName,
		Description: row.Description,
		Active:      row.Active,
	}
}
