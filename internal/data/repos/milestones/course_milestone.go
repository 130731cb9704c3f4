package milestones

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

const milestoneCourseColumns = "milestone.id, milestone.namespace, milestone.name, milestone.display_name, milestone.description, course_milestone.course_id"

// CourseMilestoneRepo owns course↔milestone link rows.
type CourseMilestoneRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, row *domain.CourseMilestone) (*domain.CourseMilestone, error)
	GetByCourseAndMilestone(ctx context.Context, tx *gorm.DB, courseID string, milestoneID int64) (*domain.CourseMilestone, error)

	Reactivate(ctx context.Context, tx *gorm.DB, id int64) error
	DeactivateByCourseAndMilestone(ctx context.Context, tx *gorm.DB, courseID string, milestoneID int64) error
	DeactivateByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	DeactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error
	ReactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error

	// ListMilestonesByCourses returns the milestones linked to any of the
	// given courses. When excludeUserID is set, milestones that user has
	// actively collected are anti-joined away; combined with the "requires"
	// relationship filter this yields "what does this user still need".
	ListMilestonesByCourses(ctx context.Context, tx *gorm.DB, courseIDs []string, relationshipTypeID *int64, excludeUserID *int64) ([]domain.MilestoneCourseView, error)
	ListCoursesByMilestone(ctx context.Context, tx *gorm.DB, milestoneID int64, relationshipTypeID *int64) ([]domain.MilestoneCourseView, error)
}

type courseMilestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) CourseMilestoneRepo {
	return &courseMilestoneRepo{db: db, log: baseLog.With("repo", "CourseMilestoneRepo")}
}

func (r *courseMilestoneRepo) Insert(ctx context.Context, tx *gorm.DB, row *domain.CourseMilestone) (*domain.CourseMilestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.GetByCourseAndMilestone(ctx, tx, row.CourseID, row.MilestoneID)
	}
	return row, nil
}

func (r *courseMilestoneRepo) GetByCourseAndMilestone(ctx context.Context, tx *gorm.DB, courseID string, milestoneID int64) (*domain.CourseMilestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row domain.CourseMilestone
	err := t.WithContext(ctx).
		Where("course_id = ? AND milestone_id = ?", courseID, milestoneID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *courseMilestoneRepo) Reactivate(ctx context.Context, tx *gorm.DB, id int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseMilestone{}).
		Where("id = ?", id).
		Update("active", true).Error
}

// DeactivateByCourseAndMilestone soft-deletes the active link if one exists.
// Removing something already gone is a no-op, not an error.
func (r *courseMilestoneRepo) DeactivateByCourseAndMilestone(ctx context.Context, tx *gorm.DB, courseID string, milestoneID int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseMilestone{}).
		Where("course_id = ? AND milestone_id = ? AND active = ?", courseID, milestoneID, true).
		Update("active", false).Error
}

func (r *courseMilestoneRepo) DeactivateByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseMilestone{}).
		Where("course_id = ? AND active = ?", courseID, true).
		Update("active", false).Error
}

func (r *courseMilestoneRepo) DeactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseMilestone{}).
		Where("milestone_id = ? AND active = ?", milestoneID, true).
		Update("active", false).Error
}

func (r *courseMilestoneRepo) ReactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseMilestone{}).
		Where("milestone_id = ? AND active = ?", milestoneID, false).
		Update("active", true).Error
}

func (r *courseMilestoneRepo) ListMilestonesByCourses(ctx context.Context, tx *gorm.DB, courseIDs []string, relationshipTypeID *int64, excludeUserID *int64) ([]domain.MilestoneCourseView, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []domain.MilestoneCourseView{}
	if len(courseIDs) == 0 {
		return out, nil
	}
	q := t.WithContext(ctx).
		Table("course_milestone").
		Select(milestoneCourseColumns).
		Joins("JOIN milestone ON milestone.id = course_milestone.milestone_id").
		Where("course_milestone.course_id IN ?", courseIDs).
		Where("course_milestone.active = ? AND milestone.active = ?", true, true)
	if relationshipTypeID != nil {
		q = q.Where("course_milestone.relationship_type_id = ?", *relationshipTypeID)
	}
	if excludeUserID != nil {
		collected := t.WithContext(ctx).
			Model(&domain.UserMilestone{}).
			Select("milestone_id").
			Where("user_id = ? AND active = ?", *excludeUserID, true)
		q = q.Where("course_milestone.milestone_id NOT IN (?)", collected)
	}
	if err := q.Order("milestone.id ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseMilestoneRepo) ListCoursesByMilestone(ctx context.Context, tx *gorm.DB, milestoneID int64, relationshipTypeID *int64) ([]domain.MilestoneCourseView, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []domain.MilestoneCourseView{}
	q := t.WithContext(ctx).
		Table("course_milestone").
		Select(milestoneCourseColumns).
		Joins("JOIN milestone ON milestone.id = course_milestone.milestone_id").
		Where("course_milestone.milestone_id = ?", milestoneID).
		Where("course_milestone.active = ? AND milestone.active = ?", true, true)
	if relationshipTypeID != nil {
		q = q.Where("course_milestone.relationship_type_id = ?", *relationshipTypeID)
	}
	if err := q.Order("course_milestone.id ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
