package milestones

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

const milestoneContentColumns = "milestone.id, milestone.namespace, milestone.name, milestone.display_name, milestone.description, " +
	"course_content_milestone.course_id, course_content_milestone.content_id, course_content_milestone.requirements"

// ContentMilestoneQuery narrows List; zero-valued fields are not applied.
// All filters combine independently.
type ContentMilestoneQuery struct {
	CourseID           string
	ContentID          string
	RelationshipTypeID *int64
	ExcludeUserID      *int64
}

// CourseContentMilestoneRepo owns (course, content)↔milestone link rows.
type CourseContentMilestoneRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, row *domain.CourseContentMilestone) (*domain.CourseContentMilestone, error)
	GetByCourseContentAndMilestone(ctx context.Context, tx *gorm.DB, courseID, contentID string, milestoneID int64) (*domain.CourseContentMilestone, error)

	// ReactivateWithRequirements flips the row active and refreshes its
	// stored requirements in the same update.
	ReactivateWithRequirements(ctx context.Context, tx *gorm.DB, id int64, requirements datatypes.JSON) error
	UpdateRequirements(ctx context.Context, tx *gorm.DB, id int64, requirements datatypes.JSON) error

	DeactivateByCourseContentAndMilestone(ctx context.Context, tx *gorm.DB, courseID, contentID string, milestoneID int64) error
	DeactivateByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	DeactivateByContent(ctx context.Context, tx *gorm.DB, contentID string) error
	DeactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error
	ReactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error

	List(ctx context.Context, tx *gorm.DB, q ContentMilestoneQuery) ([]domain.MilestoneContentView, error)
	ListContentByMilestone(ctx context.Context, tx *gorm.DB, milestoneID int64, relationshipTypeID *int64) ([]domain.MilestoneContentView, error)
}

type courseContentMilestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseContentMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) CourseContentMilestoneRepo {
	return &courseContentMilestoneRepo{db: db, log: baseLog.With("repo", "CourseContentMilestoneRepo")}
}

func (r *courseContentMilestoneRepo) Insert(ctx context.Context, tx *gorm.DB, row *domain.CourseContentMilestone) (*domain.CourseContentMilestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.GetByCourseContentAndMilestone(ctx, tx, row.CourseID, row.ContentID, row.MilestoneID)
	}
	return row, nil
}

func (r *courseContentMilestoneRepo) GetByCourseContentAndMilestone(ctx context.Context, tx *gorm.DB, courseID, contentID string, milestoneID int64) (*domain.CourseContentMilestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row domain.CourseContentMilestone
	err := t.WithContext(ctx).
		Where("course_id = ? AND content_id = ? AND milestone_id = ?", courseID, contentID, milestoneID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *courseContentMilestoneRepo) ReactivateWithRequirements(ctx context.Context, tx *gorm.DB, id int64, requirements datatypes.JSON) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseContentMilestone{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active": true, "requirements": requirements}).Error
}

func (r *courseContentMilestoneRepo) UpdateRequirements(ctx context.Context, tx *gorm.DB, id int64, requirements datatypes.JSON) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseContentMilestone{}).
		Where("id = ?", id).
		Update("requirements", requirements).Error
}

func (r *courseContentMilestoneRepo) DeactivateByCourseContentAndMilestone(ctx context.Context, tx *gorm.DB, courseID, contentID string, milestoneID int64) error {
	return r.deactivateWhere(ctx, tx, "course_id = ? AND content_id = ? AND milestone_id = ? AND active = ?", courseID, contentID, milestoneID, true)
}

func (r *courseContentMilestoneRepo) DeactivateByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	return r.deactivateWhere(ctx, tx, "course_id = ? AND active = ?", courseID, true)
}

func (r *courseContentMilestoneRepo) DeactivateByContent(ctx context.Context, tx *gorm.DB, contentID string) error {
	return r.deactivateWhere(ctx, tx, "content_id = ? AND active = ?", contentID, true)
}

func (r *courseContentMilestoneRepo) DeactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error {
	return r.deactivateWhere(ctx, tx, "milestone_id = ? AND active = ?", milestoneID, true)
}

func (r *courseContentMilestoneRepo) ReactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseContentMilestone{}).
		Where("milestone_id = ? AND active = ?", milestoneID, false).
		Update("active", true).Error
}

func (r *courseContentMilestoneRepo) List(ctx context.Context, tx *gorm.DB, query ContentMilestoneQuery) ([]domain.MilestoneContentView, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []domain.MilestoneContentView{}
	q := t.WithContext(ctx).
		Table("course_content_milestone").
		Select(milestoneContentColumns).
		Joins("JOIN milestone ON milestone.id = course_content_milestone.milestone_id").
		Where("course_content_milestone.active = ? AND milestone.active = ?", true, true)
	if query.CourseID != "" {
		q = q.Where("course_content_milestone.course_id = ?", query.CourseID)
	}
	if query.ContentID != "" {
		q = q.Where("course_content_milestone.content_id = ?", query.ContentID)
	}
	if query.RelationshipTypeID != nil {
		q = q.Where("course_content_milestone.relationship_type_id = ?", *query.RelationshipTypeID)
	}
	if query.ExcludeUserID != nil {
		collected := t.WithContext(ctx).
			Model(&domain.UserMilestone{}).
			Select("milestone_id").
			Where("user_id = ? AND active = ?", *query.ExcludeUserID, true)
		q = q.Where("course_content_milestone.milestone_id NOT IN (?)", collected)
	}
	if err := q.Order("milestone.id ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseContentMilestoneRepo) ListContentByMilestone(ctx context.Context, tx *gorm.DB, milestoneID int64, relationshipTypeID *int64) ([]domain.MilestoneContentView, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []domain.MilestoneContentView{}
	q := t.WithContext(ctx).
		Table("course_content_milestone").
		Select(milestoneContentColumns).
		Joins("JOIN milestone ON milestone.id = course_content_milestone.milestone_id").
		Where("course_content_milestone.milestone_id = ?", milestoneID).
		Where("course_content_milestone.active = ? AND milestone.active = ?", true, true)
	if relationshipTypeID != nil {
		q = q.Where("course_content_milestone.relationship_type_id = ?", *relationshipTypeID)
	}
	if err := q.Order("course_content_milestone.id ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseContentMilestoneRepo) deactivateWhere(ctx context.Context, tx *gorm.DB, cond string, args ...interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.CourseContentMilestone{}).
		Where(cond, args...).
		Update("active", false).Error
}
