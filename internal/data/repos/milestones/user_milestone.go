package milestones

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

// UserMilestoneQuery narrows ListMilestonesByUser. At least one of
// MilestoneID/Namespace must be set; the service enforces that.
type UserMilestoneQuery struct {
	MilestoneID int64
	Namespace   string
}

// UserMilestoneRepo owns user↔milestone "collected" rows.
type UserMilestoneRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, row *domain.UserMilestone) (*domain.UserMilestone, error)
	GetByUserAndMilestone(ctx context.Context, tx *gorm.DB, userID, milestoneID int64) (*domain.UserMilestone, error)

	Reactivate(ctx context.Context, tx *gorm.DB, id int64) error
	DeactivateByUserAndMilestone(ctx context.Context, tx *gorm.DB, userID, milestoneID int64) error
	DeactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error
	ReactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error

	ListMilestonesByUser(ctx context.Context, tx *gorm.DB, userID int64, q UserMilestoneQuery) ([]domain.MilestoneView, error)
}

type userMilestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) UserMilestoneRepo {
	return &userMilestoneRepo{db: db, log: baseLog.With("repo", "UserMilestoneRepo")}
}

func (r *userMilestoneRepo) Insert(ctx context.Context, tx *gorm.DB, row *domain.UserMilestone) (*domain.UserMilestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.GetByUserAndMilestone(ctx, tx, row.UserID, row.MilestoneID)
	}
	return row, nil
}

func (r *userMilestoneRepo) GetByUserAndMilestone(ctx context.Context, tx *gorm.DB, userID, milestoneID int64) (*domain.UserMilestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row domain.UserMilestone
	err := t.WithContext(ctx).
		Where("user_id = ? AND milestone_id = ?", userID, milestoneID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userMilestoneRepo) Reactivate(ctx context.Context, tx *gorm.DB, id int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.UserMilestone{}).
		Where("id = ?", id).
		Update("active", true).Error
}

func (r *userMilestoneRepo) DeactivateByUserAndMilestone(ctx context.Context, tx *gorm.DB, userID, milestoneID int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.UserMilestone{}).
		Where("user_id = ? AND milestone_id = ? AND active = ?", userID, milestoneID, true).
		Update("active", false).Error
}

func (r *userMilestoneRepo) DeactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.UserMilestone{}).
		Where("milestone_id = ? AND active = ?", milestoneID, true).
		Update("active", false).Error
}

func (r *userMilestoneRepo) ReactivateByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.UserMilestone{}).
		Where("milestone_id = ? AND active = ?", milestoneID, false).
		Update("active", true).Error
}

func (r *userMilestoneRepo) ListMilestonesByUser(ctx context.Context, tx *gorm.DB, userID int64, query UserMilestoneQuery) ([]domain.MilestoneView, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []domain.MilestoneView{}
	q := t.WithContext(ctx).
		Table("user_milestone").
		Select("milestone.id, milestone.namespace, milestone.name, milestone.display_name, milestone.description, milestone.active").
		Joins("JOIN milestone ON milestone.id = user_milestone.milestone_id").
		Where("user_milestone.user_id = ?", userID).
		Where("user_milestone.active = ? AND milestone.active = ?", true, true)
	if query.MilestoneID != 0 {
		q = q.Where("milestone.id = ?", query.MilestoneID)
	}
	if query.Namespace != "" {
		q = q.Where("milestone.namespace = ?", query.Namespace)
	}
	if err := q.Order("milestone.id ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
