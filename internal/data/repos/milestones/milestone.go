package milestones

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

// MilestoneRepo owns milestone rows. Reads filter on active; nothing is ever
// hard-deleted so ids stay stable across remove/re-add cycles.
type MilestoneRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, row *domain.Milestone) (*domain.Milestone, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.Milestone) error

	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Milestone, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Milestone, error)
	GetByNamespaceAndName(ctx context.Context, tx *gorm.DB, namespace, name string) (*domain.Milestone, error)
	ListActiveByNamespace(ctx context.Context, tx *gorm.DB, namespace string) ([]*domain.Milestone, error)

	Reactivate(ctx context.Context, tx *gorm.DB, id int64) error
	Deactivate(ctx context.Context, tx *gorm.DB, id int64) error
}

type milestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return &milestoneRepo{db: db, log: baseLog.With("repo", "MilestoneRepo")}
}

// Insert creates the row, tolerating a concurrent first-creation: on a
// (namespace, name) conflict it re-fetches the winner and returns it.
func (r *milestoneRepo) Insert(ctx context.Context, tx *gorm.DB, row *domain.Milestone) (*domain.Milestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.GetByNamespaceAndName(ctx, tx, row.Namespace, row.Name)
	}
	return row, nil
}

func (r *milestoneRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.Milestone) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.Milestone{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"namespace":    row.Namespace,
			"name":         row.Name,
			"display_name": row.DisplayName,
			"description":  row.Description,
			"active":       row.Active,
		}).Error
}

func (r *milestoneRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Milestone, error) {
	return r.getOne(ctx, tx, "id = ?", id)
}

func (r *milestoneRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Milestone, error) {
	return r.getOne(ctx, tx, "id = ? AND active = ?", id, true)
}

// GetByNamespaceAndName looks the row up regardless of its active flag;
// reactivation decisions need to see soft-deleted rows too.
func (r *milestoneRepo) GetByNamespaceAndName(ctx context.Context, tx *gorm.DB, namespace, name string) (*domain.Milestone, error) {
	return r.getOne(ctx, tx, "namespace = ? AND name = ?", namespace, name)
}

func (r *milestoneRepo) ListActiveByNamespace(ctx context.Context, tx *gorm.DB, namespace string) ([]*domain.Milestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Milestone
	err := t.WithContext(ctx).
		Where("namespace = ? AND active = ?", namespace, true).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *milestoneRepo) Reactivate(ctx context.Context, tx *gorm.DB, id int64) error {
	return r.setActive(ctx, tx, id, true)
}

func (r *milestoneRepo) Deactivate(ctx context.Context, tx *gorm.DB, id int64) error {
	return r.setActive(ctx, tx, id, false)
}

func (r *milestoneRepo) getOne(ctx context.Context, tx *gorm.DB, query string, args ...interface{}) (*domain.Milestone, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row domain.Milestone
	err := t.WithContext(ctx).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *milestoneRepo) setActive(ctx context.Context, tx *gorm.DB, id int64, active bool) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.Milestone{}).
		Where("id = ?", id).
		Update("active", active).Error
}
