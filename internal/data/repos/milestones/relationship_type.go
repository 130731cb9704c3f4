package milestones

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

// RelationshipTypeRepo resolves the fixed relationship names to their seeded
// rows. Rows are seeded at migration time; this repo never creates them.
type RelationshipTypeRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*domain.MilestoneRelationshipType, error)
}

type relationshipTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationshipTypeRepo(db *gorm.DB, baseLog *logger.Logger) RelationshipTypeRepo {
	return &relationshipTypeRepo{db: db, log: baseLog.With("repo", "RelationshipTypeRepo")}
}

func (r *relationshipTypeRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*domain.MilestoneRelationshipType, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row domain.MilestoneRelationshipType
	err := t.WithContext(ctx).
		Where("name = ? AND active = ?", name, true).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
