package testutil

import (
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/milestones-backend/internal/domain"
)

func SeedMilestone(tb testing.TB, tx *gorm.DB, namespace, name string) *domain.Milestone {
	tb.Helper()
	m := &domain.Milestone{
		Namespace:   namespace,
		Name:        name,
		DisplayName: name,
		Description: "seeded milestone",
		Active:      true,
	}
	if err := tx.Create(m).Error; err != nil {
		tb.Fatalf("seed milestone: %v", err)
	}
	return m
}

func RelationshipTypeID(tb testing.TB, tx *gorm.DB, name domain.Relationship) int64 {
	tb.Helper()
	var row domain.MilestoneRelationshipType
	if err := tx.Where("name = ?", name.String()).First(&row).Error; err != nil {
		tb.Fatalf("relationship type %q: %v", name, err)
	}
	return row.ID
}

func SeedCourseMilestone(tb testing.TB, tx *gorm.DB, courseID string, milestoneID int64, rel domain.Relationship) *domain.CourseMilestone {
	tb.Helper()
	cm := &domain.CourseMilestone{
		CourseID:           courseID,
		MilestoneID:        milestoneID,
		RelationshipTypeID: RelationshipTypeID(tb, tx, rel),
		Active:             true,
	}
	if err := tx.Create(cm).Error; err != nil {
		tb.Fatalf("seed course milestone: %v", err)
	}
	return cm
}

func SeedUserMilestone(tb testing.TB, tx *gorm.DB, userID, milestoneID int64) *domain.UserMilestone {
	tb.Helper()
	um := &domain.UserMilestone{
		UserID:      userID,
		MilestoneID: milestoneID,
		Source:      "test",
		Active:      true,
	}
	if err := tx.Create(um).Error; err != nil {
		tb.Fatalf("seed user milestone: %v", err)
	}
	return um
}
