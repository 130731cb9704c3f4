package app

import (
	"gorm.io/gorm"

	milestonerepos "github.com/yungbote/milestones-backend/internal/data/repos/milestones"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

type Repos struct {
	Milestone        milestonerepos.MilestoneRepo
	RelationshipType milestonerepos.RelationshipTypeRepo
	CourseMilestone  milestonerepos.CourseMilestoneRepo
	ContentMilestone milestonerepos.CourseContentMilestoneRepo
	UserMilestone    milestonerepos.UserMilestoneRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Milestone:        milestonerepos.NewMilestoneRepo(db, log),
		RelationshipType: milestonerepos.NewRelationshipTypeRepo(db, log),
		CourseMilestone:  milestonerepos.NewCourseMilestoneRepo(db, log),
		ContentMilestone: milestonerepos.NewCourseContentMilestoneRepo(db, log),
		UserMilestone:    milestonerepos.NewUserMilestoneRepo(db, log),
	}
}
