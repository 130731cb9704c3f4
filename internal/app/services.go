package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/milestones-backend/internal/events"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
	"github.com/yungbote/milestones-backend/internal/services"
)

type Services struct {
	Milestone services.MilestoneService
}

func wireServices(db *gorm.DB, log *logger.Logger, repos Repos, bus events.Publisher) Services {
	log.Info("Wiring services...")
	return Services{
		Milestone: services.NewMilestoneService(
			db,
			log,
			bus,
			repos.Milestone,
			repos.RelationshipType,
			repos.CourseMilestone,
			repos.ContentMilestone,
			repos.UserMilestone,
		),
	}
}
