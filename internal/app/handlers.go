package app

import (
	"github.com/yungbote/milestones-backend/internal/handlers"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

type Handlers struct {
	Milestone *handlers.MilestoneHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Milestone: handlers.NewMilestoneHandler(log, services.Milestone),
	}
}
