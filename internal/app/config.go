package app

import (
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
	"github.com/yungbote/milestones-backend/internal/utils"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	EventsEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:          utils.GetEnv("PORT", "8080", log),
		Environment:   utils.GetEnv("ENVIRONMENT", "development", log),
		Version:       utils.GetEnv("SERVICE_VERSION", "dev", log),
		EventsEnabled: utils.GetEnvAsBool("EVENTS_ENABLED", false, log),
	}
}
