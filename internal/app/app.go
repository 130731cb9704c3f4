package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/milestones-backend/internal/clients/redis"
	"github.com/yungbote/milestones-backend/internal/data/db"
	"github.com/yungbote/milestones-backend/internal/events"
	"github.com/yungbote/milestones-backend/internal/observability"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

const serviceName = "milestones-backend"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	Bus        events.Bus
	Dispatcher *events.Dispatcher

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	store, err := db.NewService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()

	// The bus is optional. Without it the core still works; it just neither
	// publishes nor reacts to host course events.
	var bus events.Bus
	if cfg.EventsEnabled {
		bus, err = redisclient.NewCourseBus(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init course event bus: %w", err)
		}
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet, publisherOrNil(bus))
	handlerset := wireHandlers(log, serviceset)
	router := wireRouter(serviceName, handlerset)

	var dispatcher *events.Dispatcher
	if bus != nil {
		dispatcher = events.NewDispatcher(log, serviceset.Milestone)
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Bus:          bus,
		Dispatcher:   dispatcher,
		otelShutdown: otelShutdown,
	}, nil
}

func publisherOrNil(bus events.Bus) events.Publisher {
	if bus == nil {
		return nil
	}
	return bus
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("failed to close event bus", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("failed to shut down tracing", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
