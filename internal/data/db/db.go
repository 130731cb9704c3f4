package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
	"github.com/yungbote/milestones-backend/internal/utils"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewService opens the backing store selected by DB_DRIVER ("postgres",
// the default, or "sqlite" for local development).
func NewService(logg *logger.Logger) (*Service, error) {
	driver := utils.GetEnv("DB_DRIVER", "postgres", logg)
	switch driver {
	case "sqlite":
		return NewSqliteService(logg)
	case "postgres":
		return NewPostgresService(logg)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}

func NewPostgresService(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", logg)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", logg)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", logg)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", logg)
	postgresName := utils.GetEnv("POSTGRES_NAME", "milestones", logg)

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser,
		postgresPassword,
		postgresHost,
		postgresPort,
		postgresName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Service{db: db, log: serviceLog}, nil
}

func NewSqliteService(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "SqliteService")

	path := utils.GetEnv("SQLITE_PATH", "milestones.db", logg)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return &Service{db: db, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

// AutoMigrateAll creates/updates the four entity tables plus the
// relationship-type table, then seeds the fixed relationship rows.
func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrate(s.db); err != nil {
		return err
	}
	return SeedRelationshipTypes(s.db)
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Milestone{},
		&domain.MilestoneRelationshipType{},
		&domain.CourseMilestone{},
		&domain.CourseContentMilestone{},
		&domain.UserMilestone{},
	)
}

// SeedRelationshipTypes inserts the fixed {requires, fulfills} rows if they
// are not present yet. Safe to run on every boot.
func SeedRelationshipTypes(db *gorm.DB) error {
	seeds := []domain.MilestoneRelationshipType{
		{Name: domain.RelationshipRequires.String(), Description: "A dependency on a milestone", Active: true},
		{Name: domain.RelationshipFulfills.String(), Description: "A means of attaining a milestone", Active: true},
	}
	for i := range seeds {
		err := db.Where(domain.MilestoneRelationshipType{Name: seeds[i].Name}).
			FirstOrCreate(&seeds[i]).Error
		if err != nil {
			return fmt.Errorf("seed relationship type %q: %w", seeds[i].Name, err)
		}
	}
	return nil
}

func newGormLogger() gormLogger.Interface {
	return gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
