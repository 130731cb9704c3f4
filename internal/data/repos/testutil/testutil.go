package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/milestones-backend/internal/data/db"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

var (
	dbOnce sync.Once
	shared *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a process-wide migrated test database. By default an in-memory
// sqlite database is used; set TEST_POSTGRES_DSN to run against Postgres.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)}

		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			shared, dbErr = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			shared, dbErr = gorm.Open(sqlite.Open("file::memory:?cache=shared"), cfg)
		}
		if dbErr != nil {
			return
		}
		if dbErr = db.AutoMigrate(shared); dbErr != nil {
			return
		}
		dbErr = db.SeedRelationshipTypes(shared)
	})

	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return shared
}

// Tx begins a transaction that is rolled back when the test finishes, so
// tests never see each other's rows.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
