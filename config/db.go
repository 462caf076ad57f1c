package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saulo-duarte/habit-tracker/category"
	"github.com/saulo-duarte/habit-tracker/record"
	"github.com/saulo-duarte/habit-tracker/settings"
	"github.com/saulo-duarte/habit-tracker/tracker"
)

// AllModels lists every persisted model, in migration order.
func AllModels() []any {
	return []any{
		&category.Category{},
		&tracker.Tracker{},
		&record.Record{},
		&settings.Setting{},
	}
}

// Connect opens the database selected by dsn and runs migrations.
// PostgreSQL DSNs (postgres:// URLs or key=value form) use the postgres
// driver; everything else is opened as a SQLite file.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "tracker.db"
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormCfg := &gorm.Config{Logger: dbLogger}

	var (
		db  *gorm.DB
		err error
	)
	if isPostgresDSN(dsn) {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	} else {
		if err := ensureDirForSQLite(dsn); err != nil {
			return nil, err
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
