package datastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability/metrics"
)

// sqliteParams enables WAL and waits on locks instead of failing immediately.
const sqliteParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Settings conf.SQLiteSettings
	Debug    bool
}

// Open creates the database file if needed and migrates the schema.
func (store *SQLiteStore) Open() error {
	path := store.Settings.Path
	if path == "" {
		return errors.Newf("sqlite path is empty").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Component("datastore").
				Category(errors.CategoryFileIO).
				FileContext(path, 0).
				Build()
		}
	}

	db, err := gorm.Open(sqlite.Open(path+sqliteParams), &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(store.log, DefaultSlowQueryThreshold),
	})
	if err != nil {
		return dbError(fmt.Errorf("failed to open SQLite database: %w", err), "open")
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY storms.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	store.DB = db
	if err := performAutoMigration(db, "sqlite", store.log); err != nil {
		_ = store.closeDB()
		return err
	}
	store.log.Info("database opened", logger.String("path", path))
	return nil
}

// Close closes the SQLite connection.
func (store *SQLiteStore) Close() error {
	return store.closeDB()
}

// Optimize runs PRAGMA optimize, letting SQLite refresh query planner statistics.
func (store *SQLiteStore) Optimize(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { store.observe(metrics.OpOptimize, start, err) }()

	if err := store.ready(); err != nil {
		return err
	}
	if err := store.DB.WithContext(ctx).Exec("PRAGMA optimize").Error; err != nil {
		return dbError(err, "optimize")
	}
	return nil
}

// Backend returns "sqlite".
func (store *SQLiteStore) Backend() string {
	return "sqlite"
}
