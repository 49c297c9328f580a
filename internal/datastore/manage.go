package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
)

// DefaultSlowQueryThreshold is the duration after which a query is logged as slow.
const DefaultSlowQueryThreshold = 500 * time.Millisecond

// performAutoMigration creates or updates the schema.
func performAutoMigration(db *gorm.DB, dbType string, log logger.Logger) error {
	start := time.Now()
	log.Debug("starting database migration")

	if err := db.AutoMigrate(&WaterQuality{}); err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "auto-migrate").
			Context("db_type", dbType).
			Build()
	}

	log.Debug("database migration completed",
		logger.Duration("elapsed", time.Since(start)))
	return nil
}
