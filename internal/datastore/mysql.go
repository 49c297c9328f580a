package datastore

import (
	"context"
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability/metrics"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings conf.MySQLSettings
	Debug    bool
}

// mysqlDSN builds the connection string with the driver's own formatter so
// credentials containing special characters are escaped correctly.
func mysqlDSN(s conf.MySQLSettings) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = s.Username
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(s.Host, s.Port)
	cfg.DBName = s.Database
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open connects to MySQL and migrates the schema.
func (store *MySQLStore) Open() error {
	dsn := mysqlDSN(store.Settings)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(store.log, DefaultSlowQueryThreshold),
	})
	if err != nil {
		store.log.Error("failed to open MySQL database",
			logger.String("host", store.Settings.Host),
			logger.String("port", store.Settings.Port),
			logger.String("database", store.Settings.Database),
			logger.String("dsn", logger.RedactSensitiveData(dsn)),
			logger.Error(err))
		return dbError(fmt.Errorf("failed to open MySQL database: %w", err), "open")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	store.DB = db
	if err := performAutoMigration(db, "mysql", store.log); err != nil {
		_ = store.closeDB()
		return err
	}
	store.log.Info("database opened",
		logger.String("host", store.Settings.Host),
		logger.String("database", store.Settings.Database))
	return nil
}

// Close closes MySQL database connections
func (store *MySQLStore) Close() error {
	return store.closeDB()
}

// Optimize refreshes index statistics with ANALYZE TABLE.
func (store *MySQLStore) Optimize(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { store.observe(metrics.OpOptimize, start, err) }()

	if err := store.ready(); err != nil {
		return err
	}
	table := WaterQuality{}.TableName()
	if err := store.DB.WithContext(ctx).Exec("ANALYZE TABLE " + table).Error; err != nil {
		return dbError(err, "optimize")
	}
	return nil
}

// Backend returns "mysql".
func (store *MySQLStore) Backend() string {
	return "mysql"
}
