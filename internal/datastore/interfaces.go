// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability/metrics"
)

// Interface abstracts the underlying database implementation.
type Interface interface {
	Open() error
	Close() error
	Save(ctx context.Context, record *WaterQuality) error
	GetAll(ctx context.Context) ([]WaterQuality, error)
	Get(ctx context.Context, id uint64) (WaterQuality, error)
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Optimize(ctx context.Context) error
	Backend() string
}

// StatsProvider is implemented by stores that expose connection pool statistics.
type StatsProvider interface {
	Stats() (sql.DBStats, error)
}

// DataStore implements the record operations shared by every GORM backend.
type DataStore struct {
	DB      *gorm.DB
	log     logger.Logger
	metrics *metrics.DatastoreMetrics
}

// Option configures a store created by New.
type Option func(*DataStore)

// WithLogger sets the datastore logger.
func WithLogger(l logger.Logger) Option {
	return func(ds *DataStore) { ds.log = l }
}

// WithMetrics instruments store operations.
func WithMetrics(m *metrics.DatastoreMetrics) Option {
	return func(ds *DataStore) { ds.metrics = m }
}

// New creates the store selected in settings. The store must be opened
// before use.
func New(settings *conf.Settings, opts ...Option) (Interface, error) {
	base := DataStore{}
	for _, opt := range opts {
		opt(&base)
	}
	if base.log == nil {
		base.log = logger.Global().Module("datastore")
	}

	switch {
	case settings.Output.SQLite.Enabled:
		base.log = base.log.With(logger.String("db_type", "sqlite"))
		return &SQLiteStore{DataStore: base, Settings: settings.Output.SQLite, Debug: settings.Debug}, nil
	case settings.Output.MySQL.Enabled:
		base.log = base.log.With(logger.String("db_type", "mysql"))
		return &MySQLStore{DataStore: base, Settings: settings.Output.MySQL, Debug: settings.Debug}, nil
	default:
		return nil, errors.Newf("no record store enabled").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

func (ds *DataStore) observe(operation string, start time.Time, err error) {
	ds.metrics.RecordOperation(operation, time.Since(start), err)
}

func (ds *DataStore) ready() error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// Save inserts record and fills its ID.
func (ds *DataStore) Save(ctx context.Context, record *WaterQuality) (err error) {
	start := time.Now()
	defer func() { ds.observe(metrics.OpSave, start, err) }()

	if err := ds.ready(); err != nil {
		return err
	}
	if err := ds.DB.WithContext(ctx).Create(record).Error; err != nil {
		return dbError(err, "save")
	}
	return nil
}

// GetAll returns every record ordered by id.
func (ds *DataStore) GetAll(ctx context.Context) (records []WaterQuality, err error) {
	start := time.Now()
	defer func() { ds.observe(metrics.OpGetAll, start, err) }()

	if err := ds.ready(); err != nil {
		return nil, err
	}
	records = []WaterQuality{}
	if err := ds.DB.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, dbError(err, "get-all")
	}
	return records, nil
}

// Get returns the record with id, or a not-found error.
func (ds *DataStore) Get(ctx context.Context, id uint64) (record WaterQuality, err error) {
	start := time.Now()
	defer func() { ds.observe(metrics.OpGet, start, err) }()

	if err := ds.ready(); err != nil {
		return record, err
	}
	if err := ds.DB.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, errors.NotFound("water quality record", id)
		}
		return record, dbError(err, "get")
	}
	return record, nil
}

// Delete removes the record with id, or returns a not-found error when no
// row was removed.
func (ds *DataStore) Delete(ctx context.Context, id uint64) (err error) {
	start := time.Now()
	defer func() { ds.observe(metrics.OpDelete, start, err) }()

	if err := ds.ready(); err != nil {
		return err
	}
	result := ds.DB.WithContext(ctx).Delete(&WaterQuality{}, id)
	if result.Error != nil {
		return dbError(result.Error, "delete")
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("water quality record", id)
	}
	ds.log.Debug("record deleted", logger.Uint64("id", id))
	return nil
}

// Count returns the number of stored records.
func (ds *DataStore) Count(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { ds.observe(metrics.OpCount, start, err) }()

	if err := ds.ready(); err != nil {
		return 0, err
	}
	if err := ds.DB.WithContext(ctx).Model(&WaterQuality{}).Count(&n).Error; err != nil {
		return 0, dbError(err, "count")
	}
	return n, nil
}

// Ping checks that the database answers.
func (ds *DataStore) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { ds.observe(metrics.OpPing, start, err) }()

	if err := ds.ready(); err != nil {
		return err
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return dbError(err, "ping")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return dbError(err, "ping")
	}
	return nil
}

// Stats returns connection pool statistics.
func (ds *DataStore) Stats() (sql.DBStats, error) {
	if err := ds.ready(); err != nil {
		return sql.DBStats{}, err
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return sql.DBStats{}, err
	}
	return sqlDB.Stats(), nil
}

// closeDB closes the underlying connection pool.
func (ds *DataStore) closeDB() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return dbError(err, "close")
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(err, "close")
	}
	ds.DB = nil
	return nil
}

func dbError(err error, operation string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}
