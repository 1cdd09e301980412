// =============================================================================
// SuperSlice ETL - Storage
// =============================================================================
//
// This module persists decoded records. Both writers are insert-or-ignore:
//
//   WriteIsolated  INSERT INTO <platform>_trax ... ON CONFLICT (<natural key>)
//                  DO NOTHING
//   WriteUnified   INSERT INTO unified_trax ... ON CONFLICT
//                  (platform, external_order_id) DO NOTHING
//
// The first write of a key wins and re-importing an export never changes or
// duplicates rows. Uniqueness is enforced by the database's unique indexes,
// so concurrent writers across files need no coordination here.
//
// SUPPORTED DRIVERS:
//   postgres, mysql, sqlite
//
// =============================================================================

package store

import (
	"context"
	"fmt"

	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/types"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PersistenceError reports a write that failed for a reason other than a
// key conflict.
type PersistenceError struct {
	Table string
	Key   string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to write %s to %s: %v", e.Key, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// =============================================================================
// STORE
// =============================================================================

// Store writes isolated and unified records.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to the configured database and sizes the pool.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime())

	return New(db, log), nil
}

// New wraps an existing connection.
func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log.With(zap.String("component", "store"))}
}

// DB exposes the underlying connection.
func (s *Store) DB() *gorm.DB { return s.db }

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the isolated and unified tables.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&types.SliceOrder{},
		&types.SquareTransaction{},
		&types.UberOrder{},
		&UnifiedRow{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// =============================================================================
// WRITERS
// =============================================================================

// WriteIsolated inserts rec into its platform table unless its natural key
// already exists.
//
// RETURNS:
//   - true if a row was inserted, false on a key conflict.
//   - A *PersistenceError for any other failure.
func (s *Store) WriteIsolated(ctx context.Context, rec types.PlatformRecord) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: rec.NaturalKeyColumn()}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, &PersistenceError{Table: rec.TableName(), Key: rec.NaturalKey(), Err: res.Error}
	}

	if res.RowsAffected == 0 {
		s.log.Debug("isolated record exists",
			zap.String("table", rec.TableName()),
			zap.String("key", rec.NaturalKey()))
	}
	return res.RowsAffected > 0, nil
}

// WriteUnified inserts u unless (platform, external_order_id) exists.
func (s *Store) WriteUnified(ctx context.Context, u types.UnifiedRecord) (bool, error) {
	row, err := toUnifiedRow(u)
	if err != nil {
		return false, &PersistenceError{Table: UnifiedRow{}.TableName(), Key: u.ExternalOrderID, Err: err}
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}, {Name: "external_order_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, &PersistenceError{Table: row.TableName(), Key: u.ExternalOrderID, Err: res.Error}
	}

	if res.RowsAffected == 0 {
		s.log.Debug("unified record exists",
			zap.String("platform", row.Platform),
			zap.String("key", row.ExternalOrderID))
	}
	return res.RowsAffected > 0, nil
}

// toUnifiedRow converts the domain record into its table row.
func toUnifiedRow(u types.UnifiedRecord) (*UnifiedRow, error) {
	meta := u.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	return &UnifiedRow{
		Platform:        u.Platform.String(),
		ExternalOrderID: u.ExternalOrderID,
		OrderTimestamp:  u.OrderTimestamp,
		Customer:        u.Customer,
		Store:           u.Store,
		FulfillmentType: u.FulfillmentType,
		OrderStatus:     u.OrderStatus,
		OrderTotal:      u.OrderTotal,
		Tip:             u.Tip,
		Tax:             u.Tax,
		Metadata:        datatypes.JSON(encoded),
		SourceFile:      u.SourceFile,
	}, nil
}
