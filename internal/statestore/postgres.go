// Package statestore holds the server-side backends of the state service.
package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppState is one stored document
type AppState struct {
	Key       string         `gorm:"primaryKey;type:text"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	Version   int64          `gorm:"not null;default:1"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now()"`
}

func (AppState) TableName() string { return "app_state" }

// PostgresStore keeps documents in the app_state table
type PostgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostgresStore migrates app_state and returns a store over db
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&AppState{}); err != nil {
		return nil, fmt.Errorf("migrate app_state: %w", err)
	}
	return &PostgresStore{db: db, now: time.Now}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (storage.Record, error) {
	var row AppState
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.Record{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("read %s: %w", key, err)
	}
	return storage.Record{Data: json.RawMessage(row.Data), Version: row.Version}, nil
}

// Put upserts key, bumping the version of an existing row
func (s *PostgresStore) Put(ctx context.Context, key string, data json.RawMessage) (int64, error) {
	row := AppState{Key: key, Data: datatypes.JSON(data), Version: 1, UpdatedAt: s.now()}
	err := s.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"data":       gorm.Expr("excluded.data"),
				"version":    gorm.Expr("app_state.version + 1"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "version"}}},
	).Create(&row).Error
	if err != nil {
		return 0, fmt.Errorf("upsert %s: %w", key, err)
	}
	return row.Version, nil
}

// PutIf writes key only while its version still equals version; 0 means create-only
func (s *PostgresStore) PutIf(ctx context.Context, key string, data json.RawMessage, version int64) (int64, error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	var result *gorm.DB
	if version == 0 {
		result = db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&AppState{Key: key, Data: datatypes.JSON(data), Version: 1, UpdatedAt: now})
	} else {
		result = db.Model(&AppState{}).
			Where("key = ? AND version = ?", key, version).
			Updates(map[string]interface{}{
				"data":       datatypes.JSON(data),
				"version":    gorm.Expr("version + 1"),
				"updated_at": now,
			})
	}
	if result.Error != nil {
		return 0, fmt.Errorf("conditional write %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, storage.ErrVersionConflict
	}
	return version + 1, nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
