// Package sqlite persiste el estado del cliente en un archivo SQLite local
// (driver pure Go, vía GORM).
package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"petcast-web/internal/ports/storage"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type kvEntry struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;column:storage_key;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "client_storage" }

// Open abre (o crea) la base y aplica PRAGMAs.
func Open(path string) (*gorm.DB, error) {
	// Falla temprano si el directorio padre no existe.
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Un solo proceso, pocas escrituras: una conexión evita SQLITE_BUSY.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	return db, nil
}

type KV struct {
	db        *gorm.DB
	namespace string
	now       func() time.Time
}

var _ storage.KV = (*KV)(nil)

// NewKV migra la tabla y devuelve el store para namespace.
func NewKV(db *gorm.DB, namespace string) (*KV, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}
	ns := strings.TrimSpace(namespace)
	if ns == "" {
		ns = "default"
	}
	return &KV{db: db, namespace: ns, now: time.Now}, nil
}

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var e kvEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND storage_key = ?", s.namespace, key).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return storage.ErrEmptyKey
	}
	e := kvEntry{
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
}

func (s *KV) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("namespace = ? AND storage_key IN ?", s.namespace, keys).
		Delete(&kvEntry{}).Error
}

func (s *KV) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
