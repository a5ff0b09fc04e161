package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"petcast-web/internal/ports/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const schema = `
	CREATE TABLE IF NOT EXISTS client_storage (
		namespace   TEXT        NOT NULL,
		storage_key TEXT        NOT NULL,
		value       TEXT        NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (namespace, storage_key)
	)
`

// KV guarda el estado del cliente en Postgres, útil cuando varias
// instancias comparten sesión por namespace.
type KV struct {
	db        *sql.DB
	namespace string
	now       func() time.Time
}

var _ storage.KV = (*KV)(nil)

// OpenKV conecta con pgx (database/sql), crea la tabla si falta y devuelve
// el KV dueño de la conexión: Close la cierra.
func OpenKV(ctx context.Context, dsn, namespace string) (*KV, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Pocas escrituras: solo tokens de sesión.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	ns := strings.TrimSpace(namespace)
	if ns == "" {
		ns = "default"
	}
	return &KV{db: db, namespace: ns, now: time.Now}, nil
}

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM client_storage
		WHERE namespace = $1 AND storage_key = $2
	`, s.namespace, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return storage.ErrEmptyKey
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_storage (namespace, storage_key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, storage_key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.namespace, key, value, s.now().UTC())
	return err
}

func (s *KV) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM client_storage
		WHERE namespace = $1 AND storage_key = ANY($2)
	`, s.namespace, keys)
	return err
}

func (s *KV) Close() error {
	return s.db.Close()
}
