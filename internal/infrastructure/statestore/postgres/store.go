package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// Store keeps each state key as one JSONB document in app_state.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2025061501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS app_state (
	key TEXT PRIMARY KEY,
	value JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT value
FROM app_state
WHERE key = $1
`, key)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, domain.WrapError(domain.ErrTemporary, "load state", fmt.Errorf("key=%s: %w", key, err))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode state key=%s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Save(ctx context.Context, key string, value any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode state key=%s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO app_state (key, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`, key, raw, time.Now().UTC())
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "save state", fmt.Errorf("key=%s: %w", key, err))
	}
	return nil
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "state key", errors.New("key is empty"))
	}
	return nil
}
