// Package local implements the repository interfaces for the single-user
// profile. Each collection is one JSON document under a stable key, read and
// rewritten in full on every mutation.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	apperrors "campus-events/pkg/app_errors"
)

const (
	EventsKey        = "campus.events"
	RegistrationsKey = "campus.registrations"
	PreferencesKey   = "campus.preferences"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store serializes mutations so the read-modify-write of a collection is
// atomic within the process.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func read[T any](ctx context.Context, q querier, key string) (T, error) {
	var out T
	var payload string
	err := q.QueryRowContext(ctx, `SELECT payload FROM collections WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return out, nil
	}
	if err != nil {
		return out, apperrors.Persistence(err)
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, apperrors.Persistence(fmt.Errorf("decode %s: %w", key, err))
	}
	return out, nil
}

func write(ctx context.Context, q querier, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return apperrors.Persistence(fmt.Errorf("encode %s: %w", key, err))
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO collections (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, key, string(payload))
	if err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// mutate runs fn inside a transaction while holding the store lock. fn's
// writes are committed only when it returns nil.
func (s *Store) mutate(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Persistence(err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}
