package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const lastRefreshAttemptKey = "last_refresh_attempt"

// LastRefreshAttempt читает метку последней попытки обновления.
func (s *Storage) LastRefreshAttempt(ctx context.Context) (time.Time, bool, error) {
	const op = "storage.postgres.LastRefreshAttempt"

	var t time.Time
	err := s.db.QueryRow(ctx, `SELECT value_time FROM meta WHERE key = $1`, lastRefreshAttemptKey).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return t.UTC(), true, nil
}

// SetLastRefreshAttempt перезаписывает метку (upsert).
func (s *Storage) SetLastRefreshAttempt(ctx context.Context, t time.Time) error {
	const op = "storage.postgres.SetLastRefreshAttempt"

	_, err := s.db.Exec(ctx, `
	INSERT INTO meta (key, value_time) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value_time = EXCLUDED.value_time`,
		lastRefreshAttemptKey, t.UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
