package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const lastRefreshAttemptKey = "last_refresh_attempt"

// LastRefreshAttempt читает метку последней попытки обновления.
// ok=false, если строка ещё не создавалась.
func (s *Store) LastRefreshAttempt(ctx context.Context) (time.Time, bool, error) {
	const op = "storage.sqlite.LastRefreshAttempt"

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, lastRefreshAttemptKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: parse %q: %w", op, raw, err)
	}

	return fromMillis(ms), true, nil
}

// SetLastRefreshAttempt перезаписывает метку (upsert).
func (s *Store) SetLastRefreshAttempt(ctx context.Context, t time.Time) error {
	const op = "storage.sqlite.SetLastRefreshAttempt"

	_, err := s.db.ExecContext(ctx, `
INSERT INTO meta (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastRefreshAttemptKey, strconv.FormatInt(toMillis(t), 10),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
