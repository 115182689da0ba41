// sqlite предоставляет реализацию storage.Storage на встраиваемой SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/storage"
	"github.com/pribylovaa/go-recipe-cache/internal/storage/sqlite/migrations"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store хранит партиции рецептов, избранное и метку обновления в одном файле SQLite.
type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open открывает (или создаёт) файл БД и применяет встроенные миграции.
//
// Особенности:
//   - журнал WAL, busy_timeout 5s, транзакции записи стартуют как IMMEDIATE;
//   - пул ограничен одним соединением: записи в разные категории сериализуются
//     на уровне database/sql, без SQLITE_BUSY между своими же транзакциями.
func Open(ctx context.Context, path string) (*Store, error) {
	const op = "storage.sqlite.Open"

	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%s: storage path is required", op)
	}

	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{db: db}, nil
}

// Close закрывает соединение с БД.
// Должен вызываться при остановке приложения.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// isUniqueViolation сообщает, что ошибка — нарушение PRIMARY KEY/UNIQUE.
func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Store)(nil)
