package gate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStamp хранит метку в отдельном файле в формате RFC3339Nano.
// Запись атомарна: временный файл в том же каталоге + rename.
type FileStamp struct {
	path string
	mu   sync.Mutex
}

// NewFileStamp создаёт хранилище метки по пути path.
// Каталог создаётся при первой записи.
func NewFileStamp(path string) *FileStamp {
	return &FileStamp{path: path}
}

// LastRefreshAttempt читает метку; отсутствующий файл означает ok=false.
func (f *FileStamp) LastRefreshAttempt(_ context.Context) (time.Time, bool, error) {
	const op = "gate.FileStamp.LastRefreshAttempt"

	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}

	raw := strings.TrimSpace(string(b))
	if raw == "" {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: parse %q: %w", op, raw, err)
	}

	return t.UTC(), true, nil
}

// SetLastRefreshAttempt перезаписывает метку.
func (f *FileStamp) SetLastRefreshAttempt(_ context.Context, t time.Time) error {
	const op = "gate.FileStamp.SetLastRefreshAttempt"

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: mkdir: %w", op, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%s: create temp: %w", op, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(t.UTC().Format(time.RFC3339Nano) + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: sync: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: close: %w", op, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: rename: %w", op, err)
	}

	return nil
}

var _ Stamp = (*FileStamp)(nil)
