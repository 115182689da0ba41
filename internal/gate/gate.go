// gate решает, пора ли запускать глобальный цикл обновления кэша.
//
// Метка хранит момент начала последней попытки обновления (а не успешного
// завершения): она пишется один раз на цикл, до первого запроса к провайдеру.
package gate

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL — окно свежести кэша по умолчанию.
const DefaultTTL = 14 * 24 * time.Hour

// Stamp — постоянное хранилище метки последней попытки обновления.
// Реализуется FileStamp и таблицей meta хранилища.
type Stamp interface {
	LastRefreshAttempt(ctx context.Context) (t time.Time, ok bool, err error)
	SetLastRefreshAttempt(ctx context.Context, t time.Time) error
}

// IsDue сообщает, пора ли обновлять кэш:
// метки нет (ok=false) или с её момента прошло не меньше ttl.
func IsDue(now, last time.Time, ok bool, ttl time.Duration) bool {
	if !ok {
		return true
	}

	return now.Sub(last) >= ttl
}

// Gate связывает правило IsDue с хранилищем метки.
type Gate struct {
	stamp Stamp
	ttl   time.Duration
	now   func() time.Time

	// mu удерживается между чтением и записью метки в RecordAttempt.
	mu sync.Mutex
}

// Option настраивает Gate.
type Option func(*Gate)

// WithClock подменяет источник текущего времени (используется в тестах).
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// New создаёт Gate. ttl<=0 заменяется на DefaultTTL.
func New(stamp Stamp, ttl time.Duration, opts ...Option) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	g := &Gate{stamp: stamp, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Now возвращает текущее время по часам Gate.
func (g *Gate) Now() time.Time {
	return g.now()
}

// TTL возвращает окно свежести.
func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// Due читает метку и применяет IsDue к текущему времени.
//
// Ошибки: ошибка чтения метки возвращается вместе с due=true,
// чтобы вызывающий мог решить, обновлять ли кэш при недоступной метке.
func (g *Gate) Due(ctx context.Context) (bool, error) {
	const op = "gate.Due"

	last, ok, err := g.stamp.LastRefreshAttempt(ctx)
	if err != nil {
		return true, fmt.Errorf("%s: %w", op, err)
	}

	return IsDue(g.now(), last, ok, g.ttl), nil
}

// RecordAttempt фиксирует начало цикла обновления.
//
// Метка монотонна: если сохранённое значение позже now, оно не перезаписывается.
// Параллельные вызовы (плановый и принудительный циклы) сериализуются.
func (g *Gate) RecordAttempt(ctx context.Context, now time.Time) error {
	const op = "gate.RecordAttempt"

	g.mu.Lock()
	defer g.mu.Unlock()

	last, ok, err := g.stamp.LastRefreshAttempt(ctx)
	if err != nil {
		return fmt.Errorf("%s: read: %w", op, err)
	}
	if ok && last.After(now) {
		return nil
	}

	if err := g.stamp.SetLastRefreshAttempt(ctx, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
