package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/pkg/log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Триггеры цикла обновления (метка в метриках и логах).
const (
	triggerScheduled = "scheduled"
	triggerForced    = "forced"
)

// CategoryResult — итог обновления одной категории в цикле.
type CategoryResult struct {
	Category string
	Items    int
	Err      error
}

// RefreshReport — поименный отчёт о цикле обновления.
type RefreshReport struct {
	CycleID   string
	StartedAt time.Time
	Results   []CategoryResult
}

// Failed возвращает число категорий, завершившихся ошибкой.
func (r RefreshReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// AllFailed — в цикле не обновилась ни одна категория.
func (r RefreshReport) AllFailed() bool {
	return len(r.Results) > 0 && r.Failed() == len(r.Results)
}

// CategorySummary — категория и число рецептов в представлении.
type CategorySummary struct {
	ID    string
	Name  string
	Items int
}

// Load загружает все партиции из хранилища в представление.
//
// Особенности:
//   - на время загрузки захватываются мьютексы всех категорий, чтобы
//     параллельное обновление не было перезаписано старыми данными;
//   - строки неизвестных категорий пропускаются;
//   - при ошибке представление не меняется.
//
// Ошибки: ErrStorage.
func (s *Service) Load(ctx context.Context) error {
	const op = "service.Load"

	lg := log.From(ctx)

	for _, c := range s.categories {
		s.locks[c.ID].Lock()
	}
	defer func() {
		for _, c := range s.categories {
			s.locks[c.ID].Unlock()
		}
	}()

	all, err := s.storage.AllRecipes(ctx)
	if err != nil {
		lg.Error("cache_load_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		s.markLoaded()
		return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
	}

	view := make(map[string][]models.Recipe, len(s.categories))
	total := 0
	for _, c := range s.categories {
		items := all[c.ID]
		view[c.ID] = items
		total += len(items)
		s.metrics.setCached(c.ID, len(items))
	}

	for id := range all {
		if _, ok := s.category(id); !ok {
			lg.Warn("cache_unknown_category",
				slog.String("op", op),
				slog.String("category", id),
			)
		}
	}

	s.mu.Lock()
	s.view = view
	s.mu.Unlock()

	s.markLoaded()

	lg.Info("cache_loaded",
		slog.String("op", op),
		slog.Int("categories", len(all)),
		slog.Int("items", total),
	)

	return nil
}

func (s *Service) markLoaded() {
	s.ready.Store(true)
	s.loadedOnce.Do(func() { close(s.loaded) })
}

// Loaded закрывается после первой попытки Load (успешной или нет).
func (s *Service) Loaded() <-chan struct{} {
	return s.loaded
}

// Ready сообщает, что представление инициализировано и сервис может отвечать.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// Revalidate проверяет Gate и, если пора, запускает цикл обновления.
//
// Особенности:
//   - если метку прочитать не удалось, кэш считается устаревшим;
//   - возвращает ran=false, если цикл не понадобился.
//
// Ошибки: ErrContentUnavailable — в цикле упали все категории.
func (s *Service) Revalidate(ctx context.Context) (bool, error) {
	const op = "service.Revalidate"

	lg := log.From(ctx)

	due, err := s.gate.Due(ctx)
	if err != nil {
		lg.Warn("gate_read_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	if !due {
		lg.Debug("refresh_not_due", slog.String("op", op))
		return false, nil
	}

	report := s.cycle(ctx, triggerScheduled)
	if report.AllFailed() {
		return true, fmt.Errorf("%s: %w", op, ErrContentUnavailable)
	}

	return true, nil
}

// Start — активация кэша: Load, затем Revalidate.
//
// Ошибка Load не отменяет проверку Gate: обновление может
// восстановить представление. Ошибки обоих шагов объединяются.
func (s *Service) Start(ctx context.Context) error {
	const op = "service.Start"

	loadErr := s.Load(ctx)
	_, revalidateErr := s.Revalidate(ctx)

	if err := errors.Join(loadErr, revalidateErr); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Run вызывает Start и затем переоценивает Gate каждые Refresh.CheckInterval.
// CheckInterval<=0 — только однократная активация. Останавливается по ctx.
func (s *Service) Run(ctx context.Context) error {
	const op = "service.Run"

	lg := log.From(ctx)
	interval := s.cfg.Refresh.CheckInterval

	lg.Info("cache_run_start",
		slog.String("op", op),
		slog.Duration("ttl", s.gate.TTL()),
		slog.Duration("check_interval", interval),
	)

	if err := s.Start(ctx); err != nil {
		lg.Warn("cache_start_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	if interval <= 0 {
		<-ctx.Done()
		lg.Info("cache_run_stop", slog.String("op", op))
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.Info("cache_run_stop", slog.String("op", op))
			return nil
		case <-ticker.C:
			if _, err := s.Revalidate(ctx); err != nil {
				lg.Warn("revalidate_tick_error",
					slog.String("op", op),
					slog.String("err", err.Error()),
				)
			}
		}
	}
}

// ForceRefresh запускает цикл обновления в обход проверки Gate.
// Метка попытки всё равно записывается.
//
// Ошибки: ErrContentUnavailable вместе с отчётом, если упали все категории.
func (s *Service) ForceRefresh(ctx context.Context) (RefreshReport, error) {
	const op = "service.ForceRefresh"

	report := s.cycle(ctx, triggerForced)
	if report.AllFailed() {
		return report, fmt.Errorf("%s: %w", op, ErrContentUnavailable)
	}

	return report, nil
}

// cycle — один цикл обновления всех категорий.
//
// Особенности:
//   - метка попытки пишется до первого запроса к провайдеру;
//   - категории обновляются параллельно, не больше Refresh.Concurrency одновременно;
//   - ошибка одной категории не отменяет остальные.
func (s *Service) cycle(ctx context.Context, trigger string) RefreshReport {
	const op = "service.cycle"

	cycleID := uuid.NewString()
	ctx, lg := log.With(ctx, slog.String("cycle_id", cycleID))

	now := s.gate.Now()
	report := RefreshReport{
		CycleID:   cycleID,
		StartedAt: now,
		Results:   make([]CategoryResult, len(s.categories)),
	}

	lg.Info("refresh_cycle_start",
		slog.String("op", op),
		slog.String("trigger", trigger),
		slog.Int("categories", len(s.categories)),
	)

	if err := s.gate.RecordAttempt(ctx, now); err != nil {
		lg.Warn("record_attempt_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	} else {
		s.metrics.setLastAttempt(now)
	}

	limit := s.cfg.Refresh.Concurrency
	if limit <= 0 {
		limit = len(s.categories)
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, cat := range s.categories {
		g.Go(func() error {
			items, err := s.refresh(ctx, cat)
			report.Results[i] = CategoryResult{Category: cat.ID, Items: len(items), Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := report.Failed()
	s.metrics.observeCycle(trigger, failed == len(report.Results))

	lg.Info("refresh_cycle_done",
		slog.String("op", op),
		slog.String("trigger", trigger),
		slog.Int("ok", len(report.Results)-failed),
		slog.Int("failed", failed),
		slog.Duration("took", time.Since(now)),
	)

	return report
}

// Get возвращает текущие рецепты категории из памяти.
// Никогда не обращается к хранилищу или провайдеру.
//
// Ошибки: ErrUnknownCategory.
func (s *Service) Get(categoryID string) ([]models.Recipe, error) {
	const op = "service.Get"

	if _, ok := s.category(categoryID); !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, categoryID, ErrUnknownCategory)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneRecipes(s.view[categoryID]), nil
}

// Categories возвращает категории в порядке отображения с числом рецептов.
func (s *Service) Categories() []CategorySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CategorySummary, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, CategorySummary{ID: c.ID, Name: c.Name, Items: len(s.view[c.ID])})
	}

	return out
}
