package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/pkg/log"
)

var errEmptyResult = errors.New("empty result")

// Refresh обновляет одну категорию по её идентификатору.
// Gate не учитывается и метка попытки не пишется.
//
// Ошибки: ErrUnknownCategory, ErrProvider, ErrStorage.
func (s *Service) Refresh(ctx context.Context, categoryID string) ([]models.Recipe, error) {
	const op = "service.Refresh"

	cat, ok := s.category(categoryID)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, categoryID, ErrUnknownCategory)
	}

	return s.refresh(ctx, cat)
}

// refresh — запрос к провайдеру, нормализация и атомарная замена партиции.
//
// Особенности:
//   - мьютекс категории удерживается на всё время обновления;
//   - при ошибке провайдера (в том числе пустом ответе) партиция и
//     представление в памяти не меняются;
//   - представление обновляется только после успешного коммита.
func (s *Service) refresh(ctx context.Context, cat models.Category) ([]models.Recipe, error) {
	const op = "service.refresh"

	lg := log.From(ctx).With(slog.String("category", cat.ID))

	lock := s.locks[cat.ID]
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()
	limit := s.pageSize()

	fetched, err := s.provider.Fetch(ctx, cat, limit)
	if err == nil && len(fetched) == 0 {
		err = errEmptyResult
	}
	if err != nil {
		s.metrics.observeRefresh(cat.ID, resultProviderError, time.Since(started))
		lg.Warn("refresh_category_failed",
			slog.String("op", op),
			slog.String("stage", "fetch"),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %s: %w: %w", op, cat.ID, ErrProvider, err)
	}

	items, dups := prepareItems(cat.ID, fetched, limit)
	if dups > 0 {
		lg.Warn("refresh_duplicate_ids",
			slog.String("op", op),
			slog.Int("dropped", dups),
		)
	}

	if err := s.storage.ReplaceCategory(ctx, cat.ID, items); err != nil {
		s.metrics.observeRefresh(cat.ID, resultStorageError, time.Since(started))
		lg.Error("refresh_category_failed",
			slog.String("op", op),
			slog.String("stage", "store"),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %s: %w: %w", op, cat.ID, ErrStorage, err)
	}

	s.mu.Lock()
	s.view[cat.ID] = items
	s.mu.Unlock()

	s.metrics.observeRefresh(cat.ID, resultOK, time.Since(started))
	s.metrics.setCached(cat.ID, len(items))

	lg.Info("refresh_category_ok",
		slog.String("op", op),
		slog.Int("items", len(items)),
		slog.Duration("took", time.Since(started)),
	)

	return cloneRecipes(items), nil
}

func (s *Service) category(id string) (models.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}

	return models.Category{}, false
}
