package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/storage"
	"github.com/pribylovaa/go-recipe-cache/pkg/log"
)

// Favorites — избранное поверх кэша рецептов.
//
// Особенности:
//   - хранит собственные снимки рецептов и не зависит от партиций;
//   - Toggle сериализованы отдельным мьютексом, чтение идёт под RWMutex;
//   - память меняется только после успешной записи в хранилище.
type Favorites struct {
	storage storage.FavoriteStorage
	metrics *Metrics
	now     func() time.Time

	toggleMu sync.Mutex

	mu    sync.RWMutex
	items map[int64]models.Favorite
}

// NewFavorites создаёт overlay избранного. Перед использованием нужен Load.
func NewFavorites(storage storage.FavoriteStorage, metrics *Metrics) *Favorites {
	return &Favorites{
		storage: storage,
		metrics: metrics,
		now:     time.Now,
		items:   make(map[int64]models.Favorite),
	}
}

// Load читает всё избранное из хранилища в память.
//
// Ошибки: ErrStorage.
func (f *Favorites) Load(ctx context.Context) error {
	const op = "service.Favorites.Load"

	favs, err := f.storage.Favorites(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
	}

	items := make(map[int64]models.Favorite, len(favs))
	for _, fav := range favs {
		items[fav.Recipe.ID] = fav
	}

	f.mu.Lock()
	f.items = items
	f.mu.Unlock()

	f.metrics.setFavorites(len(items))

	log.From(ctx).Info("favorites_loaded",
		slog.String("op", op),
		slog.Int("count", len(items)),
	)

	return nil
}

// IsMarked — O(1) проверка по состоянию в памяти.
func (f *Favorites) IsMarked(id int64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.items[id]
	return ok
}

// Get возвращает снимок отмеченного рецепта.
func (f *Favorites) Get(id int64) (models.Favorite, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	fav, ok := f.items[id]
	return fav, ok
}

// List возвращает избранное в порядке отметки (при равенстве — по id).
func (f *Favorites) List() []models.Favorite {
	f.mu.RLock()
	out := make([]models.Favorite, 0, len(f.items))
	for _, fav := range f.items {
		out = append(out, fav)
	}
	f.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].MarkedAt.Equal(out[j].MarkedAt) {
			return out[i].MarkedAt.Before(out[j].MarkedAt)
		}
		return out[i].Recipe.ID < out[j].Recipe.ID
	})

	return out
}

// Toggle снимает отметку, если рецепт отмечен, иначе сохраняет его полный снимок.
// Возвращает новое состояние: true — отмечен.
//
// Особенности:
//   - одна запись в хранилище на вызов;
//   - если хранилище уже в целевом состоянии (ErrAlreadyExists/ErrNotFound),
//     память синхронизируется без ошибки; при ErrAlreadyExists в память
//     попадает сохранённая запись, а не новый снимок.
//
// Ошибки: ErrInvalidArgument (id<=0), ErrStorage.
func (f *Favorites) Toggle(ctx context.Context, item models.Recipe) (bool, error) {
	const op = "service.Favorites.Toggle"

	if item.ID <= 0 {
		return false, fmt.Errorf("%s: id must be positive: %w", op, ErrInvalidArgument)
	}

	f.toggleMu.Lock()
	defer f.toggleMu.Unlock()

	lg := log.From(ctx).With(slog.Int64("recipe_id", item.ID))

	if f.IsMarked(item.ID) {
		err := f.storage.RemoveFavorite(ctx, item.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			lg.Error("favorite_toggle_failed", slog.String("op", op), slog.String("err", err.Error()))
			return true, fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
		}

		f.mu.Lock()
		delete(f.items, item.ID)
		total := len(f.items)
		f.mu.Unlock()

		f.metrics.observeToggle(false, total)
		lg.Info("favorite_unmarked", slog.String("op", op))
		return false, nil
	}

	fav := models.Favorite{Recipe: item, MarkedAt: f.now().UTC()}
	err := f.storage.AddFavorite(ctx, fav)
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		// В памяти держим ту же запись, что вернёт следующий Load.
		stored, serr := f.stored(ctx, item.ID)
		if serr != nil {
			lg.Error("favorite_toggle_failed", slog.String("op", op), slog.String("err", serr.Error()))
			return false, fmt.Errorf("%s: %w: %w", op, ErrStorage, serr)
		}
		fav = stored
	case err != nil:
		lg.Error("favorite_toggle_failed", slog.String("op", op), slog.String("err", err.Error()))
		return false, fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
	}

	f.mu.Lock()
	f.items[item.ID] = fav
	total := len(f.items)
	f.mu.Unlock()

	f.metrics.observeToggle(true, total)
	lg.Info("favorite_marked", slog.String("op", op))
	return true, nil
}

// stored читает из хранилища уже сохранённую запись избранного.
func (f *Favorites) stored(ctx context.Context, id int64) (models.Favorite, error) {
	favs, err := f.storage.Favorites(ctx)
	if err != nil {
		return models.Favorite{}, err
	}

	for _, fav := range favs {
		if fav.Recipe.ID == id {
			return fav, nil
		}
	}

	return models.Favorite{}, fmt.Errorf("favorite %d: %w", id, storage.ErrNotFound)
}
