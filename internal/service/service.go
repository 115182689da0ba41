// service содержит бизнес-логику recipe-service: кэш рецептов с
// отложенной ревалидацией, обновление категорий и избранное.
package service

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pribylovaa/go-recipe-cache/internal/config"
	"github.com/pribylovaa/go-recipe-cache/internal/gate"
	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/storage"
)

var (
	// ErrStorage — ошибка ввода-вывода или транзакции хранилища.
	// Операция не выполнена, состояние в памяти не изменено.
	// Транспорт: 500.
	ErrStorage = errors.New("storage error")
	// ErrProvider — провайдер не вернул пригодных рецептов для категории.
	// Партиция категории не изменена.
	ErrProvider = errors.New("provider error")
	// ErrContentUnavailable — в цикле обновления упали все категории.
	// Транспорт: 503.
	ErrContentUnavailable = errors.New("content unavailable")
	// ErrUnknownCategory — категория вне фиксированного набора.
	// Транспорт: 404.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidArgument - некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Service — фасад кэша рецептов.
//
// Особенности:
//   - Get читает только представление в памяти и не ждёт ввода-вывода;
//   - представление обновляется по мере завершения каждой категории;
//   - обновления одной категории сериализуются её мьютексом,
//     разные категории обновляются параллельно.
type Service struct {
	storage  storage.RecipeStorage
	provider Provider
	gate     *gate.Gate
	cfg      config.Config
	metrics  *Metrics

	categories []models.Category
	locks      map[string]*sync.Mutex

	mu   sync.RWMutex
	view map[string][]models.Recipe

	loaded     chan struct{}
	loadedOnce sync.Once
	ready      atomic.Bool
}

// Option настраивает Service.
type Option func(*Service)

// WithMetrics подключает метрики Prometheus.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New создает новый экземпляр Service.
func New(storage storage.RecipeStorage, provider Provider, g *gate.Gate, cfg config.Config, opts ...Option) *Service {
	cats := models.Categories()

	s := &Service{
		storage:    storage,
		provider:   provider,
		gate:       g,
		cfg:        cfg,
		categories: cats,
		locks:      make(map[string]*sync.Mutex, len(cats)),
		view:       make(map[string][]models.Recipe, len(cats)),
		loaded:     make(chan struct{}),
	}

	for _, c := range cats {
		s.locks[c.ID] = &sync.Mutex{}
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// pageSize — сколько рецептов запрашивать на категорию.
func (s *Service) pageSize() int {
	if n := s.cfg.Provider.PageSize; n > 0 {
		return n
	}

	return models.DefaultPageSize
}

func cloneRecipes(items []models.Recipe) []models.Recipe {
	out := make([]models.Recipe, len(items))
	copy(out, items)
	return out
}
