package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/config"
	"github.com/pribylovaa/go-recipe-cache/internal/gate"
	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/storage/sqlite"

	"github.com/stretchr/testify/require"
)

// stubProvider — минимальный Provider для тестов: отдаёт заранее заданные
// рецепты или ошибку по категории и считает вызовы.
type stubProvider struct {
	mu     sync.Mutex
	items  map[string][]models.Recipe
	errs   map[string]error
	calls  map[string]int
	counts []int
}

func newStubProvider() *stubProvider {
	p := &stubProvider{
		items: map[string][]models.Recipe{},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
	for _, c := range models.Categories() {
		p.items[c.ID] = sampleRecipes(c.ID, 3)
	}
	return p
}

func (p *stubProvider) Fetch(ctx context.Context, category models.Category, count int) ([]models.Recipe, error) {
	p.mu.Lock()
	p.calls[category.ID]++
	p.counts = append(p.counts, count)
	items, err := p.items[category.ID], p.errs[category.ID]
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return append([]models.Recipe(nil), items...), nil
}

func (p *stubProvider) totalCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

func (p *stubProvider) callsFor(category string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[category]
}

func (p *stubProvider) set(category string, items []models.Recipe, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[category] = items
	p.errs[category] = err
}

// memStamp — метка попытки обновления в памяти.
type memStamp struct {
	mu sync.Mutex
	t  time.Time
	ok bool
}

func (m *memStamp) LastRefreshAttempt(context.Context) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t, m.ok, nil
}

func (m *memStamp) SetLastRefreshAttempt(_ context.Context, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t, m.ok = t, true
	return nil
}

// fakeClock — управляемые часы для Gate.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sampleRecipes(category string, n int) []models.Recipe {
	out := make([]models.Recipe, 0, n)
	for i := 1; i <= n; i++ {
		id := int64(i)
		out = append(out, models.Recipe{
			ID:    id,
			Title: fmt.Sprintf("%s-%d", category, i),
			Image: fmt.Sprintf("https://img.spoonacular.com/recipes/%d-312x231.jpg", id),
			Nutrients: models.Nutrients{
				"Magnesium": {Amount: float64(40 + i), Unit: "mg"},
			},
			Payload: json.RawMessage(fmt.Sprintf(`{"id":%d,"servings":2}`, id)),
		})
	}
	return out
}

func testConfig() config.Config {
	return config.Config{
		Provider: config.ProviderConfig{PageSize: models.DefaultPageSize},
		Refresh: config.RefreshConfig{
			TTL:         gate.DefaultTTL,
			Concurrency: 2,
		},
	}
}

func openSQLite(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	st, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "recipes.db")
}
