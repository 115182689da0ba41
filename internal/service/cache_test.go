package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/gate"
	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/mocks"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// Сценарные тесты фасада на настоящей SQLite во временном каталоге:
// метка попытки хранится в таблице meta того же файла.

func TestScenario_FreshStoreThenRestartWithinTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := tempDBPath(t)
	clock := &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	provider := newStubProvider()

	st := openSQLite(t, path)
	svc := New(st, provider, gate.New(st, gate.DefaultTTL, gate.WithClock(clock.Now)), testConfig())

	require.NoError(t, svc.Start(ctx))
	require.Equal(t, len(models.Categories()), provider.totalCalls(), "fresh store must refresh every category")

	first := map[string][]models.Recipe{}
	for _, c := range models.Categories() {
		items, err := svc.Get(c.ID)
		require.NoError(t, err)
		require.Len(t, items, 3)
		require.Equal(t, "https://img.spoonacular.com/recipes/1-636x393.jpg", items[0].Image)
		first[c.ID] = items
	}

	last, ok, err := st.LastRefreshAttempt(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, clock.Now(), last)

	// Перезапуск через час: новый экземпляр, тот же файл.
	require.NoError(t, st.Close())
	clock.Advance(time.Hour)

	st2 := openSQLite(t, path)
	svc2 := New(st2, provider, gate.New(st2, gate.DefaultTTL, gate.WithClock(clock.Now)), testConfig())

	require.NoError(t, svc2.Start(ctx))
	require.Equal(t, len(models.Categories()), provider.totalCalls(), "no fetch within ttl")

	for _, c := range models.Categories() {
		items, err := svc2.Get(c.ID)
		require.NoError(t, err)
		require.Equal(t, first[c.ID], items)
	}
}

func TestScenario_DueAfterTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	provider := newStubProvider()

	st := openSQLite(t, tempDBPath(t))
	svc := New(st, provider, gate.New(st, gate.DefaultTTL, gate.WithClock(clock.Now)), testConfig())
	require.NoError(t, svc.Start(ctx))

	clock.Advance(gate.DefaultTTL)
	provider.set(models.CategoryBreakfast, sampleRecipes("fresh", 1), nil)

	ran, err := svc.Revalidate(ctx)
	require.NoError(t, err)
	require.True(t, ran)
	require.Equal(t, 2*len(models.Categories()), provider.totalCalls())

	items, err := svc.Get(models.CategoryBreakfast)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "fresh-1", items[0].Title)
}

func TestCycle_PerCategoryIndependence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newStubProvider()
	st := openSQLite(t, tempDBPath(t))
	svc := New(st, provider, gate.New(&memStamp{}, gate.DefaultTTL), testConfig())

	_, err := svc.ForceRefresh(ctx)
	require.NoError(t, err)

	lunchBefore, _ := svc.Get(models.CategoryLunch)

	provider.set(models.CategoryLunch, nil, errors.New("503 from provider"))
	provider.set(models.CategoryDinner, sampleRecipes("dinner-v2", 2), nil)

	report, err := svc.ForceRefresh(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Failed())

	for _, res := range report.Results {
		if res.Category == models.CategoryLunch {
			require.ErrorIs(t, res.Err, ErrProvider)
			continue
		}
		require.NoError(t, res.Err)
	}

	lunchAfter, _ := svc.Get(models.CategoryLunch)
	require.Equal(t, lunchBefore, lunchAfter)

	stored, err := st.RecipesByCategory(ctx, models.CategoryLunch)
	require.NoError(t, err)
	require.Equal(t, lunchBefore, stored)

	dinner, _ := svc.Get(models.CategoryDinner)
	require.Len(t, dinner, 2)
	require.Equal(t, "dinner-v2-1", dinner[0].Title)
}

func TestForceRefresh_AllFailed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newStubProvider()
	for _, c := range models.Categories() {
		provider.set(c.ID, nil, errors.New("offline"))
	}

	stamp := &memStamp{}
	clock := &fakeClock{now: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	svc := New(openSQLite(t, tempDBPath(t)), provider,
		gate.New(stamp, gate.DefaultTTL, gate.WithClock(clock.Now)), testConfig(), WithMetrics(metrics))

	report, err := svc.ForceRefresh(ctx)
	require.ErrorIs(t, err, ErrContentUnavailable)
	require.True(t, report.AllFailed())
	require.Len(t, report.Results, len(models.Categories()))
	require.NotEmpty(t, report.CycleID)

	// Попытка фиксируется даже при полном провале.
	last, ok, _ := stamp.LastRefreshAttempt(ctx)
	require.True(t, ok)
	require.Equal(t, clock.Now(), last)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.cycles.WithLabelValues(triggerForced, "unavailable")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshes.WithLabelValues(models.CategorySnack, resultProviderError)))
}

func TestForceRefresh_BypassesGate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newStubProvider()
	clock := &fakeClock{now: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
	stamp := &memStamp{t: clock.Now(), ok: true}

	svc := New(openSQLite(t, tempDBPath(t)), provider,
		gate.New(stamp, gate.DefaultTTL, gate.WithClock(clock.Now)), testConfig())

	ran, err := svc.Revalidate(ctx)
	require.NoError(t, err)
	require.False(t, ran)
	require.Zero(t, provider.totalCalls())

	clock.Advance(time.Minute)
	_, err = svc.ForceRefresh(ctx)
	require.NoError(t, err)
	require.Equal(t, len(models.Categories()), provider.totalCalls())

	last, _, _ := stamp.LastRefreshAttempt(ctx)
	require.Equal(t, clock.Now(), last)
}

func TestStart_LoadErrorStillRevalidates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	provider := newStubProvider()

	svc := New(st, provider, gate.New(&memStamp{}, gate.DefaultTTL), testConfig())

	boom := errors.New("database is locked")
	st.EXPECT().AllRecipes(gomock.Any()).Return(nil, boom)
	st.EXPECT().ReplaceCategory(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(len(models.Categories()))

	err := svc.Start(context.Background())
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, boom)
	require.True(t, svc.Ready())

	select {
	case <-svc.Loaded():
	default:
		t.Fatal("Loaded must be closed after the first load attempt")
	}

	items, err := svc.Get(models.CategoryBreakfast)
	require.NoError(t, err)
	require.Len(t, items, 3)
}

func TestLoad_IgnoresUnknownCategories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := openSQLite(t, tempDBPath(t))
	require.NoError(t, st.ReplaceCategory(ctx, "brunch", sampleRecipes("brunch", 1)))
	require.NoError(t, st.ReplaceCategory(ctx, models.CategorySnack, sampleRecipes("snack", 2)))

	svc := New(st, newStubProvider(), gate.New(&memStamp{}, gate.DefaultTTL), testConfig())
	require.NoError(t, svc.Load(ctx))

	sums := svc.Categories()
	require.Len(t, sums, len(models.Categories()))
	for _, s := range sums {
		if s.ID == models.CategorySnack {
			require.Equal(t, 2, s.Items)
			require.Equal(t, "Merienda", s.Name)
			continue
		}
		require.Zero(t, s.Items)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	provider := newStubProvider()
	cfg := testConfig()
	cfg.Refresh.CheckInterval = 10 * time.Millisecond

	svc := New(openSQLite(t, tempDBPath(t)), provider, gate.New(&memStamp{}, gate.DefaultTTL), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	<-svc.Loaded()
	require.Eventually(t, func() bool {
		return provider.totalCalls() == len(models.Categories())
	}, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}

	// Тики внутри TTL не запускают повторный цикл.
	require.Equal(t, len(models.Categories()), provider.totalCalls())
}

func TestCycle_ConcurrentRefreshesOfSameCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newStubProvider()
	svc := New(openSQLite(t, tempDBPath(t)), provider, gate.New(&memStamp{}, gate.DefaultTTL), testConfig())

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := svc.Refresh(ctx, models.CategoryLunch)
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-errs)
	}

	items, err := svc.Get(models.CategoryLunch)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, 8, provider.callsFor(models.CategoryLunch))
}
