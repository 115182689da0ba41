package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pribylovaa/go-recipe-cache/internal/gate"
	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newMockedService(t *testing.T) (*Service, *mocks.MockStorage, *mocks.MockProvider) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	pr := mocks.NewMockProvider(ctrl)

	return New(st, pr, gate.New(&memStamp{}, gate.DefaultTTL), testConfig()), st, pr
}

func TestRefresh_OK_UpdatesView(t *testing.T) {
	t.Parallel()

	svc, st, pr := newMockedService(t)
	ctx := context.Background()

	fetched := sampleRecipes(models.CategoryDinner, 7)

	pr.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), models.DefaultPageSize).
		DoAndReturn(func(_ context.Context, c models.Category, _ int) ([]models.Recipe, error) {
			require.Equal(t, models.CategoryDinner, c.ID)
			require.Equal(t, "dinner", c.Params["type"])
			return fetched, nil
		})

	st.EXPECT().
		ReplaceCategory(gomock.Any(), models.CategoryDinner, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, items []models.Recipe) error {
			require.Len(t, items, models.DefaultPageSize)
			for _, it := range items {
				require.Equal(t, models.CategoryDinner, it.Category)
				require.Contains(t, it.Image, "-636x393.")
			}
			return nil
		})

	items, err := svc.Refresh(ctx, models.CategoryDinner)
	require.NoError(t, err)
	require.Len(t, items, models.DefaultPageSize)

	got, err := svc.Get(models.CategoryDinner)
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestRefresh_ProviderError_LeavesPartition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []models.Recipe
		err   error
	}{
		{name: "network", err: errors.New("dial tcp: timeout")},
		{name: "empty result"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, _, pr := newMockedService(t)
			pr.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.items, tt.err)
			// ReplaceCategory не ожидается: gomock упадёт при вызове.

			_, err := svc.Refresh(context.Background(), models.CategoryLunch)
			require.ErrorIs(t, err, ErrProvider)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestRefresh_StorageError_KeepsView(t *testing.T) {
	t.Parallel()

	svc, st, pr := newMockedService(t)
	ctx := context.Background()

	old := sampleRecipes(models.CategorySnack, 2)
	pr.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(old, nil)
	st.EXPECT().ReplaceCategory(gomock.Any(), models.CategorySnack, gomock.Any()).Return(nil)
	_, err := svc.Refresh(ctx, models.CategorySnack)
	require.NoError(t, err)
	before, _ := svc.Get(models.CategorySnack)

	boom := errors.New("disk I/O error")
	pr.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(sampleRecipes("new", 4), nil)
	st.EXPECT().ReplaceCategory(gomock.Any(), models.CategorySnack, gomock.Any()).Return(boom)

	_, err = svc.Refresh(ctx, models.CategorySnack)
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, boom)

	after, _ := svc.Get(models.CategorySnack)
	require.Equal(t, before, after)
}

func TestRefresh_UnknownCategory(t *testing.T) {
	t.Parallel()

	svc, _, _ := newMockedService(t)

	_, err := svc.Refresh(context.Background(), "brunch")
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestGet_ReturnsCopy(t *testing.T) {
	t.Parallel()

	svc, st, pr := newMockedService(t)
	pr.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(sampleRecipes(models.CategoryLunch, 2), nil)
	st.EXPECT().ReplaceCategory(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Refresh(context.Background(), models.CategoryLunch)
	require.NoError(t, err)

	got, err := svc.Get(models.CategoryLunch)
	require.NoError(t, err)
	got[0].Title = "mutated"

	again, err := svc.Get(models.CategoryLunch)
	require.NoError(t, err)
	require.NotEqual(t, "mutated", again[0].Title)

	_, err = svc.Get("brunch")
	require.ErrorIs(t, err, ErrUnknownCategory)
}
