// handlers содержит REST-обработчики recipe-service.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/service"
)

// maxBodyBytes ограничивает тело запросов на запись.
const maxBodyBytes = 1 << 20

// RecipeCache — часть фасада кэша, нужная HTTP-слою.
type RecipeCache interface {
	Get(categoryID string) ([]models.Recipe, error)
	Categories() []service.CategorySummary
	ForceRefresh(ctx context.Context) (service.RefreshReport, error)
}

// FavoriteSet — часть overlay избранного, нужная HTTP-слою.
type FavoriteSet interface {
	List() []models.Favorite
	IsMarked(id int64) bool
	Toggle(ctx context.Context, item models.Recipe) (bool, error)
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	Cache     RecipeCache
	Favorites FavoriteSet
}

func New(cache RecipeCache, favorites FavoriteSet) *Handlers {
	return &Handlers{Cache: cache, Favorites: favorites}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
