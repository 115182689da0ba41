package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/service"
	apierrors "github.com/pribylovaa/go-recipe-cache/internal/transport/http/errors"
)

type favoritesResponse struct {
	Favorites []models.Favorite `json:"favorites"`
}

type markedResponse struct {
	ID     int64 `json:"id"`
	Marked bool  `json:"marked"`
}

func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: h.Favorites.List()})
}

func (h *Handlers) IsMarked(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	writeJSON(w, http.StatusOK, markedResponse{ID: id, Marked: h.Favorites.IsMarked(id)})
}

// ToggleFavorite принимает полный рецепт (снимок) и переключает отметку.
func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var item models.Recipe
	if err := decodeStrict(w, r, &item); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	marked, err := h.Favorites.Toggle(r.Context(), item)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, markedResponse{ID: item.ID, Marked: marked})
}
