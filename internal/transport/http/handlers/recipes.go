package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zeebo/xxh3"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/service"
	apierrors "github.com/pribylovaa/go-recipe-cache/internal/transport/http/errors"
)

type categoryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items int    `json:"items"`
}

type categoriesResponse struct {
	Categories []categoryDTO `json:"categories"`
}

type recipesResponse struct {
	Category string          `json:"category"`
	Items    []models.Recipe `json:"items"`
}

type refreshResultDTO struct {
	Category string `json:"category"`
	OK       bool   `json:"ok"`
	Items    int    `json:"items"`
	Error    string `json:"error,omitempty"`
}

type refreshResponse struct {
	CycleID   string             `json:"cycle_id"`
	StartedAt time.Time          `json:"started_at"`
	Results   []refreshResultDTO `json:"results"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	sums := h.Cache.Categories()

	resp := categoriesResponse{Categories: make([]categoryDTO, 0, len(sums))}
	for _, s := range sums {
		resp.Categories = append(resp.Categories, categoryDTO{ID: s.ID, Name: s.Name, Items: s.Items})
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetRecipes отдаёт рецепты категории из памяти.
// ETag — xxh3 от тела ответа; совпадение с If-None-Match даёт 304 без тела.
func (h *Handlers) GetRecipes(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	items, err := h.Cache.Get(category)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Recipe{}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(recipesResponse{Category: category, Items: items}); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(buf.Bytes()))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ForceRefresh запускает цикл обновления в обход Gate.
// Если упали все категории — 503 с тем же отчётом в теле.
func (h *Handlers) ForceRefresh(w http.ResponseWriter, r *http.Request) {
	report, err := h.Cache.ForceRefresh(r.Context())

	resp := refreshResponse{
		CycleID:   report.CycleID,
		StartedAt: report.StartedAt,
		Results:   make([]refreshResultDTO, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		dto := refreshResultDTO{Category: res.Category, OK: res.Err == nil, Items: res.Items}
		if res.Err != nil {
			dto.Error = publicRefreshError(res.Err)
		}
		resp.Results = append(resp.Results, dto)
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case len(report.Results) > 0:
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		apierrors.WriteError(w, r, err)
	}
}

// publicRefreshError скрывает детали (URL провайдера, текст драйвера БД).
func publicRefreshError(err error) string {
	switch {
	case errors.Is(err, service.ErrProvider):
		return "provider_error"
	case errors.Is(err, service.ErrStorage):
		return "storage_error"
	default:
		return "internal"
	}
}

// etagMatches разбирает If-None-Match: список тегов через запятую, W/-префикс, "*".
func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimPrefix(strings.TrimSpace(part), "W/")
		if tag == etag {
			return true
		}
	}

	return false
}
