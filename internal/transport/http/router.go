// http собирает REST-интерфейс recipe-service на chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/go-recipe-cache/internal/transport/http/handlers"
	"github.com/pribylovaa/go-recipe-cache/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	// Registerer — куда регистрировать HTTP-метрики; nil отключает мидлвар метрик.
	Registerer prometheus.Registerer
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Registerer != nil {
		root.Use(middleware.Metrics(opts.Registerer))
	}
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// recipes
	r.Get("/categories", h.ListCategories)
	r.Get("/recipes/{category}", h.GetRecipes)
	r.Post("/recipes/refresh", h.ForceRefresh)

	// favorites
	r.Get("/favorites", h.ListFavorites)
	r.Get("/favorites/{id}", h.IsMarked)
	r.Post("/favorites/toggle", h.ToggleFavorite)
}
