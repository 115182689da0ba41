package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/pkg/log"
	"github.com/pribylovaa/go-recipe-cache/pkg/redact"
)

const (
	// DefaultBaseURL — публичный адрес API.
	DefaultBaseURL = "https://api.spoonacular.com"
	searchPath     = "/recipes/complexSearch"
	// maxBody ограничивает размер ответа, который клиент готов прочитать.
	maxBody = 8 << 20
)

// Options — глобальные параметры запросов, общие для всех категорий.
type Options struct {
	BaseURL      string
	APIKey       string
	Diet         string
	Intolerances string
}

// Client реализует service.Provider для Spoonacular.
// Возвращает рецепты без нормализации изображений: её выполняет сервис.
//
// HTTP-клиент настраивается извне (таймауты, прокси и т.д.).
type Client struct {
	client *http.Client
	opts   Options
}

// New создаёт клиент. Пустой BaseURL заменяется на DefaultBaseURL.
func New(client *http.Client, opts Options) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	return &Client{client: client, opts: opts}
}

// Fetch запрашивает до count рецептов категории.
//
// Особенности:
//   - параметры категории (type, maxSodium, ...) дополняются глобальными
//     diet/intolerances и флагами addRecipeInformation/addRecipeNutrition;
//   - каждый элемент results сохраняется целиком в Recipe.Payload;
//   - элементы без id пропускаются с предупреждением.
//
// Ошибки: сетевая ошибка, статус != 200, некорректный JSON.
func (c *Client) Fetch(ctx context.Context, category models.Category, count int) ([]models.Recipe, error) {
	const op = "spoonacular.Fetch"

	lg := log.From(ctx)

	endpoint := c.searchURL(category, count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		err = redactURLError(err)
		lg.Warn("http_error",
			slog.String("op", op),
			slog.String("url", redact.URL(endpoint)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		lg.Warn("http_status",
			slog.String("op", op),
			slog.String("url", redact.URL(endpoint)),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	var doc searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	output := make([]models.Recipe, 0, len(doc.Results))
	for i, raw := range doc.Results {
		var r result
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("%s: decode result %d: %w", op, i, err)
		}

		if r.ID == 0 {
			lg.Warn("result_without_id",
				slog.String("op", op),
				slog.String("category", category.ID),
				slog.Int("index", i),
			)
			continue
		}

		output = append(output, models.Recipe{
			ID:        r.ID,
			Category:  category.ID,
			Title:     strings.TrimSpace(r.Title),
			Image:     strings.TrimSpace(r.Image),
			Nutrients: nutrientsOf(r.Nutrition),
			Payload:   append(json.RawMessage(nil), raw...),
		})
	}

	lg.Debug("provider_fetch_ok",
		slog.String("op", op),
		slog.String("category", category.ID),
		slog.Int("items", len(output)),
		slog.Duration("took", time.Since(started)),
	)

	return output, nil
}

// searchURL собирает адрес complexSearch для категории.
func (c *Client) searchURL(category models.Category, count int) string {
	q := url.Values{}
	for k, v := range category.Params {
		q.Set(k, v)
	}

	if c.opts.Diet != "" {
		q.Set("diet", c.opts.Diet)
	}
	if c.opts.Intolerances != "" {
		q.Set("intolerances", c.opts.Intolerances)
	}
	if count > 0 {
		q.Set("number", strconv.Itoa(count))
	}
	q.Set("addRecipeInformation", "true")
	q.Set("addRecipeNutrition", "true")
	q.Set("apiKey", c.opts.APIKey)

	return c.opts.BaseURL + searchPath + "?" + q.Encode()
}

// redactURLError убирает ключ API из *url.Error, который net/http
// возвращает вместе с полным адресом запроса.
func redactURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = redact.URL(uerr.URL)
	}

	return err
}

// nutrientsOf строит типизированную карту нутриентов; при повторе имени побеждает первое.
func nutrientsOf(n *nutrition) models.Nutrients {
	if n == nil || len(n.Nutrients) == 0 {
		return nil
	}

	out := make(models.Nutrients, len(n.Nutrients))
	for _, item := range n.Nutrients {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		if _, ok := out[name]; ok {
			continue
		}
		out[name] = models.Nutrient{Amount: item.Amount, Unit: item.Unit}
	}

	return out
}
