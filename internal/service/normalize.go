package service

import (
	"regexp"
	"strings"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
)

const (
	// canonicalImageSuffix — размерность, к которой приводятся все изображения.
	canonicalImageSuffix = "-636x393."
	// PlaceholderImage подставляется, если у рецепта нет изображения с размерностью.
	PlaceholderImage = "https://spoonacular.com/recipeImages/placeholder-636x393.png"
)

var reImageSize = regexp.MustCompile(`-\d+x\d+\.`)

// NormalizeImage приводит ссылку на изображение к канонической размерности.
//
// Примеры:
//
//	".../foo-312x231.png" -> ".../foo-636x393.png"
//	".../foo.png"         -> PlaceholderImage
//	""                    -> PlaceholderImage
func NormalizeImage(ref string) string {
	ref = strings.TrimSpace(ref)

	loc := reImageSize.FindStringIndex(ref)
	if loc == nil {
		return PlaceholderImage
	}

	return ref[:loc[0]] + canonicalImageSuffix + ref[loc[1]:]
}

// prepareItems готовит ответ провайдера к записи в партицию:
// обрезает до limit, отбрасывает повторные id, проставляет категорию
// и нормализует изображения. Возвращает число отброшенных дублей.
func prepareItems(category string, items []models.Recipe, limit int) ([]models.Recipe, int) {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	seen := make(map[int64]struct{}, len(items))
	out := make([]models.Recipe, 0, len(items))
	dups := 0

	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			dups++
			continue
		}
		seen[it.ID] = struct{}{}

		it.Category = category
		it.Image = NormalizeImage(it.Image)
		out = append(out, it)
	}

	return out, dups
}
