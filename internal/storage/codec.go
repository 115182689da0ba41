package storage

import (
	"encoding/json"
	"fmt"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
)

// EncodeRecipe сериализует рецепт в payload-колонку.
// Формат общий для всех реализаций хранилища.
func EncodeRecipe(r models.Recipe) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode recipe %d: %w", r.ID, err)
	}

	return b, nil
}

// DecodeRecipe восстанавливает рецепт из payload-колонки.
func DecodeRecipe(b []byte) (models.Recipe, error) {
	var r models.Recipe
	if err := json.Unmarshal(b, &r); err != nil {
		return models.Recipe{}, fmt.Errorf("decode recipe: %w", err)
	}

	return r, nil
}
