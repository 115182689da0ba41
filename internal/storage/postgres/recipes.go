package postgres

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/storage"

	"github.com/jackc/pgx/v5"
)

// ReplaceCategory атомарно заменяет содержимое партиции.
//
// DELETE и пачка INSERT выполняются внутри pgx.BeginFunc: любая ошибка
// (включая дубликат id внутри items) откатывает транзакцию целиком.
func (s *Storage) ReplaceCategory(ctx context.Context, category string, items []models.Recipe) error {
	const op = "storage.postgres.ReplaceCategory"

	if category == "" {
		return fmt.Errorf("%s: category is required", op)
	}

	payloads := make([][]byte, len(items))
	for i, item := range items {
		b, err := storage.EncodeRecipe(item)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		payloads[i] = b
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM recipes WHERE category = $1`, category); err != nil {
			return fmt.Errorf("delete: %w", err)
		}

		if len(items) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, item := range items {
			batch.Queue(`
			INSERT INTO recipes (category, id, position, payload, inserted_at)
			VALUES ($1, $2, $3, $4, now())`,
				category, item.ID, i, payloads[i])
		}

		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				if isUniqueViolation(err) {
					return fmt.Errorf("item %d: %w", items[i].ID, storage.ErrAlreadyExists)
				}
				return fmt.Errorf("batch item %d: %w", i, err)
			}
		}

		return br.Close()
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AllRecipes возвращает все партиции, упорядоченные по позиции внутри категории.
func (s *Storage) AllRecipes(ctx context.Context) (map[string][]models.Recipe, error) {
	const op = "storage.postgres.AllRecipes"

	rows, err := s.db.Query(ctx, `SELECT category, payload FROM recipes ORDER BY category, position`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make(map[string][]models.Recipe)
	for rows.Next() {
		var (
			category string
			payload  []byte
		)
		if err := rows.Scan(&category, &payload); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		r, err := storage.DecodeRecipe(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.Category = category

		out[category] = append(out[category], r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return out, nil
}

// RecipesByCategory возвращает одну партицию.
func (s *Storage) RecipesByCategory(ctx context.Context, category string) ([]models.Recipe, error) {
	const op = "storage.postgres.RecipesByCategory"

	rows, err := s.db.Query(ctx,
		`SELECT payload FROM recipes WHERE category = $1 ORDER BY position`, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Recipe{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		r, err := storage.DecodeRecipe(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.Category = category

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return out, nil
}
