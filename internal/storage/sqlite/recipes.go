package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/storage"
)

// ReplaceCategory атомарно заменяет содержимое партиции.
//
// Удаление старых строк и вставка новых выполняются в одной транзакции.
// Ошибка на любой вставке (в т.ч. дубликат id) откатывает транзакцию целиком:
// партиция остаётся в прежнем, полном виде.
func (s *Store) ReplaceCategory(ctx context.Context, category string, items []models.Recipe) (err error) {
	const op = "storage.sqlite.ReplaceCategory"

	if category == "" {
		return fmt.Errorf("%s: category is required", op)
	}

	payloads := make([][]byte, len(items))
	for i, item := range items {
		if payloads[i], err = storage.EncodeRecipe(item); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM recipes WHERE category = ?`, category); err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO recipes (category, id, position, payload, inserted_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	now := toMillis(time.Now())
	for i, item := range items {
		if _, err = stmt.ExecContext(ctx, category, item.ID, i, string(payloads[i]), now); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s: item %d: %w", op, item.ID, storage.ErrAlreadyExists)
			}
			return fmt.Errorf("%s: insert item %d: %w", op, item.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// AllRecipes возвращает все партиции, упорядоченные по позиции внутри категории.
func (s *Store) AllRecipes(ctx context.Context) (map[string][]models.Recipe, error) {
	const op = "storage.sqlite.AllRecipes"

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, payload FROM recipes ORDER BY category, position`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make(map[string][]models.Recipe)
	for rows.Next() {
		var category, payload string
		if err := rows.Scan(&category, &payload); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		r, err := storage.DecodeRecipe([]byte(payload))
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

// RecipesByCategory возвращает одну партицию; пустая категория — пустой срез без ошибки.
func (s *Store) RecipesByCategory(ctx context.Context, category string) ([]models.Recipe, error) {
	const op = "storage.sqlite.RecipesByCategory"

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM recipes WHERE category = ? ORDER BY position`, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return scanRecipes(op, category, rows)
}

func scanRecipes(op, category string, rows *sql.Rows) ([]models.Recipe, error) {
	defer rows.Close()

	out := []models.Recipe{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		r, err := storage.DecodeRecipe([]byte(payload))
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
