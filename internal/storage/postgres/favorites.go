package postgres

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/storage"
)

// Favorites возвращает избранное в порядке отметки.
func (s *Storage) Favorites(ctx context.Context) ([]models.Favorite, error) {
	const op = "storage.postgres.Favorites"

	rows, err := s.db.Query(ctx, `SELECT payload, marked_at FROM favorites ORDER BY marked_at, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Favorite{}
	for rows.Next() {
		var fav models.Favorite
		var payload []byte
		if err := rows.Scan(&payload, &fav.MarkedAt); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		if fav.Recipe, err = storage.DecodeRecipe(payload); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		fav.MarkedAt = fav.MarkedAt.UTC()

		out = append(out, fav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return out, nil
}

// AddFavorite сохраняет снимок рецепта.
// Ошибки: storage.ErrAlreadyExists — id уже отмечен.
func (s *Storage) AddFavorite(ctx context.Context, fav models.Favorite) error {
	const op = "storage.postgres.AddFavorite"

	payload, err := storage.EncodeRecipe(fav.Recipe)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO favorites (id, payload, marked_at) VALUES ($1, $2, $3)`,
		fav.Recipe.ID, payload, fav.MarkedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveFavorite удаляет запись избранного.
// Ошибки: storage.ErrNotFound — записи не было.
func (s *Storage) RemoveFavorite(ctx context.Context, id int64) error {
	const op = "storage.postgres.RemoveFavorite"

	tag, err := s.db.Exec(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
