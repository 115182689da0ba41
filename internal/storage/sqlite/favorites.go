package sqlite

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
	"github.com/pribylovaa/go-recipe-cache/internal/storage"
)

// Favorites возвращает избранное в порядке отметки (при равенстве — по id).
func (s *Store) Favorites(ctx context.Context) ([]models.Favorite, error) {
	const op = "storage.sqlite.Favorites"

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload, marked_at FROM favorites ORDER BY marked_at, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Favorite{}
	for rows.Next() {
		var (
			payload  string
			markedAt int64
		)
		if err := rows.Scan(&payload, &markedAt); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		r, err := storage.DecodeRecipe([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		out = append(out, models.Favorite{Recipe: r, MarkedAt: fromMillis(markedAt)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return out, nil
}

// AddFavorite сохраняет снимок рецепта.
// Ошибки: storage.ErrAlreadyExists — id уже отмечен.
func (s *Store) AddFavorite(ctx context.Context, fav models.Favorite) error {
	const op = "storage.sqlite.AddFavorite"

	payload, err := storage.EncodeRecipe(fav.Recipe)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favorites (id, payload, marked_at) VALUES (?, ?, ?)`,
		fav.Recipe.ID, string(payload), toMillis(fav.MarkedAt),
	)
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
func (s *Store) RemoveFavorite(ctx context.Context, id int64) error {
	const op = "storage.sqlite.RemoveFavorite"

	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
