// storage определяет контракты доступа к БД для recipe-service.
package storage

//go:generate mockgen -destination=../../mocks/storage.go -package=mocks github.com/pribylovaa/go-recipe-cache/internal/storage Storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — запись с таким ключом уже есть.
	ErrAlreadyExists = errors.New("already exists")
)

// RecipeStorage описывает операции над партициями кэша рецептов.
type RecipeStorage interface {
	// ReplaceCategory атомарно заменяет все рецепты категории на items:
	// удаление старых строк и вставка новых выполняются в одной транзакции.
	// При любой ошибке транзакция откатывается и категория остаётся в прежнем виде.
	ReplaceCategory(ctx context.Context, category string, items []models.Recipe) error
	// AllRecipes возвращает все партиции: категория -> рецепты.
	// Согласованность гарантируется в пределах одной категории.
	AllRecipes(ctx context.Context) (map[string][]models.Recipe, error)
	// RecipesByCategory возвращает содержимое одной партиции.
	RecipesByCategory(ctx context.Context, category string) ([]models.Recipe, error)
}

// FavoriteStorage описывает операции над избранным.
// Таблица независима от партиций рецептов: запись хранит собственный снимок.
type FavoriteStorage interface {
	// Favorites возвращает все отмеченные рецепты в порядке отметки.
	Favorites(ctx context.Context) ([]models.Favorite, error)
	// AddFavorite сохраняет снимок. Если id уже отмечен — ErrAlreadyExists.
	AddFavorite(ctx context.Context, fav models.Favorite) error
	// RemoveFavorite удаляет запись. Если её нет — ErrNotFound.
	RemoveFavorite(ctx context.Context, id int64) error
}

// MetaStorage хранит скалярную метку последней попытки обновления.
type MetaStorage interface {
	// LastRefreshAttempt возвращает метку; ok=false, если метка ещё не записывалась.
	LastRefreshAttempt(ctx context.Context) (t time.Time, ok bool, err error)
	// SetLastRefreshAttempt перезаписывает метку.
	SetLastRefreshAttempt(ctx context.Context, t time.Time) error
}

// Storage задаёт контракт доступа к хранилищу для recipe-сервиса.
type Storage interface {
	RecipeStorage
	FavoriteStorage
	MetaStorage
	Close() error
}
