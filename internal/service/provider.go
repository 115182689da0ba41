package service

//go:generate mockgen -destination=../../mocks/provider.go -package=mocks github.com/pribylovaa/go-recipe-cache/internal/service Provider

import (
	"context"

	"github.com/pribylovaa/go-recipe-cache/internal/models"
)

// Provider описывает удалённый источник рецептов.
//
// Требования к реализации:
// 1) вернуть не более count элементов (сервис всё равно обрежет лишнее);
// 2) Image возвращается как есть, нормализацию выполняет сервис;
// 3) Payload — исходный JSON рецепта, сервис его не интерпретирует;
// 4) реализация обязана уважать ctx (отмена/таймауты).
type Provider interface {
	Fetch(ctx context.Context, category models.Category, count int) ([]models.Recipe, error)
}
