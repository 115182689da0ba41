// models содержит доменные сущности recipe-service.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"encoding/json"
	"time"
)

// Recipe — доменная сущность рецепта (элемент кэша).
//
// Особенности:
//   - ID — целочисленный идентификатор провайдера, уникален в пределах категории;
//   - Payload — «сырой» JSON провайдера, кэш его не интерпретирует;
//   - Nutrients строится один раз при нормализации и дальше только читается.
type Recipe struct {
	// ID — идентификатор рецепта у провайдера.
	ID int64 `json:"id"`
	// Category — категория (приём пищи), которой сейчас принадлежит рецепт.
	Category string `json:"category"`
	// Title — название рецепта.
	Title string `json:"title"`
	// Image — ссылка на изображение в канонической размерности.
	Image string `json:"image"`
	// Nutrients — пищевая ценность по имени нутриента.
	Nutrients Nutrients `json:"nutrients,omitempty"`
	// Payload — полный ответ провайдера по рецепту (ингредиенты, инструкции и т.п.).
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Nutrient — количество одного нутриента.
type Nutrient struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Nutrients — типизированное отображение «имя нутриента -> количество».
type Nutrients map[string]Nutrient

// Amount возвращает количество нутриента по имени и признак наличия.
func (n Nutrients) Amount(name string) (float64, bool) {
	v, ok := n[name]
	return v.Amount, ok
}

// Favorite — отмеченный пользователем рецепт.
//
// Хранит собственный снимок рецепта: запись остаётся валидной,
// даже если рецепт вытеснен из своей категории последующим обновлением.
type Favorite struct {
	Recipe   Recipe    `json:"recipe"`
	MarkedAt time.Time `json:"marked_at"`
}
