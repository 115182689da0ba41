// spoonacular - реализует service.Provider поверх Spoonacular complexSearch.
package spoonacular

import "encoding/json"

// searchResponse - корневая структура ответа complexSearch.
type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// result описывает поля рецепта, которые клиент разбирает явно.
// Остальное (ингредиенты, инструкции и т.п.) уходит в Payload как есть.
type result struct {
	// ID — идентификатор рецепта у провайдера.
	ID int64 `json:"id"`
	// Title — название рецепта.
	Title string `json:"title"`
	// Image — ссылка на изображение с суффиксом размерности (-312x231.jpg).
	Image string `json:"image"`
	// Nutrition присутствует только при addRecipeNutrition=true.
	Nutrition *nutrition `json:"nutrition"`
}

type nutrition struct {
	Nutrients []nutrient `json:"nutrients"`
}

type nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}
