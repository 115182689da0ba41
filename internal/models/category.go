package models

// Идентификаторы категорий (приёмов пищи).
const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategorySnack     = "snack"
	CategoryDinner    = "dinner"
)

// DefaultPageSize — сколько рецептов запрашивается на одну категорию.
const DefaultPageSize = 5

// Category — фиксированная корзина контента.
//
// Params — параметры запроса к провайдеру; для кэша непрозрачны.
type Category struct {
	ID     string
	Name   string
	Params map[string]string
}

// Categories возвращает полный набор категорий в порядке отображения.
// Каждый вызов возвращает независимую копию.
func Categories() []Category {
	return []Category{
		{
			ID:   CategoryBreakfast,
			Name: "Desayuno",
			Params: map[string]string{
				"type":         "breakfast",
				"maxSodium":    "300",
				"minPotassium": "200",
				"minMagnesium": "50",
			},
		},
		{
			ID:   CategoryLunch,
			Name: "Comida",
			Params: map[string]string{
				"type":         "main course",
				"maxSodium":    "500",
				"minPotassium": "300",
				"minMagnesium": "70",
			},
		},
		{
			ID:   CategorySnack,
			Name: "Merienda",
			Params: map[string]string{
				"type":         "snack",
				"maxSodium":    "200",
				"minPotassium": "150",
				"minMagnesium": "30",
			},
		},
		{
			ID:   CategoryDinner,
			Name: "Cena",
			Params: map[string]string{
				"type":         "dinner",
				"maxSodium":    "400",
				"minPotassium": "250",
				"minMagnesium": "60",
			},
		},
	}
}

// CategoryByID ищет категорию по идентификатору.
func CategoryByID(id string) (Category, bool) {
	for _, c := range Categories() {
		if c.ID == id {
			return c, true
		}
	}

	return Category{}, false
}
