package models

// MenuItem is a sellable catalog entry. Items are loaded once at startup and never mutated.
type MenuItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Category    MenuCategory `json:"category"`
}

type MenuCategory string

const (
	CategoryMealDeal  MenuCategory = "meal-deal"
	CategorySpecial   MenuCategory = "special"
	CategoryAppetizer MenuCategory = "appetizer"
	CategoryMain      MenuCategory = "main"
	CategoryDrink     MenuCategory = "drink"
	CategoryDessert   MenuCategory = "dessert"
)
