package menu

import "phone_orders/internal/models"

// DefaultItems is the Burgo Pizza & Kebab menu.
func DefaultItems() []models.MenuItem {
	return []models.MenuItem{
		{ID: "meal-1", Name: `12" Pizza Meal`, Description: `12" Pizza with 4 Toppings, Chips and Can`, Price: 18.0, Category: models.CategoryMealDeal},
		{ID: "meal-2", Name: `9" Pizza Meal`, Description: `9" Pizza with 4 Toppings, Chips and Can`, Price: 15.0, Category: models.CategoryMealDeal},
		{ID: "meal-3", Name: `14" Pizza Meal`, Description: `14" Pizza with 4 Toppings, Chips and Can`, Price: 20.0, Category: models.CategoryMealDeal},
		{ID: "meal-4", Name: "Doner Kebab Meal", Description: "Meal Comes With Chips & Can", Price: 13.5, Category: models.CategoryMealDeal},
		{ID: "meal-5", Name: "Shawarma Kebab Meal", Description: "Meal Comes With Chips & Can", Price: 14.0, Category: models.CategoryMealDeal},
		{ID: "meal-6", Name: "Mix Kebab Meal", Description: "Meal Comes With Chips & Can", Price: 14.5, Category: models.CategoryMealDeal},
		{ID: "meal-7", Name: "Doner Wrap Meal", Description: "Meal Comes With Chips & Can of Drink", Price: 11.0, Category: models.CategoryMealDeal},
		{ID: "meal-8", Name: "Mix Wrap Meal", Description: "Meal Comes With Chips & Can", Price: 12.0, Category: models.CategoryMealDeal},
		{ID: "meal-9", Name: "Chicken Wrap Meal", Description: "Meal Comes With Chips & Can of Drink", Price: 11.0, Category: models.CategoryMealDeal},
		{ID: "meal-10", Name: "5 Pcs Chicken Tender Meal", Description: "Meal Comes With Chips & Can", Price: 9.5, Category: models.CategoryMealDeal},
		{ID: "meal-11", Name: "8 Pcs Chicken Nuggets Meal", Description: "8 x Nuggets with Chips & Can", Price: 9.5, Category: models.CategoryMealDeal},
	}
}
