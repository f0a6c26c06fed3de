package menu

import (
	"strings"
	"testing"

	"phone_orders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return NewCatalog([]models.MenuItem{
		{ID: "app-1", Name: "Spring Rolls", Description: "Crispy vegetable spring rolls", Price: 8.99, Category: models.CategoryAppetizer},
		{ID: "main-1", Name: "Margherita Pizza", Description: "Tomato and mozzarella", Price: 12.5, Category: models.CategoryMain},
		{ID: "drink-1", Name: "Soft Drink", Description: "Coke, Sprite, or Fanta", Price: 2.99, Category: models.CategoryDrink},
		{ID: "main-2", Name: "Pepperoni Pizza", Description: "Spicy pepperoni", Price: 14, Category: models.CategoryMain},
	}, "$")
}

func TestLookup(t *testing.T) {
	catalog := testCatalog()

	cases := map[string]struct {
		query  string
		wantID string
		found  bool
	}{
		"ExactName":                {"Spring Rolls", "app-1", true},
		"QueryInsideName":          {"rolls", "app-1", true},
		"NameInsideQuery":          {"two soft drink please", "drink-1", true},
		"QueryInsideDescription":   {"sprite", "drink-1", true},
		"UpperCase":                {"PIZZA", "main-1", true},
		"FirstMatchInCatalogOrder": {"pizza", "main-1", true},
		"Miss":                     {"sushi", "", false},
		"Blank":                    {"   ", "", false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			item, ok := catalog.Lookup(tc.query)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.wantID, item.ID)
		})
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	catalog := NewCatalog(DefaultItems(), "")

	upper, okUpper := catalog.Lookup("DONER KEBAB")
	lower, okLower := catalog.Lookup("doner kebab")
	require.True(t, okUpper)
	require.True(t, okLower)
	assert.Equal(t, lower, upper)
	assert.Equal(t, "meal-4", upper.ID)
}

func TestFormat(t *testing.T) {
	catalog := testCatalog()

	want := "appetizer:\n" +
		"- Spring Rolls: $8.99 - Crispy vegetable spring rolls\n\n" +
		"main:\n" +
		"- Margherita Pizza: $12.50 - Tomato and mozzarella\n" +
		"- Pepperoni Pizza: $14.00 - Spicy pepperoni\n\n" +
		"drink:\n" +
		"- Soft Drink: $2.99 - Coke, Sprite, or Fanta"
	assert.Equal(t, want, catalog.Format())
}

func TestFormatContainsEveryItem(t *testing.T) {
	catalog := NewCatalog(DefaultItems(), "")
	out := catalog.Format()

	for _, item := range catalog.Items() {
		assert.True(t, strings.Contains(out, item.Name), "missing name %q", item.Name)
		assert.True(t, strings.Contains(out, catalog.FormatMoney(item.Price)), "missing price for %q", item.Name)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	catalog := testCatalog()
	items := catalog.Items()
	items[0].Name = "changed"

	assert.Equal(t, "Spring Rolls", catalog.Items()[0].Name)
}

func TestNewCatalogDefaultsCurrency(t *testing.T) {
	catalog := NewCatalog(nil, "")
	assert.Equal(t, "€", catalog.Currency())
	assert.Equal(t, "€27.00", catalog.FormatMoney(27))
	assert.Empty(t, catalog.Format())
}
