package menu

import (
	"fmt"
	"strings"

	"phone_orders/internal/models"
)

const DefaultCurrency = "€"

// Catalog is an immutable, ordered list of menu items.
type Catalog struct {
	items    []models.MenuItem
	currency string
}

func NewCatalog(items []models.MenuItem, currency string) *Catalog {
	if currency == "" {
		currency = DefaultCurrency
	}
	cp := make([]models.MenuItem, len(items))
	copy(cp, items)
	return &Catalog{items: cp, currency: currency}
}

func (c *Catalog) Items() []models.MenuItem {
	cp := make([]models.MenuItem, len(c.items))
	copy(cp, c.items)
	return cp
}

func (c *Catalog) Currency() string {
	return c.currency
}

// Lookup returns the first item, in catalog order, whose name contains the query,
// whose name is contained in the query, or whose description contains the query.
// Matching is case-insensitive and deliberately loose.
func (c *Catalog) Lookup(query string) (models.MenuItem, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return models.MenuItem{}, false
	}

	for _, item := range c.items {
		if Matches(item, q) {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

// Matches applies the lookup rule to a single item. q must already be lower-cased.
func Matches(item models.MenuItem, q string) bool {
	name := strings.ToLower(item.Name)
	return strings.Contains(name, q) ||
		strings.Contains(q, name) ||
		strings.Contains(strings.ToLower(item.Description), q)
}

// Format renders the menu grouped by category in first-seen order.
func (c *Catalog) Format() string {
	var order []models.MenuCategory
	grouped := make(map[models.MenuCategory][]models.MenuItem)
	for _, item := range c.items {
		if _, ok := grouped[item.Category]; !ok {
			order = append(order, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	blocks := make([]string, 0, len(order))
	for _, category := range order {
		var b strings.Builder
		b.WriteString(string(category))
		b.WriteString(":")
		for _, item := range grouped[category] {
			fmt.Fprintf(&b, "\n- %s: %s - %s", item.Name, c.FormatMoney(item.Price), item.Description)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func (c *Catalog) FormatMoney(amount float64) string {
	return c.currency + FormatAmount(amount)
}

func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
