package catalog

import (
	"strings"

	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// CategoryAll selects every category when filtering.
const CategoryAll = "ALL"

// Product is read-only menu reference data.
type Product struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Category    enums.ProductCategory `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	PriceSmall  *decimal.Decimal      `json:"price_small,omitempty"`
	AllowSize   bool                  `json:"allow_size"`
}

// SimplifiedProduct is the reduced view handed to the order-parsing assistant.
type SimplifiedProduct struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Category enums.ProductCategory `json:"category"`
	Price    decimal.Decimal       `json:"price"`
}

// Catalog is an ordered, immutable menu.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a catalog preserving the given order. Duplicate ids keep the first entry.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, exists := c.byID[p.ID]; exists {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Products returns a copy of the menu in display order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Find looks a product up by id.
func (c *Catalog) Find(id string) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Default returns the first menu entry, used when a draft references an unknown product.
func (c *Catalog) Default() (Product, bool) {
	if len(c.products) == 0 {
		return Product{}, false
	}
	return c.products[0], true
}

// FindOrDefault resolves id, falling back to Default on a miss.
func (c *Catalog) FindOrDefault(id string) (Product, bool, bool) {
	if p, ok := c.Find(id); ok {
		return p, true, true
	}
	p, ok := c.Default()
	return p, false, ok
}

// Filter selects products by category and a case-insensitive name substring.
func (c *Catalog) Filter(category, query string) []Product {
	category = strings.TrimSpace(category)
	needle := strings.ToLower(strings.TrimSpace(query))

	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && !strings.EqualFold(category, CategoryAll) && string(p.Category) != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func (c *Catalog) Categories() []enums.ProductCategory {
	seen := map[enums.ProductCategory]struct{}{}
	var out []enums.ProductCategory
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Simplified returns the menu view used for natural-language parsing.
func (c *Catalog) Simplified() []SimplifiedProduct {
	out := make([]SimplifiedProduct, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, SimplifiedProduct{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price})
	}
	return out
}
