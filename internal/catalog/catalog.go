// Package catalog serves the read-only product list the storefront sells.
package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/example/tarana-storefront/internal/domain"
)

// AllCategories selects every category in Filter.
const AllCategories = "All"

type Catalog struct {
	products []domain.Product
	byID     map[int64]int
}

// New indexes products; ids must be unique.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{products: slices.Clone(products), byID: make(map[int64]int, len(products))}
	for i, p := range c.products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d: %w", p.ID, domain.ErrValidation)
		}
		if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return nil, fmt.Errorf("product %d price %v: %w", p.ID, p.Price, domain.ErrValidation)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Load reads a JSON array of products from path.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(b, &products); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return New(products)
}

// Default returns the built-in collection.
func Default() *Catalog {
	c, err := New(defaultProducts)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) List() []domain.Product {
	return slices.Clone(c.products)
}

func (c *Catalog) Get(id int64) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Categories lists "All" followed by each category in first-seen order.
func (c *Catalog) Categories() []string {
	out := []string{AllCategories}
	for _, p := range c.products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

// Filter keeps products in category (empty or "All" keeps every category)
// whose name contains query, case-insensitively.
func (c *Catalog) Filter(category, query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Discount is the rounded percentage saved against OriginalPrice, 0 if none.
func Discount(p domain.Product) int {
	if p.OriginalPrice <= 0 || p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
}
