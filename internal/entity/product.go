package entity

import (
	"fmt"
	"strings"
)

type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Sizes       []string `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Matches reports whether a lower-cased message mentions the product by
// keyword, category or name.
func (p Product) Matches(lowerMessage string) bool {
	for _, kw := range p.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lowerMessage, kw) {
			return true
		}
	}
	if c := strings.ToLower(strings.TrimSpace(p.Category)); c != "" && strings.Contains(lowerMessage, c) {
		return true
	}
	n := strings.ToLower(strings.TrimSpace(p.Name))
	return n != "" && strings.Contains(lowerMessage, n)
}

// Catalog is the read-only product list loaded once at startup.
type Catalog struct {
	products []Product
}

func NewCatalog(products []Product) *Catalog {
	cp := make([]Product, len(products))
	copy(cp, products)
	return &Catalog{products: cp}
}

func (c *Catalog) Products() []Product {
	cp := make([]Product, len(c.products))
	copy(cp, c.products)
	return cp
}

func (c *Catalog) Len() int { return len(c.products) }

// Relevant returns up to limit products mentioned in message, in catalog order.
func (c *Catalog) Relevant(message string, limit int) []Product {
	lower := strings.ToLower(message)
	var out []Product
	for _, p := range c.products {
		if len(out) >= limit {
			break
		}
		if p.Matches(lower) {
			out = append(out, p)
		}
	}
	return out
}

// Render formats the catalog for the system prompt.
func (c *Catalog) Render() string {
	var b strings.Builder
	for i, p := range c.products {
		fmt.Fprintf(&b, "%d. %s - $%.2f\n", i+1, p.Name, p.Price)
		if p.Description != "" {
			fmt.Fprintf(&b, "   %s\n", p.Description)
		}
		if len(p.Sizes) > 0 {
			fmt.Fprintf(&b, "   Sizes: %s\n", strings.Join(p.Sizes, ", "))
		}
		if len(p.Colors) > 0 {
			fmt.Fprintf(&b, "   Colors: %s\n", strings.Join(p.Colors, ", "))
		}
	}
	return b.String()
}
