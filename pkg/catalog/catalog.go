// Package catalog is the static list of benefits a membership plan can include.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed benefits.yaml
var benefitsYAML []byte

// Benefit is a single selectable plan benefit.
type Benefit struct {
	ID       string `yaml:"id" json:"id"`
	Label    string `yaml:"label" json:"label"`
	Category string `yaml:"-" json:"category"`
}

// Category groups benefits for display.
type Category struct {
	ID       string    `yaml:"id" json:"id"`
	Label    string    `yaml:"label" json:"label"`
	Benefits []Benefit `yaml:"benefits" json:"benefits"`
}

// Catalog is an immutable benefit lookup.
type Catalog struct {
	categories []Category
	byID       map[string]Benefit
	order      []string
}

// Parse builds a catalog from its YAML description.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse benefit catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]Benefit)}
	for i := range doc.Categories {
		cat := &doc.Categories[i]
		for j := range cat.Benefits {
			b := &cat.Benefits[j]
			if b.ID == "" {
				return nil, fmt.Errorf("benefit in category %q has no id", cat.ID)
			}
			if _, dup := c.byID[b.ID]; dup {
				return nil, fmt.Errorf("duplicate benefit id %q", b.ID)
			}
			b.Category = cat.ID
			c.byID[b.ID] = *b
			c.order = append(c.order, b.ID)
		}
	}
	c.categories = doc.Categories
	return c, nil
}

// Label returns the display label for id, or id itself when it is unknown.
func (c *Catalog) Label(id string) string {
	if b, ok := c.byID[id]; ok && b.Label != "" {
		return b.Label
	}
	return id
}

// Lookup returns the benefit with the given id.
func (c *Catalog) Lookup(id string) (Benefit, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// Labels maps ids to display labels, preserving order.
func (c *Catalog) Labels(ids []string) []string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = c.Label(id)
	}
	return labels
}

// All returns every benefit in catalog order.
func (c *Catalog) All() []Benefit {
	all := make([]Benefit, 0, len(c.order))
	for _, id := range c.order {
		all = append(all, c.byID[id])
	}
	return all
}

// Categories returns the benefits grouped by category.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{
			ID:       cat.ID,
			Label:    cat.Label,
			Benefits: append([]Benefit(nil), cat.Benefits...),
		}
	}
	return out
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(benefitsYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Label returns the display label for id from the built-in catalog.
func Label(id string) string {
	return Default().Label(id)
}
