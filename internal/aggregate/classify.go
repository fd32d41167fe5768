package aggregate

import (
	"strings"

	"github.com/plantaops/planta-dashboard/internal/parse"
)

// Stock presentation categories.
const (
	CategoryProduced  = "produced"
	CategoryPallets   = "pallets"
	CategoryPackaging = "packaging"
	CategorySupplies  = "supplies"
)

// KeywordRule maps substring keywords to a category. Rules are evaluated in
// order, first match wins; keywords are matched against the normalized
// (uppercase, accent-free) product name.
type KeywordRule struct {
	Keywords []string
	Category string
}

// Classifier buckets free-text names by an ordered keyword rule table.
type Classifier struct {
	rules    []KeywordRule
	fallback string
}

// NewClassifier builds a classifier with the given rules and the category
// returned when nothing matches.
func NewClassifier(rules []KeywordRule, fallback string) *Classifier {
	return &Classifier{rules: rules, fallback: fallback}
}

// Classify returns the category for a raw product name.
func (c *Classifier) Classify(name string) string {
	normalized := parse.CleanName(name)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return rule.Category
			}
		}
	}
	return c.fallback
}

// StockClassifier carries the warehouse's display buckets: pallets first,
// then packaging, everything else is a raw supply.
func StockClassifier() *Classifier {
	return NewClassifier([]KeywordRule{
		{Keywords: []string{"TARIMA", "PALLET"}, Category: CategoryPallets},
		{Keywords: []string{"ENVASE", "SACO", "BOLSA", "BIG BAG", "FILM"}, Category: CategoryPackaging},
	}, CategorySupplies)
}
