// Package registry holds the static indicator catalog: which indicators
// exist, where they come from, and how they participate in scoring. The
// catalog is loaded once at startup and never mutated.
package registry

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sinn357/investment-app-sub000/internal/adapters"
	"github.com/sinn357/investment-app-sub000/internal/schema"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Category is one of the seven fixed indicator categories.
type Category string

const (
	CategoryBusiness   Category = "business"
	CategoryEmployment Category = "employment"
	CategoryInterest   Category = "interest"
	CategoryTrade      Category = "trade"
	CategoryInflation  Category = "inflation"
	CategoryCredit     Category = "credit"
	CategorySentiment  Category = "sentiment"
)

// Categories lists every category in catalog order.
var Categories = []Category{
	CategoryBusiness, CategoryEmployment, CategoryInterest,
	CategoryTrade, CategoryInflation, CategoryCredit, CategorySentiment,
}

func validCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func validUnit(u schema.Unit) bool {
	switch u {
	case schema.UnitNone, schema.UnitPercent, schema.UnitThousand:
		return true
	}
	return false
}

// Indicator is one immutable catalog entry.
type Indicator struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	NameKo       string             `yaml:"name_ko"`
	URL          string             `yaml:"url"`
	Kind         adapters.Kind      `yaml:"kind"`
	Category     Category           `yaml:"category"`
	Unit         schema.Unit        `yaml:"unit"` // tag applied to untagged series values ("5.33" published as percent)
	Enabled      bool               `yaml:"enabled"`
	Threshold    map[string]float64 `yaml:"threshold,omitempty"`
	ReverseColor bool               `yaml:"reverse_color"` // lower raw values are economically better
	ManualCheck  bool               `yaml:"manual_check"`  // excluded from automated crawling/scoring
	CalculateYoY bool               `yaml:"calculate_yoy"` // level series post-processed to YoY percent
}

// Source builds the adapter extraction target for this entry.
func (i Indicator) Source() adapters.Source {
	return adapters.Source{
		IndicatorID:  i.ID,
		Kind:         i.Kind,
		URL:          i.URL,
		Unit:         i.Unit,
		CalculateYoY: i.CalculateYoY,
	}
}

// Registry is the loaded catalog.
type Registry struct {
	indicators []Indicator
	byID       map[string]int
}

type catalogFile struct {
	Indicators []Indicator `yaml:"indicators"`
}

// Load reads a catalog from path, or the embedded default catalog when path
// is empty.
func Load(path string) (*Registry, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read indicator catalog: %w", err)
		}
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse indicator catalog: %w", err)
	}

	r := &Registry{
		indicators: file.Indicators,
		byID:       make(map[string]int, len(file.Indicators)),
	}
	for idx, ind := range r.indicators {
		if ind.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", idx)
		}
		if _, dup := r.byID[ind.ID]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", ind.ID)
		}
		if !validCategory(ind.Category) {
			return nil, fmt.Errorf("catalog entry %q: unknown category %q", ind.ID, ind.Category)
		}
		if !validUnit(ind.Unit) {
			return nil, fmt.Errorf("catalog entry %q: unknown unit %q", ind.ID, ind.Unit)
		}
		r.byID[ind.ID] = idx
	}
	return r, nil
}

// All returns every catalog entry in catalog order.
func (r *Registry) All() []Indicator {
	out := make([]Indicator, len(r.indicators))
	copy(out, r.indicators)
	return out
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (Indicator, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Indicator{}, false
	}
	return r.indicators[idx], true
}

// Crawlable returns enabled entries whose data is collected automatically
// (manual_check entries are fed externally).
func (r *Registry) Crawlable() []Indicator {
	var out []Indicator
	for _, ind := range r.indicators {
		if ind.Enabled && !ind.ManualCheck {
			out = append(out, ind)
		}
	}
	return out
}

// ByCategory groups enabled entries per category.
func (r *Registry) ByCategory() map[Category][]Indicator {
	out := make(map[Category][]Indicator)
	for _, ind := range r.indicators {
		if !ind.Enabled {
			continue
		}
		out[ind.Category] = append(out[ind.Category], ind)
	}
	return out
}
