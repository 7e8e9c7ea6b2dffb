package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lookup modes for a category.
const (
	ModeSearch  = "search"  // one market search per catalog item name
	ModePages   = "pages"   // page sweep of a whole market category
	ModeAuction = "auction" // auction search, minimum buy price per item
)

// Match policies applied to market search results.
const (
	MatchContains = "contains"
	MatchExact    = "exact"
)

// Item is one tracked item name with its tier (0 = no tier filter).
type Item struct {
	Name string `yaml:"name"`
	Tier int    `yaml:"tier"`
}

// Group is a sub-category of items, used by categories that track one
// (life-skill materials keep a sub_category column in their wide table).
type Group struct {
	SubCategory string   `yaml:"sub_category"`
	Tier        int      `yaml:"tier"`
	Items       []string `yaml:"items"`
}

// Category describes how one item category is collected and stored.
type Category struct {
	Key          string  `yaml:"key"`
	Label        string  `yaml:"label"`
	File         string  `yaml:"file"`
	CategoryCode int     `yaml:"category_code"`
	Mode         string  `yaml:"mode"`
	Match        string  `yaml:"match"`
	Grade        string  `yaml:"grade,omitempty"`
	MaxPages     int     `yaml:"max_pages,omitempty"`
	Items        []Item  `yaml:"items,omitempty"`
	Groups       []Group `yaml:"groups,omitempty"`
}

// HasSubCategory reports whether the category's wide table carries a
// sub_category key column.
func (c *Category) HasSubCategory() bool {
	return len(c.Groups) > 0
}

// ExchangePair links a lower-tier material to the higher-tier material it
// converts into at the given ratio (5 low : 1 high on live servers).
type ExchangePair struct {
	Low   string `yaml:"low"`
	High  string `yaml:"high"`
	Ratio int    `yaml:"ratio"`
}

// Catalog is the full collection configuration.
type Catalog struct {
	Categories    []Category     `yaml:"categories"`
	ExchangePairs []ExchangePair `yaml:"exchange_pairs"`
}

// Load reads a catalog YAML file, falling back to the compiled-in default
// catalog when the file does not exist.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := cat.validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Category returns the category with the given key.
func (c *Catalog) Category(key string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].Key == key {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

func (c *Catalog) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("no categories defined")
	}
	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		if cat.Key == "" || cat.File == "" {
			return fmt.Errorf("category %q: key and file are required", cat.Key)
		}
		if seen[cat.Key] {
			return fmt.Errorf("duplicate category key %q", cat.Key)
		}
		seen[cat.Key] = true
		switch cat.Mode {
		case ModeSearch, ModeAuction:
			if len(cat.Items) == 0 && len(cat.Groups) == 0 {
				return fmt.Errorf("category %q: mode %s needs items or groups", cat.Key, cat.Mode)
			}
		case ModePages:
			if cat.MaxPages <= 0 {
				return fmt.Errorf("category %q: mode pages needs max_pages", cat.Key)
			}
		default:
			return fmt.Errorf("category %q: unknown mode %q", cat.Key, cat.Mode)
		}
		switch cat.Match {
		case MatchContains, MatchExact:
		case "":
			// Search results are filtered by name, so the policy must be an
			// explicit choice rather than an implicit default.
			if cat.Mode == ModeSearch {
				return fmt.Errorf("category %q: match policy is required (%s or %s)", cat.Key, MatchContains, MatchExact)
			}
		default:
			return fmt.Errorf("category %q: unknown match policy %q", cat.Key, cat.Match)
		}
	}
	for _, p := range c.ExchangePairs {
		if p.Low == "" || p.High == "" || p.Ratio <= 0 {
			return fmt.Errorf("exchange pair %q -> %q: low, high and positive ratio required", p.Low, p.High)
		}
	}
	return nil
}
