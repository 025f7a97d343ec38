// Package catalog holds the item catalog shared by line-item extraction and
// summary rendering: canonical item order, categories and container sizes.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/invoice-sorter/internal/common"
)

// OtherCategory collects items without a known category; it renders last.
const OtherCategory = "Other"

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Unit is a display unit with singular and plural labels.
type Unit struct {
	Singular string `yaml:"singular" json:"singular"`
	Plural   string `yaml:"plural" json:"plural"`
}

// Label picks the singular form for exactly one, the plural otherwise.
func (u Unit) Label(one bool) string {
	if one {
		return u.Singular
	}
	return u.Plural
}

// Item is one product line. UnitsPerContainer of zero means counts are shown
// as raw pieces.
type Item struct {
	Name              string `yaml:"name" json:"name"`
	Category          string `yaml:"category,omitempty" json:"category,omitempty"`
	UnitsPerContainer int    `yaml:"units_per_container,omitempty" json:"units_per_container,omitempty"`
}

type units struct {
	Container *Unit `yaml:"container,omitempty" json:"container,omitempty"`
	Count     *Unit `yaml:"count,omitempty" json:"count,omitempty"`
}

type document struct {
	Version    int      `yaml:"version" json:"version"`
	Units      units    `yaml:"units" json:"units"`
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Items      []Item   `yaml:"items" json:"items"`
}

// Catalog is an immutable, validated item catalog.
type Catalog struct {
	Version       int
	ContainerUnit Unit
	CountUnit     Unit
	categories    []string
	items         []Item
	byName        map[string]int
	matchOrder    []Item
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file; an empty path returns the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, common.Newf(common.CodeCatalog, common.ErrCatalog, err, "read catalog %s", path)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML (or JSON) catalog document.
func Parse(data []byte) (*Catalog, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, common.Newf(common.CodeCatalog, common.ErrCatalog, err, "decode catalog")
	}
	if err := ValidateDocument(tree); err != nil {
		return nil, common.Newf(common.CodeCatalog, common.ErrCatalog, err, "validate catalog")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, common.Newf(common.CodeCatalog, common.ErrCatalog, err, "decode catalog")
	}
	return New(doc.Version, doc.Categories, doc.Items, doc.Units.Container, doc.Units.Count)
}

// New builds a catalog from already decoded parts. Nil units fall back to
// screen/screens and pc/pcs.
func New(version int, categories []string, items []Item, container, count *Unit) (*Catalog, error) {
	c := &Catalog{
		Version:       version,
		ContainerUnit: Unit{Singular: "screen", Plural: "screens"},
		CountUnit:     Unit{Singular: "pc", Plural: "pcs"},
		byName:        make(map[string]int, len(items)),
	}
	if container != nil {
		c.ContainerUnit = *container
	}
	if count != nil {
		c.CountUnit = *count
	}

	known := make(map[string]bool, len(categories))
	for _, cat := range categories {
		cat = strings.TrimSpace(cat)
		if cat == "" || strings.EqualFold(cat, OtherCategory) || known[cat] {
			continue
		}
		known[cat] = true
		c.categories = append(c.categories, cat)
	}

	var errs []error
	for i, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		it.Category = strings.TrimSpace(it.Category)
		if it.Name == "" {
			errs = append(errs, fmt.Errorf("item %d: empty name", i))
			continue
		}
		key := strings.ToLower(it.Name)
		if _, dup := c.byName[key]; dup {
			errs = append(errs, fmt.Errorf("item %d: duplicate name %q", i, it.Name))
			continue
		}
		if it.UnitsPerContainer < 0 {
			errs = append(errs, fmt.Errorf("item %q: negative units_per_container", it.Name))
			continue
		}
		if !known[it.Category] {
			it.Category = OtherCategory
		}
		c.byName[key] = len(c.items)
		c.items = append(c.items, it)
	}
	if len(errs) > 0 {
		return nil, common.Newf(common.CodeCatalog, common.ErrCatalog, errors.Join(errs...), "build catalog")
	}

	c.matchOrder = append([]Item(nil), c.items...)
	sort.SliceStable(c.matchOrder, func(i, j int) bool {
		return len(c.matchOrder[i].Name) > len(c.matchOrder[j].Name)
	})
	return c, nil
}

// Items returns the items in canonical (catalog file) order.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// MatchOrder returns the items by descending name length; ties keep catalog
// order. Extraction tries names in this order so longer names win.
func (c *Catalog) MatchOrder() []Item {
	return c.matchOrder
}

// Lookup finds an item by case-insensitive name.
func (c *Catalog) Lookup(name string) (Item, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Categories returns the configured category order, without Other.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// HasCategories reports whether summaries should be split into sections.
func (c *Catalog) HasCategories() bool {
	return len(c.categories) > 0
}

// Sections returns the category names in render order, Other last when any
// item falls into it.
func (c *Catalog) Sections() []string {
	out := c.Categories()
	for _, it := range c.items {
		if it.Category == OtherCategory {
			return append(out, OtherCategory)
		}
	}
	return out
}

// MarshalYAML writes the catalog back in its file form.
func (c *Catalog) MarshalYAML() (any, error) {
	cu, nu := c.ContainerUnit, c.CountUnit
	items := make([]Item, len(c.items))
	for i, it := range c.items {
		if it.Category == OtherCategory {
			it.Category = ""
		}
		items[i] = it
	}
	return document{
		Version:    c.Version,
		Units:      units{Container: &cu, Count: &nu},
		Categories: c.Categories(),
		Items:      items,
	}, nil
}
