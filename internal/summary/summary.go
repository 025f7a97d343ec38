// Package summary builds the per-date item summary and renders it as PDF
// pages.
package summary

import (
	"sort"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

// Line is one item row of a summary.
type Line struct {
	Item     string
	Count    int
	Quantity string // display text, e.g. "1.5 screens" or "7 pcs"
}

// Section is a labelled block of lines. Flat summaries have one unnamed
// section.
type Section struct {
	Name  string
	Lines []Line
}

// Summary is the daily aggregate ready for layout.
type Summary struct {
	Date     time.Time
	Invoices int
	Sections []Section
}

// Flat reports whether the summary uses the uncategorised layout.
func (s Summary) Flat() bool {
	return len(s.Sections) == 1 && s.Sections[0].Name == ""
}

// Empty reports whether no item had a nonzero count.
func (s Summary) Empty() bool {
	for _, sec := range s.Sections {
		if len(sec.Lines) > 0 {
			return false
		}
	}
	return true
}

// Aggregate sums item counts across invoices. Counts stay integers; no
// rounding happens here.
func Aggregate(invoices []entity.Invoice) map[string]int {
	agg := map[string]int{}
	for _, inv := range invoices {
		for name, n := range inv.ItemCounts {
			agg[name] += n
		}
	}
	return agg
}

// Build orders the aggregate by the catalog and converts counts to display
// quantities. Items with a zero count are left out; names missing from the
// catalog land in the Other section, sorted by name.
func Build(date time.Time, agg map[string]int, cat *catalog.Catalog) Summary {
	s := Summary{Date: date}
	if cat == nil {
		return s
	}

	buckets := map[string][]Line{}
	seen := map[string]bool{}
	for _, it := range cat.Items() {
		seen[it.Name] = true
		n := agg[it.Name]
		if n <= 0 {
			continue
		}
		buckets[it.Category] = append(buckets[it.Category], Line{
			Item:     it.Name,
			Count:    n,
			Quantity: Quantity(n, it, cat),
		})
	}

	var strays []string
	for name, n := range agg {
		if !seen[name] && n > 0 {
			strays = append(strays, name)
		}
	}
	sort.Strings(strays)
	for _, name := range strays {
		n := agg[name]
		buckets[catalog.OtherCategory] = append(buckets[catalog.OtherCategory], Line{
			Item:     name,
			Count:    n,
			Quantity: Quantity(n, catalog.Item{Name: name}, cat),
		})
	}

	if !cat.HasCategories() {
		s.Sections = []Section{{Lines: buckets[catalog.OtherCategory]}}
		return s
	}
	sections := cat.Sections()
	if len(strays) > 0 && (len(sections) == 0 || sections[len(sections)-1] != catalog.OtherCategory) {
		sections = append(sections, catalog.OtherCategory)
	}
	for _, name := range sections {
		if lines := buckets[name]; len(lines) > 0 {
			s.Sections = append(s.Sections, Section{Name: name, Lines: lines})
		}
	}
	return s
}

// BuildForGroup aggregates a date group's invoices and builds its summary.
func BuildForGroup(date time.Time, invoices []entity.Invoice, cat *catalog.Catalog) Summary {
	s := Build(date, Aggregate(invoices), cat)
	s.Invoices = len(invoices)
	return s
}
