package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"four digit year", "INVOICE\nDate 03/14/2024", date(2024, time.March, 14)},
		{"single digits", "Date: 3/4/2024", date(2024, time.March, 4)},
		{"two digit year", "ship 12/31/23", date(2023, time.December, 31)},
		{"first match only", "1/2/2024 then 5/6/2025", date(2024, time.January, 2)},
		{"no date", "INVOICE 42", entity.UnknownDate},
		{"empty", "", entity.UnknownDate},
		{"first match unparseable", "13/45/2024 and 1/2/2024", entity.UnknownDate},
		{"three digit year", "1/2/202", entity.UnknownDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ExtractDate(tt.text)), "got %v", ExtractDate(tt.text))
		})
	}
}

func TestExtractPackingNote(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  constants.PackingNote
	}{
		{"box", []string{"INVOICE", "Brown Box please"}, constants.PackingBox},
		{"tray", []string{"TRAYS x2"}, constants.PackingTray},
		{"morning", []string{"Morning delivery"}, constants.PackingMorning},
		{"first line wins", []string{"morning run", "box"}, constants.PackingMorning},
		{"rule order within line", []string{"tray or box, morning"}, constants.PackingBox},
		{"none", []string{"INVOICE", "12 Glazed"}, constants.PackingUnknown},
		{"empty", nil, constants.PackingUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPackingNote(tt.lines))
		})
	}
}

func TestExtractRoute(t *testing.T) {
	assert.Equal(t, constants.Route1, ExtractRoute([]string{"x", "ROUTE 1 - North"}))
	assert.Equal(t, constants.Route2, ExtractRoute([]string{"Route 2", "route 1"}))
	assert.Equal(t, constants.RouteUnset, ExtractRoute([]string{"route one"}))
	assert.Equal(t, constants.RouteUnset, ExtractRoute(nil))
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestExtractItems(t *testing.T) {
	cat := testCatalog(t)
	text := "INVOICE\n12 Maple Bar\n6 French Cruller (Chocolate)\n4 French Cruller\nGlazed\n3 Glazed 2.50\n2 glazed"
	got := ExtractItems(text, cat)

	assert.Equal(t, map[string]int{
		"Maple Bar":                  12,
		"French Cruller (Chocolate)": 6,
		"French Cruller":             4,
		"Glazed":                     5,
	}, got)
}

func TestExtractItemsLongestNameOnly(t *testing.T) {
	cat := testCatalog(t)
	got := ExtractItems("6 French Cruller (Chocolate)", cat)
	assert.Equal(t, map[string]int{"French Cruller (Chocolate)": 6}, got)

	got = ExtractItems("10 Chocolate Old Fashioned", cat)
	assert.Equal(t, map[string]int{"Chocolate Old Fashioned": 10}, got)
}

func TestExtractItemsEdgeCases(t *testing.T) {
	cat := testCatalog(t)
	assert.Empty(t, ExtractItems("", cat))
	assert.Empty(t, ExtractItems("Maple Bar", cat))
	assert.Empty(t, ExtractItems("12 Maple Bar", nil))
	assert.Empty(t, ExtractItems("99 Bagels", cat))
}

func TestVendorMatcherExact(t *testing.T) {
	m := NewVendorMatcher([]string{"Donut King", "Donut King Downtown", "Corner Cafe"}, nil, 0, nil)
	ctx := context.Background()

	assert.Equal(t, "donut king downtown", m.Match(ctx, []string{"INVOICE", "Bill To: DONUT KING DOWNTOWN"}))
	assert.Equal(t, "donut king", m.Match(ctx, []string{"bill to donut king"}))
	// first line with any match wins
	assert.Equal(t, "corner cafe", m.Match(ctx, []string{"corner cafe", "donut king downtown"}))
	assert.Equal(t, "", m.Match(ctx, []string{"nobody here"}))
}

func TestVendorMatcherFuzzy(t *testing.T) {
	names := []string{"golden gate donut company"}
	m := NewVendorMatcher(names, LevenshteinSimilarity{}, 0.95, nil)
	ctx := context.Background()

	assert.Equal(t, "golden gate donut company", m.Match(ctx, []string{"Golden Gate Donut Compamy"}))
	assert.Equal(t, "", m.Match(ctx, []string{"golden gate bakery"}))
}

func TestVendorMatcherBelowThresholdIsUnmatched(t *testing.T) {
	sim := SimilarityFunc(func(string, string) (float64, error) { return 0.80, nil })
	m := NewVendorMatcher([]string{"sunrise market"}, sim, 0.95, nil)
	assert.Equal(t, "", m.Match(context.Background(), []string{"sunrize markett"}))
}

func TestVendorMatcherFuzzyErrorIsNoMatch(t *testing.T) {
	calls := 0
	sim := SimilarityFunc(func(a, _ string) (float64, error) {
		calls++
		if a == "bad line" {
			return 0, errors.New("boom")
		}
		return 1, nil
	})
	m := NewVendorMatcher([]string{"acme"}, sim, 0.95, nil)
	assert.Equal(t, "acme", m.Match(context.Background(), []string{"bad line", "good line"}))
	assert.Equal(t, 2, calls)
}

func TestVendorMatcherEmptyTable(t *testing.T) {
	m := NewVendorMatcher(nil, LevenshteinSimilarity{}, 0, nil)
	assert.Equal(t, "", m.Match(context.Background(), []string{"anything"}))
}

func TestLevenshteinSimilarity(t *testing.T) {
	s, err := LevenshteinSimilarity{}.Similarity("abcd", "abcd")
	require.NoError(t, err)
	assert.Equal(t, 1.0, s)

	s, err = LevenshteinSimilarity{}.Similarity("abcd", "wxyz")
	require.NoError(t, err)
	assert.Equal(t, 0.0, s)
}

func TestIsNewInvoice(t *testing.T) {
	lines := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "INVOICE"}
	assert.False(t, IsNewInvoice(lines))
	assert.True(t, IsNewInvoice(lines[1:]))
	assert.False(t, IsNewInvoice(nil))
	assert.True(t, IsNewInvoice([]string{"Invoice #1001"}))
}

func TestAnalyzer(t *testing.T) {
	cat := testCatalog(t)
	a := NewAnalyzer(cat, NewVendorMatcher([]string{"Corner Cafe"}, nil, 0, nil))
	ctx := context.Background()

	head := entity.Page{Index: 0, Text: "INVOICE\n01/05/2024\nCorner Cafe\nTray\nRoute 2\n12 Maple Bar"}
	f := a.Analyze(ctx, head)
	assert.True(t, f.IsNewInvoice)
	assert.True(t, date(2024, time.January, 5).Equal(f.Date))
	assert.Equal(t, constants.PackingTray, f.PackingNote)
	assert.Equal(t, constants.Route2, f.Route)
	assert.Equal(t, "corner cafe", f.Vendor)
	assert.Equal(t, map[string]int{"Maple Bar": 12}, f.Items)

	cont := entity.Page{Index: 1, Text: "continued\n3 Glazed\nBox"}
	f = a.Analyze(ctx, cont)
	assert.False(t, f.IsNewInvoice)
	assert.Equal(t, constants.PackingNote(""), f.PackingNote)
	assert.Equal(t, map[string]int{"Glazed": 3}, f.Items)

	f = a.Analyze(ctx, entity.Page{Index: 2})
	assert.False(t, f.IsNewInvoice)
	assert.Empty(t, f.Items)

	// blank padding counts toward the header block
	padded := entity.Page{Index: 3, Text: "Donut Land\n" + strings.Repeat("\n", 10) + "Invoice total: 42"}
	f = a.Analyze(ctx, padded)
	assert.False(t, f.IsNewInvoice)
}
