package segment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
	"github.com/joseph-ayodele/invoice-sorter/internal/extract"
)

func analyzer(t *testing.T, vendors ...string) extract.PageAnalyzer {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return extract.NewAnalyzer(cat, extract.NewVendorMatcher(vendors, nil, 0, nil))
}

func pages(texts ...string) []entity.Page {
	out := make([]entity.Page, len(texts))
	for i, t := range texts {
		out[i] = entity.Page{Index: i, Text: t, Source: constants.SourceNative}
	}
	return out
}

func TestSegmentTwoInvoicesWithContinuation(t *testing.T) {
	in := pages(
		"INVOICE #1\n02/10/2024\nCorner Cafe\nBrown Box\n12 Maple Bar",
		"page 2 of 2\n8 Maple Bar\n3 Glazed",
		"INVOICE #2\n02/09/2024\nTray\nRoute 1\n5 Glazed",
	)
	got := Segment(context.Background(), in, analyzer(t, "Corner Cafe"))
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, []int{0, 1}, first.Pages)
	assert.True(t, first.Date.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, constants.PackingBox, first.PackingNote)
	assert.Equal(t, constants.RouteUnset, first.Route)
	assert.Equal(t, "corner cafe", first.Vendor)
	assert.Equal(t, map[string]int{"Maple Bar": 20, "Glazed": 3}, first.ItemCounts)
	assert.Equal(t, 0, first.Seq)

	second := got[1]
	assert.Equal(t, []int{2}, second.Pages)
	assert.Equal(t, constants.PackingTray, second.PackingNote)
	assert.Equal(t, constants.Route1, second.Route)
	assert.Equal(t, "", second.Vendor)
	assert.Equal(t, 1, second.Seq)
}

func TestSegmentMalformedFirstPage(t *testing.T) {
	in := pages(
		"cover sheet\nBox\n4 Glazed",
		"INVOICE\n03/01/2024\n1 Glazed",
	)
	got := Segment(context.Background(), in, analyzer(t))
	require.Len(t, got, 2)

	lead := got[0]
	assert.Equal(t, []int{0}, lead.Pages)
	assert.Equal(t, entity.UnknownDate, lead.Date)
	assert.Equal(t, constants.PackingUnknown, lead.PackingNote, "header fields are not read from a page without the marker")
	assert.Equal(t, constants.RouteUnset, lead.Route)
	assert.Equal(t, constants.UnmatchedVendorRank, lead.VendorRank)
	assert.Equal(t, map[string]int{"Glazed": 4}, lead.ItemCounts)
}

func TestSegmentZeroPages(t *testing.T) {
	assert.Empty(t, Segment(context.Background(), nil, analyzer(t)))
}

func TestSegmentBlankPagesAttachToCurrentInvoice(t *testing.T) {
	in := pages("INVOICE\n1/1/2024", "", "   ")
	got := Segment(context.Background(), in, analyzer(t))
	require.Len(t, got, 1)
	assert.Equal(t, []int{0, 1, 2}, got[0].Pages)
}

func TestSegmentPagesPartitionInput(t *testing.T) {
	in := pages(
		"x", "INVOICE a", "y", "INVOICE b", "INVOICE c", "z", "w",
	)
	got := Segment(context.Background(), in, analyzer(t))

	var union []int
	for _, inv := range got {
		assert.NotEmpty(t, inv.Pages)
		union = append(union, inv.Pages...)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, union)
	assert.Len(t, got, 4)
}

func TestStepIsAReducer(t *testing.T) {
	a := analyzer(t)
	ctx := context.Background()
	in := pages("INVOICE one\n2 Glazed", "more\n1 Glazed", "INVOICE two")

	var acc Accumulator
	acc = Step(ctx, acc, in[0], a)
	require.NotNil(t, acc.Current)
	assert.Empty(t, acc.Done)

	acc = Step(ctx, acc, in[1], a)
	assert.Equal(t, []int{0, 1}, acc.Current.Pages)
	assert.Equal(t, 3, acc.Current.ItemCounts["Glazed"])

	acc = Step(ctx, acc, in[2], a)
	require.Len(t, acc.Done, 1)
	assert.Equal(t, []int{2}, acc.Current.Pages)

	assert.Len(t, Finish(acc), 2)
}

func TestStepLeavesInputStateUnchanged(t *testing.T) {
	a := analyzer(t)
	ctx := context.Background()
	in := pages("INVOICE #1\n02/10/2024\n12 Maple Bar", "4 Maple Bar\n3 Glazed")

	first := Step(ctx, Accumulator{}, in[0], a)
	require.NotNil(t, first.Current)
	second := Step(ctx, first, in[1], a)

	assert.Equal(t, []int{0}, first.Current.Pages)
	assert.Equal(t, map[string]int{"Maple Bar": 12}, first.Current.ItemCounts)
	assert.Equal(t, []int{0, 1}, second.Current.Pages)
	assert.Equal(t, map[string]int{"Maple Bar": 16, "Glazed": 3}, second.Current.ItemCounts)

	// replaying from the earlier state gives the same result
	again := Step(ctx, first, in[1], a)
	assert.Equal(t, second.Current, again.Current)
}
