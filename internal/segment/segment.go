// Package segment groups a page sequence into invoices.
package segment

import (
	"context"

	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
	"github.com/joseph-ayodele/invoice-sorter/internal/extract"
)

// Accumulator is the segmentation state threaded through Step.
type Accumulator struct {
	Done    []entity.Invoice
	Current *entity.Invoice
}

// Step consumes one page and returns the next state. A page that opens a new
// invoice flushes the current one; any other page extends it. A first page
// without the marker opens an invoice with default header fields.
// acc is left unchanged; the open invoice is copied before it is extended.
func Step(ctx context.Context, acc Accumulator, page entity.Page, a extract.PageAnalyzer) Accumulator {
	f := a.Analyze(ctx, page)

	if f.IsNewInvoice || acc.Current == nil {
		acc = flush(acc)
		inv := entity.NewInvoice()
		inv.Seq = len(acc.Done)
		if f.IsNewInvoice {
			inv.Date = f.Date
			inv.PackingNote = f.PackingNote
			inv.Route = f.Route
			inv.Vendor = f.Vendor
		}
		acc.Current = &inv
	}

	cur := acc.Current.Clone()
	cur.Pages = append(cur.Pages, page.Index)
	for name, n := range f.Items {
		cur.ItemCounts[name] += n
	}
	acc.Current = &cur
	return acc
}

// Finish flushes the open invoice and returns every invoice found.
func Finish(acc Accumulator) []entity.Invoice {
	return flush(acc).Done
}

func flush(acc Accumulator) Accumulator {
	if acc.Current != nil && len(acc.Current.Pages) > 0 {
		acc.Done = append(acc.Done, *acc.Current)
	}
	acc.Current = nil
	return acc
}

// Segment runs Step over pages in order. Zero pages yield zero invoices.
func Segment(ctx context.Context, pages []entity.Page, a extract.PageAnalyzer) []entity.Invoice {
	var acc Accumulator
	for _, p := range pages {
		acc = Step(ctx, acc, p, a)
	}
	return Finish(acc)
}
