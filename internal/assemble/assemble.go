// Package assemble lays out the output document: each date group's invoice
// pages followed by that group's summary pages.
package assemble

import (
	"context"
	"fmt"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/internal/ordering"
	"github.com/joseph-ayodele/invoice-sorter/internal/summary"
)

// Composer builds the output document page by page.
type Composer interface {
	// AppendSourcePages copies the given 0-based source pages, in order.
	AppendSourcePages(indices []int) error
	// AppendSummary renders s and appends its pages, returning how many.
	AppendSummary(s summary.Summary) (int, error)
	// Render returns the finished document.
	Render(ctx context.Context) ([]byte, error)
}

// PageKind tells where an output page came from.
type PageKind int

const (
	SourcePage PageKind = iota
	SummaryPage
)

// PageRef describes one output page.
type PageRef struct {
	Kind        PageKind
	SourceIndex int // for SourcePage
	Date        time.Time
}

// Result is the assembled document and its page map.
type Result struct {
	PDF          []byte
	Pages        []PageRef
	SourcePages  int
	SummaryPages int
}

// Assemble emits groups in order. summaries[i] belongs to groups[i]; the
// summary is emitted when its group ends, including the last group.
func Assemble(ctx context.Context, groups []ordering.DateGroup, summaries []summary.Summary, c Composer) (Result, error) {
	if len(groups) != len(summaries) {
		return Result{}, fmt.Errorf("assemble: %d groups but %d summaries", len(groups), len(summaries))
	}

	var res Result
	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		for _, inv := range g.Invoices {
			if len(inv.Pages) == 0 {
				continue
			}
			if err := c.AppendSourcePages(inv.Pages); err != nil {
				return Result{}, fmt.Errorf("append invoice pages %v: %w", inv.Pages, err)
			}
			for _, p := range inv.Pages {
				res.Pages = append(res.Pages, PageRef{Kind: SourcePage, SourceIndex: p, Date: g.Date})
			}
			res.SourcePages += len(inv.Pages)
		}

		n, err := c.AppendSummary(summaries[i])
		if err != nil {
			return Result{}, fmt.Errorf("append summary for %s: %w", summary.DateLabel(g.Date), err)
		}
		for k := 0; k < n; k++ {
			res.Pages = append(res.Pages, PageRef{Kind: SummaryPage, SourceIndex: -1, Date: g.Date})
		}
		res.SummaryPages += n
	}

	if len(res.Pages) == 0 {
		return res, nil
	}
	pdf, err := c.Render(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("render document: %w", err)
	}
	res.PDF = pdf
	return res, nil
}
