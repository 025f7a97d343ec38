package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

// Similarity scores how alike two strings are, 1.0 meaning identical.
type Similarity interface {
	Similarity(a, b string) (float64, error)
}

// SimilarityFunc adapts a plain function to Similarity.
type SimilarityFunc func(a, b string) (float64, error)

func (f SimilarityFunc) Similarity(a, b string) (float64, error) { return f(a, b) }

// PageFields is everything derived from one page's text.
// Header fields are only filled for pages that open a new invoice.
type PageFields struct {
	IsNewInvoice bool
	Date         time.Time
	PackingNote  constants.PackingNote
	Route        constants.Route
	Vendor       string
	Items        map[string]int
}

// PageAnalyzer derives PageFields from a page.
type PageAnalyzer interface {
	Analyze(ctx context.Context, page entity.Page) PageFields
}
