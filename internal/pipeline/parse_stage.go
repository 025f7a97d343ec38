package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
	"github.com/joseph-ayodele/invoice-sorter/internal/extract"
	"github.com/joseph-ayodele/invoice-sorter/internal/ordering"
	"github.com/joseph-ayodele/invoice-sorter/internal/segment"
	"github.com/joseph-ayodele/invoice-sorter/internal/vendors"
)

// MatchingOptions tunes vendor matching.
type MatchingOptions struct {
	Fuzzy     bool
	Threshold float64
}

// ParseStage loads the vendor table, segments pages into invoices, resolves
// vendor ranks and sorts.
type ParseStage struct {
	Vendors  vendors.Source
	Catalog  *catalog.Catalog
	Matching MatchingOptions
	Logger   *slog.Logger
}

func NewParseStage(src vendors.Source, cat *catalog.Catalog, m MatchingOptions, logger *slog.Logger) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStage{Vendors: src, Catalog: cat, Matching: m, Logger: logger}
}

// Run returns the invoices in output order.
func (s *ParseStage) Run(ctx context.Context, pages []entity.Page) ([]entity.Invoice, error) {
	logger := common.LoggerFromContext(ctx, s.Logger)
	start := time.Now()

	table, err := vendors.Load(ctx, s.Vendors, logger)
	if err != nil {
		logger.Error("processor.vendors.failed", "error", err)
		return nil, err
	}

	var sim extract.Similarity
	if s.Matching.Fuzzy {
		sim = extract.LevenshteinSimilarity{}
	}
	matcher := extract.NewVendorMatcher(table.Names(), sim, s.Matching.Threshold, logger)
	analyzer := extract.NewAnalyzer(s.Catalog, matcher)

	invoices := segment.Segment(ctx, pages, analyzer)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matched, undated int
	for i := range invoices {
		invoices[i] = table.Apply(invoices[i])
		if invoices[i].Vendor != "" {
			matched++
		}
		if !invoices[i].HasKnownDate() {
			undated++
		}
	}
	sorted := ordering.Sort(invoices)

	logger.Info("processor.parse.ok",
		"invoices", len(sorted),
		"vendors_matched", matched,
		"undated", undated,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sorted, nil
}
