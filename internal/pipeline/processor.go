// Package pipeline runs one upload through extraction, segmentation,
// ordering, summary building and assembly.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-sorter/internal/assemble"
	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
	"github.com/joseph-ayodele/invoice-sorter/internal/export"
	"github.com/joseph-ayodele/invoice-sorter/internal/ingest"
	"github.com/joseph-ayodele/invoice-sorter/internal/ordering"
	"github.com/joseph-ayodele/invoice-sorter/internal/summary"
)

// ComposerFactory returns a fresh Composer over the source document.
type ComposerFactory func(src []byte) assemble.Composer

// Result is the outcome of a successful run.
type Result struct {
	RunID     string
	PDF       []byte
	Workbook  []byte // nil unless an exporter is configured
	Invoices  []entity.Invoice
	Groups    []ordering.DateGroup
	Summaries []summary.Summary
	Pages     []assemble.PageRef

	InputPages   int
	SummaryPages int
	Duration     time.Duration
}

// Processor coordinates text extraction, then parsing and sorting, then
// summary insertion and assembly.
type Processor struct {
	Logger   *slog.Logger
	OCR      *OCRStage
	Parse    *ParseStage
	Catalog  *catalog.Catalog
	Compose  ComposerFactory
	Exporter *export.Service // optional
}

func NewProcessor(logger *slog.Logger, ocr *OCRStage, parse *ParseStage, cat *catalog.Catalog, compose ComposerFactory) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, OCR: ocr, Parse: parse, Catalog: cat, Compose: compose}
}

// Run processes one upload. Any stage failure ends the run with a single
// error and no document.
func (p *Processor) Run(ctx context.Context, up ingest.Upload) (*Result, error) {
	start := time.Now()
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.New().String()
		ctx = common.WithRunID(ctx, runID)
	}
	// stages log through the run logger
	logger := common.LoggerFromContext(ctx, p.Logger)
	ctx = common.WithLogger(ctx, logger)
	logger.Info("processor.run.start", "upload", up.Name, "format", up.Format, "bytes", up.Size(), "sha256", up.HashHex)

	// 1) text per page
	pages, err := p.OCR.Run(ctx, up)
	if err != nil {
		logger.Error("processor.run.failed", "stage", "ocr", "error", err)
		return nil, err
	}

	// 2) invoices in output order
	invoices, err := p.Parse.Run(ctx, pages)
	if err != nil {
		logger.Error("processor.run.failed", "stage", "parse", "error", err)
		return nil, err
	}

	// 3) one summary per date group
	groups := ordering.GroupByDate(invoices)
	sums := make([]summary.Summary, len(groups))
	for i, g := range groups {
		sums[i] = summary.BuildForGroup(g.Date, g.Invoices, p.Catalog)
	}

	// 4) reassemble
	asm, err := assemble.Assemble(ctx, groups, sums, p.Compose(up.Data))
	if err != nil {
		logger.Error("processor.run.failed", "stage", "assemble", "error", err)
		return nil, common.Newf(common.CodeCompose, common.ErrCompose, err, "assemble output")
	}

	res := &Result{
		RunID:        runID,
		PDF:          asm.PDF,
		Invoices:     invoices,
		Groups:       groups,
		Summaries:    sums,
		Pages:        asm.Pages,
		InputPages:   len(pages),
		SummaryPages: asm.SummaryPages,
	}

	if p.Exporter != nil {
		wb, err := p.Exporter.ExportRunXLSX(ctx, sums, invoices)
		if err != nil {
			logger.Error("processor.run.failed", "stage", "export", "error", err)
			return nil, common.Newf(common.CodeCompose, common.ErrCompose, err, "export workbook")
		}
		res.Workbook = wb
	}

	res.Duration = time.Since(start)
	logger.Info("processor.run.ok",
		"invoices", len(invoices),
		"dates", len(groups),
		"input_pages", res.InputPages,
		"summary_pages", res.SummaryPages,
		"output_pages", len(res.Pages),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
