package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-sorter/internal/assemble"
	"github.com/joseph-ayodele/invoice-sorter/internal/async"
	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/export"
	"github.com/joseph-ayodele/invoice-sorter/internal/ingest"
	"github.com/joseph-ayodele/invoice-sorter/internal/ocr"
	"github.com/joseph-ayodele/invoice-sorter/internal/pdfdoc"
	"github.com/joseph-ayodele/invoice-sorter/internal/pipeline"
	"github.com/joseph-ayodele/invoice-sorter/internal/summary"
	"github.com/joseph-ayodele/invoice-sorter/internal/vendors"
)

var (
	sortOutput     string
	sortXLSX       string
	sortDir        string
	sortNoOCR      bool
	sortOCRBackend string
	sortNoFuzzy    bool
)

var sortCmd = &cobra.Command{
	Use:   "sort [input.pdf | -]",
	Short: "Sort an invoice PDF and insert daily summaries",
	Long: `Sort reads an invoice PDF (or stdin with "-"), groups its pages into
invoices and writes the reordered document with one summary block per date.
With --dir every PDF under a directory is processed in turn.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if sortDir != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runSort,
}

func init() {
	sortCmd.Flags().StringVarP(&sortOutput, "output", "o", "", `output PDF path, "-" for stdout (default: <input>-sorted.pdf)`)
	sortCmd.Flags().StringVar(&sortXLSX, "xlsx", "", "also write the daily summaries as an XLSX workbook (with --dir, any value enables <input>-summary.xlsx)")
	sortCmd.Flags().StringVar(&sortDir, "dir", "", "process every PDF under this directory")
	sortCmd.Flags().BoolVar(&sortNoOCR, "no-ocr", false, "disable the OCR fallback for pages without text")
	sortCmd.Flags().StringVar(&sortOCRBackend, "ocr-backend", "", "OCR backend: tesseract or gosseract")
	sortCmd.Flags().BoolVar(&sortNoFuzzy, "no-fuzzy", false, "disable fuzzy vendor matching")
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	if sortNoOCR {
		cfg.OCR.Enabled = false
	}
	if sortOCRBackend != "" {
		cfg.OCR.Backend = sortOCRBackend
	}
	if sortNoFuzzy {
		cfg.Matching.FuzzyEnabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := setupLogger(cfg.Log)

	p, closeFn, err := buildProcessor(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	if sortXLSX != "" {
		p.Exporter = export.NewService(logger)
	}
	var ing ingest.Ingestor = ingest.NewFSIngestor(cfg.Run.MaxUploadSize, logger)

	if sortDir != "" {
		return sortDirectory(cmd.Context(), cfg, p, ing, logger)
	}

	ctx, cancel := common.WithTimeout(cmd.Context(), cfg.Run.Timeout)
	defer cancel()

	var up ingest.Upload
	if args[0] == "-" {
		up, err = ing.IngestReader(ctx, "stdin.pdf", cmd.InOrStdin())
	} else {
		up, err = ing.IngestPath(ctx, args[0])
	}
	if err != nil {
		return err
	}

	out := sortOutput
	if out == "" {
		if args[0] == "-" {
			out = "-"
		} else {
			out = defaultOutput(args[0])
		}
	}
	return sortOne(ctx, cmd.OutOrStdout(), p, up, out, sortXLSX)
}

func sortDirectory(parent context.Context, cfg *common.Config, p *pipeline.Processor, ing ingest.Ingestor, logger *slog.Logger) error {
	paths, stats, err := ing.ListDirectory(parent, sortDir, true)
	if err != nil {
		return err
	}
	logger.Info("sort.dir.scan", "root", sortDir, "scanned", stats.Scanned, "matched", stats.Matched)

	handle := func(ctx context.Context, job async.Job) error {
		up, err := ing.IngestPath(ctx, job.Path)
		if err != nil {
			return err
		}
		xlsx := ""
		if sortXLSX != "" {
			xlsx = strings.TrimSuffix(job.Path, filepath.Ext(job.Path)) + "-summary.xlsx"
		}
		return sortOne(ctx, os.Stdout, p, up, defaultOutput(job.Path), xlsx)
	}
	// one upload at a time; the queue gives each file its own deadline
	var q async.Queue = async.NewWorkerQueue(parent, handle, logger,
		async.WithWorkers(1),
		async.WithProcessTimeout(cfg.Run.Timeout),
	)

	var queued int
	for _, path := range paths {
		// outputs of an earlier run
		if strings.HasSuffix(strings.TrimSuffix(path, filepath.Ext(path)), "-sorted") {
			continue
		}
		if err := q.Enqueue(parent, async.Job{Path: path}); err != nil {
			logger.Warn("sort.dir.enqueue_failed", "path", path, "error", err)
			continue
		}
		queued++
	}

	var failed int
	for _, o := range q.Shutdown(parent) {
		if o.Err != nil {
			failed++
			logger.Error("sort.dir.file_failed", "path", o.Job.Path, "error", o.Err)
		}
	}
	logger.Info("sort.dir.ok", "queued", queued, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, queued)
	}
	return nil
}

func sortOne(ctx context.Context, stdout io.Writer, p *pipeline.Processor, up ingest.Upload, out, xlsx string) error {
	res, err := p.Run(ctx, up)
	if err != nil {
		return err
	}

	if out == "-" {
		if _, err := stdout.Write(res.PDF); err != nil {
			return common.WrapError(err, "write output")
		}
	} else {
		if err := os.WriteFile(out, res.PDF, 0o644); err != nil {
			return common.WrapError(err, "write output")
		}
		fmt.Fprintf(stdout, "%s: %d invoices, %d dates, %d pages -> %s\n",
			up.Name, len(res.Invoices), len(res.Groups), len(res.Pages), out)
	}
	if xlsx != "" && res.Workbook != nil {
		if err := os.WriteFile(xlsx, res.Workbook, 0o644); err != nil {
			return common.WrapError(err, "write workbook")
		}
	}
	return nil
}

func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "-sorted.pdf"
}

// buildProcessor wires the run pipeline from configuration. The returned
// func releases the OCR engine.
func buildProcessor(cfg *common.Config, logger *slog.Logger) (*pipeline.Processor, func(), error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	src, err := vendors.NewSource(cfg.Vendors, logger)
	if err != nil {
		return nil, nil, err
	}

	extractor, err := ocr.NewExtractor(ocrConfig(cfg), logger)
	if err != nil {
		return nil, nil, common.NewAppError(common.CodeConfig, "set up text extraction", err)
	}
	closeFn := func() {
		if err := extractor.Close(); err != nil {
			logger.Warn("ocr engine close failed", "error", err)
		}
	}

	renderer := summary.NewRenderer(summary.DefaultLayout(), logger)
	count := func(pdf []byte) (int, error) { return pdfdoc.PageCount(bytes.NewReader(pdf)) }

	p := pipeline.NewProcessor(logger,
		pipeline.NewOCRStage(extractor, count, cfg.OCR.TempDir, logger),
		pipeline.NewParseStage(src, cat, pipeline.MatchingOptions{
			Fuzzy:     cfg.Matching.FuzzyEnabled,
			Threshold: cfg.Matching.FuzzyThreshold,
		}, logger),
		cat,
		func(srcPDF []byte) assemble.Composer { return pdfdoc.NewComposer(srcPDF, renderer, logger) },
	)
	return p, closeFn, nil
}

func ocrConfig(cfg *common.Config) ocr.Config {
	return ocr.Config{
		TextBackend:   cfg.Text.Backend,
		Pdftotext:     cfg.Text.Pdftotext,
		OCREnabled:    cfg.OCR.Enabled,
		OCRBackend:    cfg.OCR.Backend,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.Language,
		DPI:           cfg.OCR.DPI,
		PSM:           cfg.OCR.PSM,
		TessdataDir:   cfg.OCR.TessdataDir,
		TempDir:       cfg.OCR.TempDir,
	}
}
