package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
	"github.com/joseph-ayodele/invoice-sorter/internal/ingest"
)

// PageExtractor yields one text page per source page.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string, pageCount int) ([]entity.Page, error)
}

// PageCounter counts the pages of a PDF held in memory.
type PageCounter func(pdf []byte) (int, error)

// OCRStage turns an upload into text pages, falling back to OCR per page.
type OCRStage struct {
	Extractor PageExtractor
	Count     PageCounter
	TempDir   string
	Logger    *slog.Logger
}

func NewOCRStage(x PageExtractor, count PageCounter, tempDir string, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRStage{Extractor: x, Count: count, TempDir: tempDir, Logger: logger}
}

// Run counts the upload's pages and extracts their text. Stream uploads are
// spilled to a temp file because the extraction tools work on paths.
func (s *OCRStage) Run(ctx context.Context, up ingest.Upload) ([]entity.Page, error) {
	logger := common.LoggerFromContext(ctx, s.Logger)
	start := time.Now()

	n, err := s.Count(up.Data)
	if err != nil {
		return nil, common.Newf(common.CodeInput, common.ErrInvalidInput, err, "read page count of %s", up.Name)
	}
	if n == 0 {
		return nil, common.Newf(common.CodeInput, common.ErrInvalidInput, nil, "%s has no pages", up.Name)
	}

	path := up.SourcePath
	if path == "" {
		tmp, cleanup, err := spill(s.TempDir, up.Data)
		if err != nil {
			return nil, common.Newf(common.CodeExtraction, common.ErrExtraction, err, "stage upload")
		}
		defer cleanup()
		path = tmp
	}

	pages, err := s.Extractor.ExtractPages(ctx, path, n)
	if err != nil {
		logger.Error("processor.ocr.failed", "upload", up.Name, "error", err)
		return nil, common.Newf(common.CodeExtraction, common.ErrExtraction, err, "extract text")
	}

	var native, ocr, blank int
	for _, p := range pages {
		switch {
		case p.IsBlank():
			blank++
		case p.Source == constants.SourceOCR:
			ocr++
		default:
			native++
		}
	}
	logger.Info("processor.ocr.ok",
		"upload", up.Name,
		"pages", len(pages),
		"native_pages", native,
		"ocr_pages", ocr,
		"blank_pages", blank,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}

func spill(dir string, data []byte) (string, func(), error) {
	f, err := os.CreateTemp(dir, "upload-*.pdf")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := bytes.NewReader(data).WriteTo(f); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp upload: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return f.Name(), cleanup, nil
}
