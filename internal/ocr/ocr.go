package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

// LowConfidenceThreshold marks OCR pages worth a warning in the log.
const LowConfidenceThreshold = 0.4

type Config struct {
	TextBackend string // "pdftotext" (default) | "go"
	Pdftotext   string // binary name or absolute path; if empty -> "pdftotext"

	OCREnabled    bool
	OCRBackend    string // "tesseract" (default) | "gosseract"
	Pdftoppm      string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for OCR, default 300
	PSM           int    // e.g., 6 is good for uniform block of text
	TessdataDir   string
	TempDir       string // parent for page images; "" -> os temp dir
}

// TextBackend reads the embedded text layer, one string per page.
type TextBackend interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// OCREngine recognises one page (1-based) of a PDF.
type OCREngine interface {
	RecognizePage(ctx context.Context, path string, pageNr int) (string, error)
}

type Extractor struct {
	cfg    Config
	runner Runner
	text   TextBackend
	ocr    OCREngine
	logger *slog.Logger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithRunner replaces the exec runner used by the command-line backends.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithTextBackend replaces the native text backend.
func WithTextBackend(b TextBackend) Option {
	return func(e *Extractor) { e.text = b }
}

// WithOCREngine replaces the OCR fallback engine.
func WithOCREngine(o OCREngine) Option {
	return func(e *Extractor) { e.ocr = o }
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TextBackend == "" {
		cfg.TextBackend = "pdftotext"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.OCRBackend == "" {
		cfg.OCRBackend = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}

	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, o := range opts {
		o(e)
	}

	if e.text == nil {
		switch cfg.TextBackend {
		case "pdftotext":
			e.text = &PdftotextBackend{Bin: cfg.Pdftotext, Runner: e.runner}
		case "go":
			e.text = &GoTextBackend{}
		default:
			return nil, fmt.Errorf("unknown text backend: %q", cfg.TextBackend)
		}
	}

	if e.ocr == nil && cfg.OCREnabled {
		switch cfg.OCRBackend {
		case "tesseract":
			e.ocr = &TesseractEngine{cfg: cfg, runner: e.runner}
		case "gosseract":
			g, err := NewGosseractEngine(cfg, e.runner)
			if err != nil {
				return nil, err
			}
			e.ocr = g
		default:
			return nil, fmt.Errorf("unknown ocr backend: %q", cfg.OCRBackend)
		}
	}
	return e, nil
}

// ExtractPages returns exactly pageCount pages for the PDF at path. Native text
// is used when present and is not normalized; blank pages go through OCR when
// an engine is set, and only OCR text is normalized.
// A failed native read degrades to blank pages, a failed OCR call is returned.
func (e *Extractor) ExtractPages(ctx context.Context, path string, pageCount int) ([]entity.Page, error) {
	start := time.Now()
	e.logger.Debug("starting page extraction", "path", path, "pages", pageCount, "text_backend", e.cfg.TextBackend)

	texts, err := e.text.PageTexts(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn("native text extraction failed; treating pages as blank", "path", path, "error", err)
		texts = nil
	}
	if len(texts) != pageCount && texts != nil {
		e.logger.Warn("native page count mismatch", "expected", pageCount, "got", len(texts))
	}

	pages := make([]entity.Page, pageCount)
	var ocrPages int
	for i := 0; i < pageCount; i++ {
		var raw string
		if i < len(texts) {
			raw = texts[i]
		}
		// native text stays as extracted: line positions decide the invoice marker
		page := entity.Page{Index: i, Text: raw, Source: constants.SourceNative}

		if page.IsBlank() {
			page.Text = ""
			page.Source = constants.SourceNone
			if e.ocr != nil {
				txt, err := e.ocr.RecognizePage(ctx, path, i+1)
				if err != nil {
					return nil, fmt.Errorf("ocr page %d: %w", i+1, err)
				}
				page.Text = Normalize(txt)
				page.Source = constants.SourceOCR
				page.Confidence = heuristicConfidence(page.Text)
				ocrPages++
				if page.Confidence < LowConfidenceThreshold {
					e.logger.Warn("ocr page text looks weak", "page", i+1, "conf", page.Confidence, "bytes", len(page.Text))
				}
			} else {
				e.logger.Warn("page has no text layer and ocr is disabled", "page", i+1)
			}
		}
		pages[i] = page
	}

	e.logger.Info("ocr.extract.ok",
		"pages", pageCount,
		"ocr_pages", ocrPages,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}

// PdftotextBackend shells out to poppler's pdftotext once per document.
type PdftotextBackend struct {
	Bin    string
	Runner Runner
}

func (b *PdftotextBackend) PageTexts(ctx context.Context, path string) ([]string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := b.Runner.Run(ctx, b.Bin, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w: %s", err, strings.TrimSpace(truncate(string(errb), 512)))
	}
	return splitFormFeeds(string(out)), nil
}

// splitFormFeeds splits pdftotext output on its \f page separators. The
// separator terminates every page, so a trailing empty chunk is dropped.
func splitFormFeeds(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\f")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Close releases the OCR engine when it holds resources.
func (e *Extractor) Close() error {
	if c, ok := e.ocr.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
