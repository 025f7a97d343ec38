package vendors

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-sorter/internal/common"
)

// Source yields the raw vendor sheet: a header row followed by data rows.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

// NewSource picks the configured source. It returns nil, nil when neither a
// URL nor a file is configured.
func NewSource(cfg common.VendorsConfig, logger *slog.Logger) (Source, error) {
	switch {
	case cfg.SheetURL != "" && cfg.File != "":
		return nil, common.NewAppError(common.CodeConfig, "set only one of vendor sheet URL and vendor file", common.ErrInvalidInput)
	case cfg.SheetURL != "":
		return &HTTPSource{
			URL:    cfg.SheetURL,
			Client: &http.Client{Timeout: cfg.FetchTimeout},
			Logger: logger,
		}, nil
	case cfg.File != "":
		return &FileSource{Path: cfg.File, SheetName: cfg.SheetName}, nil
	}
	return nil, nil
}

const maxSheetBytes = 8 << 20

// HTTPSource downloads the sheet as CSV, e.g. a published spreadsheet export.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger
}

func (s *HTTPSource) Rows(ctx context.Context) ([][]string, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	reqID := uuid.New().String()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("vendors.fetch.failed", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("fetch vendor sheet: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn("vendors.fetch.body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read vendor sheet: %w", err)
	}
	if len(raw) > maxSheetBytes {
		return nil, fmt.Errorf("vendor sheet exceeds %d bytes", maxSheetBytes)
	}

	logger.Info("vendors.fetch.ok",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch vendor sheet: non-2xx status: %d", resp.StatusCode)
	}
	return readCSV(bytes.NewReader(raw))
}

// FileSource reads a local .csv or .xlsx sheet. For workbooks, SheetName
// selects the sheet; empty means the first one.
type FileSource struct {
	Path      string
	SheetName string
}

func (s *FileSource) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open vendor file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv", ".txt":
		return readCSV(f)
	case ".xlsx", ".xlsm":
		return readWorkbook(f, s.SheetName)
	default:
		return nil, fmt.Errorf("%w: unsupported vendor file type %q", common.ErrInvalidInput, filepath.Ext(s.Path))
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readWorkbook(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
