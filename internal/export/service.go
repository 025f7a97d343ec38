package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
	"github.com/joseph-ayodele/invoice-sorter/internal/summary"
)

const (
	SummarySheet  = "Daily Summary"
	InvoicesSheet = "Invoices"
)

// Service produces XLSX bytes describing one sorting run.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportRunXLSX returns a workbook with one row per summary line and one row
// per invoice in output order.
func (s *Service) ExportRunXLSX(ctx context.Context, summaries []summary.Summary, invoices []entity.Invoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// rename the default sheet rather than leaving an empty one behind
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(InvoicesSheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(SummarySheet)
	f.SetActiveSheet(activeIndex)

	summaryRows := writeSummaries(f, summaries)
	writeInvoices(f, invoices)

	_ = f.SetColWidth(SummarySheet, "A", "A", 14) // date
	_ = f.SetColWidth(SummarySheet, "B", "B", 14) // category
	_ = f.SetColWidth(SummarySheet, "C", "C", 30) // item
	_ = f.SetColWidth(SummarySheet, "D", "E", 14) // count, quantity
	_ = f.SetColWidth(InvoicesSheet, "A", "D", 12)
	_ = f.SetColWidth(InvoicesSheet, "E", "E", 30) // vendor
	_ = f.SetColWidth(InvoicesSheet, "G", "G", 20) // pages

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"summary_rows", summaryRows,
		"invoices", len(invoices),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func writeSummaries(f *excelize.File, summaries []summary.Summary) int {
	writeRow(f, SummarySheet, 1, "Date", "Category", "Item", "Count", "Quantity")
	row := 2
	for _, sum := range summaries {
		date := dateCell(sum.Date)
		for _, sec := range sum.Sections {
			for _, ln := range sec.Lines {
				writeRow(f, SummarySheet, row, date, sec.Name, ln.Item, ln.Count, ln.Quantity)
				row++
			}
		}
	}
	return row - 2
}

func writeInvoices(f *excelize.File, invoices []entity.Invoice) {
	writeRow(f, InvoicesSheet, 1, "Order", "Date", "Packing Note", "Route", "Vendor", "Vendor Rank", "Pages")
	for i, inv := range invoices {
		rank := ""
		if inv.VendorRank != constants.UnmatchedVendorRank {
			rank = strconv.Itoa(inv.VendorRank)
		}
		writeRow(f, InvoicesSheet, i+2,
			i+1,
			dateCell(inv.Date),
			string(inv.PackingNote),
			inv.Route.String(),
			inv.Vendor,
			rank,
			pageList(inv.Pages),
		)
	}
}

func dateCell(t time.Time) string {
	if t.Equal(entity.UnknownDate) {
		return "unknown"
	}
	return t.Format("2006-01-02")
}

// pageList prints 0-based indices as 1-based page numbers.
func pageList(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p + 1)
	}
	return strings.Join(parts, ", ")
}
