package summary

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"
)

// Renderer draws summaries as PDF documents with go-pdf/fpdf.
type Renderer struct {
	layout Layout
	logger *slog.Logger
}

func NewRenderer(layout Layout, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if layout.PageHeight <= 0 || layout.RowHeight <= 0 {
		layout = DefaultLayout()
	}
	return &Renderer{layout: layout, logger: logger}
}

// Render returns a standalone PDF for s and its page count. The output is
// deterministic for equal summaries.
func (r *Renderer) Render(s Summary) ([]byte, int, error) {
	l := r.layout
	pages := Paginate(s, l)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetMargins(l.Margin, l.Margin, l.Margin)
	pdf.SetAutoPageBreak(false, l.BottomMargin)
	pdf.SetCreationDate(s.Date)
	pdf.SetModificationDate(s.Date)
	pdf.SetTitle(Title(s.Date), false)
	pdf.SetCreator("invoice-sorter", false)

	contentW := l.PageWidth - 2*l.Margin
	nameW := contentW - l.QuantityWidth

	for _, page := range pages {
		pdf.AddPage()
		for _, row := range page.Rows {
			pdf.SetXY(l.Margin, row.Y)
			switch row.Kind {
			case RowTitle:
				pdf.SetFont("Helvetica", "B", 16)
				pdf.CellFormat(contentW, l.TitleHeight-8, row.Text, "B", 0, "L", false, 0, "")
				if row.Quantity != "" {
					pdf.SetFont("Helvetica", "", 11)
					pdf.SetXY(l.Margin+nameW, row.Y)
					pdf.CellFormat(l.QuantityWidth, l.TitleHeight-8, row.Quantity, "", 0, "R", false, 0, "")
				}
			case RowSectionHeader:
				pdf.SetFont("Helvetica", "B", 12)
				pdf.SetFillColor(230, 230, 230)
				pdf.CellFormat(contentW, l.HeaderHeight-4, row.Text, "", 0, "L", true, 0, "")
			case RowItem:
				pdf.SetFont("Helvetica", "", 11)
				pdf.CellFormat(nameW, l.RowHeight, row.Text, "", 0, "L", false, 0, "")
				pdf.CellFormat(l.QuantityWidth, l.RowHeight, row.Quantity, "", 0, "R", false, 0, "")
			case RowNote:
				pdf.SetFont("Helvetica", "I", 11)
				pdf.CellFormat(contentW, l.RowHeight, row.Text, "", 0, "L", false, 0, "")
			}
		}
	}

	n := pdf.PageCount()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("render summary: %w", err)
	}

	r.logger.Debug("summary.render.ok",
		"date", DateLabel(s.Date),
		"pages", n,
		"sections", len(s.Sections),
		"invoices", s.Invoices,
		"bytes", buf.Len(),
	)
	return buf.Bytes(), n, nil
}
