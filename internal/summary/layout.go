package summary

import (
	"fmt"
	"time"
)

// Layout holds page geometry in points.
type Layout struct {
	PageWidth     float64
	PageHeight    float64
	Margin        float64 // left, right and top
	BottomMargin  float64
	TitleHeight   float64
	HeaderHeight  float64 // section header row
	RowHeight     float64
	SectionGap    float64
	QuantityWidth float64 // right-hand column
}

// DefaultLayout is US Letter portrait.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:     612,
		PageHeight:    792,
		Margin:        54,
		BottomMargin:  54,
		TitleHeight:   36,
		HeaderHeight:  22,
		RowHeight:     18,
		SectionGap:    8,
		QuantityWidth: 160,
	}
}

// RowKind tells the renderer how to draw a row.
type RowKind int

const (
	RowTitle RowKind = iota
	RowSectionHeader
	RowItem
	RowNote
)

// Row is one positioned line of a summary page.
type Row struct {
	Kind     RowKind
	Y        float64
	Text     string
	Quantity string
}

// PageLayout is the positioned content of one summary page.
type PageLayout struct {
	Number int // 1-based within the summary
	Rows   []Row
}

// Title returns the heading printed on the first summary page.
func Title(date time.Time) string {
	return "Daily Summary - " + DateLabel(date)
}

// DateLabel formats a group date; the unknown date prints as such.
func DateLabel(date time.Time) string {
	if date.Year() <= 1900 {
		return "Unknown date"
	}
	return date.Format("Mon Jan 2, 2006")
}

type paginator struct {
	l     Layout
	title string
	count string // right-hand text of the first title row
	pages []PageLayout
	y     float64
}

func (p *paginator) newPage() {
	p.pages = append(p.pages, PageLayout{Number: len(p.pages) + 1})
	p.y = p.l.Margin
	title, count := p.title, p.count
	if len(p.pages) > 1 {
		title, count = fmt.Sprintf("%s (continued, page %d)", p.title, len(p.pages)), ""
	}
	p.add(RowTitle, p.l.TitleHeight, title, count)
}

func (p *paginator) add(kind RowKind, h float64, text, qty string) {
	cur := &p.pages[len(p.pages)-1]
	cur.Rows = append(cur.Rows, Row{Kind: kind, Y: p.y, Text: text, Quantity: qty})
	p.y += h
}

func (p *paginator) fits(h float64) bool {
	return p.y+h <= p.l.PageHeight-p.l.BottomMargin
}

// InvoiceCount is the right-hand title text, e.g. "3 invoices"; empty when the
// count is unknown.
func InvoiceCount(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "1 invoice"
	default:
		return fmt.Sprintf("%d invoices", n)
	}
}

// Paginate places the summary rows onto pages. Rows never cross the bottom
// margin; a section header is never left alone at the foot of a page, and a
// section that continues on a new page repeats its header. Flat summaries
// have no section headers. The result always has at least one page.
func Paginate(s Summary, l Layout) []PageLayout {
	p := &paginator{l: l, title: Title(s.Date), count: InvoiceCount(s.Invoices)}
	p.newPage()

	if s.Empty() {
		p.add(RowNote, l.RowHeight, "No items ordered.", "")
		return p.pages
	}

	headers := !s.Flat()
	for i, sec := range s.Sections {
		if headers {
			if i > 0 {
				p.y += l.SectionGap
			}
			if !p.fits(l.HeaderHeight + l.RowHeight) {
				p.newPage()
			}
			p.add(RowSectionHeader, l.HeaderHeight, sec.Name, "")
		}
		for _, ln := range sec.Lines {
			if !p.fits(l.RowHeight) {
				p.newPage()
				if headers {
					p.add(RowSectionHeader, l.HeaderHeight, sec.Name+" (cont.)", "")
				}
			}
			p.add(RowItem, l.RowHeight, ln.Item, ln.Quantity)
		}
	}
	return p.pages
}
