package extract

import (
	"context"
	"strings"

	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

// headerLines is how many leading lines are searched for the invoice marker.
const headerLines = 10

const invoiceMarker = "invoice"

// Analyzer is the default PageAnalyzer over a catalog and a vendor matcher.
type Analyzer struct {
	catalog *catalog.Catalog
	vendors *VendorMatcher
}

// NewAnalyzer returns an Analyzer; a nil matcher leaves Vendor empty.
func NewAnalyzer(cat *catalog.Catalog, vendors *VendorMatcher) *Analyzer {
	return &Analyzer{catalog: cat, vendors: vendors}
}

// IsNewInvoice reports whether the marker appears in the first lines.
func IsNewInvoice(lines []string) bool {
	n := min(len(lines), headerLines)
	block := strings.ToLower(strings.Join(lines[:n], "\n"))
	return strings.Contains(block, invoiceMarker)
}

func (a *Analyzer) Analyze(ctx context.Context, page entity.Page) PageFields {
	lines := page.Lines()
	f := PageFields{
		IsNewInvoice: IsNewInvoice(lines),
		Items:        ExtractItems(page.Text, a.catalog),
	}
	if !f.IsNewInvoice {
		return f
	}
	f.Date = ExtractDate(page.Text)
	f.PackingNote = ExtractPackingNote(lines)
	f.Route = ExtractRoute(lines)
	if a.vendors != nil {
		f.Vendor = a.vendors.Match(ctx, lines)
	}
	return f
}
