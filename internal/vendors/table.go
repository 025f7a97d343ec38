// Package vendors loads the vendor order sheet and turns it into the
// vendor ranking table used as a sort key.
package vendors

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

// Table maps vendor names to their records. The zero value is an empty table.
type Table struct {
	records []entity.VendorRecord
	byName  map[string]int
}

// NewTable indexes records by name; a repeated name keeps its first record.
func NewTable(records []entity.VendorRecord) *Table {
	t := &Table{byName: make(map[string]int, len(records))}
	for _, r := range records {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if _, dup := t.byName[key]; dup || key == "" {
			continue
		}
		r.Name = key
		t.byName[key] = len(t.records)
		t.records = append(t.records, r)
	}
	return t
}

// Load reads the sheet from src and builds the table. A nil src yields an
// empty table. Any fetch or header failure is fatal for the run.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if src == nil {
		logger.Warn("no vendor sheet configured; every vendor will be unmatched")
		return NewTable(nil), nil
	}
	start := time.Now()
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, common.Newf(common.CodeVendorTable, common.ErrVendorTable, err, "load vendor sheet")
	}
	records, err := ParseRows(rows, logger)
	if err != nil {
		return nil, common.Newf(common.CodeVendorTable, common.ErrVendorTable, err, "parse vendor sheet")
	}
	t := NewTable(records)
	logger.Info("vendors.load.ok", "vendors", t.Len(), "duration_ms", time.Since(start).Milliseconds())
	return t, nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns the records in rank order.
func (t *Table) Records() []entity.VendorRecord {
	if t == nil {
		return nil
	}
	return append([]entity.VendorRecord(nil), t.records...)
}

// Names returns vendor names in rank order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.records))
	for i, r := range t.records {
		names[i] = r.Name
	}
	return names
}

// Lookup finds a record by case-insensitive name.
func (t *Table) Lookup(name string) (entity.VendorRecord, bool) {
	if t == nil || t.byName == nil {
		return entity.VendorRecord{}, false
	}
	i, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return entity.VendorRecord{}, false
	}
	return t.records[i], true
}

// Rank returns the vendor's rank, or constants.UnmatchedVendorRank.
func (t *Table) Rank(name string) int {
	if r, ok := t.Lookup(name); ok {
		return r.Rank
	}
	return constants.UnmatchedVendorRank
}

// Apply sets the invoice's vendor rank and fills a missing packing note or
// route from the vendor's sheet row. Values read from the invoice win.
func (t *Table) Apply(inv entity.Invoice) entity.Invoice {
	rec, ok := t.Lookup(inv.Vendor)
	if !ok {
		inv.VendorRank = constants.UnmatchedVendorRank
		return inv
	}
	inv.VendorRank = rec.Rank
	if inv.PackingNote == constants.PackingUnknown && rec.PackingNote != constants.PackingUnknown {
		inv.PackingNote = rec.PackingNote
	}
	if inv.Route == constants.RouteUnset {
		inv.Route = rec.Route
	}
	return inv
}
