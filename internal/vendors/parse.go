package vendors

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

var (
	nameHeaders  = []string{"vendor", "customer", "name", "customer name", "vendor name"}
	noteHeaders  = []string{"packing note", "packing", "note", "packing_note"}
	routeHeaders = []string{"route", "delivery route"}
)

type columns struct {
	name, note, route int
}

func findColumns(header []string) (columns, error) {
	cols := columns{name: -1, note: -1, route: -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.name < 0 && contains(nameHeaders, h):
			cols.name = i
		case cols.note < 0 && contains(noteHeaders, h):
			cols.note = i
		case cols.route < 0 && contains(routeHeaders, h):
			cols.route = i
		}
	}
	if cols.name < 0 {
		return cols, fmt.Errorf("%w: no vendor name column in header %q", common.ErrInvalidInput, header)
	}
	return cols, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseRows turns a raw sheet (header first) into ranked vendor records.
// Rows with an empty name or an invalid packing note are dropped, as are
// repeated names (the first occurrence is kept). Rank is the position in
// the filtered list.
func ParseRows(rows [][]string, logger *slog.Logger) ([]entity.VendorRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: vendor sheet is empty", common.ErrInvalidInput)
	}
	cols, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []entity.VendorRecord
	var skipped int
	for i, row := range rows[1:] {
		rowNum := i + 2
		v := common.NewValidator()
		name := strings.ToLower(strings.TrimSpace(cell(row, cols.name)))
		v.Field("name", name, common.Required)

		note, ok := constants.CanonicalizePacking(cell(row, cols.note))
		if !ok {
			v.Field("packing_note", cell(row, cols.note), common.OneOf(packingNames()...))
		}
		if v.HasErrors() {
			logger.Debug("vendors.row.skipped", "row", rowNum, "reason", v.ErrorMessage())
			skipped++
			continue
		}
		if seen[name] {
			logger.Debug("vendors.row.duplicate", "row", rowNum, "vendor", name)
			skipped++
			continue
		}
		seen[name] = true
		out = append(out, entity.VendorRecord{
			Name:        name,
			PackingNote: note,
			Route:       constants.CanonicalizeRoute(cell(row, cols.route)),
			Rank:        len(out),
			Row:         rowNum,
		})
	}

	logger.Info("vendors.parse.ok", "rows", len(rows)-1, "vendors", len(out), "skipped", skipped)
	return out, nil
}

func packingNames() []string {
	return []string{
		string(constants.PackingMorning),
		string(constants.PackingBox),
		string(constants.PackingTray),
	}
}
