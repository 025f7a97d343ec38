package entity

import "github.com/joseph-ayodele/invoice-sorter/constants"

// VendorRecord is one valid row of the vendor order sheet.
type VendorRecord struct {
	Name        string                `json:"name"` // lowercased, trimmed
	PackingNote constants.PackingNote `json:"packing_note"`
	Route       constants.Route       `json:"route"`
	Rank        int                   `json:"rank"` // position after filtering
	Row         int                   `json:"row"`  // 1-based sheet row, for diagnostics
}
