package entity

import (
	"time"

	"github.com/joseph-ayodele/invoice-sorter/constants"
)

// UnknownDate is assigned to invoices whose date cannot be read; it sorts first.
var UnknownDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Invoice is a contiguous run of source pages forming one billing document.
type Invoice struct {
	Date        time.Time             `json:"date"`
	PackingNote constants.PackingNote `json:"packing_note"`
	Route       constants.Route       `json:"route"`
	Vendor      string                `json:"vendor,omitempty"`
	VendorRank  int                   `json:"vendor_rank"`
	Pages       []int                 `json:"pages"`
	ItemCounts  map[string]int        `json:"item_counts,omitempty"`
	// Seq is the order in which the invoice was found in the source document.
	Seq int `json:"seq"`
}

// NewInvoice returns an invoice with every field at its unknown default.
func NewInvoice() Invoice {
	return Invoice{
		Date:        UnknownDate,
		PackingNote: constants.PackingUnknown,
		Route:       constants.RouteUnset,
		VendorRank:  constants.UnmatchedVendorRank,
		ItemCounts:  map[string]int{},
	}
}

// HasKnownDate reports whether the invoice date was read from its text.
func (i Invoice) HasKnownDate() bool {
	return !i.Date.Equal(UnknownDate)
}

// Clone returns a deep copy so callers can treat invoices as values.
func (i Invoice) Clone() Invoice {
	out := i
	out.Pages = append([]int(nil), i.Pages...)
	out.ItemCounts = make(map[string]int, len(i.ItemCounts))
	for k, v := range i.ItemCounts {
		out.ItemCounts[k] = v
	}
	return out
}
