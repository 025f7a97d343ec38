// Package ordering sorts invoices and splits them into per-date groups.
package ordering

import (
	"sort"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

// DateGroup is a run of sorted invoices sharing one date.
type DateGroup struct {
	Date     time.Time
	Invoices []entity.Invoice
}

// Less reports whether a sorts before b by
// (date, packing note rank, route rank, vendor rank, encounter order).
func Less(a, b entity.Invoice) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if ra, rb := a.PackingNote.Rank(), b.PackingNote.Rank(); ra != rb {
		return ra < rb
	}
	if ra, rb := a.Route.Rank(), b.Route.Rank(); ra != rb {
		return ra < rb
	}
	if a.VendorRank != b.VendorRank {
		return a.VendorRank < b.VendorRank
	}
	return a.Seq < b.Seq
}

// Sort returns a sorted copy of invoices. The input is not modified.
func Sort(invoices []entity.Invoice) []entity.Invoice {
	out := append([]entity.Invoice(nil), invoices...)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// GroupByDate splits sorted invoices into contiguous same-date runs.
func GroupByDate(sorted []entity.Invoice) []DateGroup {
	var groups []DateGroup
	for _, inv := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Date.Equal(inv.Date) {
			groups[n-1].Invoices = append(groups[n-1].Invoices, inv)
			continue
		}
		groups = append(groups, DateGroup{Date: inv.Date, Invoices: []entity.Invoice{inv}})
	}
	return groups
}
