package constants

import (
	"strings"
)

// PackingNote is the manual handling category printed on an invoice.
type PackingNote string

const (
	PackingMorning PackingNote = "morning"
	PackingBox     PackingNote = "box"
	PackingTray    PackingNote = "tray"
	PackingUnknown PackingNote = "unknown"
)

// Route is the delivery route tag printed on an invoice.
type Route string

const (
	Route1     Route = "route-1"
	Route2     Route = "route-2"
	RouteUnset Route = ""
)

// UnknownRank sorts anything unrecognised after every known value.
const UnknownRank = 99

// UnmatchedVendorRank is the rank of an invoice whose vendor is not in the table.
const UnmatchedVendorRank = 9999

var packingRanks = map[PackingNote]int{
	PackingMorning: 0,
	PackingBox:     1,
	PackingTray:    2,
}

var routeRanks = map[Route]int{
	Route1: 0,
	Route2: 1,
}

// Rank returns the sort rank of a packing note.
func (p PackingNote) Rank() int {
	if r, ok := packingRanks[p]; ok {
		return r
	}
	return UnknownRank
}

// Rank returns the sort rank of a route.
func (r Route) Rank() int {
	if rank, ok := routeRanks[r]; ok {
		return rank
	}
	return UnknownRank
}

func (r Route) String() string {
	if r == RouteUnset {
		return "unset"
	}
	return string(r)
}

// Rule maps a lowercase trigger substring to a category value.
type Rule[T any] struct {
	Trigger string
	Value   T
}

// PackingRules is checked in order against each line; first trigger found wins.
var PackingRules = []Rule[PackingNote]{
	{Trigger: "box", Value: PackingBox},
	{Trigger: "tray", Value: PackingTray},
	{Trigger: "morning", Value: PackingMorning},
}

// RouteRules is checked in order against each line; first trigger found wins.
var RouteRules = []Rule[Route]{
	{Trigger: "route 1", Value: Route1},
	{Trigger: "route 2", Value: Route2},
}

// MatchRule returns the value of the first rule whose trigger occurs in the
// lowercased line.
func MatchRule[T any](rules []Rule[T], line string) (T, bool) {
	l := strings.ToLower(line)
	for _, r := range rules {
		if strings.Contains(l, r.Trigger) {
			return r.Value, true
		}
	}
	var zero T
	return zero, false
}

// CanonicalizePacking maps a free-form sheet value to a packing note.
// An empty value is valid and yields PackingUnknown.
func CanonicalizePacking(input string) (PackingNote, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return PackingUnknown, true
	}

	// synonyms seen in the vendor sheet
	synonyms := map[string]PackingNote{
		"boxes":       PackingBox,
		"brown box":   PackingBox,
		"brown boxes": PackingBox,
		"trays":       PackingTray,
		"am":          PackingMorning,
		"morning run": PackingMorning,
	}
	if p, ok := synonyms[normalized]; ok {
		return p, true
	}

	for p := range packingRanks {
		if normalized == string(p) {
			return p, true
		}
	}
	return PackingUnknown, false
}

// CanonicalizeRoute maps a free-form sheet value to a route. Unrecognised
// values become RouteUnset.
func CanonicalizeRoute(input string) Route {
	normalized := strings.ToLower(strings.TrimSpace(input))
	switch normalized {
	case "1", "route 1", "route-1", "route1", "r1":
		return Route1
	case "2", "route 2", "route-2", "route2", "r2":
		return Route2
	}
	return RouteUnset
}
