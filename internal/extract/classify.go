package extract

import "github.com/joseph-ayodele/invoice-sorter/constants"

// ExtractPackingNote returns the note from the first line that contains any
// packing trigger. Within that line the rule order decides.
func ExtractPackingNote(lines []string) constants.PackingNote {
	if v, ok := firstRule(constants.PackingRules, lines); ok {
		return v
	}
	return constants.PackingUnknown
}

// ExtractRoute returns the route from the first line mentioning one.
func ExtractRoute(lines []string) constants.Route {
	if v, ok := firstRule(constants.RouteRules, lines); ok {
		return v
	}
	return constants.RouteUnset
}

func firstRule[T any](rules []constants.Rule[T], lines []string) (T, bool) {
	for _, l := range lines {
		if v, ok := constants.MatchRule(rules, l); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
