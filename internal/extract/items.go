package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
)

var reInteger = regexp.MustCompile(`\d+`)

// ExtractItems sums item quantities found in text. Each line is attributed to
// at most one item: names are tried longest first, and the first integer on
// the line is the quantity. A matched line without an integer adds nothing.
func ExtractItems(text string, cat *catalog.Catalog) map[string]int {
	counts := map[string]int{}
	if text == "" || cat == nil {
		return counts
	}
	order := cat.MatchOrder()
	lowered := make([]string, len(order))
	for i, it := range order {
		lowered[i] = strings.ToLower(it.Name)
	}

	for _, line := range strings.Split(text, "\n") {
		l := strings.ToLower(line)
		for i, name := range lowered {
			if !strings.Contains(l, name) {
				continue
			}
			if n, ok := firstInteger(line); ok {
				counts[order[i].Name] += n
			}
			break
		}
	}
	return counts
}

func firstInteger(line string) (int, bool) {
	m := reInteger.FindString(line)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
