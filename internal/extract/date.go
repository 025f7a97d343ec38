package extract

import (
	"regexp"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

var reDate = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)

// month/day accept one or two digits; the year must be exactly four or two.
var dateLayouts = []string{"1/2/2006", "1/2/06"}

// ExtractDate parses the first m/d/y date in text. Only the first match is
// considered; when it is missing or does not parse, entity.UnknownDate is
// returned.
func ExtractDate(text string) time.Time {
	m := reDate.FindString(text)
	if m == "" {
		return entity.UnknownDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, m); err == nil {
			return t
		}
	}
	return entity.UnknownDate
}
