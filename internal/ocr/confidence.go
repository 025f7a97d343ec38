package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate     = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	reQtyLine  = regexp.MustCompile(`(?m)^\s*\d+\s+\S`)
	reHeadword = regexp.MustCompile(`\b(invoice|bill to|ship to|qty|quantity)\b`)
)

// heuristicConfidence scores decoded page text by the invoice artifacts it
// contains. Used to flag weak OCR pages in the log.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reDate.MatchString(txtL) {
		score += 0.2
	}
	if reHeadword.MatchString(txtL) {
		score += 0.2
	}
	if reQtyLine.MatchString(txtL) {
		score += 0.2
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
