package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-=|]{3,}\s*$`)
)

// Normalize collapses noisy whitespace and fixes common OCR artifacts.
// Line breaks are kept; runs of blank lines collapse into one.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reBoxNoise.ReplaceAllString(s, "")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = fixDigitArtifacts(strings.TrimSpace(lines[i]))
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// fixDigitArtifacts replaces O/o and l/I sitting between two digit-ish
// characters, e.g. "1O/2O/2O24" -> "10/20/2024".
func fixDigitArtifacts(line string) string {
	rs := []rune(line)
	changed := false
	for i := 1; i+1 < len(rs); i++ {
		if !isDigitish(rs[i-1]) || !isDigitish(rs[i+1]) {
			continue
		}
		switch rs[i] {
		case 'O', 'o':
			rs[i] = '0'
			changed = true
		case 'l', 'I':
			rs[i] = '1'
			changed = true
		}
	}
	if !changed {
		return line
	}
	return string(rs)
}

func isDigitish(r rune) bool {
	return unicode.IsDigit(r) || r == '/'
}
