package entity

import (
	"strings"

	"github.com/joseph-ayodele/invoice-sorter/constants"
)

// Page is one page of the uploaded document with its extracted text.
type Page struct {
	Index      int                  `json:"index"` // 0-based position in the source document
	Text       string               `json:"text"`
	Source     constants.TextSource `json:"source"`
	Confidence float32              `json:"confidence,omitempty"`
}

// Lines splits the page text into lines.
func (p Page) Lines() []string {
	if p.Text == "" {
		return nil
	}
	return strings.Split(p.Text, "\n")
}

// IsBlank reports whether the page has no usable text.
func (p Page) IsBlank() bool {
	return strings.TrimSpace(p.Text) == ""
}
