package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// GoTextBackend reads the text layer in-process, grouping text runs into rows
// by their baseline so each row becomes one line.
type GoTextBackend struct{}

func (GoTextBackend) PageTexts(ctx context.Context, path string) (texts []string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	// the reader panics on some malformed streams
	defer func() {
		if rec := recover(); rec != nil {
			texts, err = nil, fmt.Errorf("read pdf: %v", rec)
		}
	}()

	n := r.NumPage()
	texts = make([]string, 0, n)
	for pageNum := 1; pageNum <= n; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(pageNum)
		if p.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		texts = append(texts, joinRows(rows))
	}
	return texts, nil
}

func joinRows(rows pdf.Rows) string {
	var b strings.Builder
	for _, row := range rows {
		parts := make([]string, 0, len(row.Content))
		for _, t := range row.Content {
			if s := strings.TrimSpace(t.S); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(parts, " "))
	}
	return b.String()
}
