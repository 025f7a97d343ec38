// Package pdfdoc reads and writes PDF page streams with pdfcpu.
package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/invoice-sorter/internal/summary"
)

func init() {
	// keep pdfcpu from creating a config dir in the user's home
	api.DisableConfigDir()
}

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in a PDF.
func PageCount(rs io.ReadSeeker) (int, error) {
	n, err := api.PageCount(rs, newConfig())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count: %w", err)
	}
	return n, nil
}

type segment struct {
	pages []int // 0-based source pages; nil for a rendered summary
	pdf   []byte
}

// Composer collects source page runs and rendered summaries, then merges
// them into one document.
type Composer struct {
	src      []byte
	renderer *summary.Renderer
	segments []segment
	logger   *slog.Logger
}

func NewComposer(src []byte, renderer *summary.Renderer, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	if renderer == nil {
		renderer = summary.NewRenderer(summary.DefaultLayout(), logger)
	}
	return &Composer{src: src, renderer: renderer, logger: logger}
}

func (c *Composer) AppendSourcePages(indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	c.segments = append(c.segments, segment{pages: append([]int(nil), indices...)})
	return nil
}

func (c *Composer) AppendSummary(s summary.Summary) (int, error) {
	pdf, n, err := c.renderer.Render(s)
	if err != nil {
		return 0, err
	}
	c.segments = append(c.segments, segment{pdf: pdf})
	return n, nil
}

// Render collects each source run into its own stream and merges all
// streams in order.
func (c *Composer) Render(ctx context.Context) ([]byte, error) {
	start := time.Now()
	if len(c.segments) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}

	parts := make([]io.ReadSeeker, 0, len(c.segments))
	for i, seg := range c.segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if seg.pdf != nil {
			parts = append(parts, bytes.NewReader(seg.pdf))
			continue
		}
		b, err := c.collect(seg.pages)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		parts = append(parts, bytes.NewReader(b))
	}

	var out bytes.Buffer
	if len(parts) == 1 {
		if _, err := io.Copy(&out, parts[0]); err != nil {
			return nil, err
		}
	} else if err := api.MergeRaw(parts, &out, false, newConfig()); err != nil {
		return nil, fmt.Errorf("pdfcpu merge: %w", err)
	}

	c.logger.Info("pdfdoc.render.ok",
		"segments", len(c.segments),
		"bytes", out.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out.Bytes(), nil
}

func (c *Composer) collect(pages []int) ([]byte, error) {
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p + 1)
	}
	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(c.src), &buf, sel, newConfig()); err != nil {
		return nil, fmt.Errorf("pdfcpu collect pages %v: %w", sel, err)
	}
	return buf.Bytes(), nil
}
