package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/assemble"
	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
	"github.com/joseph-ayodele/invoice-sorter/internal/export"
	"github.com/joseph-ayodele/invoice-sorter/internal/ingest"
	"github.com/joseph-ayodele/invoice-sorter/internal/summary"
)

type fakeExtractor struct {
	texts    []string
	err      error
	gotPath  string
	pathSeen bool
}

func (f *fakeExtractor) ExtractPages(_ context.Context, path string, n int) ([]entity.Page, error) {
	f.gotPath = path
	_, statErr := os.Stat(path)
	f.pathSeen = statErr == nil
	if f.err != nil {
		return nil, f.err
	}
	pages := make([]entity.Page, n)
	for i := range pages {
		pages[i] = entity.Page{Index: i, Source: constants.SourceNative}
		if i < len(f.texts) {
			pages[i].Text = f.texts[i]
		}
	}
	return pages, nil
}

type fakeSource struct {
	rows [][]string
	err  error
}

func (f fakeSource) Rows(context.Context) ([][]string, error) { return f.rows, f.err }

type recordingComposer struct {
	order []int // source index, or -1 per summary page
}

func (c *recordingComposer) AppendSourcePages(idx []int) error {
	c.order = append(c.order, idx...)
	return nil
}

func (c *recordingComposer) AppendSummary(summary.Summary) (int, error) {
	c.order = append(c.order, -1)
	return 1, nil
}

func (c *recordingComposer) Render(context.Context) ([]byte, error) { return []byte("%PDF-out"), nil }

func newProcessor(t *testing.T, x PageExtractor, src fakeSource, comp *recordingComposer) *Processor {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	count := func(pdf []byte) (int, error) {
		switch string(pdf) {
		case "bad":
			return 0, errors.New("not a pdf")
		case "%PDF-empty":
			return 0, nil
		}
		return 3, nil
	}
	return NewProcessor(nil,
		NewOCRStage(x, count, t.TempDir(), nil),
		NewParseStage(src, cat, MatchingOptions{Fuzzy: true, Threshold: 0.95}, nil),
		cat,
		func([]byte) assemble.Composer { return comp },
	)
}

var vendorSheet = [][]string{
	{"Customer", "Packing Note", "Route"},
	{"Corner Cafe", "box", "route 1"},
	{"Lakeside Deli", "tray", ""},
}

func TestProcessorRunOrdersByDateThenNote(t *testing.T) {
	x := &fakeExtractor{texts: []string{
		"INVOICE 1001\n02/10/2024\nBill to Corner Cafe\nBox\n12 Maple Bar",
		"continued\n8 Maple Bar",
		"INVOICE 1002\n02/09/2024\nLakeside Deli\nTray\n5 Glazed",
	}}
	comp := &recordingComposer{}
	p := newProcessor(t, x, fakeSource{rows: vendorSheet}, comp)
	p.Exporter = export.NewService(nil)

	res, err := p.Run(context.Background(), ingest.Upload{Name: "in.pdf", Data: []byte("%PDF-in")})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.True(t, x.pathSeen, "stream upload is spilled to a temp file")
	assert.Equal(t, []int{2, -1, 0, 1, -1}, comp.order)
	assert.Equal(t, 3, res.InputPages)
	assert.Equal(t, 2, res.SummaryPages)
	assert.Len(t, res.Pages, res.InputPages+res.SummaryPages)
	assert.Equal(t, []byte("%PDF-out"), res.PDF)
	assert.NotEmpty(t, res.Workbook)

	require.Len(t, res.Invoices, 2)
	assert.Equal(t, "lakeside deli", res.Invoices[0].Vendor)
	assert.Equal(t, 1, res.Invoices[0].VendorRank)
	assert.Equal(t, constants.Route1, res.Invoices[1].Route, "route filled from the vendor sheet")

	require.Len(t, res.Summaries, 2)
	feb10 := res.Summaries[1]
	assert.True(t, feb10.Date.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1 screen", feb10.Sections[0].Lines[0].Quantity)
}

func TestProcessorVendorFailureIsFatal(t *testing.T) {
	comp := &recordingComposer{}
	p := newProcessor(t, &fakeExtractor{}, fakeSource{err: errors.New("503")}, comp)

	res, err := p.Run(context.Background(), ingest.Upload{Name: "in.pdf", Data: []byte("%PDF-in")})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, common.ErrVendorTable)
	assert.Equal(t, common.CodeVendorTable, common.CodeOf(err))
	assert.Empty(t, comp.order)
}

func TestProcessorExtractionFailure(t *testing.T) {
	p := newProcessor(t, &fakeExtractor{err: errors.New("tesseract missing")}, fakeSource{rows: vendorSheet}, &recordingComposer{})
	_, err := p.Run(context.Background(), ingest.Upload{Name: "in.pdf", SourcePath: "/tmp/none.pdf", Data: []byte("%PDF-in")})
	assert.ErrorIs(t, err, common.ErrExtraction)

	p = newProcessor(t, &fakeExtractor{}, fakeSource{rows: vendorSheet}, &recordingComposer{})
	_, err = p.Run(context.Background(), ingest.Upload{Name: "in.pdf", Data: []byte("bad")})
	assert.Equal(t, common.CodeInput, common.CodeOf(err))
}

func TestProcessorKeepsRunIDFromContext(t *testing.T) {
	p := newProcessor(t, &fakeExtractor{texts: []string{"INVOICE"}}, fakeSource{rows: vendorSheet}, &recordingComposer{})
	ctx := common.WithRunID(context.Background(), "run-42")
	res, err := p.Run(ctx, ingest.Upload{Name: "in.pdf", Data: []byte("%PDF-in")})
	require.NoError(t, err)
	assert.Equal(t, "run-42", res.RunID)
	assert.Equal(t, 1, len(res.Groups))
	assert.True(t, res.Groups[0].Date.Equal(entity.UnknownDate))
}

func TestProcessorRejectsDocumentWithoutPages(t *testing.T) {
	comp := &recordingComposer{}
	p := newProcessor(t, &fakeExtractor{}, fakeSource{rows: vendorSheet}, comp)
	res, err := p.Run(context.Background(), ingest.Upload{Name: "empty.pdf", Data: []byte("%PDF-empty")})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, common.CodeInput, common.CodeOf(err))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Empty(t, comp.order)
}

func TestProcessorStagesLogThroughRunLogger(t *testing.T) {
	var buf bytes.Buffer
	p := newProcessor(t, &fakeExtractor{texts: []string{"INVOICE"}}, fakeSource{rows: vendorSheet}, &recordingComposer{})
	p.Logger = slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := common.WithRunID(context.Background(), "run-7")
	_, err := p.Run(ctx, ingest.Upload{Name: "in.pdf", Data: []byte("%PDF-in")})
	require.NoError(t, err)

	var stages int
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, 1, strings.Count(line, `"run_id":"run-7"`), line)
		if strings.Contains(line, "processor.ocr.ok") || strings.Contains(line, "processor.parse.ok") {
			stages++
		}
	}
	assert.Equal(t, 2, stages)
}
