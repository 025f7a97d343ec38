package vendors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/entity"
)

const sheetCSV = `Customer,Packing Note,Route
Corner Cafe,Box,Route 1
,Tray,Route 2
Donut King,pallet,
  DONUT KING  ,Trays,2
Sunrise Market,,route 2
corner cafe,Morning,
Lakeside Deli,morning,1
`

func TestParseRows(t *testing.T) {
	rows, err := readCSV(stringsReader(sheetCSV))
	require.NoError(t, err)

	recs, err := ParseRows(rows, nil)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, entity.VendorRecord{Name: "corner cafe", PackingNote: constants.PackingBox, Route: constants.Route1, Rank: 0, Row: 2}, recs[0])
	// invalid note on row 4 drops it, so the later spelling is kept
	assert.Equal(t, entity.VendorRecord{Name: "donut king", PackingNote: constants.PackingTray, Route: constants.Route2, Rank: 1, Row: 5}, recs[1])
	assert.Equal(t, entity.VendorRecord{Name: "sunrise market", PackingNote: constants.PackingUnknown, Route: constants.Route2, Rank: 2, Row: 6}, recs[2])
	assert.Equal(t, "lakeside deli", recs[3].Name)
	assert.Equal(t, 3, recs[3].Rank)
}

func TestParseRowsHeaderErrors(t *testing.T) {
	_, err := ParseRows(nil, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = ParseRows([][]string{{"id", "route"}}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestTableRankAndApply(t *testing.T) {
	table := NewTable([]entity.VendorRecord{
		{Name: "Corner Cafe", PackingNote: constants.PackingBox, Route: constants.Route1, Rank: 0},
		{Name: "donut king", PackingNote: constants.PackingUnknown, Route: constants.RouteUnset, Rank: 1},
	})

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"corner cafe", "donut king"}, table.Names())
	assert.Equal(t, 0, table.Rank("CORNER CAFE"))
	assert.Equal(t, 1, table.Rank("donut king"))
	assert.Equal(t, constants.UnmatchedVendorRank, table.Rank("nobody"))
	assert.Equal(t, constants.UnmatchedVendorRank, table.Rank(""))

	inv := entity.NewInvoice()
	inv.Vendor = "corner cafe"
	got := table.Apply(inv)
	assert.Equal(t, 0, got.VendorRank)
	assert.Equal(t, constants.PackingBox, got.PackingNote)
	assert.Equal(t, constants.Route1, got.Route)

	inv.PackingNote = constants.PackingTray
	inv.Route = constants.Route2
	got = table.Apply(inv)
	assert.Equal(t, constants.PackingTray, got.PackingNote, "invoice text wins over sheet")
	assert.Equal(t, constants.Route2, got.Route)

	inv = entity.NewInvoice()
	inv.Vendor = "stranger"
	got = table.Apply(inv)
	assert.Equal(t, constants.UnmatchedVendorRank, got.VendorRank)
	assert.Equal(t, constants.PackingUnknown, got.PackingNote)
}

func TestNilTable(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, constants.UnmatchedVendorRank, table.Rank("x"))
	assert.Nil(t, table.Names())
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sheetCSV))
	}))
	defer srv.Close()

	table, err := Load(context.Background(), &HTTPSource{URL: srv.URL}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())
	assert.Equal(t, 2, table.Rank("sunrise market"))
}

func TestHTTPSourceFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), &HTTPSource{URL: srv.URL, Client: &http.Client{Timeout: time.Second}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrVendorTable))
	assert.Equal(t, common.CodeVendorTable, common.CodeOf(err))
	assert.Contains(t, err.Error(), "403")
}

func TestFileSourceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.csv")
	require.NoError(t, os.WriteFile(path, []byte(sheetCSV), 0o644))

	table, err := Load(context.Background(), &FileSource{Path: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())
}

func TestFileSourceXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("Orders")
	require.NoError(t, err)
	data := [][]any{
		{"Vendor Name", "Route", "Note"},
		{"Corner Cafe", "route 2", "tray"},
		{"Donut King", "", "box"},
	}
	for r, row := range data {
		for c, v := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Orders", cellName, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Load(context.Background(), &FileSource{Path: path, SheetName: "Orders"}, nil)
	require.NoError(t, err)
	recs := table.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, constants.PackingTray, recs[0].PackingNote)
	assert.Equal(t, constants.Route2, recs[0].Route)
	assert.Equal(t, "donut king", recs[1].Name)

	// first sheet is the empty default one
	_, err = Load(context.Background(), &FileSource{Path: path}, nil)
	assert.ErrorIs(t, err, common.ErrVendorTable)
}

func TestFileSourceUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	_, err := (&FileSource{Path: path}).Rows(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestLoadWithoutSource(t *testing.T) {
	table, err := Load(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(common.VendorsConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, src)

	src, err = NewSource(common.VendorsConfig{SheetURL: "http://example.invalid/x.csv"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	src, err = NewSource(common.VendorsConfig{File: "v.xlsx", SheetName: "A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, &FileSource{Path: "v.xlsx", SheetName: "A"}, src)

	_, err = NewSource(common.VendorsConfig{SheetURL: "u", File: "f"}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }
