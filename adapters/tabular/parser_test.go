package tabular

import (
	"bytes"
	"strings"
	"testing"

	"warehouse/domain/core"
	"warehouse/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const salesCSV = `Date,Region,Product,Units_Sold,Revenue,Profit_Margin
2024-01-01,North,Widget,100,10000,0.2
2024-01-02,South,Widget,80,8200,0.18
2024-01-03,East,Gadget,120,15000,0.25
2024-01-04,West,Gadget,90,11300,0.22
`

func newParser() *Parser {
	return NewParser(DefaultConfig())
}

func TestParseCSV(t *testing.T) {
	tbl, err := newParser().Parse([]byte(salesCSV), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.RowCount())
	assert.Equal(t, 6, tbl.ColumnCount())
	assert.Equal(t, []string{"Date", "Region", "Product", "Units_Sold", "Revenue", "Profit_Margin"}, tbl.ColumnNames())

	types := tbl.ColumnTypes()
	assert.Equal(t, table.TypeDate, types["Date"])
	assert.Equal(t, table.TypeCategorical, types["Region"])
	assert.Equal(t, table.TypeNumeric, types["Units_Sold"])
	assert.Equal(t, table.TypeNumeric, types["Revenue"])
	assert.Equal(t, table.TypeNumeric, types["Profit_Margin"])
}

func TestParseCSVTypeInference(t *testing.T) {
	csv := "flag,amount,mixed,when\n" +
		"true,\"1,200.50\",12,2024-01-01\n" +
		"0,($45),abc,2024-02-15\n" +
		"1,$3.50,9,2024-03-20\n"

	tbl, err := newParser().Parse([]byte(csv), FormatCSV)
	require.NoError(t, err)

	flag, _ := tbl.Column("flag")
	assert.Equal(t, table.TypeBoolean, flag.Type)

	amount, _ := tbl.Column("amount")
	require.Equal(t, table.TypeNumeric, amount.Type)
	assert.Equal(t, []float64{1200.50, -45, 3.50}, amount.Floats())

	// One non-numeric value forces the whole column to categorical
	mixed, _ := tbl.Column("mixed")
	assert.Equal(t, table.TypeCategorical, mixed.Type)

	when, _ := tbl.Column("when")
	assert.Equal(t, table.TypeDate, when.Type)
}

func TestParseCSVMissingCells(t *testing.T) {
	csv := "a,b\n1,x\n,y\n3,\n"
	tbl, err := newParser().Parse([]byte(csv), FormatCSV)
	require.NoError(t, err)

	a, _ := tbl.Column("a")
	assert.Equal(t, table.TypeNumeric, a.Type)
	assert.Equal(t, 1, a.NullCount())
	assert.Equal(t, []float64{1, 3}, a.Floats())

	b, _ := tbl.Column("b")
	assert.Equal(t, 1, b.NullCount())
}

func TestParseCSVHeaderOnly(t *testing.T) {
	// Zero data rows is a valid, recorded state rather than an error
	tbl, err := newParser().Parse([]byte("a,b,c\n"), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.RowCount())
	assert.Equal(t, 3, tbl.ColumnCount())
}

func TestParseCSVRagged(t *testing.T) {
	_, err := newParser().Parse([]byte("a,b\n1,2\n3\n"), FormatCSV)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestParseCSVDuplicateHeader(t *testing.T) {
	_, err := newParser().Parse([]byte("a,a\n1,2\n"), FormatCSV)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestParseEmptyPayload(t *testing.T) {
	_, err := newParser().Parse(nil, FormatCSV)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestParseSizeLimit(t *testing.T) {
	parser := NewParser(Config{MaxSizeBytes: 16})
	_, err := parser.Parse([]byte(salesCSV), FormatCSV)
	assert.ErrorIs(t, err, core.ErrSizeLimitExceeded)
}

func TestParseJSON(t *testing.T) {
	payload := `[
		{"name": "alpha", "score": 10.5, "active": true},
		{"name": "beta", "score": 7, "active": false},
		{"name": "gamma", "score": null, "active": true}
	]`

	tbl, err := newParser().Parse([]byte(payload), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.RowCount())
	// JSON objects are unordered; columns come out sorted by name
	assert.Equal(t, []string{"active", "name", "score"}, tbl.ColumnNames())

	score, _ := tbl.Column("score")
	assert.Equal(t, table.TypeNumeric, score.Type)
	assert.Equal(t, 1, score.NullCount())

	active, _ := tbl.Column("active")
	assert.Equal(t, table.TypeBoolean, active.Type)
}

func TestParseJSONNotAnArray(t *testing.T) {
	_, err := newParser().Parse([]byte(`{"a": 1}`), FormatJSON)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestParseJSONRejectsNestedValues(t *testing.T) {
	nested := `[{"name": "alpha", "tags": ["a", "b"]}]`
	_, err := newParser().Parse([]byte(nested), FormatJSON)
	require.ErrorIs(t, err, core.ErrMalformedInput)
	assert.Contains(t, err.Error(), `"tags"`)

	object := `[{"name": "alpha", "address": {"city": "Oslo"}}]`
	_, err = newParser().Parse([]byte(object), FormatJSON)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestParseExcel(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"city", "population"},
		{"Oslo", 700000},
		{"Bergen", 290000},
		{"Trondheim", 210000},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	tbl, err := newParser().Parse(buf.Bytes(), FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 2, tbl.ColumnCount())

	pop, _ := tbl.Column("population")
	assert.Equal(t, table.TypeNumeric, pop.Type)
}

func TestParseExcelGarbage(t *testing.T) {
	_, err := newParser().Parse([]byte("definitely not a workbook"), FormatExcel)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		declared string
		want     Format
	}{
		{"csv", FormatCSV},
		{"text/csv", FormatCSV},
		{"XLSX", FormatExcel},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatExcel},
		{"application/json", FormatJSON},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.declared)
		require.NoError(t, err, tc.declared)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseFormat("parquet")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = FormatFromFilename("report.pdf")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	got, err := FormatFromFilename("report.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, got)
}

func TestParseUnsupportedFormatBeforeDecode(t *testing.T) {
	_, err := newParser().Parse([]byte("a,b\n1,2\n"), Format("yaml"))
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
	assert.True(t, strings.Contains(err.Error(), "yaml"))
}
