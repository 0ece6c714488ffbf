package dataset

import (
	"testing"

	"warehouse/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tbl, err := table.New([]table.Column{
		{Name: "region", Type: table.TypeCategorical, Values: []table.Value{
			table.NewTextValue("North"), table.NewTextValue("South"),
		}},
		{Name: "revenue", Type: table.TypeNumeric, Values: []table.Value{
			table.NewNumericValue(1250.5), table.NewNumericValue(980.25),
		}},
	})
	require.NoError(t, err)

	meta := Extract(tbl, "sales.csv", 2*1024*1024)

	assert.False(t, meta.ID.IsEmpty())
	assert.Equal(t, "sales.csv", meta.Filename)
	assert.Equal(t, 2, meta.RowCount)
	assert.Equal(t, 2, meta.ColumnCount)
	assert.Equal(t, 2.0, meta.SizeMB)
	assert.Equal(t, table.TypeNumeric, meta.ColumnTypes["revenue"])
	assert.Equal(t, StatusUploaded, meta.Status)
	assert.False(t, meta.CreatedAt.IsZero())
}

func TestExtractEmptyTable(t *testing.T) {
	tbl, err := table.New(nil)
	require.NoError(t, err)

	meta := Extract(tbl, "empty.csv", 0)
	assert.Equal(t, 0, meta.RowCount)
	assert.Equal(t, 0, meta.ColumnCount)
	assert.Equal(t, 0.0, meta.SizeMB)
}

func TestSizeInMBRounding(t *testing.T) {
	assert.Equal(t, 0.0, SizeInMB(0))
	assert.Equal(t, 1.0, SizeInMB(1024*1024))
	assert.Equal(t, 0.5, SizeInMB(512*1024))
	// 1.5 MB plus a little rounds to two decimals
	assert.Equal(t, 1.5, SizeInMB(1572864+100))
}

func TestStatusTransitions(t *testing.T) {
	meta := &Metadata{Status: StatusUploaded}
	assert.False(t, meta.IsReady())

	meta.MarkProcessing()
	assert.Equal(t, StatusProcessing, meta.Status)

	meta.MarkError("bad payload")
	assert.Equal(t, StatusError, meta.Status)
	assert.Equal(t, "bad payload", meta.ErrorMessage)

	meta.MarkReady()
	assert.True(t, meta.IsReady())
	assert.Empty(t, meta.ErrorMessage)
}
