package dataset

import (
	"math"

	"warehouse/domain/core"
	"warehouse/domain/table"
)

// Extract derives a metadata record from a parsed table. It never fails
// for a well-formed table: zero rows or no numeric columns are valid,
// recorded states. Everything except the ID and timestamp is
// deterministic given identical inputs.
func Extract(t *table.Table, filename string, sizeBytes int64) *Metadata {
	return &Metadata{
		ID:          core.NewDatasetID(),
		Filename:    filename,
		RowCount:    t.RowCount(),
		ColumnCount: t.ColumnCount(),
		SizeMB:      SizeInMB(sizeBytes),
		ColumnTypes: t.ColumnTypes(),
		Status:      StatusUploaded,
		CreatedAt:   core.Now(),
	}
}

// SizeInMB converts bytes to megabytes rounded to two decimals
func SizeInMB(sizeBytes int64) float64 {
	mb := float64(sizeBytes) / (1024 * 1024)
	return math.Round(mb*100) / 100
}
