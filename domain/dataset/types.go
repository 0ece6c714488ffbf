package dataset

import (
	"warehouse/domain/core"
	"warehouse/domain/table"
)

// Status represents the processing state of a dataset. Transitions are
// monotonic: uploaded -> processing -> ready, or error on failure.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Metadata is the lightweight record kept in the metadata store for each
// uploaded dataset. Once ready it is immutable except for deletion.
type Metadata struct {
	ID       core.DatasetID `json:"id" db:"id"`
	Filename string         `json:"filename" db:"filename"`

	// Shape derived at ingestion time
	RowCount    int     `json:"row_count" db:"row_count"`
	ColumnCount int     `json:"column_count" db:"column_count"`
	SizeMB      float64 `json:"size_mb" db:"size_mb"`

	// Column name -> inferred semantic type
	ColumnTypes map[string]table.Type `json:"column_types" db:"-"`

	Status       Status         `json:"status" db:"status"`
	ErrorMessage string         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    core.Timestamp `json:"created_at" db:"created_at"`
}

// IsReady returns true if the dataset finished processing successfully
func (m *Metadata) IsReady() bool {
	return m.Status == StatusReady
}

// MarkProcessing advances the lifecycle to processing
func (m *Metadata) MarkProcessing() {
	m.Status = StatusProcessing
}

// MarkReady advances the lifecycle to its terminal success state
func (m *Metadata) MarkReady() {
	m.Status = StatusReady
	m.ErrorMessage = ""
}

// MarkError records a terminal failure
func (m *Metadata) MarkError(msg string) {
	m.Status = StatusError
	m.ErrorMessage = msg
}

// QualityReport summarizes data quality for one table. It is derived on
// demand and never persisted.
type QualityReport struct {
	CompletenessPct   float64        `json:"completeness_pct"`
	DuplicateRowCount int            `json:"duplicate_row_count"`
	NullCounts        map[string]int `json:"null_counts"`
	QualityScore      float64        `json:"quality_score"`
}

// ColumnSummary holds the descriptive statistics for one numeric column.
// A nil field means the statistic could not be computed from the
// available non-null values.
type ColumnSummary struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	StdDev *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

// CorrelationMatrix is a square Pearson correlation matrix over the
// numeric columns of a table. Diagonal entries are fixed at 1.0 and the
// matrix is symmetric.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}
