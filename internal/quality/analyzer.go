package quality

import (
	"math"

	"warehouse/domain/dataset"
	"warehouse/domain/table"
)

// Weights defines the quality score weighting policy. The split is a
// documented, configurable policy, not a fixed formula.
type Weights struct {
	Completeness float64 `json:"completeness"`
	Uniqueness   float64 `json:"uniqueness"`
}

// DefaultWeights returns the 0.6/0.4 completeness/uniqueness split
func DefaultWeights() Weights {
	return Weights{Completeness: 0.6, Uniqueness: 0.4}
}

// Analyzer computes data quality reports. Pure function of the table.
type Analyzer struct {
	weights Weights
}

// NewAnalyzer creates an analyzer with the given weighting policy
func NewAnalyzer(weights Weights) *Analyzer {
	total := weights.Completeness + weights.Uniqueness
	if total <= 0 {
		weights = DefaultWeights()
		total = weights.Completeness + weights.Uniqueness
	}
	// Normalize so callers can pass any positive pair
	weights.Completeness /= total
	weights.Uniqueness /= total
	return &Analyzer{weights: weights}
}

// Analyze computes completeness, duplicate rows, per-column null counts,
// and the aggregate quality score for a table
func (a *Analyzer) Analyze(t *table.Table) *dataset.QualityReport {
	nullCounts := make(map[string]int, t.ColumnCount())
	totalNulls := 0
	for _, col := range t.Columns() {
		n := col.NullCount()
		nullCounts[col.Name] = n
		totalNulls += n
	}

	completeness := 100.0
	if cells := t.CellCount(); cells > 0 {
		completeness = 100.0 * float64(cells-totalNulls) / float64(cells)
	}

	duplicates := countDuplicateRows(t)
	duplicateRate := 0.0
	if rows := t.RowCount(); rows > 0 {
		duplicateRate = 100.0 * float64(duplicates) / float64(rows)
	}

	score := a.weights.Completeness*completeness + a.weights.Uniqueness*(100.0-duplicateRate)
	score = math.Max(0, math.Min(100, score))

	return &dataset.QualityReport{
		CompletenessPct:   completeness,
		DuplicateRowCount: duplicates,
		NullCounts:        nullCounts,
		QualityScore:      score,
	}
}

// countDuplicateRows counts rows that are exact value-wise duplicates of
// an earlier row, in a stable order-preserving scan
func countDuplicateRows(t *table.Table) int {
	seen := make(map[string]bool, t.RowCount())
	duplicates := 0
	for i := 0; i < t.RowCount(); i++ {
		key := t.RowFingerprint(i)
		if seen[key] {
			duplicates++
		} else {
			seen[key] = true
		}
	}
	return duplicates
}
