package stats

import (
	"math"

	"warehouse/domain/core"
	"warehouse/domain/dataset"
	"warehouse/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Engine computes descriptive statistics and correlations over the
// numeric columns of a table
type Engine struct{}

// NewEngine creates a stats engine
func NewEngine() *Engine {
	return &Engine{}
}

// Summarize computes {mean, median, std, min, max} per numeric column.
// Columns with fewer than two usable values get a summary with nil
// statistics instead of failing the whole table. Standard deviation uses
// the sample (n-1) formula. NaN values are excluded per column.
func (e *Engine) Summarize(t *table.Table) map[string]dataset.ColumnSummary {
	summaries := make(map[string]dataset.ColumnSummary)
	for _, col := range t.NumericColumns() {
		summaries[col.Name] = summarizeColumn(usableFloats(col))
	}
	return summaries
}

func summarizeColumn(data []float64) dataset.ColumnSummary {
	if len(data) < 2 {
		return dataset.ColumnSummary{}
	}

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	std, _ := stats.StandardDeviationSample(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	return dataset.ColumnSummary{
		Mean:   &mean,
		Median: &median,
		StdDev: &std,
		Min:    &min,
		Max:    &max,
	}
}

// Correlate computes the pairwise Pearson correlation matrix over the
// numeric columns. Self-correlation is fixed at 1.0 and off-diagonal
// entries are symmetric. Pairs with fewer than two aligned observations
// or zero variance report 0.
func (e *Engine) Correlate(t *table.Table) (*dataset.CorrelationMatrix, error) {
	numeric := t.NumericColumns()
	if len(numeric) < 2 {
		return nil, core.ErrInsufficientData
	}

	names := make([]string, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name
	}

	values := make([][]float64, len(numeric))
	for i := range values {
		values[i] = make([]float64, len(numeric))
		values[i][i] = 1.0
	}

	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r := PearsonColumns(numeric[i], numeric[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &dataset.CorrelationMatrix{Columns: names, Values: values}, nil
}

// PearsonColumns computes the Pearson coefficient over the rows where
// both columns have a usable value. Unusable pairs return 0.
func PearsonColumns(a, b table.Column) float64 {
	x, y := alignedPairs(a, b)
	return Pearson(x, y)
}

// Pearson computes the coefficient for two aligned samples, sanitizing
// the degenerate cases (short samples, zero variance) to 0
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// alignedPairs extracts the rows where both columns hold a finite number
func alignedPairs(a, b table.Column) ([]float64, []float64) {
	n := len(a.Values)
	if len(b.Values) < n {
		n = len(b.Values)
	}
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		fa, okA := a.Values[i].Float()
		fb, okB := b.Values[i].Float()
		if okA && okB && !math.IsNaN(fa) && !math.IsNaN(fb) {
			x = append(x, fa)
			y = append(y, fb)
		}
	}
	return x, y
}

// usableFloats filters a column down to its finite numeric content
func usableFloats(col table.Column) []float64 {
	raw := col.Floats()
	out := raw[:0]
	for _, f := range raw {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			out = append(out, f)
		}
	}
	return out
}
