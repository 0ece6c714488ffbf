package charts

import (
	"math"

	"warehouse/adapters/stats"
	"warehouse/domain/chart"
	"warehouse/domain/core"
	"warehouse/domain/table"

	montanastats "github.com/montanaflynn/stats"
)

// shapeScatter emits points for two numeric columns, optionally
// partitioned into one series per category of a color column, plus the
// Pearson coefficient of the full selected pair as an overlay value.
func (s *Shaper) shapeScatter(t *table.Table, spec chart.Spec) (*chart.Result, error) {
	xCol, err := requireColumn(t, "x", spec.X, table.TypeNumeric)
	if err != nil {
		return nil, err
	}
	yCol, err := requireColumn(t, "y", spec.Y, table.TypeNumeric)
	if err != nil {
		return nil, err
	}

	var colorCol *table.Column
	if spec.Color != "" {
		col, err := requireColumn(t, "color", spec.Color, table.TypeCategorical)
		if err != nil {
			return nil, err
		}
		colorCol = &col
	}

	byName := make(map[string]*chart.ScatterSeries)
	var order []string
	addPoint := func(name string, p chart.Point) {
		series, ok := byName[name]
		if !ok {
			series = &chart.ScatterSeries{Name: name}
			byName[name] = series
			order = append(order, name)
		}
		series.Points = append(series.Points, p)
	}

	for i := range xCol.Values {
		x, okX := finiteFloat(xCol.Values[i])
		y, okY := finiteFloat(yCol.Values[i])
		if !okX || !okY {
			continue
		}
		name := yCol.Name
		if colorCol != nil {
			c, ok := colorCol.Values[i].Text()
			if !ok {
				continue
			}
			name = c
		}
		addPoint(name, chart.Point{X: x, Y: y})
	}

	result := &chart.Result{Kind: chart.KindScatter}
	for _, name := range order {
		result.Scatter = append(result.Scatter, *byName[name])
	}

	// Correlation overlay covers the full pair, not one color partition
	r := stats.PearsonColumns(xCol, yCol)
	result.Correlation = &r

	return result, nil
}

// shapeHistogram bins one numeric column into equal-width bins over
// [min, max] of the finite non-null values, with mean and median overlays
func (s *Shaper) shapeHistogram(t *table.Table, spec chart.Spec) (*chart.Result, error) {
	col, err := requireColumn(t, "x", spec.X, table.TypeNumeric)
	if err != nil {
		return nil, err
	}
	if spec.BinCount < chart.MinBinCount || spec.BinCount > chart.MaxBinCount {
		return nil, core.NewChartParamError("bin_count", "must be between 5 and 100")
	}

	data := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		if f, ok := finiteFloat(v); ok {
			data = append(data, f)
		}
	}
	if len(data) == 0 {
		return nil, core.ErrInsufficientData
	}

	min, _ := montanastats.Min(data)
	max, _ := montanastats.Max(data)
	mean, _ := montanastats.Mean(data)
	median, _ := montanastats.Median(data)

	bins := spec.BinCount
	counts := make([]int, bins)
	edges := make([]float64, bins+1)
	width := (max - min) / float64(bins)
	for i := 0; i <= bins; i++ {
		edges[i] = min + float64(i)*width
	}
	edges[bins] = max

	for _, v := range data {
		idx := 0
		if width > 0 {
			idx = int((v - min) / width)
		}
		// Max-edge values belong to the last bin
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	return &chart.Result{
		Kind: chart.KindHistogram,
		Histogram: &chart.HistogramData{
			Edges:  edges,
			Counts: counts,
			Mean:   mean,
			Median: median,
		},
	}, nil
}

// shapeBox produces the five-number summary per group. Whiskers stop at
// the most extreme points within 1.5x IQR of the quartiles; everything
// beyond is reported as an outlier.
func (s *Shaper) shapeBox(t *table.Table, spec chart.Spec) (*chart.Result, error) {
	col, err := requireColumn(t, "y", spec.Y, table.TypeNumeric)
	if err != nil {
		return nil, err
	}

	var groupCol *table.Column
	if spec.Group != "" {
		gc, err := requireColumn(t, "group", spec.Group, table.TypeCategorical)
		if err != nil {
			return nil, err
		}
		groupCol = &gc
	}

	grouped := make(map[string][]float64)
	var order []string
	for i := range col.Values {
		v, ok := finiteFloat(col.Values[i])
		if !ok {
			continue
		}
		name := ""
		if groupCol != nil {
			g, ok := groupCol.Values[i].Text()
			if !ok {
				continue
			}
			name = g
		}
		if _, seen := grouped[name]; !seen {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], v)
	}

	if len(order) == 0 {
		return nil, core.ErrInsufficientData
	}

	result := &chart.Result{Kind: chart.KindBox}
	for _, name := range order {
		box, ok := summarizeBox(name, grouped[name])
		if ok {
			result.Boxes = append(result.Boxes, box)
		}
	}
	if len(result.Boxes) == 0 {
		return nil, core.ErrInsufficientData
	}
	return result, nil
}

func summarizeBox(group string, data []float64) (chart.BoxSummary, bool) {
	if len(data) == 0 {
		return chart.BoxSummary{}, false
	}

	quartiles, err := montanastats.Quartile(data)
	if err != nil {
		// Too few points for quartiles: collapse the box onto the data
		min, _ := montanastats.Min(data)
		max, _ := montanastats.Max(data)
		median, _ := montanastats.Median(data)
		return chart.BoxSummary{
			Group: group, Min: min, Q1: median, Median: median, Q3: median, Max: max,
			Outliers: []float64{},
		}, true
	}

	iqr := quartiles.Q3 - quartiles.Q1
	lowerFence := quartiles.Q1 - 1.5*iqr
	upperFence := quartiles.Q3 + 1.5*iqr

	whiskerMin := math.Inf(1)
	whiskerMax := math.Inf(-1)
	outliers := []float64{}
	for _, v := range data {
		if v < lowerFence || v > upperFence {
			outliers = append(outliers, v)
			continue
		}
		whiskerMin = math.Min(whiskerMin, v)
		whiskerMax = math.Max(whiskerMax, v)
	}

	return chart.BoxSummary{
		Group:    group,
		Min:      whiskerMin,
		Q1:       quartiles.Q1,
		Median:   quartiles.Q2,
		Q3:       quartiles.Q3,
		Max:      whiskerMax,
		Outliers: outliers,
	}, true
}

// finiteFloat reports whether a cell holds a usable finite number.
// Numeric inference admits NaN and Inf literals, so every shaper must
// exclude them the same way the stats engine does.
func finiteFloat(v table.Value) (float64, bool) {
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// requireColumn validates that a role is bound to an existing column of
// the expected type
func requireColumn(t *table.Table, role, name string, expected table.Type) (table.Column, error) {
	if name == "" {
		return table.Column{}, core.NewChartBindingError(role, "(unbound)", string(expected))
	}
	col, ok := t.Column(name)
	if !ok {
		return table.Column{}, core.NewChartBindingMissingError(role, name)
	}
	if col.Type != expected {
		return table.Column{}, core.NewChartBindingError(role, name, string(expected))
	}
	return col, nil
}
