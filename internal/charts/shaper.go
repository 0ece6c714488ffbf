package charts

import (
	"sort"

	"warehouse/domain/chart"
	"warehouse/domain/core"
	"warehouse/domain/table"
)

// Shaper transforms a table plus a chart spec into the series structure
// each chart kind consumes. It validates bindings against the table's
// column types first; it never renders anything.
type Shaper struct{}

// NewShaper creates a chart data shaper
func NewShaper() *Shaper {
	return &Shaper{}
}

// Shape produces the series for one chart request
func (s *Shaper) Shape(t *table.Table, spec chart.Spec) (*chart.Result, error) {
	switch spec.Kind {
	case chart.KindLine:
		return s.shapeLine(t, spec, false)
	case chart.KindArea:
		return s.shapeLine(t, spec, spec.Cumulative)
	case chart.KindBar:
		return s.shapeBar(t, spec)
	case chart.KindScatter:
		return s.shapeScatter(t, spec)
	case chart.KindHistogram:
		return s.shapeHistogram(t, spec)
	case chart.KindBox:
		return s.shapeBox(t, spec)
	default:
		return nil, core.NewChartParamError("kind", "must be one of line, bar, scatter, histogram, box, area")
	}
}

// shapeLine handles line and area charts: a date x-column and a numeric
// y-column, rows sorted ascending by x. Area with cumulative requested
// emits a running sum of y.
func (s *Shaper) shapeLine(t *table.Table, spec chart.Spec, cumulative bool) (*chart.Result, error) {
	xCol, err := requireColumn(t, "x", spec.X, table.TypeDate)
	if err != nil {
		return nil, err
	}
	yCol, err := requireColumn(t, "y", spec.Y, table.TypeNumeric)
	if err != nil {
		return nil, err
	}

	points := make([]chart.TimePoint, 0, len(xCol.Values))
	for i := range xCol.Values {
		x, okX := xCol.Values[i].Date()
		y, okY := finiteFloat(yCol.Values[i])
		if okX && okY {
			points = append(points, chart.TimePoint{X: x, Y: y})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].X.Before(points[j].X)
	})

	if cumulative {
		running := 0.0
		for i := range points {
			running += points[i].Y
			points[i].Y = running
		}
	}

	return &chart.Result{
		Kind:  spec.Kind,
		Lines: []chart.TimeSeries{{Name: yCol.Name, Points: points}},
	}, nil
}

// shapeBar aggregates a numeric y-column over a categorical x-column.
// With a grouping column it emits one series per distinct group value,
// groups ordered by first appearance.
func (s *Shaper) shapeBar(t *table.Table, spec chart.Spec) (*chart.Result, error) {
	xCol, err := requireColumn(t, "x", spec.X, table.TypeCategorical)
	if err != nil {
		return nil, err
	}
	yCol, err := requireColumn(t, "y", spec.Y, table.TypeNumeric)
	if err != nil {
		return nil, err
	}

	agg := spec.Aggregation
	if agg == "" {
		agg = chart.AggMean
	}
	if agg != chart.AggMean && agg != chart.AggSum && agg != chart.AggCount {
		return nil, core.NewChartParamError("aggregation", "must be mean, sum, or count")
	}

	var groupCol *table.Column
	if spec.Group != "" {
		col, err := requireColumn(t, "group", spec.Group, table.TypeCategorical)
		if err != nil {
			return nil, err
		}
		groupCol = &col
	}

	// Accumulate per (group, category), preserving first-appearance order
	// for both group values and category labels
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]map[string]*bucket)
	var groupOrder, labelOrder []string
	seenGroup := make(map[string]bool)
	seenLabel := make(map[string]bool)

	for i := range xCol.Values {
		label, okX := xCol.Values[i].Text()
		y, okY := finiteFloat(yCol.Values[i])
		if !okX {
			continue
		}
		if !okY && agg != chart.AggCount {
			continue
		}

		group := yCol.Name
		if groupCol != nil {
			g, ok := groupCol.Values[i].Text()
			if !ok {
				continue
			}
			group = g
		}

		if !seenGroup[group] {
			seenGroup[group] = true
			groupOrder = append(groupOrder, group)
			buckets[group] = make(map[string]*bucket)
		}
		if !seenLabel[label] {
			seenLabel[label] = true
			labelOrder = append(labelOrder, label)
		}
		b := buckets[group][label]
		if b == nil {
			b = &bucket{}
			buckets[group][label] = b
		}
		b.sum += y
		b.count++
	}

	series := make([]chart.BarSeries, 0, len(groupOrder))
	for _, group := range groupOrder {
		points := make([]chart.BarPoint, 0, len(labelOrder))
		for _, label := range labelOrder {
			b := buckets[group][label]
			if b == nil {
				continue
			}
			var value float64
			switch agg {
			case chart.AggSum:
				value = b.sum
			case chart.AggCount:
				value = float64(b.count)
			default:
				value = b.sum / float64(b.count)
			}
			points = append(points, chart.BarPoint{Label: label, Value: value})
		}
		series = append(series, chart.BarSeries{Name: group, Points: points})
	}

	return &chart.Result{Kind: chart.KindBar, Bars: series}, nil
}
