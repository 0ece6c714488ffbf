package chart

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies one of the six supported chart types
type Kind string

const (
	KindLine      Kind = "line"
	KindBar       Kind = "bar"
	KindScatter   Kind = "scatter"
	KindHistogram Kind = "histogram"
	KindBox       Kind = "box"
	KindArea      Kind = "area"
)

// Kinds lists every supported chart kind
func Kinds() []Kind {
	return []Kind{KindLine, KindBar, KindScatter, KindHistogram, KindBox, KindArea}
}

// IsValid reports whether the kind is one of the six supported types
func (k Kind) IsValid() bool {
	switch k {
	case KindLine, KindBar, KindScatter, KindHistogram, KindBox, KindArea:
		return true
	}
	return false
}

// Aggregation selects how bar chart groups are reduced
type Aggregation string

const (
	AggMean  Aggregation = "mean"
	AggSum   Aggregation = "sum"
	AggCount Aggregation = "count"
)

// Histogram bin count bounds
const (
	MinBinCount = 5
	MaxBinCount = 100
)

// Spec is a user-supplied chart request: a kind, column bindings, and
// shaping parameters. It is validated against the bound table's column
// types before any shaping happens.
type Spec struct {
	Kind Kind `json:"kind"`

	// Column bindings; which roles are required depends on the kind
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
	Group string `json:"group,omitempty"`
	Color string `json:"color,omitempty"`

	// Parameters
	BinCount    int         `json:"bin_count,omitempty"`
	Aggregation Aggregation `json:"aggregation,omitempty"`
	Cumulative  bool        `json:"cumulative,omitempty"`
}

// CacheParams canonicalizes the spec into cache key parameters
func (s Spec) CacheParams() map[string]string {
	return map[string]string{
		"kind":        string(s.Kind),
		"x":           s.X,
		"y":           s.Y,
		"group":       s.Group,
		"color":       s.Color,
		"bin_count":   strconv.Itoa(s.BinCount),
		"aggregation": string(s.Aggregation),
		"cumulative":  strconv.FormatBool(s.Cumulative),
	}
}

// String returns a short description for logging
func (s Spec) String() string {
	return fmt.Sprintf("%s(x=%s y=%s group=%s)", s.Kind, s.X, s.Y, s.Group)
}

// TimePoint is one (x, y) sample on a time axis
type TimePoint struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// Point is one (x, y) sample on numeric axes
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TimeSeries is an ordered series over time, used by line and area charts
type TimeSeries struct {
	Name   string      `json:"name"`
	Points []TimePoint `json:"points"`
}

// BarPoint is one aggregated bar
type BarPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarSeries is one group's bars, ordered by category first appearance
type BarSeries struct {
	Name   string     `json:"name"`
	Points []BarPoint `json:"points"`
}

// ScatterSeries is one color partition of scatter points
type ScatterSeries struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// HistogramData holds equal-width bins plus overlay markers
type HistogramData struct {
	Edges  []float64 `json:"edges"` // len == bins+1
	Counts []int     `json:"counts"`
	Mean   float64   `json:"mean"`
	Median float64   `json:"median"`
}

// BoxSummary is the five-number summary plus outliers for one group.
// Outliers are points beyond 1.5x IQR from the quartiles.
type BoxSummary struct {
	Group    string    `json:"group,omitempty"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"`
}

// Result is the shaped output for one chart request. Only the fields for
// the requested kind are populated.
type Result struct {
	Kind Kind `json:"kind"`

	Lines       []TimeSeries    `json:"lines,omitempty"`       // line, area
	Bars        []BarSeries     `json:"bars,omitempty"`        // bar
	Scatter     []ScatterSeries `json:"scatter,omitempty"`     // scatter
	Correlation *float64        `json:"correlation,omitempty"` // scatter overlay
	Histogram   *HistogramData  `json:"histogram,omitempty"`   // histogram
	Boxes       []BoxSummary    `json:"boxes,omitempty"`       // box
}
