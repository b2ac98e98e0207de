package view

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Kind names one of the dashboard views.
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindHistogram   Kind = "histogram"
	KindScatter     Kind = "scatter"
	KindHeatmap     Kind = "heatmap"
)

// Kinds lists the views in tab order.
var Kinds = []Kind{KindCategorical, KindHistogram, KindScatter, KindHeatmap}

// ParseKind accepts a view name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", &UnknownViewError{Kind: s}
}

// Result is the aggregate computed for one view request.
type Result interface {
	Kind() Kind
}

// MissingLabel is the category under which missing cells are counted.
const MissingLabel = "(missing)"

// CategoryCount is one distinct value of a column with its share of rows.
type CategoryCount struct {
	Value   string  `json:"value" yaml:"value"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Counts backs the bar and pie charts.
type Counts struct {
	Column string          `json:"column" yaml:"column"`
	Total  int             `json:"total" yaml:"total"`
	Items  []CategoryCount `json:"items" yaml:"items"`
}

func (*Counts) Kind() Kind { return KindCategorical }

// Map returns value -> count.
func (c *Counts) Map() map[string]int {
	out := make(map[string]int, len(c.Items))
	for _, it := range c.Items {
		out[it.Value] = it.Count
	}
	return out
}

// Percentages returns value -> percent of total.
func (c *Counts) Percentages() map[string]float64 {
	out := make(map[string]float64, len(c.Items))
	for _, it := range c.Items {
		out[it.Value] = it.Percent
	}
	return out
}

// RawSeries backs the histogram. Missing cells are NaN.
type RawSeries struct {
	Column string    `json:"column" yaml:"column"`
	Unit   string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Values []float64 `json:"values" yaml:"values"`
}

func (*RawSeries) Kind() Kind { return KindHistogram }

// MarshalJSON writes NaN values as null.
func (s *RawSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string     `json:"column"`
		Unit   string     `json:"unit,omitempty"`
		Values []*float64 `json:"values"`
	}{s.Column, s.Unit, nullable(s.Values)})
}

// Group is one distinct value and the number of rows sharing it.
type Group struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// GroupedCounts backs the size-scaled scatter plot.
type GroupedCounts struct {
	Column string  `json:"column" yaml:"column"`
	Groups []Group `json:"groups" yaml:"groups"`
}

func (*GroupedCounts) Kind() Kind { return KindScatter }

// Map returns key -> count.
func (g *GroupedCounts) Map() map[string]int {
	out := make(map[string]int, len(g.Groups))
	for _, gr := range g.Groups {
		out[gr.Key] = gr.Count
	}
	return out
}

// CorrelationMatrix holds Pearson coefficients, Values[i][j] for
// Labels[i] ~ Labels[j]. Undefined coefficients are NaN.
type CorrelationMatrix struct {
	Labels []string    `json:"labels" yaml:"labels"`
	Values [][]float64 `json:"values" yaml:"values"`
}

func (*CorrelationMatrix) Kind() Kind { return KindHeatmap }

// At returns the coefficient for the named pair.
func (m *CorrelationMatrix) At(a, b string) (float64, error) {
	i, j := -1, -1
	for k, l := range m.Labels {
		if l == a {
			i = k
		}
		if l == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN(), fmt.Errorf("pair %q ~ %q not in matrix", a, b)
	}
	return m.Values[i][j], nil
}

// MarshalJSON writes NaN coefficients as null.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	rows := make([][]*float64, len(m.Values))
	for i, r := range m.Values {
		rows[i] = nullable(r)
	}
	return json.Marshal(struct {
		Labels []string     `json:"labels"`
		Values [][]*float64 `json:"values"`
	}{m.Labels, rows})
}

func nullable(vals []float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		if math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
			continue
		}
		v := vals[i]
		out[i] = &v
	}
	return out
}
