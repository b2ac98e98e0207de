// Package view computes the aggregates behind each dashboard view. Every
// operation reads the dataset and returns a fresh result; nothing is cached
// and the dataset is never modified.
package view

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/gymdash/internal/dataset"
)

// Aggregator answers view requests against one cleaned dataset.
type Aggregator struct {
	ds *dataset.Dataset
}

// New builds an Aggregator over ds.
func New(ds *dataset.Dataset) *Aggregator {
	return &Aggregator{ds: ds}
}

// Dataset returns the dataset the aggregator reads.
func (a *Aggregator) Dataset() *dataset.Dataset { return a.ds }

// Render computes the result for one view. column is ignored for the heatmap.
func (a *Aggregator) Render(kind Kind, column string) (Result, error) {
	switch kind {
	case KindCategorical:
		return a.CategoricalCounts(column)
	case KindHistogram:
		return a.NumericSeries(column)
	case KindScatter:
		return a.GroupedCounts(column)
	case KindHeatmap:
		return a.CorrelationMatrix()
	default:
		return nil, &UnknownViewError{Kind: string(kind)}
	}
}

// CategoricalCounts counts each distinct value of column. Items are ordered
// by count, most frequent first, ties in order of first appearance. Counts
// sum to the number of rows.
func (a *Aggregator) CategoricalCounts(column string) (*Counts, error) {
	c, err := a.ds.Column(column)
	if err != nil {
		return nil, err
	}
	keys, counts := tally(c)
	res := &Counts{Column: c.Name(), Total: c.Len(), Items: make([]CategoryCount, len(keys))}
	for i, k := range keys {
		res.Items[i] = CategoryCount{Value: k, Count: counts[k]}
		if res.Total > 0 {
			res.Items[i].Percent = float64(counts[k]) * 100 / float64(res.Total)
		}
	}
	sort.SliceStable(res.Items, func(i, j int) bool {
		return res.Items[i].Count > res.Items[j].Count
	})
	return res, nil
}

// NumericSeries returns the raw values of a numeric column, one per row.
func (a *Aggregator) NumericSeries(column string) (*RawSeries, error) {
	c, err := a.ds.Column(column)
	if err != nil {
		return nil, err
	}
	if !c.IsNumeric() {
		return nil, &ColumnKindError{Column: c.Name(), Kind: c.Kind(), Want: dataset.KindNumeric}
	}
	return &RawSeries{Column: c.Name(), Unit: c.Unit(), Values: c.Floats()}, nil
}

// GroupedCounts counts rows per distinct value of any column. Groups are
// ordered by key: numerically for numeric columns, lexically otherwise,
// with missing cells last.
func (a *Aggregator) GroupedCounts(column string) (*GroupedCounts, error) {
	c, err := a.ds.Column(column)
	if err != nil {
		return nil, err
	}
	keys, counts := tally(c)
	res := &GroupedCounts{Column: c.Name(), Groups: make([]Group, len(keys))}
	for i, k := range keys {
		res.Groups[i] = Group{Key: k, Count: counts[k]}
	}
	numeric := c.IsNumeric()
	sort.SliceStable(res.Groups, func(i, j int) bool {
		ki, kj := res.Groups[i].Key, res.Groups[j].Key
		if ki == MissingLabel || kj == MissingLabel {
			return kj == MissingLabel && ki != MissingLabel
		}
		if numeric {
			fi, _ := strconv.ParseFloat(ki, 64)
			fj, _ := strconv.ParseFloat(kj, 64)
			return fi < fj
		}
		return ki < kj
	})
	return res, nil
}

// CorrelationMatrix computes Pearson coefficients between every pair of
// numeric columns, in schema order. Each pair uses the rows where both cells
// are present. The diagonal is 1, or NaN for a column without variance;
// off-diagonal coefficients involving such a column are NaN as well.
func (a *Aggregator) CorrelationMatrix() (*CorrelationMatrix, error) {
	cols := a.ds.NumericColumns()
	if len(cols) < 2 {
		return nil, &InsufficientColumnsError{Found: len(cols)}
	}
	n := len(cols)
	m := &CorrelationMatrix{Labels: make([]string, n), Values: make([][]float64, n)}
	series := make([][]float64, n)
	for i, c := range cols {
		m.Labels[i] = c.Name()
		m.Values[i] = make([]float64, n)
		series[i] = c.Floats()
	}
	for i := 0; i < n; i++ {
		m.Values[i][i] = selfCorrelation(series[i])
		for j := i + 1; j < n; j++ {
			r := pearson(series[i], series[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func tally(c *dataset.Column) ([]string, map[string]int) {
	counts := make(map[string]int)
	var keys []string
	for i := 0; i < c.Len(); i++ {
		k := MissingLabel
		if !c.Missing(i) {
			k = c.Value(i)
		}
		if _, seen := counts[k]; !seen {
			keys = append(keys, k)
		}
		counts[k]++
	}
	return keys, counts
}

func pearson(xs, ys []float64) float64 {
	x := make([]float64, 0, len(xs))
	y := make([]float64, 0, len(ys))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func selfCorrelation(xs []float64) float64 {
	x := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			x = append(x, v)
		}
	}
	if len(x) < 2 || stat.Variance(x, nil) == 0 {
		return math.NaN()
	}
	return 1
}
