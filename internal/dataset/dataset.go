package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Column holds one field of the dataset. Values are read through accessors;
// a Column is never modified once its Dataset has been built.
type Column struct {
	name    string
	unit    string
	kind    Kind
	nums    []float64
	strs    []string
	missing []bool
}

func (c *Column) Name() string { return c.name }

// Unit is the unit parsed from a "(unit)" or "[unit]" header suffix, if any.
func (c *Column) Unit() string { return c.unit }

func (c *Column) Kind() Kind { return c.kind }

func (c *Column) Len() int { return len(c.missing) }

func (c *Column) IsNumeric() bool { return c.kind == KindNumeric }

// Missing reports whether row i has no value.
func (c *Column) Missing(i int) bool { return c.missing[i] }

// MissingCount returns the number of rows without a value.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.missing {
		if m {
			n++
		}
	}
	return n
}

// Float returns the numeric value at row i. ok is false for missing cells and
// categorical columns.
func (c *Column) Float(i int) (v float64, ok bool) {
	if c.kind != KindNumeric || c.missing[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Value returns the cell at row i as text. Numbers use their shortest exact
// decimal form; missing cells are empty.
func (c *Column) Value(i int) string {
	if c.missing[i] {
		return ""
	}
	if c.kind == KindNumeric {
		return FormatNumber(c.nums[i])
	}
	return c.strs[i]
}

// Floats returns a copy of a numeric column with NaN in missing cells.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.missing))
	for i := range out {
		if c.kind != KindNumeric || c.missing[i] {
			out[i] = math.NaN()
			continue
		}
		out[i] = c.nums[i]
	}
	return out
}

// Dataset is a cleaned, immutable table. It is safe for concurrent readers.
type Dataset struct {
	id       string
	name     string
	loadedAt time.Time
	rows     int
	cols     []*Column
	index    map[string]int
}

func newDataset(id, name string, loadedAt time.Time, cols []*Column) *Dataset {
	ds := &Dataset{id: id, name: name, loadedAt: loadedAt, cols: cols, index: make(map[string]int, len(cols))}
	if len(cols) > 0 {
		ds.rows = cols[0].Len()
	}
	for i, c := range cols {
		ds.index[c.name] = i
	}
	return ds
}

func (d *Dataset) ID() string { return d.id }

// Name is the base name of the source the dataset was loaded from.
func (d *Dataset) Name() string { return d.name }

func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

func (d *Dataset) Rows() int { return d.rows }

// Columns returns the columns in schema order.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Names returns the column names in schema order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.name
	}
	return out
}

// Column looks a column up by exact name, falling back to a case-insensitive
// match.
func (d *Dataset) Column(name string) (*Column, error) {
	if i, ok := d.index[name]; ok {
		return d.cols[i], nil
	}
	want := strings.TrimSpace(name)
	for _, c := range d.cols {
		if strings.EqualFold(c.name, want) {
			return c, nil
		}
	}
	return nil, &UnknownColumnError{Column: name, Available: d.Names()}
}

// Has reports whether the dataset has a column with the given name.
func (d *Dataset) Has(name string) bool {
	_, err := d.Column(name)
	return err == nil
}

// NumericColumns returns the numeric columns in schema order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.cols {
		if c.kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// FormatNumber renders x in its shortest exact decimal form.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
