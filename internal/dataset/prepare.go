package dataset

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gym tracking columns.
const (
	ColSessionDuration  = "Session_Duration (hours)"
	ColCaloriesBurned   = "Calories_Burned"
	ColWorkoutFrequency = "Workout_Frequency (days/week)"
	ColBMI              = "BMI"
	ColWaterIntake      = "Water_Intake (liters)"
	ColFatPercentage    = "Fat_Percentage"
	ColRestingBPM       = "Resting_BPM"
	ColAvgBPM           = "Avg_BPM"
	ColGender           = "Gender"
	ColWorkoutType      = "Workout_Type"
	ColExperienceLevel  = "Experience_Level"
	ColAge              = "Age"
	ColWeight           = "Weight (kg)"
	ColHeight           = "Height (m)"
	ColMaxBPM           = "Max_BPM"
)

// Options controls cleaning.
type Options struct {
	// Required columns must exist; rows missing any of them are dropped.
	Required []string
	// FillNumeric columns get their missing cells replaced with the median.
	FillNumeric []string
	// FillCategorical columns get their missing cells replaced with the mode.
	FillCategorical []string
	// MissingValues are cell spellings treated as missing besides the empty cell.
	MissingValues []string
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	Logger             *slog.Logger
}

// DefaultOptions returns the cleaning rules for the gym members dataset.
func DefaultOptions() Options {
	return Options{
		Required:        []string{ColSessionDuration, ColCaloriesBurned, ColWorkoutFrequency, ColBMI},
		FillNumeric:     []string{ColWaterIntake, ColFatPercentage, ColRestingBPM, ColAvgBPM},
		FillCategorical: []string{ColGender, ColWorkoutType, ColExperienceLevel},
		MissingValues:   DefaultMissingValues,
	}
}

// Strategy names used in Imputation.
const (
	StrategyMedian = "median"
	StrategyMode   = "mode"
)

// Imputation records the fill applied to one column.
type Imputation struct {
	Column   string `json:"column" yaml:"column"`
	Strategy string `json:"strategy" yaml:"strategy"`
	Value    string `json:"value" yaml:"value"`
	Filled   int    `json:"filled" yaml:"filled"`
}

// FieldCount pairs a column with a row count.
type FieldCount struct {
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
}

// ColumnSummary describes a column of the cleaned dataset.
type ColumnSummary struct {
	Name    string `json:"name" yaml:"name"`
	Unit    string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Missing int    `json:"missing" yaml:"missing"`
}

// Report summarizes what Prepare did to the raw table.
type Report struct {
	Name        string          `json:"name" yaml:"name"`
	RawRows     int             `json:"raw_rows" yaml:"raw_rows"`
	Rows        int             `json:"rows" yaml:"rows"`
	Dropped     int             `json:"dropped" yaml:"dropped"`
	MissingBy   []FieldCount    `json:"missing_required" yaml:"missing_required"`
	Imputations []Imputation    `json:"imputations" yaml:"imputations"`
	Skipped     []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Cols        []ColumnSummary `json:"columns" yaml:"columns"`
}

type rawColumn struct {
	name    string
	kind    Kind
	nums    []float64
	missing []bool
}

// Prepare validates and cleans t. Rows missing any required field are
// dropped, then fillable numeric columns are imputed with their median and
// fillable categorical columns with their mode, both computed over the
// remaining rows. Fillable columns absent from the header are skipped.
func Prepare(t *Table, opt Options) (*Dataset, *Report, error) {
	if t == nil {
		return nil, nil, &DataLoadError{Err: fmt.Errorf("no table")}
	}
	log := opt.Logger
	if log == nil {
		log = logger(LoadOptions{})
	}
	index := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		index[h] = i
	}
	for _, name := range opt.Required {
		if _, ok := index[name]; !ok {
			return nil, nil, &SchemaError{Column: name, Reason: "is required but absent from the source"}
		}
	}

	miss := missingSet(opt.MissingValues)
	nf := numberFormat{decimal: opt.DecimalSeparator, thousands: opt.ThousandsSeparator}
	raws := make([]*rawColumn, len(t.Header))
	for j, h := range t.Header {
		raws[j] = inferColumn(t, j, h, miss, nf)
	}
	for _, name := range opt.Required {
		j := index[name]
		if raws[j].kind == KindNumeric {
			continue
		}
		for i, row := range t.Rows {
			if raws[j].missing[i] {
				continue
			}
			if _, ok := parseNumeric(row[j], nf); !ok {
				return nil, nil, &DataLoadError{Source: t.Name, Err: fmt.Errorf("column %q row %d: %q is not numeric", name, i+1, row[j])}
			}
		}
	}

	rep := &Report{Name: t.Name, RawRows: len(t.Rows)}
	keep := make([]int, 0, len(t.Rows))
	missingBy := make([]int, len(opt.Required))
	for i := range t.Rows {
		ok := true
		for k, name := range opt.Required {
			if raws[index[name]].missing[i] {
				missingBy[k]++
				ok = false
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	for k, name := range opt.Required {
		rep.MissingBy = append(rep.MissingBy, FieldCount{Column: name, Count: missingBy[k]})
	}
	rep.Rows = len(keep)
	rep.Dropped = len(t.Rows) - len(keep)
	log.Debug("dropped rows missing required fields", "dropped", rep.Dropped, "kept", rep.Rows)

	cols := make([]*Column, len(t.Header))
	for j, h := range t.Header {
		cols[j] = project(t, j, h, raws[j], keep)
	}

	for _, name := range opt.FillNumeric {
		j, ok := index[name]
		if !ok {
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		imp, err := fillMedian(cols[j])
		if err != nil {
			return nil, nil, err
		}
		log.Debug("imputed column", "column", name, "strategy", imp.Strategy, "value", imp.Value, "filled", imp.Filled)
		rep.Imputations = append(rep.Imputations, imp)
	}
	for _, name := range opt.FillCategorical {
		j, ok := index[name]
		if !ok {
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		imp, err := fillMode(cols[j])
		if err != nil {
			return nil, nil, err
		}
		log.Debug("imputed column", "column", name, "strategy", imp.Strategy, "value", imp.Value, "filled", imp.Filled)
		rep.Imputations = append(rep.Imputations, imp)
	}

	ds := newDataset(uuid.NewString(), t.Name, time.Now(), cols)
	for _, c := range cols {
		rep.Cols = append(rep.Cols, ColumnSummary{Name: c.name, Unit: c.unit, Kind: c.kind, Missing: c.MissingCount()})
	}
	return ds, rep, nil
}

// inferColumn marks missing cells and decides the kind of column j. A column
// is numeric when every present cell parses as a number.
func inferColumn(t *Table, j int, name string, miss map[string]struct{}, nf numberFormat) *rawColumn {
	rc := &rawColumn{name: name, kind: KindNumeric, nums: make([]float64, len(t.Rows)), missing: make([]bool, len(t.Rows))}
	for i, row := range t.Rows {
		if isMissing(row[j], miss) {
			rc.missing[i] = true
			continue
		}
		if rc.kind != KindNumeric {
			continue
		}
		x, ok := parseNumeric(row[j], nf)
		if !ok {
			rc.kind = KindCategorical
			continue
		}
		rc.nums[i] = x
	}
	return rc
}

// project builds the cleaned column from the kept rows.
func project(t *Table, j int, name string, rc *rawColumn, keep []int) *Column {
	c := &Column{name: name, unit: splitUnit(name), kind: rc.kind, missing: make([]bool, len(keep))}
	if rc.kind == KindNumeric {
		c.nums = make([]float64, len(keep))
	} else {
		c.strs = make([]string, len(keep))
	}
	for k, i := range keep {
		if rc.missing[i] {
			c.missing[k] = true
			continue
		}
		if rc.kind == KindNumeric {
			c.nums[k] = rc.nums[i]
		} else {
			c.strs[k] = strings.TrimSpace(t.Rows[i][j])
		}
	}
	return c
}

func fillMedian(c *Column) (Imputation, error) {
	if c.kind != KindNumeric {
		return Imputation{}, &SchemaError{Column: c.name, Reason: "is not numeric; cannot impute a median"}
	}
	present := make([]float64, 0, len(c.nums))
	for i, x := range c.nums {
		if !c.missing[i] {
			present = append(present, x)
		}
	}
	m, ok := median(present)
	if !ok {
		return Imputation{}, &InsufficientDataError{Column: c.name, Strategy: StrategyMedian}
	}
	imp := Imputation{Column: c.name, Strategy: StrategyMedian, Value: FormatNumber(m)}
	for i := range c.nums {
		if c.missing[i] {
			c.nums[i] = m
			c.missing[i] = false
			imp.Filled++
		}
	}
	return imp, nil
}

func fillMode(c *Column) (Imputation, error) {
	present := make([]string, 0, len(c.missing))
	for i := range c.missing {
		if !c.missing[i] {
			present = append(present, c.Value(i))
		}
	}
	m, ok := mode(present)
	if !ok {
		return Imputation{}, &InsufficientDataError{Column: c.name, Strategy: StrategyMode}
	}
	var num float64
	if c.kind == KindNumeric {
		// Shortest formatting round-trips exactly.
		num, _ = strconv.ParseFloat(m, 64)
	}
	imp := Imputation{Column: c.name, Strategy: StrategyMode, Value: m}
	for i := range c.missing {
		if !c.missing[i] {
			continue
		}
		if c.kind == KindNumeric {
			c.nums[i] = num
		} else {
			c.strs[i] = m
		}
		c.missing[i] = false
		imp.Filled++
	}
	return imp, nil
}
