// Package dashboard holds the fixed layout of the gym dashboard: which tabs
// exist, which columns each tab's dropdown offers, and the colors the charts
// use. Front-ends read it through the catalog endpoint.
package dashboard

import (
	"github.com/KaramelBytes/gymdash/internal/dataset"
	"github.com/KaramelBytes/gymdash/internal/view"
)

// Palette is the shared chart palette.
var Palette = []string{
	"#FFD700", "#FF6347", "#40E0D0", "#FF69B4", "#7FFFD4",
	"#FFA500", "#00FA9A", "#FF4500", "#4682B4", "#DA70D6",
}

const (
	BarColor     = "#FFD700"
	ScatterColor = "#FF4500"
	HeatmapScale = "Viridis"
	// HistogramFallback colors histograms of columns without an assigned color.
	HistogramFallback = "#FFD700"
)

// PieColors are applied to pie slices in order.
var PieColors = []string{"#FF69B4", "#7FFFD4", "#FF6347"}

var histogramColors = map[string]string{
	dataset.ColWeight:          "#FFA500",
	dataset.ColSessionDuration: "#40E0D0",
	dataset.ColCaloriesBurned:  "#FF6347",
	dataset.ColBMI:             "#00FA9A",
}

// HistogramColor returns the bar color for a histogram of column.
func HistogramColor(column string) string {
	if c, ok := histogramColors[column]; ok {
		return c
	}
	return HistogramFallback
}

// Tab is one dashboard tab and the columns its dropdown offers.
type Tab struct {
	View    view.Kind `json:"view" yaml:"view"`
	Label   string    `json:"label" yaml:"label"`
	Options []string  `json:"options" yaml:"options"`
}

// Default is the column selected when the tab opens, or "" for tabs
// without a dropdown.
func (t Tab) Default() string {
	if len(t.Options) == 0 {
		return ""
	}
	return t.Options[0]
}

// Tabs returns the dashboard tabs in display order.
func Tabs() []Tab {
	return []Tab{
		{
			View:  view.KindCategorical,
			Label: "Categorical Distribution",
			Options: []string{
				dataset.ColGender, dataset.ColWorkoutType,
				dataset.ColWorkoutFrequency, dataset.ColExperienceLevel,
			},
		},
		{
			View:  view.KindHistogram,
			Label: "Histograms",
			Options: []string{
				dataset.ColWeight, dataset.ColSessionDuration,
				dataset.ColCaloriesBurned, dataset.ColBMI,
			},
		},
		{
			View:  view.KindScatter,
			Label: "Scatter Plots",
			Options: []string{
				dataset.ColAge, dataset.ColHeight, dataset.ColMaxBPM,
				dataset.ColAvgBPM, dataset.ColFatPercentage,
			},
		},
		{View: view.KindHeatmap, Label: "Correlation Heatmap"},
	}
}

// Lookup returns the tab for a view.
func Lookup(k view.Kind) (Tab, bool) {
	for _, t := range Tabs() {
		if t.View == k {
			return t, true
		}
	}
	return Tab{}, false
}

// Colors is the color assignment sent to front-ends.
type Colors struct {
	Palette    []string          `json:"palette" yaml:"palette"`
	Bar        string            `json:"bar" yaml:"bar"`
	Pie        []string          `json:"pie" yaml:"pie"`
	Scatter    string            `json:"scatter" yaml:"scatter"`
	Histogram  map[string]string `json:"histogram" yaml:"histogram"`
	Colorscale string            `json:"colorscale" yaml:"colorscale"`
}

// Catalog is the dashboard layout for one dataset.
type Catalog struct {
	Tabs   []Tab  `json:"tabs" yaml:"tabs"`
	Colors Colors `json:"colors" yaml:"colors"`
}

// Available returns the catalog with each tab's options narrowed to columns
// present in ds. Histogram options also require a numeric column.
func Available(ds *dataset.Dataset) Catalog {
	cat := Catalog{Colors: Colors{
		Palette:    append([]string(nil), Palette...),
		Bar:        BarColor,
		Pie:        append([]string(nil), PieColors...),
		Scatter:    ScatterColor,
		Histogram:  make(map[string]string),
		Colorscale: HeatmapScale,
	}}
	for _, t := range Tabs() {
		opts := []string{}
		for _, name := range t.Options {
			c, err := ds.Column(name)
			if err != nil {
				continue
			}
			if t.View == view.KindHistogram {
				if !c.IsNumeric() {
					continue
				}
				cat.Colors.Histogram[c.Name()] = HistogramColor(c.Name())
			}
			opts = append(opts, c.Name())
		}
		t.Options = opts
		cat.Tabs = append(cat.Tabs, t)
	}
	return cat
}
