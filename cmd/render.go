package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/gymdash/internal/dashboard"
	"github.com/KaramelBytes/gymdash/internal/utils"
	"github.com/KaramelBytes/gymdash/internal/view"
)

// histogramBins is the bin count used when a series is printed as a table.
const histogramBins = 10

func renderResult(w io.Writer, res view.Result, format string) error {
	switch format {
	case "json":
		b, err := utils.PrettyJSON(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "md", "markdown":
		t := resultTable(res)
		t.SetOutputMirror(w)
		t.RenderMarkdown()
		return nil
	case "table", "":
		t := resultTable(res)
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	}
	return fmt.Errorf("unsupported --format: %s (use table, json, yaml or md)", format)
}

func resultTable(res view.Result) table.Writer {
	t := table.NewWriter()
	switch r := res.(type) {
	case *view.Counts:
		t.SetTitle(r.Column)
		t.AppendHeader(table.Row{"Value", "Count", "Percent"})
		for _, it := range r.Items {
			t.AppendRow(table.Row{it.Value, it.Count, fmt.Sprintf("%.1f%%", it.Percent)})
		}
		t.AppendFooter(table.Row{"Total", r.Total, "100.0%"})
	case *view.RawSeries:
		t.SetTitle(fmt.Sprintf("%s (%s)", r.Column, dashboard.HistogramColor(r.Column)))
		t.AppendHeader(table.Row{"Bin", "Count"})
		bins, counts, missing := histogram(r.Values, histogramBins)
		for i := range counts {
			t.AppendRow(table.Row{fmt.Sprintf("[%s, %s)", fmtFloat(bins[i]), fmtFloat(bins[i+1])), int(counts[i])})
		}
		if missing > 0 {
			t.AppendRow(table.Row{view.MissingLabel, missing})
		}
		t.AppendFooter(table.Row{"Rows", len(r.Values)})
	case *view.GroupedCounts:
		t.SetTitle(r.Column)
		t.AppendHeader(table.Row{"Value", "Count"})
		for _, g := range r.Groups {
			t.AppendRow(table.Row{g.Key, g.Count})
		}
	case *view.CorrelationMatrix:
		t.SetTitle("Correlation")
		header := table.Row{""}
		for _, l := range r.Labels {
			header = append(header, l)
		}
		t.AppendHeader(header)
		for i, l := range r.Labels {
			row := table.Row{l}
			for _, v := range r.Values[i] {
				row = append(row, fmtCoef(v))
			}
			t.AppendRow(row)
		}
	}
	return t
}

// histogram splits the present values into n equal-width bins. The last
// divider is nudged up so the maximum lands in the final bin.
func histogram(values []float64, n int) (dividers, counts []float64, missing int) {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			missing++
			continue
		}
		xs = append(xs, v)
	}
	if len(xs) == 0 {
		return nil, nil, missing
	}
	sort.Float64s(xs)
	lo, hi := xs[0], xs[len(xs)-1]
	if lo == hi {
		n = 1
		hi = lo + 1
	}
	dividers = make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts = stat.Histogram(nil, dividers, xs, nil)
	return dividers, counts, missing
}

func fmtFloat(x float64) string {
	return fmt.Sprintf("%.4g", x)
}

func fmtCoef(x float64) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", x)
}
