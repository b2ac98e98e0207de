package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Markdown renders the cleaning report for terminals and docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d (loaded %d, dropped %d)\n", r.Rows, r.RawRows, r.Dropped))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))

	if len(r.MissingBy) > 0 {
		b.WriteString("\n[REQUIRED FIELDS]\n")
		for _, m := range r.MissingBy {
			b.WriteString(fmt.Sprintf("- %s: %d rows missing\n", m.Column, m.Count))
		}
	}
	if len(r.Imputations) > 0 {
		b.WriteString("\n[IMPUTATION]\n")
		for _, imp := range r.Imputations {
			b.WriteString(fmt.Sprintf("- %s: %s = %s (filled %d)\n", imp.Column, imp.Strategy, safeVal(imp.Value), imp.Filled))
		}
	}
	if len(r.Cols) > 0 {
		b.WriteString("\n[SCHEMA]\n")
		for _, c := range r.Cols {
			name := c.Name
			if c.Unit != "" {
				name = fmt.Sprintf("%s [%s]", name, c.Unit)
			}
			b.WriteString(fmt.Sprintf("- %s: %s", name, c.Kind))
			if c.Missing > 0 {
				b.WriteString(fmt.Sprintf(" (missing %d)", c.Missing))
			}
			b.WriteString("\n")
		}
	}
	if len(r.Skipped) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, s := range r.Skipped {
			b.WriteString(fmt.Sprintf("- fillable column %s not in source; skipped\n", s))
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// WriteCSV writes the dataset as comma-separated text with a header row.
// Missing cells are written empty.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(d.cols))
	for i := 0; i < d.rows; i++ {
		for j, c := range d.cols {
			row[j] = c.Value(i)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
