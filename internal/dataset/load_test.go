package dataset

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFile(t *testing.T) {
	p := writeFixture(t, "gym.csv", gymRows)
	tbl, err := Load(p, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name != "gym.csv" {
		t.Fatalf("name = %q", tbl.Name)
	}
	if len(tbl.Header) != 9 || len(tbl.Rows) != 5 {
		t.Fatalf("shape = %dx%d, want 9x5", len(tbl.Header), len(tbl.Rows))
	}
	if tbl.Rows[4][8] != "" {
		t.Fatalf("trailing empty cell = %q", tbl.Rows[4][8])
	}
}

func TestReadSniffsDelimiter(t *testing.T) {
	semi := "Gender;BMI;Calories_Burned\nMale;22,5;900\n"
	tbl, err := Read(strings.NewReader(semi), "semi.csv", LoadOptions{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(tbl.Header) != 3 || tbl.Rows[0][1] != "22,5" {
		t.Fatalf("table = %+v", tbl)
	}

	tsv := "Gender\tBMI\nFemale\t21.0\n"
	tbl, err = Read(strings.NewReader(tsv), "data.tsv", LoadOptions{})
	if err != nil {
		t.Fatalf("Read tsv: %v", err)
	}
	if len(tbl.Header) != 2 || tbl.Rows[0][0] != "Female" {
		t.Fatalf("tsv table = %+v", tbl)
	}
}

func TestReadStripsBOMAndPadsShortRows(t *testing.T) {
	in := "\ufeffBMI,Gender\n22.1\n"
	tbl, err := Read(strings.NewReader(in), "bom.csv", LoadOptions{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.Header[0] != "BMI" {
		t.Fatalf("header[0] = %q", tbl.Header[0])
	}
	if len(tbl.Rows[0]) != 2 || tbl.Rows[0][1] != "" {
		t.Fatalf("row = %#v", tbl.Rows[0])
	}
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"duplicate": "BMI,BMI\n1,2\n",
		"long row":  "BMI,Age\n1,2,3\n",
		"bad quote": "BMI,Age\n\"1,2\n3,4\"x\n",
	}
	for name, in := range cases {
		_, err := Read(strings.NewReader(in), name+".csv", LoadOptions{})
		var de *DataLoadError
		if !errors.As(err, &de) {
			t.Fatalf("%s: err = %v, want DataLoadError", name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	var de *DataLoadError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DataLoadError", err)
	}
}

func TestMissingTokens(t *testing.T) {
	rows := []string{
		"Session_Duration (hours),Calories_Burned,Workout_Frequency (days/week),BMI,Avg_BPM",
		"1,100,3,20,NaN",
		"1,100,3,20,n/a",
		"1,100,3,20, null ",
		"1,100,3,20,140",
	}
	ds, rep := prepareRows(t, rows, DefaultOptions())
	if imp := findImputation(t, rep, ColAvgBPM); imp.Filled != 3 || imp.Value != "140" {
		t.Fatalf("imputation = %+v", imp)
	}
	if !mustColumn(t, ds, ColAvgBPM).IsNumeric() {
		t.Fatalf("Avg_BPM should be numeric")
	}
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		nf   numberFormat
		want float64
		ok   bool
	}{
		{"1.75", numberFormat{}, 1.75, true},
		{"22,5", numberFormat{}, 22.5, true},
		{"1.000,5", numberFormat{}, 1000.5, true},
		{"12%", numberFormat{}, 12, true},
		{"1,234", numberFormat{decimal: '.', thousands: ','}, 1234, true},
		{"Inf", numberFormat{}, 0, false},
		{"Male", numberFormat{}, 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, c.nf)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("parseNumeric(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	ds, _ := prepareRows(t, gymRows, DefaultOptions())
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	tbl, err := Read(&buf, "clean.csv", LoadOptions{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	again, rep, err := Prepare(tbl, DefaultOptions())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if rep.Dropped != 0 || again.Rows() != ds.Rows() {
		t.Fatalf("round trip rows = %d (dropped %d), want %d", again.Rows(), rep.Dropped, ds.Rows())
	}
	for _, c := range ds.Columns() {
		c2 := mustColumn(t, again, c.Name())
		for i := 0; i < ds.Rows(); i++ {
			if c.Value(i) != c2.Value(i) {
				t.Fatalf("%s[%d] = %q, want %q", c.Name(), i, c2.Value(i), c.Value(i))
			}
		}
	}
}
