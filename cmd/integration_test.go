package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const gymCSV = `Age,Gender,Weight (kg),Height (m),Max_BPM,Avg_BPM,Resting_BPM,Session_Duration (hours),Calories_Burned,Workout_Type,Fat_Percentage,Water_Intake (liters),Workout_Frequency (days/week),Experience_Level,BMI
56,Male,88.3,1.71,180,157,60,1.69,1313,Yoga,12.6,3.5,4,3,30.2
46,Female,74.9,1.53,179,151,66,1.3,883,HIIT,33.9,2.1,4,2,32
32,Female,68.1,1.66,167,,54,1.11,677,Cardio,33.4,2.3,4,2,24.71
25,Male,53.2,1.7,190,164,56,0.59,,Strength,28.8,2.1,3,1,18.41
38,,46.1,1.79,188,158,68,0.64,556,Strength,,2.8,3,1,14.39
`

// runCmd is a helper to execute the root command with args and return stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that persist across invocations
	prepOutputPath, prepReportPath = "", ""
	viewFormat, viewOutputPath = "", ""
	dataPath, delimiter, cfgFile = "", "", ""
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), prepareCmd.Flags(), viewCmd.Flags(), serveCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	cfg = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setupHome(t *testing.T) (home, data string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	data = filepath.Join(home, "gym.csv")
	if err := os.WriteFile(data, []byte(gymCSV), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	return home, data
}

func TestCLI_PrepareWritesCleanedCSVAndReport(t *testing.T) {
	home, data := setupHome(t)
	cleaned := filepath.Join(home, "out", "cleaned.csv")
	report := filepath.Join(home, "out", "report.md")

	out, err := runCmd(t, "prepare", data, "--output", cleaned, "--report", report)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if !strings.Contains(out, "✓ Wrote 4 cleaned rows") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(cleaned)
	if err != nil {
		t.Fatalf("read cleaned: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 5 {
		t.Fatalf("cleaned lines = %d, want 5 (header + 4 rows)", len(lines))
	}
	if strings.Contains(lines[4], ",,") {
		t.Fatalf("fillable cells still empty: %s", lines[4])
	}
	md, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "Rows: 4 (loaded 5, dropped 1)") {
		t.Fatalf("report:\n%s", md)
	}
}

func TestCLI_PreparePrintsReport(t *testing.T) {
	_, data := setupHome(t)
	out, err := runCmd(t, "prepare", "--data", data)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	for _, want := range []string{"[IMPUTATION]", "Avg_BPM: median", "Gender: mode = Female (filled 1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCLI_ViewFormats(t *testing.T) {
	_, data := setupHome(t)

	out, err := runCmd(t, "view", "categorical", "--data", data, "--format", "json")
	if err != nil {
		t.Fatalf("view json: %v", err)
	}
	var counts struct {
		Column string `json:"column"`
		Total  int    `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &counts); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if counts.Column != "Gender" || counts.Total != 4 {
		t.Fatalf("counts = %+v", counts)
	}

	out, err = runCmd(t, "view", "histogram", "BMI", "--data", data)
	if err != nil {
		t.Fatalf("view table: %v", err)
	}
	if !strings.Contains(out, "BMI (#00FA9A)") || !strings.Contains(strings.ToLower(out), "bin") {
		t.Fatalf("table output:\n%s", out)
	}

	out, err = runCmd(t, "view", "heatmap", "--data", data, "--format", "md")
	if err != nil {
		t.Fatalf("view md: %v", err)
	}
	if !strings.Contains(out, "| BMI |") {
		t.Fatalf("markdown output:\n%s", out)
	}

	out, err = runCmd(t, "view", "scatter", "Age", "--data", data, "-f", "yaml")
	if err != nil {
		t.Fatalf("view yaml: %v", err)
	}
	if !strings.Contains(out, "column: Age") {
		t.Fatalf("yaml output:\n%s", out)
	}
}

func TestCLI_ViewErrors(t *testing.T) {
	_, data := setupHome(t)
	if _, err := runCmd(t, "view", "radar", "--data", data); err == nil {
		t.Fatalf("expected unknown view error")
	}
	if _, err := runCmd(t, "view", "histogram", "Gender", "--data", data); err == nil {
		t.Fatalf("expected column kind error")
	}
	if _, err := runCmd(t, "view", "categorical", "Nope", "--data", data); err == nil {
		t.Fatalf("expected unknown column error")
	}
	if _, err := runCmd(t, "view", "categorical", "--data", data, "--format", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestCLI_ViewWritesOutputFile(t *testing.T) {
	home, data := setupHome(t)
	dst := filepath.Join(home, "views", "gender.json")
	if _, err := runCmd(t, "view", "categorical", "Gender", "--data", data, "-f", "json", "-o", dst); err != nil {
		t.Fatalf("view: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), `"value": "Female"`) {
		t.Fatalf("output file:\n%s", b)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home, data := setupHome(t)
	if _, err := runCmd(t, "config", "set", "data_path", data); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := runCmd(t, "config", "set", "default_format", "json"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".gymdash", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	out, err := runCmd(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "data_path: "+data) || !strings.Contains(out, "default_format: json") {
		t.Fatalf("config show:\n%s", out)
	}

	// data_path and default_format now come from config.
	out, err = runCmd(t, "view", "scatter")
	if err != nil {
		t.Fatalf("view from config: %v", err)
	}
	if !strings.Contains(out, `"column": "Age"`) {
		t.Fatalf("view output:\n%s", out)
	}

	if _, err := runCmd(t, "config", "set", "nope", "x"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
