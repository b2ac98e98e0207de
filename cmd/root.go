package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/gymdash/internal/config"
	"github.com/KaramelBytes/gymdash/internal/dataset"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	dataPath  string
	delimiter string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

var rootCmd = &cobra.Command{
	Use:   "gymdash",
	Short: "gymdash: clean gym member data and serve dashboard views",
	Long: `gymdash loads a gym members exercise dataset, drops incomplete rows, fills
missing values, and computes the aggregates behind the dashboard views:
categorical counts, histograms, grouped scatter counts and a correlation heatmap.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gymdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset path: .csv, .tsv or .xlsx (overrides config)")
	rootCmd.PersistentFlags().StringVar(&delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
}

func loadConfig() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data") {
		cfg.DataPath = dataPath
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = delimiter
	}
}

// loadDataset reads and cleans the dataset. An explicit path wins over the
// configured data_path.
func loadDataset(path string) (*dataset.Dataset, *dataset.Report, error) {
	if cfg == nil {
		loadConfig()
	}
	if path == "" {
		path = cfg.DataPath
	}
	if path == "" {
		return nil, nil, fmt.Errorf("no dataset: pass a file or set data_path")
	}

	lopt := dataset.LoadOptions{SheetName: cfg.SheetName, Logger: logger}
	delim, err := cfgpkg.ParseRune(cfg.Delimiter)
	if err != nil {
		return nil, nil, fmt.Errorf("unsupported delimiter: %w", err)
	}
	lopt.Delimiter = delim

	opt := dataset.DefaultOptions()
	opt.Logger = logger
	if len(cfg.MissingValues) > 0 {
		opt.MissingValues = append(append([]string(nil), opt.MissingValues...), cfg.MissingValues...)
	}
	switch strings.TrimSpace(cfg.DecimalSeparator) {
	case ",":
		opt.DecimalSeparator, opt.ThousandsSeparator = ',', '.'
	case ".":
		opt.DecimalSeparator, opt.ThousandsSeparator = '.', ','
	}

	tbl, err := dataset.Load(path, lopt)
	if err != nil {
		return nil, nil, err
	}
	ds, rep, err := dataset.Prepare(tbl, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare %s: %w", tbl.Name, err)
	}
	logger.Debug("dataset ready", "id", ds.ID(), "rows", ds.Rows(), "dropped", rep.Dropped)
	return ds, rep, nil
}
