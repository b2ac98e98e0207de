package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/gymdash/internal/dashboard"
	"github.com/KaramelBytes/gymdash/internal/utils"
	"github.com/KaramelBytes/gymdash/internal/view"
)

var (
	viewFormat     string
	viewOutputPath string
)

var viewCmd = &cobra.Command{
	Use:   "view <categorical|histogram|scatter|heatmap> [column]",
	Short: "Compute one dashboard view and print it",
	Long: `Compute the aggregate behind one dashboard tab.

  categorical  value counts and shares of a column (bar and pie charts)
  histogram    raw values of a numeric column
  scatter      row counts per distinct value of a column
  heatmap      Pearson correlation between all numeric columns

When the column is omitted the tab's default column is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := view.ParseKind(args[0])
		if err != nil {
			return err
		}
		format := strings.ToLower(viewFormat)
		if format == "" && cfg != nil {
			format = cfg.DefaultFormat
		}

		ds, _, err := loadDataset("")
		if err != nil {
			return err
		}
		column := ""
		if len(args) == 2 {
			column = args[1]
		} else if kind != view.KindHeatmap {
			for _, t := range dashboard.Available(ds).Tabs {
				if t.View == kind {
					column = t.Default()
				}
			}
		}

		res, err := view.New(ds).Render(kind, column)
		if err != nil {
			return err
		}
		if viewOutputPath == "" {
			return renderResult(cmd.OutOrStdout(), res, format)
		}
		var buf bytes.Buffer
		if err := renderResult(&buf, res, format); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(viewOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s view to %s\n", kind, viewOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVarP(&viewFormat, "format", "f", "", "output format: table | json | yaml | md (default from config)")
	viewCmd.Flags().StringVarP(&viewOutputPath, "output", "o", "", "write the view to a file instead of stdout")
}
