package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/gymdash/internal/dataset"
	"github.com/KaramelBytes/gymdash/internal/utils"
)

var (
	prepOutputPath string
	prepReportPath string
)

var prepareCmd = &cobra.Command{
	Use:   "prepare [file]",
	Short: "Clean a dataset and print the cleaning report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		ds, rep, err := loadDataset(path)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		out := cmd.OutOrStdout()

		if prepOutputPath != "" {
			var buf bytes.Buffer
			if err := dataset.WriteCSV(&buf, ds); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(prepOutputPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write cleaned dataset: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote %d cleaned rows to %s\n", ds.Rows(), prepOutputPath)
		}
		if prepReportPath != "" {
			if err := utils.SafeWriteFile(prepReportPath, []byte(md)); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote cleaning report to %s\n", prepReportPath)
			return nil
		}
		if len(rep.Skipped) > 0 {
			fmt.Fprintf(out, "⚠ %d fillable column(s) not in source\n", len(rep.Skipped))
		}
		fmt.Fprintln(out, md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareCmd.Flags().StringVarP(&prepOutputPath, "output", "o", "", "write the cleaned dataset as CSV")
	prepareCmd.Flags().StringVar(&prepReportPath, "report", "", "write the cleaning report (Markdown) instead of printing it")
}
