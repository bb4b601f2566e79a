// Package export implements the export command.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/statement-report/cmd/common"
	"fjacquet/statement-report/cmd/root"

	"github.com/spf13/cobra"
)

var (
	format  string
	suggest bool
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the payer report as JSON, CSV or XLSX",
	Long: `Build the payer report and write it to --output. CSV holds the
payments, JSON and XLSX hold the payer groups with their monthly totals.
Use --output - to write to standard output.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: json, csv or xlsx (default from configuration)")
	Cmd.Flags().BoolVar(&suggest, "suggest", false, "Classify columns from header suggestions instead of the roles profile")
}

func run(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application not initialized")
	}
	cfg := root.GetConfig()

	f := strings.ToLower(format)
	if f == "" {
		f = cfg.Export.Format
	}

	_, rep, err := common.BuildReport(c, common.ReportOptions{
		Input:      root.SharedFlags.Input,
		HasHeaders: cfg.Statement.HasHeaders,
		Suggest:    suggest,
	})
	if err != nil {
		return err
	}

	output := root.SharedFlags.Output
	if output == "-" {
		return c.GetExporter().Write(cmd.OutOrStdout(), f, rep)
	}
	if output == "" {
		output = OutputPath(root.SharedFlags.Input, cfg.Export.Directory, f)
	}
	if err := c.GetExporter().ExportFile(output, f, rep); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
	return nil
}

// OutputPath derives the default export file from the input name, placed
// in dir when set and next to the input otherwise.
func OutputPath(input, dir, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := base + "-report." + format
	if dir == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	return filepath.Join(dir, name)
}
