// Package report implements the report command.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/statement-report/cmd/common"
	"fjacquet/statement-report/cmd/root"
	"fjacquet/statement-report/internal/assembler"
	"fjacquet/statement-report/internal/currencyutils"
	"fjacquet/statement-report/internal/export"
	"fjacquet/statement-report/internal/models"

	"github.com/spf13/cobra"
)

var (
	suggest     bool
	payer       string
	diagnostics bool
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Print payments grouped by payer",
	Long: `Classify the statement columns from the roles profile (or from header
suggestions with --suggest), then print every payer with its total, ascending.
With --payer the monthly totals of that payer are printed per year.`,
	RunE: run,
}

func init() {
	Cmd.Flags().BoolVar(&suggest, "suggest", false, "Classify columns from header suggestions instead of the roles profile")
	Cmd.Flags().StringVar(&payer, "payer", "", "Print per-year monthly totals of this payer")
	Cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "Print the cells that could not be parsed")
}

func run(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application not initialized")
	}

	sess, rep, err := common.BuildReport(c, common.ReportOptions{
		Input:      root.SharedFlags.Input,
		HasHeaders: root.GetConfig().Statement.HasHeaders,
		Suggest:    suggest,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := PrintGroups(out, rep); err != nil {
		return err
	}

	if payer != "" {
		buckets, err := sess.Buckets(payer)
		if err != nil {
			return err
		}
		if err := PrintBuckets(out, payer, buckets); err != nil {
			return err
		}
	}

	if diagnostics {
		result, err := sess.Result()
		if err != nil {
			return err
		}
		return PrintDiagnostics(out, result)
	}
	return nil
}

// PrintGroups writes the payer table followed by the summary line.
func PrintGroups(w io.Writer, rep export.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PAYER\tPAYMENTS\tTOTAL\t")
	for _, g := range rep.Groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", g.Payer, g.Count, currencyutils.FormatAmount(g.Total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := rep.Summary
	_, err := fmt.Fprintf(w, "\n%d payments from %d payers, total %s, %s\n",
		s.Rows, s.Payers, currencyutils.FormatAmount(s.Total), s.Range.String())
	if err != nil {
		return err
	}
	if s.Duplicates > 0 {
		_, err = fmt.Fprintf(w, "%d potential duplicate payments\n", s.Duplicates)
	}
	return err
}

// PrintBuckets writes one line per year with the twelve month totals.
func PrintBuckets(w io.Writer, payer string, buckets models.YearBucket) error {
	if len(buckets) == 0 {
		_, err := fmt.Fprintf(w, "\nNo payments from %q\n", payer)
		return err
	}

	fmt.Fprintf(w, "\n%s\n", payer)
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "YEAR\t")
	for m := 1; m <= 12; m++ {
		fmt.Fprintf(tw, "%02d\t", m)
	}
	fmt.Fprintln(tw)
	for _, year := range buckets.Years() {
		fmt.Fprintf(tw, "%d\t", year)
		for m := 1; m <= 12; m++ {
			fmt.Fprintf(tw, "%s\t", currencyutils.FormatAmount(buckets[year][m]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// PrintDiagnostics writes the unparsable cells and the rows they dropped.
func PrintDiagnostics(w io.Writer, result assembler.Result) error {
	if len(result.Diagnostics) == 0 && len(result.Dropped) == 0 {
		_, err := fmt.Fprintln(w, "\nNo diagnostics")
		return err
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tCOLUMN\tFIELD\tVALUE\tREASON")
	for _, d := range result.Diagnostics {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%q\t%s\n", d.Row, d.Column, d.Field, d.Value, d.Reason)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d rows dropped\n", len(result.Dropped))
	return err
}
