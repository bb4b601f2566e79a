// Package columns implements the columns command.
package columns

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/statement-report/cmd/common"
	"fjacquet/statement-report/cmd/root"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
	"fjacquet/statement-report/internal/store"

	"github.com/spf13/cobra"
)

const sampleSize = 3

var save bool

// Cmd represents the columns command
var Cmd = &cobra.Command{
	Use:   "columns",
	Short: "List the columns of a statement with suggested roles",
	Long: `Tokenize a statement and print every non-empty column with its header,
a few sample values and the role suggested from the header. With --save the
suggestions are written to the roles profile for later reports.`,
	RunE: run,
}

func init() {
	Cmd.Flags().BoolVar(&save, "save", false, "Write the suggested roles to the roles profile")
}

func run(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application not initialized")
	}
	log := c.GetLogger()
	hasHeaders := root.GetConfig().Statement.HasHeaders

	sess, err := common.LoadStatement(c, root.SharedFlags.Input, hasHeaders)
	if err != nil {
		return err
	}
	table, err := sess.Table()
	if err != nil {
		return err
	}
	suggestions, err := sess.Suggestions()
	if err != nil {
		return err
	}

	if err := PrintColumns(cmd.OutOrStdout(), table, suggestions); err != nil {
		return err
	}

	if !save {
		return nil
	}
	if len(suggestions) == 0 {
		return fmt.Errorf("no suggestions to save: the statement has no headers (--headers)")
	}
	if err := c.GetStore().Save(store.NewProfile(suggestions, hasHeaders)); err != nil {
		return fmt.Errorf("error saving roles profile: %w", err)
	}
	log.Info("Saved suggested roles", logging.F(logging.FieldCount, len(suggestions)))
	return nil
}

// PrintColumns writes one line per column: index, header, samples and the
// suggested role.
func PrintColumns(w io.Writer, table models.Table, suggestions map[int]models.ColumnRole) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tHEADER\tSAMPLES\tSUGGESTED ROLE")
	for _, col := range table.Columns {
		role := "-"
		if r, ok := suggestions[col.Index]; ok {
			role = r.String()
		}
		header := table.Header(col.Index)
		if header == "" {
			header = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", col.Index, header, samples(col), role)
	}
	fmt.Fprintf(tw, "\n%d rows, %d columns\n", table.RowCount, len(table.Columns))
	return tw.Flush()
}

func samples(col models.RawColumn) string {
	values := make([]string, 0, sampleSize)
	for _, cell := range col.Cells {
		if cell.Value == "" {
			continue
		}
		values = append(values, cell.Value)
		if len(values) == sampleSize {
			break
		}
	}
	return strings.Join(values, ", ")
}
