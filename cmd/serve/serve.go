// Package serve implements the serve command.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/statement-report/cmd/common"
	"fjacquet/statement-report/cmd/root"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/server"

	"github.com/spf13/cobra"
)

var (
	address string
	suggest bool
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the payer report over HTTP",
	Long: `Build the payer report once and serve it as JSON for chart front ends:
/api/summary, /api/groups, /api/groups/{payer}/years, /api/rows and
/api/diagnostics. Stops on SIGINT or SIGTERM.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&address, "address", "", "Listen address (default from configuration)")
	Cmd.Flags().BoolVar(&suggest, "suggest", false, "Classify columns from header suggestions instead of the roles profile")
}

func run(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application not initialized")
	}
	cfg := root.GetConfig()

	sess, _, err := common.BuildReport(c, common.ReportOptions{
		Input:      root.SharedFlags.Input,
		HasHeaders: cfg.Statement.HasHeaders,
		Suggest:    suggest,
	})
	if err != nil {
		return err
	}

	addr := address
	if addr == "" {
		addr = cfg.Server.Address
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := c.GetLogger().WithField(logging.FieldSession, sess.ID())
	handler := server.NewReportHandler(sess, log)
	return server.Run(ctx, addr, handler.Routes(), log)
}
