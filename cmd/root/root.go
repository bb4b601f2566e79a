// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/statement-report/internal/config"
	"fjacquet/statement-report/internal/container"
	"fjacquet/statement-report/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input     string
	Output    string
	Headers   bool
	RolesFile string
	Delimiter string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before every command.
	AppConfig *config.Config

	// AppContainer holds the wired dependencies of the running command.
	AppContainer *container.Container

	// SharedFlags holds the values of the persistent flags.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-report",
		Short: "Turn a bank statement export into per-payer payment reports.",
		Long: `statement-report reads a semicolon separated bank statement export,
lets you map its columns to recipient, date and amount, and reports the
payments grouped by payer with per-year monthly totals.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to statement-report!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close container: %v", err)
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Statement export file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.Headers, "headers", false, "First row of the statement holds column headers")
	Cmd.PersistentFlags().StringVar(&SharedFlags.RolesFile, "roles", "", "Column roles profile (YAML)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Delimiter, "delimiter", "", "Field delimiter of the statement (default ';')")
}

// Setup loads the environment and configuration, applies flag overrides
// and wires the container.
func Setup(cmd *cobra.Command) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ApplyFlags(cmd, cfg)

	Log = config.ConfigureLoggingFromConfig(cfg)
	c, err := container.NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(Log))
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

// ApplyFlags lets explicitly set persistent flags win over configuration.
func ApplyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("headers") {
		cfg.Statement.HasHeaders = SharedFlags.Headers
	}
	if SharedFlags.RolesFile != "" {
		cfg.Report.RolesFile = SharedFlags.RolesFile
	}
	if SharedFlags.Delimiter != "" {
		cfg.Statement.Delimiter = SharedFlags.Delimiter
	}
}

// GetLogrusAdapter returns the command logger behind the logging interface.
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// GetContainer returns the container wired by Setup, or nil before it ran.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the configuration loaded by Setup, or nil before it ran.
func GetConfig() *config.Config {
	return AppConfig
}
