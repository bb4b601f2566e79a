// Package main is the entry point of the statement-report CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-report/cmd/columns"
	"fjacquet/statement-report/cmd/export"
	"fjacquet/statement-report/cmd/report"
	"fjacquet/statement-report/cmd/root"
	"fjacquet/statement-report/cmd/serve"
	"fjacquet/statement-report/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// .env must be loaded before the level is read from LOG_LEVEL.
	loadEnvSilently()
	logging.SetAllLogLevels(configureLogLevelDirectly())

	root.Init()
	root.Cmd.AddCommand(columns.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

// loadEnvSilently loads .env from the working directory or its parent
// without logging anything.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global logrus level from LOG_LEVEL,
// falling back to info, and returns it.
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
