// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Statement struct {
		Delimiter    string `mapstructure:"delimiter" yaml:"delimiter"`
		RowSeparator string `mapstructure:"row_separator" yaml:"row_separator"`
		HasHeaders   bool   `mapstructure:"has_headers" yaml:"has_headers"`
	} `mapstructure:"statement" yaml:"statement"`

	Report struct {
		RolesFile string `mapstructure:"roles_file" yaml:"roles_file"`
	} `mapstructure:"report" yaml:"report"`

	Export struct {
		Format    string `mapstructure:"format" yaml:"format"`
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"export" yaml:"export"`

	Server struct {
		Address string `mapstructure:"address" yaml:"address"`
	} `mapstructure:"server" yaml:"server"`
}

// separatorEscapes lets separators be written as \r, \n or \t in YAML and
// environment variables.
var separatorEscapes = strings.NewReplacer(`\r`, "\r", `\n`, "\n", `\t`, "\t")

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.statement-report")
	v.AddConfigPath(".statement-report")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("STMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Statement.Delimiter = separatorEscapes.Replace(config.Statement.Delimiter)
	config.Statement.RowSeparator = separatorEscapes.Replace(config.Statement.RowSeparator)
	config.Export.Format = strings.ToLower(config.Export.Format)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("statement.delimiter", ";")
	v.SetDefault("statement.row_separator", `\r\n`)
	v.SetDefault("statement.has_headers", false)

	v.SetDefault("report.roles_file", "")

	v.SetDefault("export.format", FormatJSON)
	v.SetDefault("export.directory", "")

	v.SetDefault("server.address", ":8080")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Statement.Delimiter == "" {
		return fmt.Errorf("statement.delimiter must not be empty")
	}
	if config.Statement.RowSeparator == "" {
		return fmt.Errorf("statement.row_separator must not be empty")
	}
	if strings.Contains(config.Statement.RowSeparator, config.Statement.Delimiter) {
		return fmt.Errorf("statement.delimiter %q must not occur in the row separator", config.Statement.Delimiter)
	}

	switch config.Export.Format {
	case FormatJSON, FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("invalid export format: %s (must be 'json', 'csv' or 'xlsx')", config.Export.Format)
	}

	if config.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
