package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ";", config.Statement.Delimiter)
	assert.Equal(t, "\r\n", config.Statement.RowSeparator)
	assert.False(t, config.Statement.HasHeaders)
	assert.Equal(t, "", config.Report.RolesFile)
	assert.Equal(t, FormatJSON, config.Export.Format)
	assert.Equal(t, "", config.Export.Directory)
	assert.Equal(t, ":8080", config.Server.Address)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	testEnvVars := map[string]string{
		"STMT_LOG_LEVEL":               "debug",
		"STMT_LOG_FORMAT":              "json",
		"STMT_STATEMENT_DELIMITER":     `\t`,
		"STMT_STATEMENT_ROW_SEPARATOR": `\n`,
		"STMT_STATEMENT_HAS_HEADERS":   "true",
		"STMT_REPORT_ROLES_FILE":       "bank.yaml",
		"STMT_EXPORT_FORMAT":           "XLSX",
		"STMT_SERVER_ADDRESS":          "127.0.0.1:9000",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "\t", config.Statement.Delimiter)
	assert.Equal(t, "\n", config.Statement.RowSeparator)
	assert.True(t, config.Statement.HasHeaders)
	assert.Equal(t, "bank.yaml", config.Report.RolesFile)
	assert.Equal(t, FormatXLSX, config.Export.Format)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Address)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	configContent := `
log:
  level: "warn"
statement:
  delimiter: ","
  has_headers: true
export:
  format: "csv"
  directory: "out"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, ",", config.Statement.Delimiter)
	assert.Equal(t, "\r\n", config.Statement.RowSeparator)
	assert.True(t, config.Statement.HasHeaders)
	assert.Equal(t, FormatCSV, config.Export.Format)
	assert.Equal(t, "out", config.Export.Directory)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	configContent := `
log:
  level: "warn"
statement:
  delimiter: "|"
server:
  address: ":7000"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))
	t.Setenv("STMT_LOG_LEVEL", "error")
	t.Setenv("STMT_SERVER_ADDRESS", ":7001")
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.Statement.Delimiter)
	assert.Equal(t, ":7001", config.Server.Address)
}

func TestInitializeConfig_InvalidFromEnv(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())
	t.Setenv("STMT_EXPORT_FORMAT", "pdf")

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid export format")
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Statement.Delimiter = ";"
	c.Statement.RowSeparator = "\r\n"
	c.Export.Format = FormatJSON
	c.Server.Address = ":8080"
	return c
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "empty delimiter",
			modifyConfig: func(c *Config) { c.Statement.Delimiter = "" },
			expectError:  "statement.delimiter must not be empty",
		},
		{
			name:         "empty row separator",
			modifyConfig: func(c *Config) { c.Statement.RowSeparator = "" },
			expectError:  "statement.row_separator must not be empty",
		},
		{
			name:         "delimiter inside row separator",
			modifyConfig: func(c *Config) { c.Statement.Delimiter = "\n" },
			expectError:  "must not occur in the row separator",
		},
		{
			name:         "invalid export format",
			modifyConfig: func(c *Config) { c.Export.Format = "pdf" },
			expectError:  "invalid export format",
		},
		{
			name:         "empty server address",
			modifyConfig: func(c *Config) { c.Server.Address = "" },
			expectError:  "server.address must not be empty",
		},
	}

	require.NoError(t, validateConfig(validConfig()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{name: "text format info level", level: "info", format: "text", wantLevel: logrus.InfoLevel},
		{name: "json format debug level", level: "DEBUG", format: "json", wantLevel: logrus.DebugLevel, wantJSON: true},
		{name: "invalid level falls back", level: "loud", format: "text", wantLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			config.Log.Level = tt.level
			config.Log.Format = tt.format

			logger := ConfigureLoggingFromConfig(config)
			require.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

// clearTestEnvVars unsets every STMT_ variable for the duration of the test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"STMT_LOG_LEVEL",
		"STMT_LOG_FORMAT",
		"STMT_STATEMENT_DELIMITER",
		"STMT_STATEMENT_ROW_SEPARATOR",
		"STMT_STATEMENT_HAS_HEADERS",
		"STMT_REPORT_ROLES_FILE",
		"STMT_EXPORT_FORMAT",
		"STMT_EXPORT_DIRECTORY",
		"STMT_SERVER_ADDRESS",
	}
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
