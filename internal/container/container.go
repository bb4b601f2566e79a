// Package container provides dependency injection for the statement-report
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/statement-report/internal/config"
	"fjacquet/statement-report/internal/export"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/session"
	"fjacquet/statement-report/internal/store"
	"fjacquet/statement-report/internal/tokenizer"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation; its fields are private and only
// reachable through getters.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    store.Repository
	exporter *export.Exporter
	options  tokenizer.Options
}

// NewContainer creates and wires all application dependencies with a logger
// built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	delimiter := []rune(cfg.Statement.Delimiter)
	if len(delimiter) == 0 {
		return nil, fmt.Errorf("statement delimiter cannot be empty")
	}

	c := &Container{
		logger:   logger,
		config:   cfg,
		store:    store.NewRolesStore(cfg.Report.RolesFile, logger),
		exporter: export.NewExporter(logger).WithDelimiter(delimiter[0]),
		options: tokenizer.Options{
			RowSeparator: cfg.Statement.RowSeparator,
			Delimiter:    cfg.Statement.Delimiter,
		},
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldDelimiter, cfg.Statement.Delimiter),
		logging.F(logging.FieldFormat, cfg.Export.Format))
	return c, nil
}

// NewSession starts an import session using the configured statement layout.
func (c *Container) NewSession() *session.Session {
	return session.New(c.options, c.logger)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the roles profile store.
func (c *Container) GetStore() store.Repository {
	return c.store
}

// GetExporter returns the report exporter.
func (c *Container) GetExporter() *export.Exporter {
	return c.exporter
}

// GetTokenizerOptions returns the configured statement layout.
func (c *Container) GetTokenizerOptions() tokenizer.Options {
	return c.options
}

// WithStore returns a copy of c using repo as its roles store.
func (c *Container) WithStore(repo store.Repository) *Container {
	cp := *c
	cp.store = repo
	return &cp
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
