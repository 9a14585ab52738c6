// Package container provides dependency injection for the edi835-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fjacquet/edi835-csv/internal/common"
	"fjacquet/edi835-csv/internal/config"
	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/pgsink"
	"fjacquet/edi835-csv/internal/remitparser"
	"fjacquet/edi835-csv/internal/store"
	"fjacquet/edi835-csv/internal/transaction"
	"fjacquet/edi835-csv/internal/x12"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabase is returned by Loader when no PostgreSQL URL is configured.
var ErrNoDatabase = errors.New("no PostgreSQL connection configured (set postgres.url, EDI835_POSTGRES_URL or DATABASE_URL)")

// Container holds all application dependencies and provides methods to access them.
// Everything except the lazily opened database pool is fixed at creation.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.CodeStore
	tables     *elements.Tables
	options    transaction.Options
	csvOptions common.CSVOptions
	parser     *remitparser.Adapter

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg)))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	codeStore := store.NewCodeStore(cfg.Codes.File, logger)
	tables, err := store.Tables(codeStore, elements.DefaultTables())
	if err != nil {
		return nil, fmt.Errorf("error loading code tables: %w", err)
	}

	options := transaction.Options{
		Delimiters: x12.Delimiters{
			Segment:   cfg.X12.SegmentTerminator,
			Element:   cfg.X12.ElementSeparator,
			Component: cfg.X12.ComponentSeparator,
		},
		DetectDelimiters: cfg.X12.DetectDelimiters,
		Tables:           tables,
	}

	csvOptions := common.DefaultCSVOptions()
	if r := []rune(cfg.CSV.Delimiter); len(r) > 0 {
		csvOptions.Delimiter = r[0]
	}
	if cfg.CSV.DateFormat != "" {
		csvOptions.DateFormat = cfg.CSV.DateFormat
	}
	csvOptions.IncludeHeaders = cfg.CSV.IncludeHeaders

	adapter := remitparser.NewAdapter(logger, options)
	adapter.SetCSVOptions(csvOptions)

	logger.Info("Container initialized successfully",
		logging.F("code_tables", len(tables.Names())),
		logging.F("detect_delimiters", cfg.X12.DetectDelimiters))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      codeStore,
		tables:     tables,
		options:    options,
		csvOptions: csvOptions,
		parser:     adapter,
	}, nil
}

// GetParser returns the 835 parser.
func (c *Container) GetParser() *remitparser.Adapter {
	return c.parser
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the code override store.
func (c *Container) GetStore() *store.CodeStore {
	return c.store
}

// GetTables returns the code tables with overrides applied.
func (c *Container) GetTables() *elements.Tables {
	return c.tables
}

// GetOptions returns the decode options.
func (c *Container) GetOptions() transaction.Options {
	return c.options
}

// GetCSVOptions returns the CSV output options.
func (c *Container) GetCSVOptions() common.CSVOptions {
	return c.csvOptions
}

// Loader returns a PostgreSQL loader, opening the connection pool on first use.
func (c *Container) Loader(ctx context.Context) (*pgsink.Loader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool == nil {
		if c.config.Postgres.URL == "" {
			return nil, ErrNoDatabase
		}
		pool, err := pgsink.Connect(ctx, c.config.Postgres.URL)
		if err != nil {
			return nil, err
		}
		c.pool = pool
		c.logger.Debug("Connected to PostgreSQL", logging.F(logging.FieldTable, c.config.Postgres.Table))
	}
	return pgsink.NewLoader(c.pool, c.config.Postgres.Table, c.config.Postgres.BatchSize, c.logger)
}

// Close releases the database pool if one was opened.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
	c.logger.Debug("Container closed")
	return nil
}
