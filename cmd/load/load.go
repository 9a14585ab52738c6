// Package load copies the service lines of an 835 file into PostgreSQL
package load

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/edi835-csv/cmd/root"
	"fjacquet/edi835-csv/internal/container"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"
	"fjacquet/edi835-csv/internal/pgsink"

	"github.com/spf13/cobra"
)

var skipSchema bool

// Cmd represents the load command
var Cmd = &cobra.Command{
	Use:   "load",
	Short: "Load the service lines of an 835 file into PostgreSQL",
	Long: `Decode an X12 835 file and copy its service lines into a PostgreSQL table.
All lines of one file are loaded in a single transaction and tagged with a new run id.

The connection string is read from postgres.url, EDI835_POSTGRES_URL or DATABASE_URL.

Example:
  DATABASE_URL=postgres://localhost/remits edi835-csv load -i remit.835`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := Run(cmd.Context(), root.GetContainer(), root.SharedFlags.Input, !skipSchema)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d service lines (run %s)\n", result.Rows, result.RunID)
		return err
	},
}

func init() {
	Cmd.Flags().BoolVar(&skipSchema, "skip-schema", false, "Do not create the table when it is missing")
}

// Sink receives decoded service lines.
type Sink interface {
	EnsureSchema(ctx context.Context) error
	Load(ctx context.Context, sourceFile string, lines []models.ServiceLine) (pgsink.Result, error)
}

// Run decodes input and loads it through the container's PostgreSQL loader.
func Run(ctx context.Context, c *container.Container, input string, ensureSchema bool) (pgsink.Result, error) {
	if c == nil {
		return pgsink.Result{}, errors.New("container not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	loader, err := c.Loader(ctx)
	if err != nil {
		return pgsink.Result{}, err
	}
	return LoadFile(ctx, c, loader, input, ensureSchema)
}

// LoadFile decodes input with the container's parser and hands the lines to sink.
func LoadFile(ctx context.Context, c *container.Container, sink Sink, input string, ensureSchema bool) (pgsink.Result, error) {
	if input == "" {
		return pgsink.Result{}, errors.New("input file must be specified")
	}
	logger := c.GetLogger()

	doc, err := c.GetParser().ParseFile(ctx, input)
	if err != nil {
		return pgsink.Result{}, err
	}
	lines, err := doc.Transaction.ServiceLines()
	if err != nil {
		return pgsink.Result{}, fmt.Errorf("error flattening %s: %w", input, err)
	}

	if ensureSchema {
		if err := sink.EnsureSchema(ctx); err != nil {
			return pgsink.Result{}, err
		}
	}

	result, err := sink.Load(ctx, input, lines)
	if err != nil {
		return result, err
	}
	logger.Info("Loaded service lines",
		logging.F(logging.FieldFile, input),
		logging.F(logging.FieldRunID, result.RunID.String()),
		logging.F(logging.FieldCount, result.Rows),
		logging.F(logging.FieldDuration, result.Duration.Milliseconds()))
	return result, nil
}
