// Package convert handles the conversion of one 835 file
package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"fjacquet/edi835-csv/cmd/common"
	"fjacquet/edi835-csv/cmd/root"
	internalcommon "fjacquet/edi835-csv/internal/common"
	"fjacquet/edi835-csv/internal/container"
	"fjacquet/edi835-csv/internal/factory"
	"fjacquet/edi835-csv/internal/fileutils"
	"fjacquet/edi835-csv/internal/logging"

	"github.com/spf13/cobra"
)

// Options are the inputs of one conversion.
type Options struct {
	Input    string
	Output   string
	Validate bool
	Format   string
	Claims   string
}

var (
	format string
	claims string
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an 835 file to CSV or Parquet",
	Long: `Convert an X12 835 remittance file to one record per service line.

When --output is omitted the output is written next to the input with the
extension of the chosen format. --claims additionally writes one CSV line per claim.

Example:
  edi835-csv convert -i remit.835 -o remit.csv
  edi835-csv convert -i remit.835 --format parquet --claims claims.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), Options{
			Input:    root.SharedFlags.Input,
			Output:   root.SharedFlags.Output,
			Validate: root.SharedFlags.Validate,
			Format:   format,
			Claims:   claims,
		})
	},
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", string(factory.CSV), "Output format (csv, parquet)")
	Cmd.Flags().StringVar(&claims, "claims", "", "Also write a claim summary CSV to this file")
}

// Run converts opts.Input with the container's parser.
func Run(ctx context.Context, c *container.Container, opts Options) error {
	if c == nil {
		return errors.New("container not initialized")
	}
	if opts.Input == "" {
		return errors.New("input file must be specified")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	f, err := factory.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	writer, err := factory.GetWriterWithLogger(f, factory.Settings{
		CSV:         c.GetCSVOptions(),
		Compression: c.GetConfig().Parquet.Compression,
	}, logger)
	if err != nil {
		return err
	}

	output := opts.Output
	if output == "" {
		output = fileutils.OutputPath(opts.Input, filepath.Dir(opts.Input), writer.Extension())
	}

	logger.Info("Convert command called",
		logging.F(logging.FieldInputFile, opts.Input),
		logging.F(logging.FieldOutputFile, output),
		logging.F(logging.FieldFormat, f))

	doc, _, err := common.ProcessFile(ctx, c.GetParser(), writer, opts.Input, output, opts.Validate, logger)
	if err != nil {
		return err
	}

	if opts.Claims != "" {
		summaries, err := doc.Transaction.ClaimSummaries()
		if err != nil {
			return fmt.Errorf("error summarizing claims: %w", err)
		}
		if err := internalcommon.WriteClaimSummariesToFile(summaries, opts.Claims, c.GetCSVOptions(), logger); err != nil {
			return err
		}
		logger.Info("Wrote claim summaries",
			logging.F(logging.FieldOutputFile, opts.Claims),
			logging.F(logging.FieldClaims, len(summaries)))
	}
	return nil
}
