// Package batch handles batch processing of files
package batch

import (
	"context"
	"errors"

	"fjacquet/edi835-csv/cmd/root"
	"fjacquet/edi835-csv/internal/container"
	"fjacquet/edi835-csv/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process files from a directory",
	Long: `Batch process 835 files from an input directory and write one CSV per file to
another directory.

Files with the extensions .835, .edi, .x12 and .txt are considered. Each file is
validated and converted independently; failures are logged and skipped.

Example:
  edi835-csv batch -i input_dir/ -o output_dir/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := Run(cmd.Context(), root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output)
		if err != nil {
			return err
		}
		root.GetLogger().Info("Batch processing completed", logging.F(logging.FieldCount, count))
		return nil
	},
}

func init() {
	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

// Run converts every supported file of inputDir and returns the number of files written.
func Run(ctx context.Context, c *container.Container, inputDir, outputDir string) (int, error) {
	if c == nil {
		return 0, errors.New("container not initialized")
	}
	if inputDir == "" || outputDir == "" {
		return 0, errors.New("input and output directories must be specified")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.GetLogger().Info("Batch command called",
		logging.F(logging.FieldInputFile, inputDir),
		logging.F(logging.FieldOutputFile, outputDir))

	return c.GetParser().BatchConvert(ctx, inputDir, outputDir)
}
