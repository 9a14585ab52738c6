// Package validate decodes an 835 file and reports what it contains without writing output
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fjacquet/edi835-csv/cmd/root"
	"fjacquet/edi835-csv/internal/container"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/transaction"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Summary describes a decoded file.
type Summary struct {
	File      string
	Payer     string
	Payee     string
	Claims    int
	Services  int
	TotalPaid decimal.Decimal
	Warnings  transaction.Warnings
}

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that an 835 file decodes",
	Long: `Decode an X12 835 file and print the number of claims and service lines,
the total paid and every top-level segment that was skipped.

Example:
  edi835-csv validate -i remit.835`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := Run(cmd.Context(), root.GetContainer(), root.SharedFlags.Input)
		if err != nil {
			return err
		}
		return Print(cmd.OutOrStdout(), summary)
	},
}

// Run decodes input and summarizes it. Flattening is attempted so that payer resolution
// problems are reported as well.
func Run(ctx context.Context, c *container.Container, input string) (Summary, error) {
	if c == nil {
		return Summary{}, errors.New("container not initialized")
	}
	if input == "" {
		return Summary{}, errors.New("input file must be specified")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := c.GetParser().ParseFile(ctx, input)
	if err != nil {
		return Summary{}, err
	}
	ts := doc.Transaction

	summary := Summary{
		File:      input,
		Claims:    len(ts.Claims),
		Services:  ts.ServiceCount(),
		TotalPaid: ts.TotalPaid(),
		Warnings:  doc.Warnings,
	}
	if payee := ts.Payee(); payee != nil {
		summary.Payee = payee.Organization.Name
	}
	if len(ts.Claims) > 0 {
		payer, err := ts.Payer()
		if err != nil {
			return summary, err
		}
		summary.Payer = payer.Organization.Name
	}

	c.GetLogger().Info("Validated 835 file",
		logging.F(logging.FieldFile, input),
		logging.F(logging.FieldClaims, summary.Claims),
		logging.F(logging.FieldServices, summary.Services),
		logging.F(logging.FieldWarnings, len(summary.Warnings)))
	return summary, nil
}

// Print writes a human readable summary.
func Print(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "File:       %s\nPayer:      %s\nPayee:      %s\nClaims:     %d\nServices:   %d\nTotal paid: %s\n",
		s.File, s.Payer, s.Payee, s.Claims, s.Services, s.TotalPaid.StringFixed(2))
	if err != nil {
		return err
	}
	for _, warning := range s.Warnings {
		if _, err := fmt.Fprintf(w, "Skipped:    %s (segment %d)\n", warning.Identifier, warning.Index); err != nil {
			return err
		}
	}
	return nil
}
