// Package codes lists and exports the code tables used to describe 835 codes
package codes

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/edi835-csv/cmd/root"
	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/store"

	"github.com/spf13/cobra"
)

var (
	table      string
	exportFile string
)

// Cmd represents the codes command
var Cmd = &cobra.Command{
	Use:   "codes",
	Short: "List or export the code tables",
	Long: `List the code tables, or the codes of one table, with overrides from the
code file applied. --export writes every table in the override file layout so it
can be edited and used as codes.file.

Example:
  edi835-csv codes
  edi835-csv codes --table adjustment_reason
  edi835-csv codes --export codes.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return errors.New("container not initialized")
		}
		if exportFile != "" {
			return Export(c.GetTables(), exportFile, c.GetLogger())
		}
		return List(cmd.OutOrStdout(), c.GetTables(), table)
	},
}

func init() {
	Cmd.Flags().StringVarP(&table, "table", "t", "", "Only list the codes of this table")
	Cmd.Flags().StringVar(&exportFile, "export", "", "Write all tables to this YAML file")
}

// List prints the table names with their sizes, or the codes of name when it is set.
func List(w io.Writer, tables *elements.Tables, name string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if name == "" {
		for _, n := range tables.Names() {
			fmt.Fprintf(tw, "%s\t%d\n", n, tables.Get(n).Len())
		}
		return tw.Flush()
	}

	t := tables.Get(name)
	if t.Len() == 0 {
		return fmt.Errorf("unknown code table: %s", name)
	}
	for _, code := range t.Codes() {
		description, _ := t.Lookup(code)
		fmt.Fprintf(tw, "%s\t%s\n", code, description)
	}
	return tw.Flush()
}

// Export writes every table to file in the override layout.
func Export(tables *elements.Tables, file string, logger logging.Logger) error {
	if err := store.NewCodeStore(file, logger).SaveOverrides(store.Export(tables)); err != nil {
		return err
	}
	logger.Info("Exported code tables",
		logging.F(logging.FieldFile, file),
		logging.F(logging.FieldCount, len(tables.Names())))
	return nil
}
