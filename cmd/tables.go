package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/pkg/schema"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables dumpscan can decode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range schema.Names() {
			table, _ := schema.Lookup(name)
			fmt.Fprintf(out, "%s (%d columns)\n  %s\n", name, table.Width(), strings.Join(table.ColumnNames(), ", "))
		}
		return nil
	},
}
