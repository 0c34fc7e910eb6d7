package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/internal/logging"
	"github.com/bisegni/dumpscan/pkg/database"
	"github.com/bisegni/dumpscan/pkg/export"
	"github.com/bisegni/dumpscan/pkg/query"
)

var (
	filterWhere    string
	filterField    string
	filterOperator string
	filterValue    string
	filterFormat   string
)

var filterCmd = &cobra.Command{
	Use:   "filter <file> [table]",
	Short: "Print the rows of a dump that match a condition",
	Long: `Filter the rows of a dump on column conditions.

Either give a single condition with --field, --op and --value, or an
expression with --where that may combine conditions with AND, OR and
parentheses.

Examples:
  dumpscan filter page.sql --field page_namespace --op "=" --value 14
  dumpscan filter page.sql --field page_title --op contains --value Rock
  dumpscan filter page.sql --where "page_is_redirect=true AND (page_namespace=0 OR page_namespace=14)"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVar(&filterWhere, "where", "", "Filter expression (e.g. \"page_len>1000 AND page_namespace=0\")")
	filterCmd.Flags().StringVarP(&filterField, "field", "f", "", "Column to filter on")
	filterCmd.Flags().StringVarP(&filterOperator, "op", "o", "=", "Operator (=, !=, >, >=, <, <=, contains)")
	filterCmd.Flags().StringVarP(&filterValue, "value", "v", "", "Value to compare against")
	filterCmd.Flags().StringVar(&filterFormat, "format", "jsonl", "Output format (json or jsonl)")
	filterCmd.MarkFlagsMutuallyExclusive("where", "field")
}

// filterExpression builds the condition from either --where or
// --field/--op/--value.
func filterExpression(where, field, op, value string) (query.Expression, error) {
	if where != "" {
		return query.ParseExpression(where)
	}
	if field == "" {
		return nil, errors.New("either --where or --field is required")
	}
	return &query.Condition{Filter: query.NewFilter(field, op, parseLiteral(value))}, nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	expr, err := filterExpression(filterWhere, filterField, filterOperator, filterValue)
	if err != nil {
		return err
	}
	format, err := outputFormat(filterFormat, cmd.Flags().Changed("format"))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	buf, table, err := openDump(ctx, args)
	if err != nil {
		return err
	}
	source := database.NewDumpTable(buf, table)
	defer source.Close()

	logging.ScanStarted(ctx, table.TableName(), buf.Path, 1)
	start := time.Now()

	it, err := source.Iterate()
	if err != nil {
		return err
	}
	defer it.Close()

	out := export.NewRowWriter(cmd.OutOrStdout(), format, cfg.Output.Pretty)
	scanned := 0
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		scanned++
		row := it.Row().Primitive().(database.OrderedMap)
		if !expr.Evaluate(row.ToRecord()) {
			continue
		}
		if err := out.Write(row); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		logging.ScanFailed(ctx, table.TableName(), err, "rows", scanned)
		return scanError(buf, err)
	}
	logging.ScanFinished(ctx, table.TableName(), scanned, time.Since(start), "matched", out.Written(), "filter", expr.String())
	return out.Close()
}
