package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/internal/logging"
	"github.com/bisegni/dumpscan/pkg/database"
	"github.com/bisegni/dumpscan/pkg/dump"
	"github.com/bisegni/dumpscan/pkg/engine"
	"github.com/bisegni/dumpscan/pkg/plan"
	"github.com/bisegni/dumpscan/pkg/schema"
)

var (
	QueryTables  []string
	QueryExplain bool
	QueryFormat  string
)

var queryCmd = &cobra.Command{
	Use:   "query --table [name=]file ... \"SELECT ...\"",
	Short: "Run a SQL-like query over one or more dumps",
	Long: `Run a SELECT over decoded dump rows.

Each --table loads one dump. The catalog name defaults to the table guessed
from the file name; name=file picks another name, and when that name is a
known table its schema is used to decode the file. A query without FROM reads
the only loaded table.

Supported: SELECT columns, aliases, COUNT/SUM/MIN/MAX/AVG, FROM table or
(subquery), WHERE with =, !=, <, <=, >, >=, CONTAINS, AND, OR and parentheses,
GROUP BY one column, LIMIT.

Examples:
  dumpscan query --table page.sql "SELECT page_title WHERE page_len > 100000"
  dumpscan query --table enwiki-20240101-categorylinks.sql.gz \
    "SELECT cl_to, COUNT(cl_from) AS members FROM categorylinks GROUP BY cl_to"
  dumpscan query --explain --table page.sql "SELECT COUNT(*) FROM page WHERE page_is_redirect = TRUE"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVarP(&QueryTables, "table", "t", nil, "Dump to load as [name=]file (repeatable)")
	queryCmd.Flags().BoolVar(&QueryExplain, "explain", false, "Print the execution plan instead of running the query")
	queryCmd.Flags().StringVar(&QueryFormat, "format", "jsonl", "Output format (json or jsonl)")
	queryCmd.MarkFlagRequired("table")
}

// tableSpec is one parsed --table argument.
type tableSpec struct {
	name   string
	path   string
	schema schema.Any
}

func parseTableSpec(arg string) (tableSpec, error) {
	name, path, named := strings.Cut(arg, "=")
	if !named {
		path = arg
		name = schema.TableFromPath(path)
	}
	if path == "" || name == "" {
		return tableSpec{}, fmt.Errorf("invalid --table %q, want [name=]file", arg)
	}

	table, ok := schema.Lookup(name)
	if !ok {
		var err error
		if table, err = schema.MustLookup(schema.TableFromPath(path)); err != nil {
			return tableSpec{}, fmt.Errorf("--table %s: %w", arg, err)
		}
	}
	return tableSpec{name: name, path: path, schema: table}, nil
}

// buildCatalog loads every dump named in specs. The caller closes the
// catalog.
func buildCatalog(ctx context.Context, specs []string) (*database.Catalog, error) {
	catalog := database.NewCatalog()
	for _, arg := range specs {
		spec, err := parseTableSpec(arg)
		if err != nil {
			catalog.Close()
			return nil, err
		}
		buf, err := dump.Open(spec.path)
		if err != nil {
			catalog.Close()
			return nil, err
		}
		logging.FileOpened(ctx, buf.Path, string(buf.Compression), buf.Len(), buf.Mapped())
		catalog.RegisterTable(spec.name, database.NewDumpTable(buf, spec.schema))
	}
	return catalog, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(QueryFormat, cmd.Flags().Changed("format"))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	catalog, err := buildCatalog(ctx, QueryTables)
	if err != nil {
		return err
	}
	defer catalog.Close()

	root, err := engine.Prepare(args[0], catalog)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if QueryExplain {
		fmt.Fprintln(out, "Execution Plan:")
		fmt.Fprint(out, plan.FormatPlan(root))
		return nil
	}

	executor := engine.NewExecutor()
	executor.Pretty = cfg.Output.Pretty
	executor.Format = format

	start := time.Now()
	n, err := executor.Execute(ctx, root, out)
	if err != nil {
		logging.ScanFailed(ctx, "query", err, "rows", n)
		return err
	}
	logging.ScanFinished(ctx, "query", n, time.Since(start), "tables", strings.Join(catalog.Names(), ","))
	return nil
}
