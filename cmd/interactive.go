package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/pkg/database"
	"github.com/bisegni/dumpscan/pkg/engine"
	"github.com/bisegni/dumpscan/pkg/plan"
	"github.com/bisegni/dumpscan/pkg/query"
)

var interactiveTables []string

var interactiveCmd = &cobra.Command{
	Use:   "interactive --table [name=]file ...",
	Short: "Query dumps from an interactive prompt",
	Long: `Load one or more dumps once and query them repeatedly.

At the prompt type a SELECT, or a bare filter expression such as
page_namespace=14 AND page_len>1000 when a single table is loaded.

  \tables          list the loaded tables
  \explain SELECT  print the plan of a query
  exit, quit       leave`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := buildCatalog(cmd.Context(), interactiveTables)
		if err != nil {
			return err
		}
		defer catalog.Close()
		return RunInteractive(cmd.Context(), catalog, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	interactiveCmd.Flags().StringArrayVarP(&interactiveTables, "table", "t", nil, "Dump to load as [name=]file (repeatable)")
	interactiveCmd.MarkFlagRequired("table")
}

func RunInteractive(ctx context.Context, catalog *database.Catalog, stdout, stderr io.Writer) error {
	fmt.Fprintln(stdout, "Interactive mode enabled. Type 'exit' or 'quit' to leave.")
	fmt.Fprintf(stdout, "Tables: %s\n", strings.Join(catalog.Names(), ", "))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     "", // In-memory history for this session
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			break
		}

		if err := executeInteractive(ctx, catalog, trimmed, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}

	return nil
}

func executeInteractive(ctx context.Context, catalog *database.Catalog, input string, w io.Writer) error {
	if input == `\tables` {
		for _, name := range catalog.Names() {
			fmt.Fprintln(w, name)
		}
		return nil
	}

	explain := false
	if rest, ok := strings.CutPrefix(input, `\explain`); ok {
		explain = true
		input = strings.TrimSpace(rest)
	}

	root, err := interactivePlan(catalog, input)
	if err != nil {
		return err
	}
	if explain {
		fmt.Fprintln(w, "Execution Plan:")
		fmt.Fprint(w, plan.FormatPlan(root))
		return nil
	}

	executor := engine.NewExecutor()
	executor.Pretty = cfg != nil && cfg.Output.Pretty
	_, err = executor.Execute(ctx, root, w)
	return err
}

// interactivePlan plans a SELECT, or a filter expression over the only
// loaded table.
func interactivePlan(catalog *database.Catalog, input string) (plan.Node, error) {
	if strings.HasPrefix(strings.ToUpper(input), "SELECT") {
		return engine.Prepare(input, catalog)
	}

	expr, err := query.ParseExpression(input)
	if err != nil {
		return nil, fmt.Errorf("not a SELECT or filter expression: %w", err)
	}
	table, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	return &plan.FilterNode{
		Input:      &plan.ScanNode{TableName: catalog.Names()[0], Table: table},
		Expression: expr,
	}, nil
}
