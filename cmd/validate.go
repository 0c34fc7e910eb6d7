package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/internal/logging"
	"github.com/bisegni/dumpscan/pkg/dump"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file> [table]",
	Short: "Check that every row of a dump decodes",
	Long: `Decode a whole dump against its table schema without printing rows.

Reports the row count, or the first error with the input around it.

Examples:
  dumpscan validate page.sql
  dumpscan validate enwiki-20240101-langlinks.sql.gz --workers 4`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	buf, table, err := openDump(ctx, args)
	if err != nil {
		return err
	}
	defer buf.Close()

	out := cmd.OutOrStdout()
	start := time.Now()
	n, err := dump.Count(ctx, buf.Bytes(), table, cfg.Scan.Workers)
	if err != nil {
		logging.ScanFailed(ctx, table.TableName(), err)
		err = scanError(buf, err)
		fmt.Fprintf(out, "❌ Validation failed: %v\n", err)
		return err
	}
	logging.ScanFinished(ctx, table.TableName(), n, time.Since(start))

	fmt.Fprintf(out, "✅ Valid %s dump with %d row(s)\n", table.TableName(), n)
	return nil
}
