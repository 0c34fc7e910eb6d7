package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/internal/logging"
	"github.com/bisegni/dumpscan/pkg/dump"
)

var countCmd = &cobra.Command{
	Use:   "count <file> [table]",
	Short: "Count the rows of a dump",
	Long: `Decode every row of a dump and print how many there are.

With --workers greater than one the file is split on statement boundaries and
the parts are decoded in parallel.

Examples:
  dumpscan count enwiki-20240101-page.sql.gz
  dumpscan count pages.sql page --workers 8`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCount,
}

func runCount(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	buf, table, err := openDump(ctx, args)
	if err != nil {
		return err
	}
	defer buf.Close()

	workers := cfg.Scan.Workers
	logging.ScanStarted(ctx, table.TableName(), buf.Path, workers)
	start := time.Now()

	n, err := dump.Count(ctx, buf.Bytes(), table, workers)
	if err != nil {
		logging.ScanFailed(ctx, table.TableName(), err, "rows", n)
		return scanError(buf, err)
	}
	logging.ScanFinished(ctx, table.TableName(), n, time.Since(start), "workers", workers)

	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}
