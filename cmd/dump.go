package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/internal/logging"
	"github.com/bisegni/dumpscan/pkg/export"
	"github.com/bisegni/dumpscan/pkg/schema"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump <file> [table]",
	Short: "Print the rows of a dump as JSON",
	Long: `Decode a dump and print one JSON object per row, in file order.

Examples:
  dumpscan dump redirect.sql.gz
  dumpscan dump categorylinks.sql --format json --pretty`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "jsonl", "Output format (json or jsonl)")
}

func runDump(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(dumpFormat, cmd.Flags().Changed("format"))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	buf, table, err := openDump(ctx, args)
	if err != nil {
		return err
	}
	defer buf.Close()

	logging.ScanStarted(ctx, table.TableName(), buf.Path, 1)
	start := time.Now()

	out := export.NewRowWriter(cmd.OutOrStdout(), format, cfg.Output.Pretty)
	data := buf.Bytes()
	it := table.Records(data, schema.Whole(data))
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := out.Write(it.Row()); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		logging.ScanFailed(ctx, table.TableName(), err, "rows", out.Written())
		return scanError(buf, err)
	}
	logging.ScanFinished(ctx, table.TableName(), out.Written(), time.Since(start))
	return out.Close()
}
