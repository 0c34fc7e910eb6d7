package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/internal/logging"
	"github.com/bisegni/dumpscan/pkg/export"
	"github.com/bisegni/dumpscan/pkg/schema"
)

var (
	exportSQLite string
	exportBatch  int
)

var exportCmd = &cobra.Command{
	Use:   "export <file> [table] --sqlite out.db",
	Short: "Load the rows of a dump into a SQLite database",
	Long: `Decode a dump and insert its rows into a table of the same name in a
SQLite database, creating both when missing. Rows are committed in batches;
on a decode error the rows of earlier batches stay in the database.

Examples:
  dumpscan export page.sql --sqlite wiki.db
  dumpscan export enwiki-20240101-categorylinks.sql.gz --sqlite wiki.db --batch 20000`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSQLite, "sqlite", "", "SQLite database to write")
	exportCmd.Flags().IntVar(&exportBatch, "batch", export.DefaultBatchSize, "Rows per transaction")
	exportCmd.MarkFlagRequired("sqlite")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	buf, table, err := openDump(ctx, args)
	if err != nil {
		return err
	}
	defer buf.Close()

	db, err := export.OpenSQLite(exportSQLite)
	if err != nil {
		return err
	}
	defer db.Close()

	logging.ScanStarted(ctx, table.TableName(), buf.Path, 1)
	start := time.Now()

	data := buf.Bytes()
	n, err := export.LoadSQLite(ctx, db, table, table.Records(data, schema.Whole(data)), exportBatch)
	if err != nil {
		logging.ScanFailed(ctx, table.TableName(), err, "inserted", n)
		return scanError(buf, err)
	}
	logging.ScanFinished(ctx, table.TableName(), n, time.Since(start), "sqlite", exportSQLite)

	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d row(s) into %s.%s\n", n, exportSQLite, table.TableName())
	return nil
}
