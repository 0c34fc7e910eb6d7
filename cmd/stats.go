package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/pkg/dump"
	"github.com/bisegni/dumpscan/pkg/parser"
	"github.com/bisegni/dumpscan/pkg/schema"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file> [table]",
	Short: "Show statistics about a dump",
	Long: `Display statistics about a dump: its size and BLAKE3 fingerprint, the
number of INSERT statements and rows, how many text values could be borrowed
from the input versus copied, and the NULL count of every column.

Values are tokenized but not converted to their column types; use validate
for that.

Examples:
  dumpscan stats page.sql
  dumpscan stats enwiki-20240101-redirect.sql.gz`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStats,
}

type dumpStats struct {
	Statements int
	Rows       int
	Borrowed   int
	Owned      int
	Kinds      map[parser.Kind]int
	Nulls      []int
}

func runStats(cmd *cobra.Command, args []string) error {
	buf, table, err := openDump(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer buf.Close()

	stats, err := gatherStats(buf.Bytes(), table)
	if err != nil {
		return scanError(buf, err)
	}
	printStats(cmd.OutOrStdout(), buf, table, stats)
	return nil
}

func gatherStats(data []byte, table schema.Any) (*dumpStats, error) {
	stats := &dumpStats{
		Kinds: make(map[parser.Kind]int),
		Nulls: make([]int, table.Width()),
	}

	it := parser.Iterate(data, parser.Raw(table.TableName(), table.Width()))
	for it.Next() {
		for i, v := range it.Row() {
			stats.Kinds[v.Kind]++
			switch {
			case v.IsNull():
				stats.Nulls[i]++
			case v.Kind == parser.KindText && v.Text.IsBorrowed():
				stats.Borrowed++
			case v.Kind == parser.KindText:
				stats.Owned++
			}
		}
	}
	stats.Rows = it.Rows()
	stats.Statements = it.Statements()
	if err := it.Error(); err != nil {
		return stats, err
	}
	return stats, nil
}

func printStats(w io.Writer, buf *dump.Buffer, table schema.Any, stats *dumpStats) {
	fmt.Fprintf(w, "File: %s\n", buf.Path)
	fmt.Fprintf(w, "Compression: %s\n", buf.Compression)
	fmt.Fprintf(w, "Bytes: %d (mapped: %v)\n", buf.Len(), buf.Mapped())
	fmt.Fprintf(w, "BLAKE3: %s\n", buf.Fingerprint())
	fmt.Fprintf(w, "Table: %s\n", table.TableName())
	fmt.Fprintf(w, "Statements: %d\n", stats.Statements)
	fmt.Fprintf(w, "Total rows: %d\n", stats.Rows)

	fmt.Fprintf(w, "\nValues:\n")
	for _, k := range []parser.Kind{parser.KindInteger, parser.KindFloat, parser.KindText, parser.KindNull} {
		fmt.Fprintf(w, "  %s: %d\n", k, stats.Kinds[k])
	}
	fmt.Fprintf(w, "  text borrowed: %d, copied: %d\n", stats.Borrowed, stats.Owned)

	fmt.Fprintf(w, "\nNULLs per column:\n")
	for i, name := range table.ColumnNames() {
		if stats.Rows == 0 {
			fmt.Fprintf(w, "  %s: %d\n", name, stats.Nulls[i])
			continue
		}
		fmt.Fprintf(w, "  %s: %d (%.1f%%)\n", name, stats.Nulls[i], float64(stats.Nulls[i])/float64(stats.Rows)*100)
	}
}
