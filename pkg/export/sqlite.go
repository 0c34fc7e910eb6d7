package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/bisegni/dumpscan/pkg/schema"
)

// DefaultBatchSize is the number of rows committed per transaction.
const DefaultBatchSize = 5000

// OpenSQLite opens (creating if needed) a SQLite database with the pure Go
// driver.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure sqlite %s: %w", path, err)
		}
	}
	return db, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CreateTableSQL returns the DDL for table. Columns are untyped so SQLite
// keeps the affinity of each inserted value.
func CreateTableSQL(table schema.Any) string {
	cols := make([]string, len(table.ColumnNames()))
	for i, c := range table.ColumnNames() {
		cols[i] = quoteIdent(c)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table.TableName()), strings.Join(cols, ", "))
}

func insertSQL(table schema.Any) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", table.Width()), ", ")
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table.TableName()), marks)
}

// LoadSQLite creates table in db and inserts every row of it, committing
// every batch rows. It returns the number of rows inserted. A decode error
// rolls back only the open batch.
func LoadSQLite(ctx context.Context, db *sql.DB, table schema.Any, it schema.RecordIterator, batch int) (int, error) {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	if _, err := db.ExecContext(ctx, CreateTableSQL(table)); err != nil {
		return 0, fmt.Errorf("create table %s: %w", table.TableName(), err)
	}

	var (
		tx       *sql.Tx
		stmt     *sql.Stmt
		inserted int
		pending  int
	)
	rollback := func() {
		if tx != nil {
			_ = tx.Rollback()
			tx, stmt = nil, nil
		}
	}
	commit := func() error {
		if tx == nil {
			return nil
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		inserted += pending
		tx, stmt, pending = nil, nil, 0
		return nil
	}

	query := insertSQL(table)
	for it.Next() {
		if tx == nil {
			var err error
			if tx, err = db.BeginTx(ctx, nil); err != nil {
				return inserted, fmt.Errorf("begin: %w", err)
			}
			if stmt, err = tx.PrepareContext(ctx, query); err != nil {
				rollback()
				return inserted, fmt.Errorf("prepare insert: %w", err)
			}
		}
		if _, err := stmt.ExecContext(ctx, it.Values()...); err != nil {
			rollback()
			return inserted, fmt.Errorf("insert row %d: %w", it.Rows(), err)
		}
		pending++
		if pending >= batch {
			if err := commit(); err != nil {
				rollback()
				return inserted, err
			}
		}
	}
	if err := it.Error(); err != nil {
		rollback()
		return inserted, err
	}
	if err := commit(); err != nil {
		rollback()
		return inserted, err
	}
	return inserted, nil
}
