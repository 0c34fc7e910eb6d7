// Package engine runs query plans over dump tables and streams the result
// rows.
package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/bisegni/dumpscan/pkg/database"
	"github.com/bisegni/dumpscan/pkg/export"
	"github.com/bisegni/dumpscan/pkg/plan"
	"github.com/bisegni/dumpscan/pkg/planner"
	"github.com/bisegni/dumpscan/pkg/query"
)

// Executor runs a plan and encodes its rows.
type Executor struct {
	Pretty bool
	Format export.Format
}

func NewExecutor() *Executor {
	return &Executor{
		Pretty: false,
		Format: export.FormatJSONL,
	}
}

// Prepare parses sql and plans it against catalog.
func Prepare(sql string, catalog *database.Catalog) (plan.Node, error) {
	q, err := query.ParseQuery(sql)
	if err != nil {
		return nil, err
	}
	root, err := planner.CreatePlan(q, catalog)
	if err != nil {
		return nil, fmt.Errorf("planning error: %w", err)
	}
	return root, nil
}

// Execute streams the rows of root to w and returns how many were written.
// Cancelling ctx stops between rows.
func (e *Executor) Execute(ctx context.Context, root plan.Node, w io.Writer) (int, error) {
	iterator, err := root.Execute()
	if err != nil {
		return 0, err
	}
	defer iterator.Close()

	format := e.Format
	if format == "" {
		format = export.FormatJSONL
	}
	out := export.NewRowWriter(w, format, e.Pretty)

	for iterator.Next() {
		if err := ctx.Err(); err != nil {
			return out.Written(), err
		}
		if err := out.Write(iterator.Row().Primitive()); err != nil {
			return out.Written(), err
		}
	}

	if err := iterator.Error(); err != nil {
		return out.Written(), err
	}
	return out.Written(), out.Close()
}
