package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bisegni/dumpscan/internal/logging"
	"github.com/bisegni/dumpscan/pkg/dump"
	"github.com/bisegni/dumpscan/pkg/export"
	"github.com/bisegni/dumpscan/pkg/parser"
	"github.com/bisegni/dumpscan/pkg/schema"
)

// snippetWidth is how many bytes of input are shown on each side of a
// failing offset.
const snippetWidth = 40

// openDump loads args[0] and resolves its table from args[1], or from the
// file name when only one argument is given.
func openDump(ctx context.Context, args []string) (*dump.Buffer, schema.Any, error) {
	path := args[0]
	name := schema.TableFromPath(path)
	if len(args) > 1 {
		name = args[1]
	}
	table, err := schema.MustLookup(name)
	if err != nil {
		return nil, nil, err
	}

	buf, err := dump.Open(path)
	if err != nil {
		return nil, nil, err
	}
	logging.FileOpened(ctx, buf.Path, string(buf.Compression), buf.Len(), buf.Mapped())
	return buf, table, nil
}

// scanError attaches the input around the failing offset to err. It must be
// called before buf is closed.
func scanError(buf *dump.Buffer, err error) error {
	off, ok := parser.Offset(err)
	if !ok {
		return err
	}
	return fmt.Errorf("%w\n  near byte %d: %s", err, off, parser.Snippet(buf.Bytes(), off, snippetWidth))
}

// outputFormat returns flag when it was given, else the configured format.
func outputFormat(flag string, changed bool) (export.Format, error) {
	if !changed {
		flag = cfg.Output.Format
	}
	return export.ParseFormat(flag)
}

// parseLiteral reads a command line value as a JSON number, boolean or null
// and falls back to the raw string.
func parseLiteral(s string) interface{} {
	var val interface{}
	if err := json.Unmarshal([]byte(s), &val); err != nil {
		return s
	}
	switch val.(type) {
	case float64, bool, nil:
		return val
	default:
		return s
	}
}
