// Package schema binds dump tables to typed Go rows.
package schema

import (
	"errors"
	"time"

	"github.com/bisegni/dumpscan/pkg/fields"
	"github.com/bisegni/dumpscan/pkg/parser"
)

// Column decodes one positional value into a field of R.
type Column[R any] struct {
	Name   string
	decode func(*R, parser.Value) error
	get    func(*R) any
}

// Field builds a column from an accessor returning the address of the field
// and the converter producing its value.
func Field[R, T any](name string, field func(*R) *T, conv fields.Converter[T]) Column[R] {
	return Column[R]{
		Name: name,
		decode: func(r *R, v parser.Value) error {
			t, err := conv(v)
			if err != nil {
				return err
			}
			*field(r) = t
			return nil
		},
		get: func(r *R) any { return *field(r) },
	}
}

// Table is the ordered column list of one dump table. It implements
// parser.Decoder[R].
type Table[R any] struct {
	name    string
	columns []Column[R]
	names   []string
}

// New defines a table. Column order must match the dump's tuple order.
func New[R any](name string, columns ...Column[R]) *Table[R] {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return &Table[R]{name: name, columns: columns, names: names}
}

func (t *Table[R]) TableName() string { return t.name }

func (t *Table[R]) Width() int { return len(t.columns) }

// ColumnNames returns the column names in tuple order.
func (t *Table[R]) ColumnNames() []string { return t.names }

// DecodeRow converts the values of one tuple, stopping at the first column
// that fails.
func (t *Table[R]) DecodeRow(values []parser.Value) (R, error) {
	var row R
	for i, c := range t.columns {
		if err := c.decode(&row, values[i]); err != nil {
			var zero R
			return zero, &parser.RowDecodeError{
				Table:      t.name,
				Column:     i,
				ColumnName: c.Name,
				Raw:        values[i].Raw(),
				Offset:     values[i].Offset,
				Err:        err,
			}
		}
	}
	return row, nil
}

// Iterate scans buf for rows of this table.
func (t *Table[R]) Iterate(buf []byte) *parser.Iterator[R] {
	return parser.Iterate[R](buf, t)
}

// Values returns the plain values of row in column order.
func (t *Table[R]) Values(row *R) []any {
	out := make([]any, len(t.columns))
	for i, c := range t.columns {
		out[i] = plain(c.get(row))
	}
	return out
}

func plain(x any) any {
	v := fields.Plain(x)
	if ts, ok := v.(time.Time); ok {
		return ts.UTC().Format(time.RFC3339)
	}
	return v
}

// Records scans region r of buf and yields rows in their type erased form.
func (t *Table[R]) Records(buf []byte, r parser.Region) RecordIterator {
	return &recordIterator[R]{table: t, it: parser.IterateRegion[R](buf, r, t)}
}

// Any is the type erased view of a Table used by the command line and the
// query engine.
type Any interface {
	TableName() string
	Width() int
	ColumnNames() []string
	Records(buf []byte, r parser.Region) RecordIterator
}

// RecordIterator walks rows without knowing their Go type.
type RecordIterator interface {
	Next() bool
	// Row returns the typed row, suitable for JSON encoding.
	Row() any
	// Values returns the row's plain values in column order.
	Values() []any
	Error() error
	Offset() int
	Rows() int
}

type recordIterator[R any] struct {
	table *Table[R]
	it    *parser.Iterator[R]
	row   R
}

func (r *recordIterator[R]) Next() bool {
	if !r.it.Next() {
		return false
	}
	r.row = r.it.Row()
	return true
}

func (r *recordIterator[R]) Row() any { return r.row }

func (r *recordIterator[R]) Values() []any { return r.table.Values(&r.row) }

func (r *recordIterator[R]) Error() error { return r.it.Error() }

func (r *recordIterator[R]) Offset() int { return r.it.Offset() }

func (r *recordIterator[R]) Rows() int { return r.it.Rows() }

// Whole is the region covering all of buf.
func Whole(buf []byte) parser.Region {
	return parser.Region{Start: 0, End: len(buf)}
}

// ColumnOf extracts the failing column name from a decode error.
func ColumnOf(err error) (string, bool) {
	var re *parser.RowDecodeError
	if errors.As(err, &re) {
		return re.ColumnName, true
	}
	return "", false
}
