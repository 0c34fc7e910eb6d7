package database

import (
	"github.com/bisegni/dumpscan/pkg/dump"
	"github.com/bisegni/dumpscan/pkg/query"
	"github.com/bisegni/dumpscan/pkg/schema"
)

// DumpRow implements Row for one decoded dump tuple.
type DumpRow struct {
	data   OrderedMap
	record query.Record
}

// NewRow wraps an ordered row.
func NewRow(data OrderedMap) Row {
	return &DumpRow{data: data}
}

func (r *DumpRow) Get(field string) (interface{}, error) {
	if v, ok := r.data.Get(field); ok {
		return v, nil
	}
	if r.record == nil {
		r.record = r.data.ToRecord()
	}
	return query.NewQuery(field).Extract(r.record)
}

func (r *DumpRow) Primitive() interface{} {
	return r.data
}

// DumpTable exposes one table of a loaded dump to the query engine. Every
// Iterate call rescans the shared buffer.
type DumpTable struct {
	buf    *dump.Buffer
	schema schema.Any
}

func NewDumpTable(buf *dump.Buffer, table schema.Any) *DumpTable {
	return &DumpTable{buf: buf, schema: table}
}

// OpenDumpTable loads path and binds it to table.
func OpenDumpTable(path string, table schema.Any) (*DumpTable, error) {
	buf, err := dump.Open(path)
	if err != nil {
		return nil, err
	}
	return NewDumpTable(buf, table), nil
}

func (t *DumpTable) Schema() schema.Any { return t.schema }

func (t *DumpTable) Buffer() *dump.Buffer { return t.buf }

func (t *DumpTable) Iterate() (RowIterator, error) {
	data := t.buf.Bytes()
	return &dumpIterator{
		names: t.schema.ColumnNames(),
		it:    t.schema.Records(data, schema.Whole(data)),
	}, nil
}

// Close releases the underlying buffer.
func (t *DumpTable) Close() error {
	return t.buf.Close()
}

type dumpIterator struct {
	names   []string
	it      schema.RecordIterator
	current Row
}

func (it *dumpIterator) Next() bool {
	if !it.it.Next() {
		return false
	}
	values := it.it.Values()
	for i, v := range values {
		// Binary columns compare and print as text.
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	it.current = NewRow(FromColumns(it.names, values))
	return true
}

func (it *dumpIterator) Row() Row {
	return it.current
}

func (it *dumpIterator) Error() error {
	return it.it.Error()
}

func (it *dumpIterator) Close() error {
	return nil
}
