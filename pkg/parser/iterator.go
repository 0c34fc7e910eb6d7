package parser

import (
	"errors"
	"io"
	"iter"
)

// Decoder turns the values of one tuple into a typed row. Implementations
// must not retain the values slice, which is reused for the next tuple.
type Decoder[R any] interface {
	TableName() string
	Width() int
	DecodeRow(values []Value) (R, error)
}

// Region is a half-open byte range of a buffer aligned on statement
// boundaries.
type Region struct {
	Start int
	End   int
}

// Len returns the size of the region in bytes.
func (r Region) Len() int { return r.End - r.Start }

// Iterator pulls rows of one table out of a dump buffer. It is single pass
// and must not be shared between goroutines; separate iterators may scan the
// same buffer concurrently.
type Iterator[R any] struct {
	buf   []byte
	pos   int
	dec   Decoder[R]
	table string
	width int

	state      State
	afterTuple bool
	values     []Value
	row        R
	err        error

	rows       int
	statements int
}

// Iterate starts a scan of buf for INSERT statements into dec's table.
func Iterate[R any](buf []byte, dec Decoder[R]) *Iterator[R] {
	return IterateRegion(buf, Region{Start: 0, End: len(buf)}, dec)
}

// IterateRegion scans only r. Offsets in rows and errors stay absolute.
func IterateRegion[R any](buf []byte, r Region, dec Decoder[R]) *Iterator[R] {
	return &Iterator[R]{
		buf:    buf[:r.End],
		pos:    r.Start,
		dec:    dec,
		table:  dec.TableName(),
		width:  dec.Width(),
		values: make([]Value, 0, dec.Width()),
	}
}

// Next advances to the next row. It returns false when the input is
// exhausted or an error occurred; Error tells the two apart.
func (it *Iterator[R]) Next() bool {
	for {
		switch it.state {
		case StateScanning:
			i, err := skipTrivia(it.buf, it.pos)
			if err != nil {
				return it.fail(err)
			}
			it.pos = i
			if i >= len(it.buf) {
				it.state = StateDone
				return false
			}
			if it.buf[i] == ';' {
				it.pos = i + 1
				continue
			}
			if !isWordByte(it.buf[i]) {
				return it.fail(syntaxErr(ErrUnexpectedToken, i, "statement", it.buf))
			}
			name, next, ok := insertHeader(it.buf, i)
			if !ok || !equalFoldASCII(name, it.table) {
				it.state = StateSkippingStatement
				continue
			}
			body, err := valuesClause(it.buf, next)
			if err != nil {
				return it.fail(err)
			}
			it.pos = body
			it.statements++
			it.state = StateInTargetStatement

		case StateSkippingStatement:
			end, err := skipStatement(it.buf, it.pos)
			if err != nil {
				return it.fail(err)
			}
			it.pos = end
			it.state = StateScanning

		case StateInTargetStatement:
			if it.afterTuple {
				it.afterTuple = false
				i := skipSpace(it.buf, it.pos)
				if i >= len(it.buf) {
					return it.fail(eofErr(i, "',' or ';'"))
				}
				switch it.buf[i] {
				case ',':
					it.pos = skipSpace(it.buf, i+1)
				case ';':
					it.pos = i + 1
					it.state = StateScanning
					continue
				default:
					return it.fail(syntaxErr(ErrUnexpectedToken, i, "',' or ';'", it.buf))
				}
			}
			values, next, err := ReadTuple(it.buf, it.pos, it.width, it.values)
			it.values = values
			if err != nil {
				var ce *ColumnCountError
				if errors.As(err, &ce) {
					ce.Table = it.table
				}
				return it.fail(err)
			}
			row, err := it.dec.DecodeRow(values)
			if err != nil {
				var re *RowDecodeError
				if errors.As(err, &re) && re.Table == "" {
					re.Table = it.table
				}
				return it.fail(err)
			}
			it.pos = next
			it.row = row
			it.rows++
			it.afterTuple = true
			return true

		default:
			return false
		}
	}
}

func (it *Iterator[R]) fail(err error) bool {
	var zero R
	it.row = zero
	it.err = err
	it.state = StateError
	return false
}

// Row returns the row produced by the last successful call to Next.
func (it *Iterator[R]) Row() R { return it.row }

// Error returns the error that stopped the scan, or nil after normal
// exhaustion.
func (it *Iterator[R]) Error() error { return it.err }

// State returns the current scan state.
func (it *Iterator[R]) State() State { return it.state }

// Offset returns the current byte offset in the buffer.
func (it *Iterator[R]) Offset() int { return it.pos }

// Rows returns the number of rows yielded so far.
func (it *Iterator[R]) Rows() int { return it.rows }

// Statements returns the number of target INSERT statements entered so far.
func (it *Iterator[R]) Statements() int { return it.statements }

// ForEach calls fn for every remaining row. It stops at the first error
// returned by fn or by the scan.
func (it *Iterator[R]) ForEach(fn func(R) error) error {
	for it.Next() {
		if err := fn(it.row); err != nil {
			return err
		}
	}
	return it.err
}

// All adapts the iterator to a range-over-func sequence. A terminal error is
// delivered as the last pair.
func (it *Iterator[R]) All() iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		for it.Next() {
			if !yield(it.row, nil) {
				return
			}
		}
		if it.err != nil {
			var zero R
			yield(zero, it.err)
		}
	}
}

// Collect drains the iterator into a slice.
func Collect[R any](it *Iterator[R]) ([]R, error) {
	var rows []R
	err := it.ForEach(func(r R) error {
		rows = append(rows, r)
		return nil
	})
	return rows, err
}

// Split cuts buf into at most parts regions of roughly equal size. Cuts only
// fall between statements, so every region can be scanned on its own.
func Split(buf []byte, parts int) ([]Region, error) {
	if parts <= 1 || len(buf) == 0 {
		return []Region{{Start: 0, End: len(buf)}}, nil
	}
	target := len(buf) / parts
	regions := make([]Region, 0, parts)
	start, pos := 0, 0
	for {
		st, err := NextStatement(buf, pos)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		pos = st.End
		if pos-start >= target && len(regions) < parts-1 {
			regions = append(regions, Region{Start: start, End: pos})
			start = pos
		}
	}
	if start < len(buf) || len(regions) == 0 {
		regions = append(regions, Region{Start: start, End: len(buf)})
	}
	return regions, nil
}

// rawDecoder yields the tuple values themselves.
type rawDecoder struct {
	table string
	width int
}

// Raw returns a decoder that yields undecoded tuple values. The slice is
// only valid until the next call to Next.
func Raw(table string, width int) Decoder[[]Value] {
	return rawDecoder{table: table, width: width}
}

func (d rawDecoder) TableName() string { return d.table }

func (d rawDecoder) Width() int { return d.width }

func (d rawDecoder) DecodeRow(values []Value) ([]Value, error) { return values, nil }
