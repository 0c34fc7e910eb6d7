package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package, and by the field
// conversions layered on top of it, unwraps to exactly one of these.
var (
	ErrUnexpectedEOF         = errors.New("unexpected end of input")
	ErrUnexpectedToken       = errors.New("unexpected token")
	ErrInvalidEscape         = errors.New("invalid escape sequence")
	ErrInvalidNumericLiteral = errors.New("invalid numeric literal")
	ErrInvalidUTF8           = errors.New("invalid utf-8 where required")
	ErrColumnCountMismatch   = errors.New("column count mismatch")
	ErrInvalidTimestamp      = errors.New("invalid timestamp")
	ErrTypeConversion        = errors.New("type conversion error")
)

// SyntaxError reports a lexical or structural failure at a byte offset.
type SyntaxError struct {
	Err      error
	Offset   int
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Expected != "" && e.Found != "":
		return fmt.Sprintf("%v at offset %d: expected %s, found %s", e.Err, e.Offset, e.Expected, e.Found)
	case e.Expected != "":
		return fmt.Sprintf("%v at offset %d: expected %s", e.Err, e.Offset, e.Expected)
	default:
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ColumnCountError reports a tuple whose arity differs from the schema width.
type ColumnCountError struct {
	Table    string
	Offset   int
	Expected int
	Found    int
}

func (e *ColumnCountError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: tuple at offset %d has %d values, expected %d", e.Table, e.Offset, e.Found, e.Expected)
	}
	return fmt.Sprintf("tuple at offset %d has %d values, expected %d", e.Offset, e.Found, e.Expected)
}

func (e *ColumnCountError) Unwrap() error {
	return ErrColumnCountMismatch
}

// RowDecodeError reports the first column of a tuple that could not be
// converted into its field type.
type RowDecodeError struct {
	Table      string
	Column     int
	ColumnName string
	Raw        string
	Offset     int
	Err        error
}

func (e *RowDecodeError) Error() string {
	return fmt.Sprintf("%s.%s (column %d) at offset %d: value %s: %v",
		e.Table, e.ColumnName, e.Column, e.Offset, e.Raw, e.Err)
}

func (e *RowDecodeError) Unwrap() error {
	return e.Err
}

// Offset extracts the byte offset carried by any error of this package.
func Offset(err error) (int, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Offset, true
	}
	var ce *ColumnCountError
	if errors.As(err, &ce) {
		return ce.Offset, true
	}
	var re *RowDecodeError
	if errors.As(err, &re) {
		return re.Offset, true
	}
	return 0, false
}

// Snippet returns up to width bytes of context on either side of offset,
// with control characters made visible. Used when printing errors.
func Snippet(buf []byte, offset, width int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(buf) {
		offset = len(buf)
	}
	start := max(offset-width, 0)
	end := min(offset+width, len(buf))
	return fmt.Sprintf("%q", buf[start:end])
}

func syntaxErr(err error, offset int, expected string, buf []byte) *SyntaxError {
	return &SyntaxError{Err: err, Offset: offset, Expected: expected, Found: describe(buf, offset)}
}

func eofErr(offset int, expected string) *SyntaxError {
	return &SyntaxError{Err: ErrUnexpectedEOF, Offset: offset, Expected: expected}
}

// describe renders the token found at offset for error messages.
func describe(buf []byte, offset int) string {
	if offset >= len(buf) {
		return "end of input"
	}
	end := offset + 1
	if isWordByte(buf[offset]) {
		for end < len(buf) && end-offset < 32 && isWordByte(buf[end]) {
			end++
		}
	}
	return fmt.Sprintf("%q", buf[offset:end])
}
