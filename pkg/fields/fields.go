// Package fields converts decoded SQL literals into typed column values.
package fields

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"

	"github.com/bisegni/dumpscan/pkg/parser"
)

// Converter turns one literal into a field value.
type Converter[T any] func(parser.Value) (T, error)

// Reason codes attached to conversion errors.
const (
	ReasonNull     = "null where a value is required"
	ReasonKind     = "wrong literal kind"
	ReasonRange    = "out of range"
	ReasonEncoding = "not valid utf-8"
	ReasonFormat   = "bad format"
	ReasonEnum     = "unknown enumeration value"
)

// ConversionError explains why a literal could not become a field value.
type ConversionError struct {
	Reason string // One of the Reason constants
	Detail string // Human-readable detail
	Err    error  // Sentinel from the parser package, if any
}

func (e *ConversionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	return e.Reason
}

func (e *ConversionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return parser.ErrTypeConversion
}

func nullError() error {
	return &ConversionError{Reason: ReasonNull}
}

func kindError(v parser.Value, want string) error {
	if v.Kind == parser.KindNull {
		return nullError()
	}
	return &ConversionError{Reason: ReasonKind, Detail: fmt.Sprintf("expected %s, found %s", want, v.Kind)}
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integer converts an integer literal into any integer type, rejecting
// values outside the range of T.
func Integer[T integer](v parser.Value) (T, error) {
	if v.Kind != parser.KindInteger {
		return 0, kindError(v, "integer")
	}
	t := T(v.Int)
	if int64(t) != v.Int || (t > 0) != (v.Int > 0) {
		var zero T
		return 0, &ConversionError{Reason: ReasonRange, Detail: fmt.Sprintf("%d does not fit in %T", v.Int, zero)}
	}
	return t, nil
}

// Int64 is Integer[int64] with a name that reads well in schemas.
func Int64(v parser.Value) (int64, error) { return Integer[int64](v) }

// Bool accepts the integers 0 and 1.
func Bool(v parser.Value) (bool, error) {
	if v.Kind != parser.KindInteger {
		return false, kindError(v, "0 or 1")
	}
	switch v.Int {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, &ConversionError{Reason: ReasonRange, Detail: fmt.Sprintf("%d is not a boolean", v.Int)}
}

// OrderedFloat is a float64 that is never NaN, so it has a total order.
type OrderedFloat float64

// Compare returns -1, 0 or 1.
func (f OrderedFloat) Compare(o OrderedFloat) int {
	switch {
	case f < o:
		return -1
	case f > o:
		return 1
	default:
		return 0
	}
}

func (f OrderedFloat) Less(o OrderedFloat) bool { return f < o }

// Float accepts float and integer literals.
func Float(v parser.Value) (OrderedFloat, error) {
	switch v.Kind {
	case parser.KindFloat:
		if math.IsNaN(v.Float) {
			return 0, &ConversionError{Reason: ReasonRange, Detail: "NaN"}
		}
		return OrderedFloat(v.Float), nil
	case parser.KindInteger:
		return OrderedFloat(v.Int), nil
	}
	return 0, kindError(v, "number")
}

// Text converts a string literal holding valid UTF-8 into a string type. The
// result shares memory with the literal, and so with the input buffer when
// the literal was borrowed.
func Text[T ~string](v parser.Value) (T, error) {
	if v.Kind != parser.KindText {
		return "", kindError(v, "string")
	}
	if !v.Text.ValidUTF8() {
		return "", &ConversionError{Reason: ReasonEncoding, Err: parser.ErrInvalidUTF8}
	}
	return T(v.Text.String()), nil
}

// String is Text[string].
func String(v parser.Value) (string, error) { return Text[string](v) }

// Blob is binary column content. It encodes to JSON as a string, with
// invalid UTF-8 replaced by U+FFFD.
type Blob []byte

func (b Blob) MarshalJSON() ([]byte, error) { return json.Marshal(string(b)) }

func (b Blob) String() string { return string(b) }

// Bytes accepts any string literal, including ones that are not UTF-8, such
// as sort keys truncated in the middle of a character.
func Bytes(v parser.Value) (Blob, error) {
	if v.Kind != parser.KindText {
		return nil, kindError(v, "string")
	}
	return Blob(v.Text.Bytes()), nil
}

// Nullable holds a value that may be NULL in the dump.
type Nullable[T any] struct {
	Val   T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Nullable[T] { return Nullable[T]{Val: v, Valid: true} }

// Get returns the value and whether it is present.
func (n Nullable[T]) Get() (T, bool) { return n.Val, n.Valid }

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Val)
}

// Value implements driver.Valuer.
func (n Nullable[T]) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(n.Val)
}

func (n Nullable[T]) String() string {
	if !n.Valid {
		return "NULL"
	}
	return fmt.Sprint(n.Val)
}

// Null lifts conv so that a NULL literal yields an absent value instead of
// an error.
func Null[T any](conv Converter[T]) Converter[Nullable[T]] {
	return func(v parser.Value) (Nullable[T], error) {
		if v.Kind == parser.KindNull {
			return Nullable[T]{}, nil
		}
		t, err := conv(v)
		if err != nil {
			return Nullable[T]{}, err
		}
		return Some(t), nil
	}
}

// Plain reduces a field value to one of nil, int64, float64, bool, string,
// []byte or time.Time. It is used for query records and SQL export.
func Plain(x any) any {
	v, err := driver.DefaultParameterConverter.ConvertValue(x)
	if err != nil {
		return fmt.Sprint(x)
	}
	return v
}
