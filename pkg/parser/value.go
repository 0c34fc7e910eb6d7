package parser

import (
	"strconv"
	"unsafe"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one decoded SQL literal. Only the field matching Kind is
// meaningful. Offset is the absolute position of the literal in the input.
type Value struct {
	Kind   Kind
	Int    int64
	Float  float64
	Text   Text
	Offset int
}

// Text is the payload of a string or hex literal. A borrowed text is a view
// over the input buffer; an owned text was produced by unescaping or hex
// decoding. Neither is ever written after construction.
type Text struct {
	b     []byte
	off   int
	valid bool
}

func borrowedText(buf []byte, start, end int, valid bool) Text {
	return Text{b: buf[start:end:end], off: start, valid: valid}
}

func ownedText(b []byte, valid bool) Text {
	return Text{b: b, off: -1, valid: valid}
}

// Bytes returns the decoded bytes. Callers must not modify them.
func (t Text) Bytes() []byte { return t.b }

// Len returns the decoded length in bytes.
func (t Text) Len() int { return len(t.b) }

// String views the bytes as a string without copying.
func (t Text) String() string {
	if len(t.b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(t.b), len(t.b))
}

// IsBorrowed reports whether the text references the input buffer.
func (t Text) IsBorrowed() bool { return t.off >= 0 }

// Offset returns the position of a borrowed text inside the input buffer.
func (t Text) Offset() (int, bool) {
	if t.off < 0 {
		return 0, false
	}
	return t.off, true
}

// ValidUTF8 reports whether the decoded bytes are well-formed UTF-8.
func (t Text) ValidUTF8() bool { return t.valid }

// IsNull reports whether v is the SQL NULL literal.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Raw renders v in SQL-ish form for diagnostics.
func (v Value) Raw() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindText:
		s := v.Text.String()
		if len(s) > 64 {
			s = s[:64] + "..."
		}
		return strconv.Quote(s)
	default:
		return v.Kind.String()
	}
}

// Interface returns a plain Go value: nil, int64, float64, or string for
// valid UTF-8 text and []byte otherwise. Strings are copied.
func (v Value) Interface() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	case KindText:
		if v.Text.valid {
			return string(v.Text.b)
		}
		return append([]byte(nil), v.Text.b...)
	default:
		return nil
	}
}
