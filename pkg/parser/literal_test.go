package parser

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLiteralScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     Kind
		integer  int64
		float    float64
		consumed int
	}{
		{"null", "NULL,", KindNull, 0, 0, 4},
		{"lowercase null", "null)", KindNull, 0, 0, 4},
		{"zero", "0,", KindInteger, 0, 0, 1},
		{"integer", "42)", KindInteger, 42, 0, 2},
		{"negative integer", "-7,", KindInteger, -7, 0, 2},
		{"plus sign", "+3,", KindInteger, 3, 0, 2},
		{"max int64", "9223372036854775807,", KindInteger, 9223372036854775807, 0, 19},
		{"fraction", "0.5,", KindFloat, 0, 0.5, 3},
		{"negative float", "-2.25)", KindFloat, 0, -2.25, 5},
		{"exponent", "-2.5e3,", KindFloat, 0, -2500, 6},
		{"bare exponent", "1E10)", KindFloat, 0, 1e10, 4},
		{"signed exponent", "5e-1,", KindFloat, 0, 0.5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, n, err := ReadLiteral([]byte(tt.input), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.consumed, n)
			switch tt.kind {
			case KindInteger:
				assert.Equal(t, tt.integer, v.Int)
			case KindFloat:
				assert.InDelta(t, tt.float, v.Float, 1e-12)
			}
		})
	}
}

func TestReadLiteralText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		borrowed bool
		valid    bool
	}{
		{"plain", `'Main_Page'`, "Main_Page", true, true},
		{"empty", `''`, "", true, true},
		{"multibyte", `'Zürich'`, "Zürich", true, true},
		{"double quote inside", `'say "hi"'`, `say "hi"`, true, true},
		{"backslash quote", `'Bob\'s_Page'`, "Bob's_Page", false, true},
		{"doubled quote", `'It''s'`, "It's", false, true},
		{"newline escape", `'\n'`, "\n", false, true},
		{"escaped double quote", `'\"-vorous\"'`, `"-vorous"`, false, true},
		{"control escapes", `'\0\b\t\r\Z\\'`, "\x00\b\t\r\x1a\\", false, true},
		{"like wildcards keep backslash", `'50\%\_'`, `50\%\_`, false, true},
		{"unknown escape passes through", `'\q'`, "q", false, true},
		{"invalid utf8", "'\xff\xfe'", "\xff\xfe", false, false},
		{"escape producing invalid utf8", "'\\n\xff'", "\n\xff", false, false},
		{"hex", `0x414243`, "ABC", false, true},
		{"odd hex", `0x141`, "\x01\x41", false, true},
		{"binary hex", `0xFF00`, "\xff\x00", false, false},
		{"quoted hex", `X'4142'`, "AB", false, true},
		{"binary introducer", `_binary 'abc'`, "abc", true, true},
		{"charset introducer", `_utf8mb4'x'`, "x", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []byte(tt.input)
			v, n, err := ReadLiteral(buf, 0)
			require.NoError(t, err)
			require.Equal(t, KindText, v.Kind)
			assert.Equal(t, len(buf), n)
			assert.Equal(t, tt.want, string(v.Text.Bytes()))
			assert.Equal(t, tt.want, v.Text.String())
			assert.Equal(t, tt.borrowed, v.Text.IsBorrowed())
			assert.Equal(t, tt.valid, v.Text.ValidUTF8())
		})
	}
}

func TestReadLiteralBorrowsInput(t *testing.T) {
	buf := []byte(`(7,'Main_Page',NULL)`)
	v, n, err := ReadLiteral(buf, 3)
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, 3, v.Offset)

	off, ok := v.Text.Offset()
	require.True(t, ok)
	assert.Equal(t, 4, off)

	got := v.Text.Bytes()
	require.Len(t, got, 9)
	if unsafe.SliceData(got) != &buf[4] {
		t.Fatalf("borrowed text does not alias the input buffer")
	}
	assert.Equal(t, 9, cap(got), "borrowed slice must not expose the rest of the buffer")
}

func TestReadLiteralErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		err    error
		offset int
	}{
		{"double sign", "--1", ErrInvalidNumericLiteral, 0},
		{"sign without digits", "-x", ErrInvalidNumericLiteral, 0},
		{"empty exponent", "1e,", ErrInvalidNumericLiteral, 0},
		{"signed empty exponent", "1e+)", ErrInvalidNumericLiteral, 0},
		{"two points", "1.2.3", ErrInvalidNumericLiteral, 0},
		{"trailing point", "1.,", ErrInvalidNumericLiteral, 0},
		{"integer overflow", "99999999999999999999,", ErrInvalidNumericLiteral, 0},
		{"float overflow", "1e999,", ErrInvalidNumericLiteral, 0},
		{"letters after digits", "12ab", ErrInvalidNumericLiteral, 0},
		{"empty hex", "0x,", ErrInvalidNumericLiteral, 0},
		{"unterminated string", "'abc", ErrUnexpectedEOF, 4},
		{"unterminated after escape", `'a\'b`, ErrUnexpectedEOF, 5},
		{"unterminated doubled quote", `'abc''`, ErrUnexpectedEOF, 6},
		{"trailing backslash", `'abc\`, ErrInvalidEscape, 4},
		{"bare word", "abc", ErrUnexpectedToken, 0},
		{"nullable prefix", "NULLX", ErrUnexpectedToken, 0},
		{"empty input", "", ErrUnexpectedEOF, 0},
		{"sign at end", "-", ErrUnexpectedEOF, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadLiteral([]byte(tt.input), 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			off, ok := Offset(err)
			require.True(t, ok, "error carries no offset: %v", err)
			assert.Equal(t, tt.offset, off)
		})
	}
}

func TestSkipQuoted(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{`'a;b';`, 5},
		{`'it''s';`, 7},
		{`'a\';b';`, 7},
		{`"x\"y";`, 6},
		{"`tab``le`;", 9},
		{"`a\\`;", 4},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := SkipQuoted([]byte(tt.input), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
