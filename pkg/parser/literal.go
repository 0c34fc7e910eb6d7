package parser

import (
	"math"
	"strconv"
	"unicode/utf8"
	"unsafe"
)

// ReadLiteral decodes the SQL literal that starts exactly at buf[pos]. It
// returns the value and the number of bytes consumed.
func ReadLiteral(buf []byte, pos int) (Value, int, error) {
	if pos >= len(buf) {
		return Value{}, 0, eofErr(pos, "literal")
	}
	switch c := buf[pos]; {
	case c == '\'':
		return readString(buf, pos, pos)
	case c == 'N' || c == 'n':
		if matchWord(buf, pos, "NULL") {
			return Value{Kind: KindNull, Offset: pos}, 4, nil
		}
	case c == '0' && pos+1 < len(buf) && (buf[pos+1] == 'x' || buf[pos+1] == 'X'):
		return readHex(buf, pos)
	case (c == 'x' || c == 'X') && pos+1 < len(buf) && buf[pos+1] == '\'':
		return readQuotedHex(buf, pos)
	case c == '-' || c == '+' || isDigit(c):
		return readNumber(buf, pos)
	case c == '_':
		return readIntroduced(buf, pos)
	}
	return Value{}, 0, syntaxErr(ErrUnexpectedToken, pos, "literal", buf)
}

// SkipQuoted returns the offset just past the quoted token starting at
// buf[pos]. Single and double quoted strings honor backslash escapes and
// doubled quotes; backtick identifiers honor only doubling.
func SkipQuoted(buf []byte, pos int) (int, error) {
	quote := buf[pos]
	backslash := quote != '`'
	i := pos + 1
	for i < len(buf) {
		switch buf[i] {
		case '\\':
			if !backslash {
				i++
				continue
			}
			if i+1 >= len(buf) {
				return i, &SyntaxError{Err: ErrInvalidEscape, Offset: i, Found: "trailing backslash"}
			}
			i += 2
		case quote:
			if i+1 < len(buf) && buf[i+1] == quote {
				i += 2
				continue
			}
			return i + 1, nil
		default:
			i++
		}
	}
	return i, eofErr(i, "closing "+string(quote))
}

// readString decodes a single-quoted string at buf[pos]. start is where the
// literal began, which differs from pos when a charset introducer precedes
// the quote.
func readString(buf []byte, start, pos int) (Value, int, error) {
	i := pos + 1
	for i < len(buf) {
		switch buf[i] {
		case '\\':
			return unescapeString(buf, start, pos, i)
		case '\'':
			if i+1 < len(buf) && buf[i+1] == '\'' {
				return unescapeString(buf, start, pos, i)
			}
			body := buf[pos+1 : i]
			var text Text
			if utf8.Valid(body) {
				text = borrowedText(buf, pos+1, i, true)
			} else {
				text = ownedText(append([]byte(nil), body...), false)
			}
			return Value{Kind: KindText, Text: text, Offset: start}, i + 1 - start, nil
		default:
			i++
		}
	}
	return Value{}, 0, eofErr(i, "closing quote")
}

// unescapeString continues a string scan from the first escape at buf[i],
// copying the already scanned prefix into a fresh buffer.
func unescapeString(buf []byte, start, pos, i int) (Value, int, error) {
	out := make([]byte, i-pos-1, i-pos+15)
	copy(out, buf[pos+1:i])
	for i < len(buf) {
		c := buf[i]
		switch c {
		case '\\':
			if i+1 >= len(buf) {
				return Value{}, 0, &SyntaxError{Err: ErrInvalidEscape, Offset: i, Found: "trailing backslash"}
			}
			out = appendEscape(out, buf[i+1])
			i += 2
		case '\'':
			if i+1 < len(buf) && buf[i+1] == '\'' {
				out = append(out, '\'')
				i += 2
				continue
			}
			text := ownedText(out, utf8.Valid(out))
			return Value{Kind: KindText, Text: text, Offset: start}, i + 1 - start, nil
		default:
			out = append(out, c)
			i++
		}
	}
	return Value{}, 0, eofErr(i, "closing quote")
}

func appendEscape(out []byte, c byte) []byte {
	switch c {
	case '0':
		return append(out, 0)
	case 'b':
		return append(out, '\b')
	case 'n':
		return append(out, '\n')
	case 'r':
		return append(out, '\r')
	case 't':
		return append(out, '\t')
	case 'Z':
		return append(out, 0x1A)
	case '%', '_':
		// LIKE wildcards keep their backslash outside of LIKE patterns.
		return append(out, '\\', c)
	default:
		return append(out, c)
	}
}

// readIntroduced handles a charset introducer such as _binary or _utf8mb4
// in front of a quoted string.
func readIntroduced(buf []byte, pos int) (Value, int, error) {
	i := pos + 1
	for i < len(buf) && isWordByte(buf[i]) {
		i++
	}
	if i == pos+1 {
		return Value{}, 0, syntaxErr(ErrUnexpectedToken, pos, "literal", buf)
	}
	i = skipSpace(buf, i)
	if i >= len(buf) {
		return Value{}, 0, eofErr(i, "string after charset introducer")
	}
	if buf[i] != '\'' {
		return Value{}, 0, syntaxErr(ErrUnexpectedToken, i, "string after charset introducer", buf)
	}
	return readString(buf, pos, i)
}

func readNumber(buf []byte, pos int) (Value, int, error) {
	i := pos
	if buf[i] == '-' || buf[i] == '+' {
		i++
	}
	digits := scanDigits(buf, i)
	if digits == 0 {
		if i >= len(buf) {
			return Value{}, 0, eofErr(i, "digits")
		}
		return Value{}, 0, numberErr(buf, pos, i)
	}
	i += digits
	float := false
	if i < len(buf) && buf[i] == '.' {
		float = true
		i++
		n := scanDigits(buf, i)
		if n == 0 {
			return Value{}, 0, numberErr(buf, pos, i)
		}
		i += n
	}
	if i < len(buf) && (buf[i] == 'e' || buf[i] == 'E') {
		float = true
		i++
		if i < len(buf) && (buf[i] == '-' || buf[i] == '+') {
			i++
		}
		n := scanDigits(buf, i)
		if n == 0 {
			return Value{}, 0, numberErr(buf, pos, i)
		}
		i += n
	}
	if i < len(buf) && (isWordByte(buf[i]) || buf[i] == '.' || buf[i] == '-' || buf[i] == '+') {
		return Value{}, 0, numberErr(buf, pos, i)
	}

	lit := unsafe.String(unsafe.SliceData(buf[pos:]), i-pos)
	if !float {
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return Value{}, 0, numberErr(buf, pos, pos)
		}
		return Value{Kind: KindInteger, Int: n, Offset: pos}, i - pos, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, 0, numberErr(buf, pos, pos)
	}
	return Value{Kind: KindFloat, Float: f, Offset: pos}, i - pos, nil
}

func numberErr(buf []byte, start, at int) *SyntaxError {
	end := at
	for end < len(buf) && end-start < 64 && (isWordByte(buf[end]) || buf[end] == '.' || buf[end] == '-' || buf[end] == '+') {
		end++
	}
	return &SyntaxError{Err: ErrInvalidNumericLiteral, Offset: start, Found: strconv.Quote(string(buf[start:max(end, at)]))}
}

// readHex decodes a 0x literal. Odd digit counts are left padded with zero.
func readHex(buf []byte, pos int) (Value, int, error) {
	i := pos + 2
	for i < len(buf) && isHexDigit(buf[i]) {
		i++
	}
	if i == pos+2 || (i < len(buf) && isWordByte(buf[i])) {
		return Value{}, 0, numberErr(buf, pos, i)
	}
	out := decodeHex(buf[pos+2 : i])
	return Value{Kind: KindText, Text: ownedText(out, utf8.Valid(out)), Offset: pos}, i - pos, nil
}

// readQuotedHex decodes the X'..' form of a hex literal.
func readQuotedHex(buf []byte, pos int) (Value, int, error) {
	i := pos + 2
	for i < len(buf) && isHexDigit(buf[i]) {
		i++
	}
	if i >= len(buf) {
		return Value{}, 0, eofErr(i, "closing quote")
	}
	if buf[i] != '\'' {
		return Value{}, 0, numberErr(buf, pos, i)
	}
	out := decodeHex(buf[pos+2 : i])
	return Value{Kind: KindText, Text: ownedText(out, utf8.Valid(out)), Offset: pos}, i + 1 - pos, nil
}

func decodeHex(digits []byte) []byte {
	out := make([]byte, (len(digits)+1)/2)
	j := 0
	if len(digits)%2 == 1 {
		out[0] = unhex(digits[0])
		digits = digits[1:]
		j = 1
	}
	for k := 0; k < len(digits); k += 2 {
		out[j] = unhex(digits[k])<<4 | unhex(digits[k+1])
		j++
	}
	return out
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func scanDigits(buf []byte, i int) int {
	n := 0
	for i+n < len(buf) && isDigit(buf[i+n]) {
		n++
	}
	return n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= 0x80
}

// matchWord reports whether buf[pos:] starts with word, compared ASCII
// case-insensitively, and the word is not a prefix of a longer identifier.
func matchWord(buf []byte, pos int, word string) bool {
	if len(buf)-pos < len(word) {
		return false
	}
	for k := 0; k < len(word); k++ {
		if buf[pos+k]|0x20 != word[k]|0x20 {
			return false
		}
	}
	end := pos + len(word)
	return end >= len(buf) || !isWordByte(buf[end])
}
