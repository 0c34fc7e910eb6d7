package parser

// ReadTuple parses a parenthesized, comma separated list of literals starting
// at buf[pos] and checks that it holds exactly width values. The values are
// appended to dst[:0], so a caller can recycle one slice across tuples. On
// success it returns the values and the offset just past the closing paren.
func ReadTuple(buf []byte, pos, width int, dst []Value) ([]Value, int, error) {
	dst = dst[:0]
	if pos >= len(buf) {
		return dst, pos, eofErr(pos, "'('")
	}
	if buf[pos] != '(' {
		return dst, pos, syntaxErr(ErrUnexpectedToken, pos, "'('", buf)
	}
	start := pos
	i := skipSpace(buf, pos+1)
	if i < len(buf) && buf[i] == ')' {
		if width != 0 {
			return dst, i, &ColumnCountError{Offset: start, Expected: width}
		}
		return dst, i + 1, nil
	}
	for {
		if i >= len(buf) {
			return dst, i, eofErr(i, "literal")
		}
		v, n, err := ReadLiteral(buf, i)
		if err != nil {
			return dst, i, err
		}
		dst = append(dst, v)
		i = skipSpace(buf, i+n)
		if i >= len(buf) {
			return dst, i, eofErr(i, "',' or ')'")
		}
		switch buf[i] {
		case ',':
			i = skipSpace(buf, i+1)
		case ')':
			if len(dst) != width {
				return dst, i, &ColumnCountError{Offset: start, Expected: width, Found: len(dst)}
			}
			return dst, i + 1, nil
		default:
			return dst, i, syntaxErr(ErrUnexpectedToken, i, "',' or ')'", buf)
		}
	}
}

func skipSpace(buf []byte, i int) int {
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			i++
		default:
			return i
		}
	}
	return i
}
