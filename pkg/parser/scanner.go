package parser

import (
	"bytes"
	"io"
)

// State is the position of a scan in the statement state machine.
type State uint8

const (
	// StateScanning looks for the start of the next statement.
	StateScanning State = iota
	// StateInTargetStatement reads tuples of an INSERT into the bound table.
	StateInTargetStatement
	// StateSkippingStatement discards a statement up to its terminating ';'.
	StateSkippingStatement
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateInTargetStatement:
		return "in-target-statement"
	case StateSkippingStatement:
		return "skipping-statement"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// StatementKind classifies a statement found by NextStatement.
type StatementKind uint8

const (
	StatementOther StatementKind = iota
	StatementInsert
)

// Statement describes one top level statement of a dump. For inserts, Table
// is the unquoted table name and Body the offset of the first tuple.
type Statement struct {
	Kind  StatementKind
	Table string
	Start int
	Body  int
	End   int
}

// NextStatement finds the statement that follows pos, skipping whitespace,
// comments and empty statements. End is the offset just past the
// terminating ';'. It returns io.EOF when only trivia remains.
func NextStatement(buf []byte, pos int) (Statement, error) {
	for {
		i, err := skipTrivia(buf, pos)
		if err != nil {
			return Statement{}, err
		}
		if i >= len(buf) {
			return Statement{}, io.EOF
		}
		if buf[i] == ';' {
			pos = i + 1
			continue
		}
		if !isWordByte(buf[i]) {
			return Statement{}, syntaxErr(ErrUnexpectedToken, i, "statement", buf)
		}
		st := Statement{Kind: StatementOther, Start: i, Body: -1}
		if name, next, ok := insertHeader(buf, i); ok {
			st.Kind = StatementInsert
			st.Table = name
			if body, err := valuesClause(buf, next); err == nil {
				st.Body = body
			}
		}
		end, err := skipStatement(buf, i)
		if err != nil {
			return Statement{}, err
		}
		st.End = end
		return st, nil
	}
}

// skipTrivia skips whitespace and comments.
func skipTrivia(buf []byte, i int) (int, error) {
	for {
		i = skipSpace(buf, i)
		if i >= len(buf) {
			return i, nil
		}
		next, ok, err := skipComment(buf, i)
		if err != nil {
			return next, err
		}
		if !ok {
			return i, nil
		}
		i = next
	}
}

// skipComment skips one comment at buf[i] if there is one.
func skipComment(buf []byte, i int) (int, bool, error) {
	switch buf[i] {
	case '#':
		return skipLine(buf, i), true, nil
	case '-':
		if i+1 < len(buf) && buf[i+1] == '-' && (i+2 == len(buf) || isSpace(buf[i+2])) {
			return skipLine(buf, i), true, nil
		}
	case '/':
		if i+1 < len(buf) && buf[i+1] == '*' {
			end := bytes.Index(buf[i+2:], []byte("*/"))
			if end < 0 {
				return len(buf), false, eofErr(len(buf), "'*/'")
			}
			return i + 2 + end + 2, true, nil
		}
	}
	return i, false, nil
}

func skipLine(buf []byte, i int) int {
	nl := bytes.IndexByte(buf[i:], '\n')
	if nl < 0 {
		return len(buf)
	}
	return i + nl + 1
}

// skipStatement returns the offset just past the ';' that ends the statement
// starting at i. Quoted tokens and comments may contain ';'.
func skipStatement(buf []byte, i int) (int, error) {
	for i < len(buf) {
		switch c := buf[i]; c {
		case ';':
			return i + 1, nil
		case '\'', '"', '`':
			next, err := SkipQuoted(buf, i)
			if err != nil {
				return next, err
			}
			i = next
		case '#', '-', '/':
			next, ok, err := skipComment(buf, i)
			if err != nil {
				return next, err
			}
			if !ok {
				next = i + 1
			}
			i = next
		default:
			i++
		}
	}
	return i, eofErr(i, "';'")
}

// insertHeader recognizes `INSERT [modifiers] [INTO] ident` and REPLACE. It
// returns the table name and the offset following it.
func insertHeader(buf []byte, i int) (string, int, bool) {
	switch {
	case matchWord(buf, i, "INSERT"):
		i += len("INSERT")
	case matchWord(buf, i, "REPLACE"):
		i += len("REPLACE")
	default:
		return "", 0, false
	}
	i = skipSpace(buf, i)
	for _, mod := range [...]string{"LOW_PRIORITY", "DELAYED", "HIGH_PRIORITY", "IGNORE", "INTO"} {
		if matchWord(buf, i, mod) {
			i = skipSpace(buf, i+len(mod))
		}
	}
	name, next, ok := readIdent(buf, i)
	if !ok {
		return "", 0, false
	}
	if next < len(buf) && buf[next] == '.' {
		if name, next, ok = readIdent(buf, next+1); !ok {
			return "", 0, false
		}
	}
	return name, next, true
}

// readIdent reads a bare or backtick quoted identifier.
func readIdent(buf []byte, i int) (string, int, bool) {
	if i >= len(buf) {
		return "", i, false
	}
	if buf[i] == '`' {
		end, err := SkipQuoted(buf, i)
		if err != nil {
			return "", i, false
		}
		name := buf[i+1 : end-1]
		if bytes.Contains(name, []byte("``")) {
			return string(bytes.ReplaceAll(name, []byte("``"), []byte("`"))), end, true
		}
		return string(name), end, true
	}
	j := i
	for j < len(buf) && isWordByte(buf[j]) {
		j++
	}
	if j == i {
		return "", i, false
	}
	return string(buf[i:j]), j, true
}

// valuesClause positions a scan at the first tuple of a target insert whose
// table name ends at i. An optional column list is skipped.
func valuesClause(buf []byte, i int) (int, error) {
	var err error
	if i, err = skipTrivia(buf, i); err != nil {
		return i, err
	}
	if i < len(buf) && buf[i] == '(' {
		if i, err = skipParens(buf, i); err != nil {
			return i, err
		}
		if i, err = skipTrivia(buf, i); err != nil {
			return i, err
		}
	}
	if i >= len(buf) {
		return i, eofErr(i, "VALUES")
	}
	switch {
	case matchWord(buf, i, "VALUES"):
		i += len("VALUES")
	case matchWord(buf, i, "VALUE"):
		i += len("VALUE")
	default:
		return i, syntaxErr(ErrUnexpectedToken, i, "VALUES", buf)
	}
	if i, err = skipTrivia(buf, i); err != nil {
		return i, err
	}
	if i >= len(buf) {
		return i, eofErr(i, "'('")
	}
	if buf[i] != '(' {
		return i, syntaxErr(ErrUnexpectedToken, i, "'('", buf)
	}
	return i, nil
}

func skipParens(buf []byte, i int) (int, error) {
	depth := 0
	for i < len(buf) {
		switch buf[i] {
		case '(':
			depth++
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return i, nil
			}
		case '\'', '"', '`':
			next, err := SkipQuoted(buf, i)
			if err != nil {
				return next, err
			}
			i = next
		default:
			i++
		}
	}
	return i, eofErr(i, "')'")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// equalFoldASCII compares identifiers the way table names are matched.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		x, y := a[i], b[i]
		if x >= 'A' && x <= 'Z' {
			x += 'a' - 'A'
		}
		if y >= 'A' && y <= 'Z' {
			y += 'a' - 'A'
		}
		if x != y {
			return false
		}
	}
	return true
}
