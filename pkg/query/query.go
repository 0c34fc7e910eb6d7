package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one decoded row keyed by column name.
type Record map[string]interface{}

// Query represents a path-based query
type Query struct {
	Path string
}

// NewQuery creates a new query from a path string
func NewQuery(path string) *Query {
	return &Query{Path: path}
}

// Extract extracts values from a record using the path
func (q *Query) Extract(record Record) (interface{}, error) {
	if q.Path == "" || q.Path == "." {
		return record, nil
	}

	parts := parsePath(q.Path)
	return extractValue(record, parts)
}

var operators = []string{">=", "<=", "!=", "~=", ">", "<", "="}

// parsePath parses a dot-separated path into parts
func parsePath(path string) []string {
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return []string{}
	}

	// A dot is a separator unless the segment after it holds an operator,
	// so "page_len>1.5" stays in one part. After a wildcard it always splits.
	var parts []string
	var current strings.Builder

	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			isSeparator := true
			rest := path[i+1:]
			segment := rest
			if nextDot := strings.Index(rest, "."); nextDot != -1 {
				segment = rest[:nextDot]
			}

			for _, op := range operators {
				if strings.Contains(segment, op) {
					isSeparator = current.String() == "*" || current.String() == "%"
					break
				}
			}

			if isSeparator {
				parts = append(parts, current.String())
				current.Reset()
				continue
			}
		}
		current.WriteByte(path[i])
	}
	parts = append(parts, current.String())

	var filtered []string
	for _, p := range parts {
		if p != "" {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// extractFromMap handles one path part against a row: a column name, an
// inline condition on the row, or a wildcard over column names.
func extractFromMap(m map[string]interface{}, part string, remaining []string) (interface{}, error) {
	if IsFilterExpression(part) && !strings.HasPrefix(part, "*") && !strings.HasPrefix(part, "%") {
		if expr := ParseFilterExpression(part); expr != nil {
			f := NewFilter(expr.Field, expr.Operator, literalValue(expr.Value))
			if f.Match(m) {
				return extractValue(m, remaining)
			}
			return nil, fmt.Errorf("filter '%s' did not match", part)
		}
	}

	if !strings.HasPrefix(part, "*") && !strings.HasPrefix(part, "%") {
		if val, ok := m[part]; ok {
			return extractValue(val, remaining)
		}
		return nil, fmt.Errorf("column '%s' not found", part)
	}

	var operator, filterValue string
	if part == "*" || part == "%" {
		operator = "*"
	} else {
		for _, op := range operators {
			if strings.HasPrefix(part[1:], op) {
				operator = op
				filterValue = unquote(part[1+len(op):])
				break
			}
		}
		if operator == "" {
			return nil, fmt.Errorf("invalid wildcard filter: %s", part)
		}
	}

	results := make(map[string]interface{})
	for k, v := range m {
		match := false
		switch operator {
		case "*":
			match = true
		case "=":
			match = k == filterValue
		case "!=":
			match = k != filterValue
		case "~=":
			match = strings.Contains(k, filterValue)
		case ">":
			match = k > filterValue
		case ">=":
			match = k >= filterValue
		case "<":
			match = k < filterValue
		case "<=":
			match = k <= filterValue
		}

		if match {
			if val, err := extractValue(v, remaining); err == nil {
				results[k] = val
			}
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no columns matched wildcard filter '%s'", part)
	}
	return results, nil
}

func extractValue(data interface{}, parts []string) (interface{}, error) {
	if len(parts) == 0 {
		return data, nil
	}

	part := parts[0]
	remaining := parts[1:]

	switch v := data.(type) {
	case Record:
		return extractFromMap(v, part, remaining)
	case map[string]interface{}:
		return extractFromMap(v, part, remaining)
	default:
		return nil, fmt.Errorf("cannot access '%s' on type %T", part, data)
	}
}

// Filter represents a filtering condition
type Filter struct {
	Field    string
	Operator string
	Value    interface{}
}

// NewFilter creates a new filter
func NewFilter(field, operator string, value interface{}) *Filter {
	return &Filter{
		Field:    field,
		Operator: strings.ToLower(operator),
		Value:    value,
	}
}

func (f *Filter) String() string {
	if s, ok := f.Value.(string); ok {
		return fmt.Sprintf("%s %s '%s'", f.Field, f.Operator, s)
	}
	return fmt.Sprintf("%s %s %v", f.Field, f.Operator, f.Value)
}

// Match checks if a record matches the filter
func (f *Filter) Match(record Record) bool {
	value, err := NewQuery(f.Field).Extract(record)
	if err != nil {
		return false
	}
	return f.matchValue(value)
}

func (f *Filter) matchValue(value interface{}) bool {
	// A wildcard path yields a map of columns; any of them may match.
	if m, ok := value.(map[string]interface{}); ok {
		for _, val := range m {
			if f.matchValue(val) {
				return true
			}
		}
		return false
	}

	switch f.Operator {
	case "=", "==":
		return compareEqual(value, f.Value)
	case "!=":
		return !compareEqual(value, f.Value)
	case ">":
		return compareGreater(value, f.Value)
	case ">=":
		return compareGreaterEqual(value, f.Value)
	case "<":
		return compareLess(value, f.Value)
	case "<=":
		return compareLessEqual(value, f.Value)
	case "contains", "~=":
		return containsValue(value, f.Value)
	default:
		return false
	}
}

func compareEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := numeric(a); ok {
		if bf, ok := numeric(b); ok {
			return af == bf
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func compareGreater(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af > bf
	}
	return false
}

func compareGreaterEqual(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af >= bf
	}
	return false
}

func compareLess(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af < bf
	}
	return false
}

func compareLessEqual(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af <= bf
	}
	return false
}

func containsValue(a, b interface{}) bool {
	if a == nil {
		return false
	}
	aStr, ok := a.(string)
	if !ok {
		aStr = fmt.Sprintf("%v", a)
	}
	bStr, ok := b.(string)
	if !ok {
		bStr = fmt.Sprintf("%v", b)
	}
	return strings.Contains(aStr, bStr)
}

// numeric converts only values that are numbers already.
func numeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	if f, ok := numeric(v); ok {
		return f, true
	}
	if v == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
	return f, err == nil
}

// FilterExpr represents a parsed filter expression
type FilterExpr struct {
	Field    string
	Operator string
	Value    string
}

// IsFilterExpression checks if a string looks like a filter expression (contains an operator)
// and does NOT start with a dot (which signifies a path query)
func IsFilterExpression(expr string) bool {
	if strings.HasPrefix(expr, ".") {
		return false
	}
	for _, op := range operators {
		if strings.Contains(expr, op) {
			return true
		}
	}
	return false
}

// ParseFilterExpression parses expressions like "page_len>1000",
// "page_title=Main_Page", "page_content_model!=wikitext"
func ParseFilterExpression(expr string) *FilterExpr {
	for _, op := range operators {
		if idx := strings.Index(expr, op); idx > 0 {
			field := strings.TrimSpace(expr[:idx])
			value := strings.TrimSpace(expr[idx+len(op):])

			if field != "" && value != "" {
				internalOp := op
				if op == "~=" {
					internalOp = "contains"
				}
				return &FilterExpr{
					Field:    field,
					Operator: internalOp,
					Value:    unquote(value),
				}
			}
		}
	}

	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// literalValue types a command line value: numbers and booleans compare as
// such, everything else as text.
func literalValue(s string) interface{} {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	return s
}
