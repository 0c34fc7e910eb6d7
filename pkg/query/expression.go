package query

import (
	"fmt"
	"strings"
)

// Expression is a boolean expression that can be evaluated against a record
type Expression interface {
	Evaluate(record Record) bool
	String() string
}

// Condition is a simple filter (leaf node)
type Condition struct {
	Filter *Filter
}

func (c *Condition) Evaluate(record Record) bool {
	return c.Filter.Match(record)
}

func (c *Condition) String() string {
	return c.Filter.String()
}

// AndExpression represents Logical AND
type AndExpression struct {
	Left  Expression
	Right Expression
}

func (a *AndExpression) Evaluate(record Record) bool {
	return a.Left.Evaluate(record) && a.Right.Evaluate(record)
}

func (a *AndExpression) String() string {
	return "(" + a.Left.String() + " AND " + a.Right.String() + ")"
}

// OrExpression represents Logical OR
type OrExpression struct {
	Left  Expression
	Right Expression
}

func (o *OrExpression) Evaluate(record Record) bool {
	return o.Left.Evaluate(record) || o.Right.Evaluate(record)
}

func (o *OrExpression) String() string {
	return "(" + o.Left.String() + " OR " + o.Right.String() + ")"
}

// ParseExpression parses a boolean filter such as
// "page_namespace=0 AND (page_len>1000 OR page_is_new=true)". AND binds
// tighter than OR. Keywords inside quotes or parentheses do not split.
func ParseExpression(input string) (Expression, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty expression")
	}

	for _, op := range []string{" OR ", " AND "} {
		parts := splitByOperator(input, op)
		if len(parts) == 1 {
			continue
		}
		expr, err := ParseExpression(parts[0])
		if err != nil {
			return nil, err
		}
		for _, part := range parts[1:] {
			right, err := ParseExpression(part)
			if err != nil {
				return nil, err
			}
			if op == " OR " {
				expr = &OrExpression{Left: expr, Right: right}
			} else {
				expr = &AndExpression{Left: expr, Right: right}
			}
		}
		return expr, nil
	}

	if strings.HasPrefix(input, "(") && strings.HasSuffix(input, ")") && depthAt(input, len(input)-1) == 1 {
		return ParseExpression(input[1 : len(input)-1])
	}

	filterExpr := ParseFilterExpression(input)
	if filterExpr == nil {
		return nil, fmt.Errorf("invalid condition %q", input)
	}
	return &Condition{
		Filter: NewFilter(filterExpr.Field, filterExpr.Operator, literalValue(filterExpr.Value)),
	}, nil
}

// splitByOperator splits s on op, case-insensitively, skipping occurrences
// inside quotes or parentheses.
func splitByOperator(s, op string) []string {
	upper := strings.ToUpper(s)
	var result []string
	depth := 0
	var quote byte
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && strings.HasPrefix(upper[i:], op):
			result = append(result, strings.TrimSpace(s[last:i]))
			last = i + len(op)
			i = last - 1
		}
	}
	return append(result, strings.TrimSpace(s[last:]))
}

// depthAt returns the parenthesis depth just before position end.
func depthAt(s string, end int) int {
	depth := 0
	var quote byte
	for i := 0; i < end; i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return 0
			}
		}
	}
	return depth
}
