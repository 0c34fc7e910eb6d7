package query

import (
	"testing"
)

func pageRecord() Record {
	return Record{
		"page_id":            int64(10),
		"page_namespace":     int64(0),
		"page_title":         "AccessibleComputing",
		"page_is_redirect":   true,
		"page_is_new":        false,
		"page_random":        0.33167112649574,
		"page_touched":       "2021-07-01T01:48:33Z",
		"page_links_updated": nil,
		"page_len":           int64(111),
		"page_content_model": "wikitext",
		"page_lang":          nil,
	}
}

func TestQueryExtract(t *testing.T) {
	record := pageRecord()

	tests := []struct {
		name     string
		path     string
		expected interface{}
		wantErr  bool
	}{
		{
			name:     "text column",
			path:     "page_title",
			expected: "AccessibleComputing",
		},
		{
			name:     "integer column",
			path:     "page_len",
			expected: int64(111),
		},
		{
			name:     "leading dot",
			path:     ".page_id",
			expected: int64(10),
		},
		{
			name:     "null column",
			path:     "page_lang",
			expected: nil,
		},
		{
			name:     "inline condition matches",
			path:     "page_namespace=0.page_title",
			expected: "AccessibleComputing",
		},
		{
			name:    "inline condition fails",
			path:    "page_namespace=1.page_title",
			wantErr: true,
		},
		{
			name:    "non-existent column",
			path:    "page_counter",
			wantErr: true,
		},
		{
			name:    "path below a scalar",
			path:    "page_title.length",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewQuery(tt.path).Extract(record)
			if (err != nil) != tt.wantErr {
				t.Errorf("Extract() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result != tt.expected {
				t.Errorf("Extract() = %v, want %v", result, tt.expected)
			}
		})
	}

	whole, err := NewQuery(".").Extract(record)
	if err != nil {
		t.Fatalf("Extract(.) failed: %v", err)
	}
	if _, ok := whole.(Record); !ok {
		t.Errorf("Extract(.) should return Record, got %T", whole)
	}
}

func TestFilterMatch(t *testing.T) {
	record := pageRecord()

	tests := []struct {
		name     string
		field    string
		operator string
		value    interface{}
		expected bool
	}{
		{"equal text", "page_title", "=", "AccessibleComputing", true},
		{"not equal text", "page_title", "!=", "Anarchism", true},
		{"integer equals float literal", "page_namespace", "=", float64(0), true},
		{"integer does not equal text", "page_namespace", "=", "zero", false},
		{"greater than", "page_len", ">", float64(100), true},
		{"less than", "page_len", "<", float64(100), false},
		{"greater or equal", "page_len", ">=", float64(111), true},
		{"less or equal", "page_random", "<=", 0.5, true},
		{"bool", "page_is_redirect", "=", true, true},
		{"bool mismatch", "page_is_new", "=", true, false},
		{"null equals null", "page_lang", "=", nil, true},
		{"null not equal value", "page_lang", "!=", "en", true},
		{"null is not greater", "page_lang", ">", float64(0), false},
		{"contains", "page_title", "CONTAINS", "Computing", true},
		{"contains short form", "page_content_model", "~=", "text", true},
		{"does not contain", "page_title", "contains", "Boston", false},
		{"missing column", "page_counter", "=", float64(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.field, tt.operator, tt.value)
			if got := f.Match(record); got != tt.expected {
				t.Errorf("Match() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWildcardColumnExtract(t *testing.T) {
	record := Record{
		"cl_from":    int64(12),
		"cl_to":      "Living_people",
		"cl_sortkey": "SMITH, JOHN",
		"cl_type":    "page",
	}

	tests := []struct {
		name     string
		path     string
		expected map[string]interface{}
		wantErr  bool
	}{
		{
			name: "match all",
			path: "*",
			expected: map[string]interface{}{
				"cl_from":    int64(12),
				"cl_to":      "Living_people",
				"cl_sortkey": "SMITH, JOHN",
				"cl_type":    "page",
			},
		},
		{
			name: "contains",
			path: "*~=sort",
			expected: map[string]interface{}{
				"cl_sortkey": "SMITH, JOHN",
			},
		},
		{
			name: "equals",
			path: "*=cl_to",
			expected: map[string]interface{}{
				"cl_to": "Living_people",
			},
		},
		{
			name: "not equals",
			path: "*!=cl_from",
			expected: map[string]interface{}{
				"cl_to":      "Living_people",
				"cl_sortkey": "SMITH, JOHN",
				"cl_type":    "page",
			},
		},
		{
			name: "greater or equal",
			path: "*>=cl_t",
			expected: map[string]interface{}{
				"cl_to":   "Living_people",
				"cl_type": "page",
			},
		},
		{
			name: "shell-safe wildcard",
			path: "%~=from",
			expected: map[string]interface{}{
				"cl_from": int64(12),
			},
		},
		{
			name:    "no match",
			path:    "*=cl_timestamp",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewQuery(tt.path).Extract(record)
			if (err != nil) != tt.wantErr {
				t.Errorf("Extract() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			got, ok := result.(map[string]interface{})
			if !ok {
				t.Fatalf("Expected map[string]interface{}, got %T", result)
			}
			if len(got) != len(tt.expected) {
				t.Errorf("Expected %d results, got %d", len(tt.expected), len(got))
			}
			for k, v := range tt.expected {
				if got[k] != v {
					t.Errorf("For key %s, expected %v, got %v", k, v, got[k])
				}
			}
		})
	}
}

func TestWildcardFilterMatchesAnyColumn(t *testing.T) {
	record := Record{"ll_lang": "de", "ll_title": "Berlin"}
	if !NewFilter("*~=ll_", "=", "Berlin").Match(record) {
		t.Error("expected a wildcard filter to match when any column matches")
	}
	if NewFilter("*", "=", "Paris").Match(record) {
		t.Error("expected no match")
	}
}

func TestParseFilterExpression(t *testing.T) {
	tests := []struct {
		in   string
		want *FilterExpr
	}{
		{"page_len>1000", &FilterExpr{"page_len", ">", "1000"}},
		{"page_len >= 1000", &FilterExpr{"page_len", ">=", "1000"}},
		{"page_title='Main_Page'", &FilterExpr{"page_title", "=", "Main_Page"}},
		{"page_title~=Main", &FilterExpr{"page_title", "contains", "Main"}},
		{"page_lang!=en", &FilterExpr{"page_lang", "!=", "en"}},
		{"page_title", nil},
		{"=value", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseFilterExpression(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseFilterExpression() = %+v, want nil", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("ParseFilterExpression() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if IsFilterExpression(".page_title") {
		t.Error("a dotted path is not a filter expression")
	}
}
