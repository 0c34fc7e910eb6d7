package fields

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/bisegni/dumpscan/pkg/parser"
)

// Title is a page title as stored in the database: no namespace prefix and
// underscores in place of spaces.
type Title string

// Readable replaces underscores with spaces.
func (t Title) Readable() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// FullTitle is a title including its namespace prefix, with spaces, as used
// by langlinks.ll_title.
type FullTitle string

// CaseInsensitive is a string compared without regard to case, such as a
// language code or a site key.
type CaseInsensitive string

// Fold returns the case folded form used for comparisons.
func (c CaseInsensitive) Fold() string {
	return cases.Fold().String(string(c))
}

// Equal compares under Unicode case folding.
func (c CaseInsensitive) Equal(o CaseInsensitive) bool {
	if c == o {
		return true
	}
	return c.Fold() == o.Fold()
}

type (
	Sha1      string
	MinorMime string
	UserGroup string
)

// ParseTitle is Text[Title]. Titles never contain spaces.
func ParseTitle(v parser.Value) (Title, error) {
	t, err := Text[Title](v)
	if err != nil {
		return "", err
	}
	if strings.IndexByte(string(t), ' ') >= 0 {
		return "", &ConversionError{Reason: ReasonFormat, Detail: "title contains a space"}
	}
	return t, nil
}
