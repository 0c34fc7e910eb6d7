package fields

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bisegni/dumpscan/pkg/parser"
)

const (
	compactLayout = "20060102150405"
	isoLayout     = "2006-01-02 15:04:05"
)

// Timestamp is a MediaWiki timestamp, always in UTC.
type Timestamp struct {
	time.Time
}

// ParseTimestamp accepts YYYYMMDDhhmmss and YYYY-MM-DD hh:mm:ss.
func ParseTimestamp(v parser.Value) (Timestamp, error) {
	if v.Kind != parser.KindText {
		return Timestamp{}, kindError(v, "timestamp string")
	}
	return parseTimestamp(v.Text.Bytes())
}

func parseTimestamp(b []byte) (Timestamp, error) {
	var layout string
	switch {
	case len(b) == len(compactLayout) && allDigits(b):
		layout = compactLayout
	case len(b) == len(isoLayout) && isoShape(b):
		layout = isoLayout
	default:
		return Timestamp{}, timestampError(b, "unrecognized layout")
	}
	t, err := time.Parse(layout, string(b))
	if err != nil {
		return Timestamp{}, timestampError(b, err.Error())
	}
	return Timestamp{t}, nil
}

func timestampError(b []byte, detail string) error {
	return &ConversionError{
		Reason: ReasonFormat,
		Detail: fmt.Sprintf("%q: %s", b, detail),
		Err:    parser.ErrInvalidTimestamp,
	}
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isoShape checks the separators of "YYYY-MM-DD hh:mm:ss".
func isoShape(b []byte) bool {
	for i, c := range b {
		switch i {
		case 4, 7:
			if c != '-' {
				return false
			}
		case 10:
			if c != ' ' {
				return false
			}
		case 13, 16:
			if c != ':' {
				return false
			}
		default:
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

// String renders the compact form used in dumps.
func (t Timestamp) String() string { return t.Format(compactLayout) }

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) { return t.Time, nil }

// Expiry is a timestamp or "infinity".
type Expiry struct {
	Timestamp
	Infinite bool
}

// ParseExpiry accepts a timestamp or the word infinity.
func ParseExpiry(v parser.Value) (Expiry, error) {
	if v.Kind == parser.KindText && v.Text.String() == "infinity" {
		return Expiry{Infinite: true}, nil
	}
	ts, err := ParseTimestamp(v)
	if err != nil {
		return Expiry{}, err
	}
	return Expiry{Timestamp: ts}, nil
}

func (e Expiry) String() string {
	if e.Infinite {
		return "infinity"
	}
	return e.Timestamp.String()
}

func (e Expiry) Value() (driver.Value, error) {
	if e.Infinite {
		return "infinity", nil
	}
	return e.Time, nil
}

func (e Expiry) MarshalJSON() ([]byte, error) {
	if e.Infinite {
		return []byte(`"infinity"`), nil
	}
	return json.Marshal(e.Time)
}
