// Package export writes decoded rows to JSON, JSON Lines and SQLite.
package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// Format selects the JSON layout of a RowWriter.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatJSONL:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported output format %q (want json or jsonl)", s)
}

// RowWriter streams rows without holding them in memory. For FormatJSON the
// rows are wrapped in a single array that Close terminates.
type RowWriter struct {
	w       io.Writer
	enc     *json.Encoder
	format  Format
	pretty  bool
	written int
}

func NewRowWriter(w io.Writer, format Format, pretty bool) *RowWriter {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &RowWriter{w: w, enc: enc, format: format, pretty: pretty}
}

// Write encodes one row.
func (rw *RowWriter) Write(row any) error {
	if rw.format == FormatJSON {
		sep := ","
		if rw.written == 0 {
			sep = "["
		}
		if rw.pretty {
			sep += "\n"
		}
		if _, err := io.WriteString(rw.w, sep); err != nil {
			return err
		}
	}
	rw.written++
	return rw.enc.Encode(row)
}

// Written returns the number of rows encoded so far.
func (rw *RowWriter) Written() int { return rw.written }

// Close finishes the JSON array. It does not close the underlying writer.
func (rw *RowWriter) Close() error {
	if rw.format != FormatJSON {
		return nil
	}
	end := "]\n"
	if rw.written == 0 {
		end = "[]\n"
	}
	_, err := io.WriteString(rw.w, end)
	return err
}

// WriteJSON writes records as one JSON array.
func WriteJSON[T any](w io.Writer, records []T, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if records == nil {
		records = []T{}
	}
	return encoder.Encode(records)
}

// WriteJSONL writes records as JSON Lines.
func WriteJSONL[T any](w io.Writer, records []T, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return err
		}
	}
	return nil
}
