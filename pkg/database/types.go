package database

// Row is a single decoded dump row as seen by the query engine.
type Row interface {
	// Get returns the value of a column or of a path expression over the
	// row's columns.
	Get(field string) (interface{}, error)
	// Primitive returns the underlying data structure.
	Primitive() interface{}
}

// RowIterator allows iterating over rows in a table.
type RowIterator interface {
	// Next advances the iterator. Returns false if no more rows or error.
	Next() bool
	// Row returns the current row.
	Row() Row
	// Error returns any error that occurred during iteration.
	Error() error
	// Close releases resources.
	Close() error
}

// Table represents a dataset that can be scanned any number of times.
type Table interface {
	Iterate() (RowIterator, error)
}
