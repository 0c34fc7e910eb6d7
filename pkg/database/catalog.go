package database

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Catalog manages a collection of named tables
type Catalog struct {
	tables map[string]Table
	mu     sync.RWMutex
}

// NewCatalog creates a new empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		tables: make(map[string]Table),
	}
}

// RegisterTable adds a table to the catalog. Names are case-insensitive.
func (c *Catalog) RegisterTable(name string, t Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[strings.ToLower(name)] = t
}

// GetTable retrieves a table by name
func (c *Catalog) GetTable(name string) (Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found", name)
	}
	return t, nil
}

// Names returns the registered table names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the only table when exactly one is registered.
func (c *Catalog) Default() (Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.tables) != 1 {
		return nil, fmt.Errorf("query has no FROM clause and the catalog holds %d tables", len(c.tables))
	}
	for _, t := range c.tables {
		return t, nil
	}
	return nil, nil
}

// Close closes every table that holds resources.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for name, t := range c.tables {
		if closer, ok := t.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", name, err))
			}
		}
	}
	c.tables = make(map[string]Table)
	return errors.Join(errs...)
}
