package schema

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]Any)
)

// Register makes a table available by name. It panics on duplicates since
// registration happens during package initialization.
func Register(t Any) {
	mu.Lock()
	defer mu.Unlock()
	name := t.TableName()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("schema: table %q registered twice", name))
	}
	registry[name] = t
}

// Lookup returns the table registered under name.
func Lookup(name string) (Any, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[name]
	return t, ok
}

// MustLookup is Lookup returning an error listing the known tables.
func MustLookup(name string) (Any, error) {
	if t, ok := Lookup(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown table %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists registered tables alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableFromPath guesses the table from a dump file name such as
// enwiki-20230101-page.sql.gz or page.sql.
func TableFromPath(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".xz", ".sql"} {
		base = strings.TrimSuffix(base, ext)
	}
	if _, ok := Lookup(base); ok {
		return base
	}
	// Wikimedia dumps are named <wiki>-<date>-<table>.
	if i := strings.LastIndexByte(base, '-'); i >= 0 {
		if _, ok := Lookup(base[i+1:]); ok {
			return base[i+1:]
		}
	}
	return base
}
