// Package siteinfo reads the namespace names a wiki publishes in
// siteinfo-namespaces.json and renders page titles the way the wiki
// displays them.
package siteinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/bisegni/dumpscan/pkg/dump"
	"github.com/bisegni/dumpscan/pkg/fields"
)

// ErrUnknownNamespace is returned for a namespace id missing from the map.
var ErrUnknownNamespace = errors.New("unknown namespace")

type response struct {
	Query struct {
		Namespaces map[string]namespaceInfo `json:"namespaces"`
	} `json:"query"`
}

type namespaceInfo struct {
	ID        int32  `json:"id"`
	Name      string `json:"*"`
	Canonical string `json:"canonical"`
}

// Namespace is one entry of the map.
type Namespace struct {
	ID        fields.Namespace
	Name      string
	Canonical string
}

// NamespaceMap maps namespace ids to their local names.
type NamespaceMap struct {
	byID map[fields.Namespace]Namespace
}

// Load reads a siteinfo-namespaces.json file. A .gz or .xz suffix is
// decompressed.
func Load(path string) (*NamespaceMap, error) {
	buf, err := dump.Open(path)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	m, err := Parse(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes the JSON body of a siteinfo namespaces response.
func Parse(data []byte) (*NamespaceMap, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Query.Namespaces == nil {
		return nil, errors.New("missing query.namespaces")
	}
	m := &NamespaceMap{byID: make(map[fields.Namespace]Namespace, len(resp.Query.Namespaces))}
	for _, info := range resp.Query.Namespaces {
		id := fields.Namespace(info.ID)
		m.byID[id] = Namespace{ID: id, Name: info.Name, Canonical: info.Canonical}
	}
	return m, nil
}

// Lookup returns the namespace with the given id.
func (m *NamespaceMap) Lookup(ns fields.Namespace) (Namespace, bool) {
	n, ok := m.byID[ns]
	return n, ok
}

// Namespaces returns all entries ordered by id.
func (m *NamespaceMap) Namespaces() []Namespace {
	out := make([]Namespace, 0, len(m.byID))
	for _, n := range m.byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ReadableTitle prefixes title with the local namespace name and a colon,
// unless the name is empty, and replaces underscores with spaces.
func (m *NamespaceMap) ReadableTitle(ns fields.Namespace, title fields.Title) (string, error) {
	n, ok := m.byID[ns]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownNamespace, ns)
	}
	readable := title.Readable()
	if n.Name == "" {
		return readable, nil
	}
	return n.Name + ":" + readable, nil
}
