// Package formulary provides loading and lookup of the reference medicine
// table used by the matcher. The table is built once at startup (or on a
// scheduled reload) and is read-only afterwards.
package formulary

import (
	"strings"

	"github.com/giygas/prescriptions-api/formulary/entities"
)

// Entry pairs a canonical lowercase key with its medicine record.
type Entry struct {
	Key      string
	Medicine entities.Medicine
}

// Table is an ordered, read-only mapping from lowercase canonical key to
// a medicine record. Iteration order is insertion order, which matters for
// the matcher contract: results come back in table order.
type Table struct {
	keys    []string
	records map[string]entities.Medicine
}

// NewTable builds a table from entries, preserving their order. Keys are
// lowercased; a duplicate key keeps the first record and drops the rest.
func NewTable(entries []Entry) *Table {
	t := &Table{
		records: make(map[string]entities.Medicine, len(entries)),
	}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		if key == "" {
			continue
		}
		if _, exists := t.records[key]; exists {
			continue
		}
		t.keys = append(t.keys, key)
		t.records[key] = e.Medicine
	}
	return t
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.keys)
}

// Keys returns the canonical keys in table order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Get returns the record for a canonical key.
func (t *Table) Get(key string) (entities.Medicine, bool) {
	m, ok := t.records[strings.ToLower(key)]
	return m, ok
}

// Entries returns all entries in table order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.keys))
	for _, key := range t.keys {
		entries = append(entries, Entry{Key: key, Medicine: t.records[key]})
	}
	return entries
}

// Medicines returns all records in table order.
func (t *Table) Medicines() []entities.Medicine {
	medicines := make([]entities.Medicine, 0, len(t.keys))
	for _, key := range t.keys {
		medicines = append(medicines, t.records[key])
	}
	return medicines
}
