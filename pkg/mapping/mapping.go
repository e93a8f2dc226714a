// Package mapping holds the static mapping from managed interface name to
// custom routing table identifier.
//
// The mapping is loaded once at startup and never mutated afterwards; it is
// safe for concurrent read access without synchronization for that reason.
package mapping

import "fmt"

// MinTable and MaxTable bound the valid range for a custom table id, per
// convention: table ids must lie in [MinTable, MaxTable).
const (
	MinTable = 1000
	MaxTable = 30000
)

// Entry is one (interface name, custom table id) pair.
type Entry struct {
	Interface string
	Table     uint32
}

// Table is the read-only, process-lifetime mapping from interface name to
// custom table id.
//
// Table ids need not be unique across entries: two managed interfaces
// sharing a table id is accepted, though the rule priority scheme (priority
// equals table id, see pkg/handlers) then collides between them. Operators
// are expected to keep table ids unique across managed interfaces.
type Table struct {
	byName map[string]uint32
}

// New builds a Table from entries, validating each table id against
// [MinTable, MaxTable). Duplicate interface names overwrite earlier
// entries; duplicate table ids across distinct interfaces are accepted.
func New(entries []Entry) (*Table, error) {
	t := &Table{byName: make(map[string]uint32, len(entries))}
	for _, e := range entries {
		if e.Table < MinTable || e.Table >= MaxTable {
			return nil, fmt.Errorf("mapping: table id %d for interface %q out of range [%d, %d)", e.Table, e.Interface, MinTable, MaxTable)
		}
		if e.Interface == "" {
			return nil, fmt.Errorf("mapping: empty interface name")
		}
		t.byName[e.Interface] = e.Table
	}
	return t, nil
}

// Lookup returns the custom table id for an interface name, and whether the
// interface is managed at all.
func (t *Table) Lookup(ifaceName string) (uint32, bool) {
	table, ok := t.byName[ifaceName]
	return table, ok
}

// HasTable reports whether table is a configured custom table id for any
// managed interface.
func (t *Table) HasTable(table uint32) bool {
	for _, v := range t.byName {
		if v == table {
			return true
		}
	}
	return false
}

// Len returns the number of managed interfaces.
func (t *Table) Len() int {
	return len(t.byName)
}
