package pipeline

import "bcseq-core/classify"

// Table maps read identities to categories. Category names are interned,
// so each entry costs one small integer beyond the identity itself.
type Table struct {
	ids   map[string]uint16
	names []string
	index map[string]uint16
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{ids: make(map[string]uint16, 1<<12), index: make(map[string]uint16)}
}

// Put records id's category. An identity keeps its first category.
func (t *Table) Put(id, category string) {
	if _, ok := t.ids[id]; ok {
		return
	}
	i, ok := t.index[category]
	if !ok {
		i = uint16(len(t.names))
		t.names = append(t.names, category)
		t.index[category] = i
	}
	t.ids[id] = i
}

// Get returns id's category.
func (t *Table) Get(id string) (string, bool) {
	i, ok := t.ids[id]
	if !ok {
		return "", false
	}
	return t.names[i], true
}

// Lookup is Get with a NoBarcode default.
func (t *Table) Lookup(id string) string {
	if c, ok := t.Get(id); ok {
		return c
	}
	return classify.NoBarcode
}

// Len returns the number of identities.
func (t *Table) Len() int { return len(t.ids) }
