package dict

import (
	"strings"

	"github.com/google/btree"
)

// LookupTable is an in-memory snapshot of a dimension table, keyed by the
// ordered tuple of string encoded key column values. GetRow returns nil for
// an absent key rather than an error - missing foreign keys are expected.
type LookupTable struct {
	tree *btree.BTree
}

type lookupItem struct {
	key string
	row []string
}

func (i *lookupItem) Less(other btree.Item) bool {
	return i.key < other.(*lookupItem).key
}

func NewLookupTable() *LookupTable {
	return &LookupTable{tree: btree.New(8)}
}

func (t *LookupTable) AddRow(key []string, row []string) {
	t.tree.ReplaceOrInsert(&lookupItem{key: compositeKey(key), row: row})
}

func (t *LookupTable) GetRow(key []string) []string {
	item := t.tree.Get(&lookupItem{key: compositeKey(key)})
	if item == nil {
		return nil
	}
	return item.(*lookupItem).row
}

func (t *LookupTable) RowCount() int {
	return t.tree.Len()
}

// ForEachRow visits rows in key order, used when dumping a snapshot.
func (t *LookupTable) ForEachRow(f func(row []string) bool) {
	t.tree.Ascend(func(item btree.Item) bool {
		return f(item.(*lookupItem).row)
	})
}

// Key column values cannot contain NUL so this cannot collide.
func compositeKey(key []string) string {
	return strings.Join(key, "\x00")
}
