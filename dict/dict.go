package dict

// Dictionary maps dictionary encoded ids to string values for one column.
// Dictionaries are fully materialized in memory before query execution
// begins, so lookups are fast local accesses.
type Dictionary interface {
	ValueOf(id int) (string, bool)
	IDOf(value string) (int, bool)
	Size() int
}

type memDictionary struct {
	values []string
	ids    map[string]int
}

func NewDictionary(values []string) Dictionary {
	ids := make(map[string]int, len(values))
	for i, v := range values {
		ids[v] = i
	}
	return &memDictionary{values: values, ids: ids}
}

func (d *memDictionary) ValueOf(id int) (string, bool) {
	if id < 0 || id >= len(d.values) {
		return "", false
	}
	return d.values[id], true
}

func (d *memDictionary) IDOf(value string) (int, bool) {
	id, ok := d.ids[value]
	return id, ok
}

func (d *memDictionary) Size() int {
	return len(d.values)
}
