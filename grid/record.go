package grid

// Record is one decoded grid record - a fixed length array of raw values
// addressed by physical slot index. Read-only to the conversion layer.
type Record struct {
	values []interface{}
}

func NewRecord(values []interface{}) *Record {
	return &Record{values: values}
}

func (r *Record) ColCount() int {
	return len(r.values)
}

func (r *Record) Value(slot int) interface{} {
	return r.values[slot]
}

// GetValues bulk-extracts the given physical slots into dest. dest must be
// the same length as slots.
func (r *Record) GetValues(slots []int, dest []interface{}) {
	for i, slot := range slots {
		dest[i] = r.values[slot]
	}
}
