package common

// TupleInfo is the fixed output schema of a query: it maps column references
// and named fields to slot positions in the produced tuple. Columns and
// fields address the same slot space - a rewritten measure is addressed by
// field name, everything else by column reference. Immutable once built.
type TupleInfo struct {
	size     int
	colIdx   map[ColRef]int
	fieldIdx map[string]int
}

func NewTupleInfo(size int) *TupleInfo {
	return &TupleInfo{
		size:     size,
		colIdx:   make(map[ColRef]int),
		fieldIdx: make(map[string]int),
	}
}

func (ti *TupleInfo) SetColumnIndex(col ColRef, index int) {
	ti.colIdx[col] = index
}

func (ti *TupleInfo) SetFieldIndex(fieldName string, index int) {
	ti.fieldIdx[fieldName] = index
}

func (ti *TupleInfo) HasColumn(col ColRef) bool {
	_, ok := ti.colIdx[col]
	return ok
}

func (ti *TupleInfo) ColumnIndex(col ColRef) int {
	return ti.colIdx[col]
}

func (ti *TupleInfo) HasField(fieldName string) bool {
	_, ok := ti.fieldIdx[fieldName]
	return ok
}

func (ti *TupleInfo) FieldIndex(fieldName string) int {
	return ti.fieldIdx[fieldName]
}

func (ti *TupleInfo) Size() int {
	return ti.size
}

// Tuple is one mutable output row. It is exclusively owned by a single
// conversion call - not safe for concurrent use.
type Tuple struct {
	info   *TupleInfo
	values []interface{}
}

func NewTuple(info *TupleInfo) *Tuple {
	return &Tuple{
		info:   info,
		values: make([]interface{}, info.Size()),
	}
}

func (t *Tuple) Info() *TupleInfo {
	return t.info
}

// SetDimensionValue writes the canonical string form of a dimension value.
func (t *Tuple) SetDimensionValue(index int, value string) {
	t.values[index] = value
}

func (t *Tuple) SetDimensionNull(index int) {
	t.values[index] = nil
}

func (t *Tuple) SetFieldValue(index int, value interface{}) {
	t.values[index] = value
}

func (t *Tuple) Value(index int) interface{} {
	return t.values[index]
}

func (t *Tuple) IsNull(index int) bool {
	return t.values[index] == nil
}

func (t *Tuple) Size() int {
	return len(t.values)
}

// Clone returns an independent copy, used when one stored aggregate expands
// into several output rows.
func (t *Tuple) Clone() *Tuple {
	c := NewTuple(t.info)
	copy(c.values, t.values)
	return c
}

// Reset clears all slots so the tuple can be reused for the next record.
func (t *Tuple) Reset() {
	for i := range t.values {
		t.values[i] = nil
	}
}
