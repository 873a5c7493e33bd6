package cube

import (
	"github.com/quadrantdb/quadrant/common"
)

// DeriveKind selects the resolution strategy for a derived column group.
type DeriveKind int

const (
	DeriveKindUnknown DeriveKind = iota
	// DeriveKindLookup resolves derived columns via a join against the
	// materialized lookup table of the dimension table.
	DeriveKindLookup
	// DeriveKindPKFK is the identity shortcut: the derived column value is
	// provably identical to the host column's decoded value.
	DeriveKindPKFK
)

// DeriveInfo declares that a set of host columns, physically present in a
// cuboid, functionally determines a set of derived columns that are not
// stored. LookupTable names the dimension table, for the LOOKUP kind.
type DeriveInfo struct {
	Kind        DeriveKind
	HostCols    []common.ColRef
	DerivedCols []common.ColRef
	LookupTable string
}

// CubeDesc carries the derived column declarations of the cube.
type CubeDesc struct {
	DeriveInfos []*DeriveInfo
}

// DeriveInfosFor returns the declarations whose host columns are all present
// among the cuboid's dimension columns.
func (d *CubeDesc) DeriveInfosFor(cuboid *Cuboid) []*DeriveInfo {
	var res []*DeriveInfo
	for _, di := range d.DeriveInfos {
		applicable := true
		for _, host := range di.HostCols {
			if cuboid.SlotOf(host) < 0 {
				applicable = false
				break
			}
		}
		if applicable {
			res = append(res, di)
		}
	}
	return res
}

// Cuboid is an ordered list of dimension columns and measures materialized
// together in one physical record layout. Slots [0, len(dims)) hold the
// dimensions, the remainder the measures. Immutable after creation.
type Cuboid struct {
	dimCols       []common.ColRef
	measures      []*common.MeasureDesc
	colTypes      []common.ColumnType
	slotByCol     map[common.ColRef]int
	slotByMeasure map[string]int
}

func NewCuboid(dimCols []common.ColRef, dimTypes []common.ColumnType, measures []*common.MeasureDesc,
	measureStorageTypes []common.ColumnType) *Cuboid {
	if len(dimCols) != len(dimTypes) || len(measures) != len(measureStorageTypes) {
		panic("column / type lengths do not match")
	}
	c := &Cuboid{
		dimCols:       dimCols,
		measures:      measures,
		slotByCol:     make(map[common.ColRef]int, len(dimCols)),
		slotByMeasure: make(map[string]int, len(measures)),
	}
	for i, col := range dimCols {
		c.slotByCol[col] = i
	}
	for i, m := range measures {
		c.slotByMeasure[m.Key()] = len(dimCols) + i
	}
	c.colTypes = append(c.colTypes, dimTypes...)
	c.colTypes = append(c.colTypes, measureStorageTypes...)
	return c
}

// DimensionColumns returns the cuboid's dimension columns in physical slot order.
func (c *Cuboid) DimensionColumns() []common.ColRef {
	return c.dimCols
}

// SlotOf returns the physical slot of a dimension column, or -1 if the column
// is not part of this cuboid.
func (c *Cuboid) SlotOf(col common.ColRef) int {
	slot, ok := c.slotByCol[col]
	if !ok {
		return -1
	}
	return slot
}

// SlotOfMeasure returns the physical slot of a measure, or -1 if the measure
// is not part of this cuboid.
func (c *Cuboid) SlotOfMeasure(m *common.MeasureDesc) int {
	slot, ok := c.slotByMeasure[m.Key()]
	if !ok {
		return -1
	}
	return slot
}

func (c *Cuboid) NumColumns() int {
	return len(c.colTypes)
}

// ColumnTypes returns the storage type of every physical slot, dimensions first.
func (c *Cuboid) ColumnTypes() []common.ColumnType {
	return c.colTypes
}
