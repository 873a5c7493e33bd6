package convert

import (
	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/cube"
	"github.com/quadrantdb/quadrant/dict"
	"github.com/quadrantdb/quadrant/errors"
)

// derivedColumnFiller reconstructs derived columns from host column values.
// It is a tagged variant over the two resolution strategies, dispatched by a
// single switch so the per-record path has no dynamic dispatch. All index
// arrays are precomputed at plan construction.
type derivedColumnFiller struct {
	kind cube.DeriveKind

	// positions of the host columns on this plan's grid values
	hostIdx []int

	derivedTupleIdx []int

	// LOOKUP only: offset of each derived column within a lookup row, the
	// lookup table handle, and a reusable key buffer
	derivedColIdx []int
	lookup        *dict.LookupTable
	lookupKey     []string
}

// newDerivedColumnFiller builds one filler per derive info entry, or nil if
// the group is skipped: a group with an unresolvable host column cannot
// derive, and a group none of whose derived columns is wanted in the output
// has nothing to write.
func (c *TupleConverter) newDerivedColumnFiller(di *cube.DeriveInfo) (*derivedColumnFiller, error) {
	allHostsPresent := true
	hostIdx := make([]int, len(di.HostCols))
	for i, host := range di.HostCols {
		hostIdx[i] = c.indexOnGridValues(host)
		allHostsPresent = allHostsPresent && hostIdx[i] >= 0
	}

	needCopyDerived := false
	derivedTupleIdx := make([]int, len(di.DerivedCols))
	for i, col := range di.DerivedCols {
		if c.tupleInfo.HasColumn(col) {
			derivedTupleIdx[i] = c.tupleInfo.ColumnIndex(col)
		} else {
			derivedTupleIdx[i] = -1
		}
		needCopyDerived = needCopyDerived || derivedTupleIdx[i] >= 0
	}

	if !allHostsPresent || !needCopyDerived {
		return nil, nil
	}

	switch di.Kind {
	case cube.DeriveKindLookup:
		lookup := c.segment.LookupTable(di.LookupTable)
		if lookup == nil {
			return nil, errors.Errorf("lookup table %s is not loaded in the segment", di.LookupTable)
		}
		derivedColIdx := make([]int, len(di.DerivedCols))
		for i, col := range di.DerivedCols {
			derivedColIdx[i] = col.ColIndex
		}
		return &derivedColumnFiller{
			kind:            di.Kind,
			hostIdx:         hostIdx,
			derivedTupleIdx: derivedTupleIdx,
			derivedColIdx:   derivedColIdx,
			lookup:          lookup,
			lookupKey:       make([]string, len(hostIdx)),
		}, nil
	case cube.DeriveKindPKFK:
		return &derivedColumnFiller{
			kind:            di.Kind,
			hostIdx:         hostIdx,
			derivedTupleIdx: derivedTupleIdx,
		}, nil
	default:
		return nil, errors.NewUnknownDeriveKindError(int(di.Kind))
	}
}

// indexOnGridValues resolves a column to its position within this plan's
// selected grid values - a column is only locatable if it was itself selected
// by this query.
func (c *TupleConverter) indexOnGridValues(col common.ColRef) int {
	cuboidSlot := c.cuboid.SlotOf(col)
	if cuboidSlot < 0 {
		return -1
	}
	for i, slot := range c.gridColIdx {
		if slot == cuboidSlot {
			return i
		}
	}
	return -1
}

// fillDerivedColumns reports whether a lookup found no row for the host key.
func (f *derivedColumnFiller) fillDerivedColumns(gridValues []interface{}, tuple *common.Tuple) bool {
	switch f.kind {
	case cube.DeriveKindLookup:
		for i, hi := range f.hostIdx {
			f.lookupKey[i] = common.ValueToString(gridValues[hi])
		}
		lookupRow := f.lookup.GetRow(f.lookupKey)
		if lookupRow != nil {
			for i, ti := range f.derivedTupleIdx {
				if ti >= 0 {
					tuple.SetDimensionValue(ti, lookupRow[f.derivedColIdx[i]])
				}
			}
		} else {
			// a missing foreign key degrades to nulls, it is not an error
			for _, ti := range f.derivedTupleIdx {
				if ti >= 0 {
					tuple.SetDimensionNull(ti)
				}
			}
			return true
		}
	case cube.DeriveKindPKFK:
		// composite keys are pre-split upstream into single column
		// relationships so only the first derived column is considered
		if f.derivedTupleIdx[0] >= 0 {
			tuple.SetDimensionValue(f.derivedTupleIdx[0], common.ValueToString(gridValues[f.hostIdx[0]]))
		}
	}
	return false
}
