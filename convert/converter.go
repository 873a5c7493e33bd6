package convert

import (
	"sort"

	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/cube"
	"github.com/quadrantdb/quadrant/dict"
	"github.com/quadrantdb/quadrant/errors"
	"github.com/quadrantdb/quadrant/grid"
	"github.com/quadrantdb/quadrant/measure"
	"github.com/quadrantdb/quadrant/metrics"
)

// TupleConverter converts decoded grid records into output tuples. All index
// arrays and fillers are computed once at construction; TranslateResult then
// runs once per matching record reusing that state. A converter instance must
// only be used by one conversion call at a time - parallel scan workers each
// hold their own instance.
type TupleConverter struct {
	segment   *cube.Segment
	cuboid    *cube.Cuboid
	tupleInfo *common.TupleInfo

	// Parallel arrays of length nSelectedDims + nSelectedMeasures. Slots
	// [0, nSelectedDims) are dimensions, the remainder measures.
	gridColIdx   []int
	tupleIdx     []int
	gridValues   []interface{} // scratch buffer, reused across records
	measureTypes []measure.Type

	nSelectedDims int

	derivedFillers []*derivedColumnFiller

	advFillers         []measure.AdvancedFiller
	advIdxInGridValues []int

	lookupMisses metrics.Counter
}

func NewTupleConverter(segment *cube.Segment, cuboid *cube.Cuboid, selectedDims []common.ColRef,
	selectedMeasures []*common.MeasureDesc, tupleInfo *common.TupleInfo) (*TupleConverter, error) {

	// Selection is order-insensitive, iteration order must be deterministic
	dims := make([]common.ColRef, len(selectedDims))
	copy(dims, selectedDims)
	sort.Slice(dims, func(i, j int) bool {
		if dims[i].TableName != dims[j].TableName {
			return dims[i].TableName < dims[j].TableName
		}
		return dims[i].ColName < dims[j].ColName
	})
	measures := make([]*common.MeasureDesc, len(selectedMeasures))
	copy(measures, selectedMeasures)
	sort.Slice(measures, func(i, j int) bool {
		return measures[i].Key() < measures[j].Key()
	})

	n := len(dims) + len(measures)
	c := &TupleConverter{
		segment:       segment,
		cuboid:        cuboid,
		tupleInfo:     tupleInfo,
		gridColIdx:    make([]int, n),
		tupleIdx:      make([]int, n),
		gridValues:    make([]interface{}, n),
		measureTypes:  make([]measure.Type, n),
		nSelectedDims: len(dims),
	}

	iii := 0

	// pre-calculate dimension index mapping to tuple
	for _, dim := range dims {
		slot := cuboid.SlotOf(dim)
		if slot < 0 {
			return nil, errors.NewUnknownColumnError(dim.TableName, dim.ColName)
		}
		c.gridColIdx[iii] = slot
		if tupleInfo.HasColumn(dim) {
			c.tupleIdx[iii] = tupleInfo.ColumnIndex(dim)
		} else {
			c.tupleIdx[iii] = -1
		}
		iii++
	}

	for _, m := range measures {
		if err := m.Validate(); err != nil {
			return nil, errors.WithStack(err)
		}
		slot := cuboid.SlotOfMeasure(m)
		if slot < 0 {
			return nil, errors.NewUnknownColumnError(m.Col().TableName, m.Key())
		}
		c.gridColIdx[iii] = slot

		if m.NeedsRewrite {
			if tupleInfo.HasField(m.RewriteFieldName) {
				c.tupleIdx[iii] = tupleInfo.FieldIndex(m.RewriteFieldName)
			} else {
				c.tupleIdx[iii] = -1
			}
		} else {
			// a non-rewrite measure (like a dimension playing as metric) is
			// resolved like a dimension column
			col := m.Col()
			if tupleInfo.HasColumn(col) {
				c.tupleIdx[iii] = tupleInfo.ColumnIndex(col)
			} else {
				c.tupleIdx[iii] = -1
			}
		}

		measureType, err := measure.TypeFor(m)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if measureType.NeedsAdvancedFill() {
			dicts := c.buildDictionaryMap(measureType.ColumnsNeedDictionary(m))
			filler, err := measureType.CreateAdvancedFiller(m, tupleInfo, dicts)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			c.advFillers = append(c.advFillers, filler)
			c.advIdxInGridValues = append(c.advIdxInGridValues, iii)
		} else {
			c.measureTypes[iii] = measureType
		}

		iii++
	}

	// prepare derived columns and fillers
	for _, di := range segment.Desc().DeriveInfosFor(cuboid) {
		filler, err := c.newDerivedColumnFiller(di)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if filler != nil {
			c.derivedFillers = append(c.derivedFillers, filler)
		}
	}

	return c, nil
}

// load only needed dictionaries
func (c *TupleConverter) buildDictionaryMap(cols []common.ColRef) map[common.ColRef]dict.Dictionary {
	dicts := make(map[common.ColRef]dict.Dictionary, len(cols))
	for _, col := range cols {
		if d := c.segment.Dictionary(col); d != nil {
			dicts[col] = d
		}
	}
	return dicts
}

// NumSelectedDims returns the split point between dimension and measure slots.
func (c *TupleConverter) NumSelectedDims() int {
	return c.nSelectedDims
}

// SetLookupMissCounter installs a counter incremented once per record whose
// derived lookup found no row.
func (c *TupleConverter) SetLookupMissCounter(counter metrics.Counter) {
	c.lookupMisses = counter
}

// TranslateResult converts one grid record into the output tuple. If the plan
// has advanced measure fillers it returns them, reloaded with this record's
// source values; the caller drives their expansion into final output rows
// before the next call, which overwrites the reload state.
func (c *TupleConverter) TranslateResult(record *grid.Record, tuple *common.Tuple) []measure.AdvancedFiller {

	record.GetValues(c.gridColIdx, c.gridValues)

	// dimensions
	for i := 0; i < c.nSelectedDims; i++ {
		ti := c.tupleIdx[i]
		if ti >= 0 {
			if c.gridValues[i] == nil {
				tuple.SetDimensionNull(ti)
			} else {
				tuple.SetDimensionValue(ti, common.ValueToString(c.gridValues[i]))
			}
		}
	}

	// measures
	for i := c.nSelectedDims; i < len(c.gridColIdx); i++ {
		ti := c.tupleIdx[i]
		if ti >= 0 && c.measureTypes[i] != nil {
			c.measureTypes[i].FillSimply(tuple, ti, c.gridValues[i])
		}
	}

	// derived
	for _, filler := range c.derivedFillers {
		if missed := filler.fillDerivedColumns(c.gridValues, tuple); missed && c.lookupMisses != nil {
			c.lookupMisses.Inc()
		}
	}

	// advanced measure filling, due to possible row split, completes at the caller side
	if len(c.advFillers) == 0 {
		return nil
	}
	for i, filler := range c.advFillers {
		filler.Reload(c.gridValues[c.advIdxInGridValues[i]])
	}
	return c.advFillers
}
