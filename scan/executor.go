package scan

import (
	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/convert"
	"github.com/quadrantdb/quadrant/cube"
	"github.com/quadrantdb/quadrant/errors"
	"github.com/quadrantdb/quadrant/grid"
	"github.com/quadrantdb/quadrant/metrics"
	"github.com/quadrantdb/quadrant/storage"
)

// Executor drives one conversion plan over the records of a cuboid table. It
// owns the caller side of the advanced filler protocol: each returned filler
// is fully expanded into final output rows before the next record overwrites
// its reload state. Not safe for concurrent use - see ParallelExecutor.
type Executor struct {
	cuboid    *cube.Cuboid
	tupleInfo *common.TupleInfo
	conv      *convert.TupleConverter

	rowsTranslated metrics.Counter
}

func NewExecutor(segment *cube.Segment, cuboid *cube.Cuboid, selectedDims []common.ColRef,
	selectedMeasures []*common.MeasureDesc, tupleInfo *common.TupleInfo) (*Executor, error) {
	conv, err := convert.NewTupleConverter(segment, cuboid, selectedDims, selectedMeasures, tupleInfo)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Executor{
		cuboid:    cuboid,
		tupleInfo: tupleInfo,
		conv:      conv,
	}, nil
}

// SetRowsCounter installs a counter incremented per produced output row.
func (e *Executor) SetRowsCounter(counter metrics.Counter) {
	e.rowsTranslated = counter
}

// SetLookupMissCounter installs a counter incremented per derived lookup miss.
func (e *Executor) SetLookupMissCounter(counter metrics.Counter) {
	e.conv.SetLookupMissCounter(counter)
}

// ExecuteTable scans a cuboid table from storage and converts every record.
func (e *Executor) ExecuteTable(conn *storage.Connection, tableName string) ([]*common.Tuple, error) {
	pairs, err := conn.ScanTable(tableName)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return e.ExecutePairs(pairs)
}

// ExecutePairs converts already-fetched storage rows.
func (e *Executor) ExecutePairs(pairs []storage.KVPair) ([]*common.Tuple, error) {
	var tuples []*common.Tuple
	for _, pair := range pairs {
		record, err := grid.DecodeRecord(pair.Value, e.cuboid.ColumnTypes())
		if err != nil {
			return nil, errors.WithStack(err)
		}
		expanded, err := e.translate(record)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		tuples = append(tuples, expanded...)
	}
	return tuples, nil
}

func (e *Executor) translate(record *grid.Record) ([]*common.Tuple, error) {
	tuple := common.NewTuple(e.tupleInfo)
	fillers := e.conv.TranslateResult(record, tuple)
	if fillers == nil {
		e.countRows(1)
		return []*common.Tuple{tuple}, nil
	}
	// row splitting: one stored aggregate may expand into several output rows
	var expanded []*common.Tuple
	for _, filler := range fillers {
		for row := 0; row < filler.RowCount(); row++ {
			t := tuple.Clone()
			if err := filler.FillRow(t, row); err != nil {
				return nil, errors.WithStack(err)
			}
			expanded = append(expanded, t)
		}
	}
	e.countRows(len(expanded))
	return expanded, nil
}

func (e *Executor) countRows(n int) {
	if e.rowsTranslated == nil {
		return
	}
	for i := 0; i < n; i++ {
		e.rowsTranslated.Inc()
	}
}
