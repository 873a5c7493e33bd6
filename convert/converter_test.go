package convert

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/cube"
	"github.com/quadrantdb/quadrant/grid"
	"github.com/quadrantdb/quadrant/measure"
)

func TestPlanIndexArraysAligned(t *testing.T) {
	segment := salesSegment()
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo([]string{"SUM_PRICE"}, 0)

	// selection order is reversed on purpose - the plan must establish its own
	// deterministic iteration order
	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colDay, colCountryCode},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)

	require.Equal(t, 3, len(conv.gridColIdx))
	require.Equal(t, 3, len(conv.tupleIdx))
	require.Equal(t, 3, len(conv.measureTypes))
	require.Equal(t, 2, conv.NumSelectedDims())

	require.Equal(t, cuboid.SlotOf(colCountryCode), conv.gridColIdx[0])
	require.Equal(t, cuboid.SlotOf(colDay), conv.gridColIdx[1])
	require.Equal(t, cuboid.SlotOfMeasure(sumPriceMeasure()), conv.gridColIdx[2])
}

func TestTranslateDimensionsAndSimpleMeasure(t *testing.T) {
	segment := salesSegment(lookupDeriveInfo())
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo([]string{"SUM_PRICE"}, 0)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)

	tuple := common.NewTuple(tupleInfo)
	fillers := conv.TranslateResult(grid.NewRecord([]interface{}{"US", int64(20210101), 25.5}), tuple)
	require.Nil(t, fillers)

	require.Equal(t, "US", tuple.Value(tupleInfo.ColumnIndex(colCountryCode)))
	require.Equal(t, "20210101", tuple.Value(tupleInfo.ColumnIndex(colDay)))
	require.Equal(t, "United States", tuple.Value(tupleInfo.ColumnIndex(colCountryName)))
	require.Equal(t, "NA", tuple.Value(tupleInfo.ColumnIndex(colCountryRegion)))
	require.Equal(t, 25.5, tuple.Value(tupleInfo.FieldIndex("SUM_PRICE")))
}

func TestColumnAbsentFromOutputSchemaNeverWritten(t *testing.T) {
	segment := salesSegment()
	cuboid := salesCuboid(sumPriceMeasure())

	// day and SUM_PRICE not present in the output schema; slot 1 stays unmapped
	tupleInfo := common.NewTupleInfo(2)
	tupleInfo.SetColumnIndex(colCountryCode, 0)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)

	tuple := common.NewTuple(tupleInfo)
	fillers := conv.TranslateResult(grid.NewRecord([]interface{}{"US", int64(20210101), 25.5}), tuple)
	require.Nil(t, fillers)

	require.Equal(t, "US", tuple.Value(0))
	require.True(t, tuple.IsNull(1))
}

func TestDerivedGroupWithMissingHostNeverInstalled(t *testing.T) {
	segment := salesSegment(lookupDeriveInfo())
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo([]string{"SUM_PRICE"}, 0)

	// country_code, the host column, is not selected so the group cannot derive
	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colDay},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)
	require.Equal(t, 0, len(conv.derivedFillers))

	tuple := common.NewTuple(tupleInfo)
	conv.TranslateResult(grid.NewRecord([]interface{}{"US", int64(20210101), 25.5}), tuple)
	require.True(t, tuple.IsNull(tupleInfo.ColumnIndex(colCountryName)))
	require.True(t, tuple.IsNull(tupleInfo.ColumnIndex(colCountryRegion)))
}

func TestDerivedGroupWithNoOutputSlotNeverInstalled(t *testing.T) {
	segment := salesSegment(lookupDeriveInfo())
	cuboid := salesCuboid(sumPriceMeasure())

	// none of the derived columns has an output slot so there is nothing to write
	tupleInfo := common.NewTupleInfo(2)
	tupleInfo.SetColumnIndex(colCountryCode, 0)
	tupleInfo.SetColumnIndex(colDay, 1)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay}, nil, tupleInfo)
	require.NoError(t, err)
	require.Equal(t, 0, len(conv.derivedFillers))
}

func TestLookupResolution(t *testing.T) {
	segment := salesSegment(lookupDeriveInfo())
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo([]string{"SUM_PRICE"}, 0)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)
	require.Equal(t, 1, len(conv.derivedFillers))

	tuple := common.NewTuple(tupleInfo)
	conv.TranslateResult(grid.NewRecord([]interface{}{"US", int64(20210101), 25.5}), tuple)
	require.Equal(t, "United States", tuple.Value(tupleInfo.ColumnIndex(colCountryName)))
	require.Equal(t, "NA", tuple.Value(tupleInfo.ColumnIndex(colCountryRegion)))

	// a missing foreign key degrades to nulls in every derived slot
	tuple = common.NewTuple(tupleInfo)
	conv.TranslateResult(grid.NewRecord([]interface{}{"ZZ", int64(20210101), 25.5}), tuple)
	require.Equal(t, "ZZ", tuple.Value(tupleInfo.ColumnIndex(colCountryCode)))
	require.True(t, tuple.IsNull(tupleInfo.ColumnIndex(colCountryName)))
	require.True(t, tuple.IsNull(tupleInfo.ColumnIndex(colCountryRegion)))
}

func TestLookupRunsWhenHostNotInOutputSchema(t *testing.T) {
	segment := salesSegment(lookupDeriveInfo())
	cuboid := salesCuboid(sumPriceMeasure())

	// host column selected but not wanted in the output - it must still be
	// computed to feed the derived filler
	tupleInfo := common.NewTupleInfo(1)
	tupleInfo.SetColumnIndex(colCountryName, 0)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay}, nil, tupleInfo)
	require.NoError(t, err)
	require.Equal(t, 1, len(conv.derivedFillers))

	tuple := common.NewTuple(tupleInfo)
	conv.TranslateResult(grid.NewRecord([]interface{}{"GB", int64(20210101), 25.5}), tuple)
	require.Equal(t, "United Kingdom", tuple.Value(0))
}

func TestPKFKResolution(t *testing.T) {
	deriveInfo := &cube.DeriveInfo{
		Kind:        cube.DeriveKindPKFK,
		HostCols:    []common.ColRef{colCountryCode},
		DerivedCols: []common.ColRef{colCountryPK},
	}
	segment := salesSegment(deriveInfo)
	cuboid := salesCuboid(sumPriceMeasure())

	tupleInfo := common.NewTupleInfo(2)
	tupleInfo.SetColumnIndex(colCountryCode, 0)
	tupleInfo.SetColumnIndex(colCountryPK, 1)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay}, nil, tupleInfo)
	require.NoError(t, err)
	require.Equal(t, 1, len(conv.derivedFillers))

	// the host value is copied verbatim, no lookup table involved
	tuple := common.NewTuple(tupleInfo)
	conv.TranslateResult(grid.NewRecord([]interface{}{"42", int64(20210101), 25.5}), tuple)
	require.Equal(t, "42", tuple.Value(1))
}

func TestUnknownDeriveKindIsFatal(t *testing.T) {
	deriveInfo := &cube.DeriveInfo{
		Kind:        cube.DeriveKindUnknown,
		HostCols:    []common.ColRef{colCountryCode},
		DerivedCols: []common.ColRef{colCountryName},
	}
	segment := salesSegment(deriveInfo)
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo(nil, 0)

	_, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay}, nil, tupleInfo)
	require.Error(t, err)
}

func topNTupleInfo() *common.TupleInfo {
	tupleInfo := common.NewTupleInfo(5)
	tupleInfo.SetColumnIndex(colCountryCode, 0)
	tupleInfo.SetColumnIndex(colDay, 1)
	tupleInfo.SetColumnIndex(colSeller, 2)
	tupleInfo.SetFieldIndex("SUM_PRICE", 3)
	tupleInfo.SetFieldIndex("TOPN_PRICE", 4)
	return tupleInfo
}

func TestAdvancedFillersReturnedAndReloaded(t *testing.T) {
	segment := salesSegment()
	cuboid := salesCuboid(sumPriceMeasure(), topNPriceMeasure())
	tupleInfo := topNTupleInfo()

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay},
		[]*common.MeasureDesc{sumPriceMeasure(), topNPriceMeasure()}, tupleInfo)
	require.NoError(t, err)

	topNValue := measure.EncodeTopNEntries([]measure.TopNEntry{{DimID: 0, Metric: 100}, {DimID: 2, Metric: 50}}, nil)
	tuple := common.NewTuple(tupleInfo)
	fillers := conv.TranslateResult(grid.NewRecord([]interface{}{"US", int64(20210101), 25.5, topNValue}), tuple)
	require.Equal(t, 1, len(fillers))

	// the simple measure is already filled, the advanced one expands here
	require.Equal(t, 25.5, tuple.Value(3))
	filler := fillers[0]
	require.Equal(t, 2, filler.RowCount())

	row0 := tuple.Clone()
	require.NoError(t, filler.FillRow(row0, 0))
	require.Equal(t, "alice", row0.Value(2))
	require.Equal(t, float64(100), row0.Value(4))

	row1 := tuple.Clone()
	require.NoError(t, filler.FillRow(row1, 1))
	require.Equal(t, "carol", row1.Value(2))
	require.Equal(t, float64(50), row1.Value(4))

	// a second conversion overwrites, not appends, the reload state
	topNValue2 := measure.EncodeTopNEntries([]measure.TopNEntry{{DimID: 1, Metric: 7}}, nil)
	tuple2 := common.NewTuple(tupleInfo)
	fillers2 := conv.TranslateResult(grid.NewRecord([]interface{}{"GB", int64(20210102), 1.5, topNValue2}), tuple2)
	require.Equal(t, 1, len(fillers2))
	require.Equal(t, 1, fillers2[0].RowCount())

	row := tuple2.Clone()
	require.NoError(t, fillers2[0].FillRow(row, 0))
	require.Equal(t, "bob", row.Value(2))
	require.Equal(t, float64(7), row.Value(4))
}

func TestNoAdvancedFillersReturnsNil(t *testing.T) {
	segment := salesSegment()
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo([]string{"SUM_PRICE"}, 0)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)

	tuple := common.NewTuple(tupleInfo)
	require.Nil(t, conv.TranslateResult(grid.NewRecord([]interface{}{"US", int64(20210101), 25.5}), tuple))
}

func TestTranslateIsIdempotent(t *testing.T) {
	segment := salesSegment(lookupDeriveInfo())
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo([]string{"SUM_PRICE"}, 0)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)

	record := grid.NewRecord([]interface{}{"GB", int64(20210101), 9.25})
	tuple1 := common.NewTuple(tupleInfo)
	conv.TranslateResult(record, tuple1)
	tuple2 := common.NewTuple(tupleInfo)
	conv.TranslateResult(record, tuple2)

	for i := 0; i < tupleInfo.Size(); i++ {
		require.Equal(t, tuple1.Value(i), tuple2.Value(i))
	}
}

type fakeCounter struct {
	count int
}

func (c *fakeCounter) Inc() {
	c.count++
}

func TestLookupMissCounter(t *testing.T) {
	segment := salesSegment(lookupDeriveInfo())
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo([]string{"SUM_PRICE"}, 0)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)
	counter := &fakeCounter{}
	conv.SetLookupMissCounter(counter)

	tuple := common.NewTuple(tupleInfo)
	conv.TranslateResult(grid.NewRecord([]interface{}{"US", int64(20210101), 25.5}), tuple)
	require.Equal(t, 0, counter.count)

	conv.TranslateResult(grid.NewRecord([]interface{}{"ZZ", int64(20210101), 25.5}), tuple)
	require.Equal(t, 1, counter.count)
}

func TestNullDimensionValue(t *testing.T) {
	segment := salesSegment()
	cuboid := salesCuboid(sumPriceMeasure())
	tupleInfo := salesTupleInfo([]string{"SUM_PRICE"}, 0)

	conv, err := NewTupleConverter(segment, cuboid, []common.ColRef{colCountryCode, colDay},
		[]*common.MeasureDesc{sumPriceMeasure()}, tupleInfo)
	require.NoError(t, err)

	tuple := common.NewTuple(tupleInfo)
	conv.TranslateResult(grid.NewRecord([]interface{}{nil, int64(20210101), 25.5}), tuple)
	require.True(t, tuple.IsNull(tupleInfo.ColumnIndex(colCountryCode)))
	require.Equal(t, "20210101", tuple.Value(tupleInfo.ColumnIndex(colDay)))
}
