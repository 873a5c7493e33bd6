package measure

import (
	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/dict"
	"github.com/quadrantdb/quadrant/errors"
)

// TopNEntry is one (dictionary encoded dimension id, metric) pair of a stored
// top-n aggregate.
type TopNEntry struct {
	DimID  int
	Metric float64
}

// EncodeTopNEntries encodes the stored representation of a top-n aggregate.
func EncodeTopNEntries(entries []TopNEntry, buffer []byte) []byte {
	buffer = common.AppendUint32ToBufferLE(buffer, uint32(len(entries)))
	for _, e := range entries {
		buffer = common.AppendUint64ToBufferLE(buffer, uint64(e.DimID))
		buffer = common.AppendFloat64ToBufferLE(buffer, e.Metric)
	}
	return buffer
}

func DecodeTopNEntries(buffer []byte) []TopNEntry {
	n, offset := common.ReadUint32FromBufferLE(buffer, 0)
	entries := make([]TopNEntry, n)
	for i := 0; i < int(n); i++ {
		var id uint64
		id, offset = common.ReadUint64FromBufferLE(buffer, offset)
		entries[i].DimID = int(id)
		entries[i].Metric, offset = common.ReadFloat64FromBufferLE(buffer, offset)
	}
	return entries
}

// topNType is the one advanced-fill measure: the stored value holds the top n
// (dimension id, metric) pairs and expands into n output rows. The dimension
// ids need the literal column's dictionary to decode.
type topNType struct {
}

func (t *topNType) NeedsAdvancedFill() bool {
	return true
}

func (t *topNType) FillSimply(tuple *common.Tuple, fieldIndex int, value interface{}) {
	panic("topn fills via its advanced filler")
}

func (t *topNType) ColumnsNeedDictionary(desc *common.MeasureDesc) []common.ColRef {
	return desc.LiteralCols()
}

func (t *topNType) CreateAdvancedFiller(desc *common.MeasureDesc, tupleInfo *common.TupleInfo,
	dicts map[common.ColRef]dict.Dictionary) (AdvancedFiller, error) {
	if len(desc.LiteralCols()) != 1 {
		return nil, errors.Errorf("topn measure %s must have exactly one literal column", desc.Key())
	}
	litCol := desc.LiteralCols()[0]
	d, ok := dicts[litCol]
	if !ok {
		return nil, errors.Errorf("no dictionary for topn literal column %s", litCol.String())
	}
	filler := &topNFiller{
		dict:        d,
		litTupleIdx: -1,
		fieldIdx:    -1,
	}
	if tupleInfo.HasColumn(litCol) {
		filler.litTupleIdx = tupleInfo.ColumnIndex(litCol)
	}
	if desc.NeedsRewrite {
		if tupleInfo.HasField(desc.RewriteFieldName) {
			filler.fieldIdx = tupleInfo.FieldIndex(desc.RewriteFieldName)
		}
	} else if tupleInfo.HasColumn(desc.Col()) {
		filler.fieldIdx = tupleInfo.ColumnIndex(desc.Col())
	}
	return filler, nil
}

type topNFiller struct {
	dict        dict.Dictionary
	litTupleIdx int
	fieldIdx    int
	entries     []TopNEntry
}

func (f *topNFiller) Reload(value interface{}) {
	switch v := value.(type) {
	case []byte:
		f.entries = DecodeTopNEntries(v)
	case []TopNEntry:
		f.entries = v
	case nil:
		f.entries = nil
	default:
		panic("unexpected topn source value")
	}
}

func (f *topNFiller) RowCount() int {
	return len(f.entries)
}

func (f *topNFiller) FillRow(tuple *common.Tuple, row int) error {
	entry := f.entries[row]
	if f.litTupleIdx >= 0 {
		value, ok := f.dict.ValueOf(entry.DimID)
		if !ok {
			return errors.NewValueOutOfRangeError("topn dimension id not in dictionary")
		}
		tuple.SetDimensionValue(f.litTupleIdx, value)
	}
	if f.fieldIdx >= 0 {
		tuple.SetFieldValue(f.fieldIdx, entry.Metric)
	}
	return nil
}
