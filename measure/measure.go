package measure

import (
	"strings"

	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/dict"
	"github.com/quadrantdb/quadrant/errors"
)

// Type is the capability of one kind of measure. A simple fill writes one
// scalar into one output field. An advanced fill needs per-column dictionary
// context and may expand one stored aggregate into several output rows; the
// expansion is driven by the caller through an AdvancedFiller.
type Type interface {
	NeedsAdvancedFill() bool

	FillSimply(tuple *common.Tuple, fieldIndex int, value interface{})

	// ColumnsNeedDictionary names the columns whose dictionaries the advanced
	// filler needs. Only these are loaded - unrelated dictionaries are not.
	ColumnsNeedDictionary(desc *common.MeasureDesc) []common.ColRef

	CreateAdvancedFiller(desc *common.MeasureDesc, tupleInfo *common.TupleInfo,
		dicts map[common.ColRef]dict.Dictionary) (AdvancedFiller, error)
}

// AdvancedFiller is stateful and reusable: built once per plan, reloaded with
// a fresh source value for every record, then driven by the caller to expand
// that value into final output rows. Reload overwrites, it never accumulates.
type AdvancedFiller interface {
	Reload(value interface{})
	RowCount() int
	FillRow(tuple *common.Tuple, row int) error
}

var registry = map[string]Type{
	"sum":            &basicType{},
	"count":          &basicType{},
	"min":            &basicType{},
	"max":            &basicType{},
	"raw":            &basicType{},
	"count_distinct": &distinctCountType{},
	"topn":           &topNType{},
}

// TypeFor resolves the measure type capability for a measure descriptor.
func TypeFor(desc *common.MeasureDesc) (Type, error) {
	t, ok := registry[strings.ToLower(desc.AggFunc)]
	if !ok {
		return nil, errors.NewUnknownMeasureTypeError(desc.AggFunc)
	}
	return t, nil
}

// basicType covers the aggregates whose stored representation is already the
// final scalar - sum, count, min, max and raw dimension-as-metric.
type basicType struct {
}

func (t *basicType) NeedsAdvancedFill() bool {
	return false
}

func (t *basicType) FillSimply(tuple *common.Tuple, fieldIndex int, value interface{}) {
	tuple.SetFieldValue(fieldIndex, value)
}

func (t *basicType) ColumnsNeedDictionary(desc *common.MeasureDesc) []common.ColRef {
	return nil
}

func (t *basicType) CreateAdvancedFiller(desc *common.MeasureDesc, tupleInfo *common.TupleInfo,
	dicts map[common.ColRef]dict.Dictionary) (AdvancedFiller, error) {
	return nil, errors.Errorf("measure %s does not use advanced filling", desc.Key())
}

// distinctCountType materializes a pre-aggregated distinct count. The stored
// value is the cardinality, already folded upstream.
type distinctCountType struct {
}

func (t *distinctCountType) NeedsAdvancedFill() bool {
	return false
}

func (t *distinctCountType) FillSimply(tuple *common.Tuple, fieldIndex int, value interface{}) {
	switch v := value.(type) {
	case int64:
		tuple.SetFieldValue(fieldIndex, v)
	case uint64:
		tuple.SetFieldValue(fieldIndex, int64(v))
	case nil:
		tuple.SetFieldValue(fieldIndex, int64(0))
	default:
		tuple.SetFieldValue(fieldIndex, value)
	}
}

func (t *distinctCountType) ColumnsNeedDictionary(desc *common.MeasureDesc) []common.ColRef {
	return nil
}

func (t *distinctCountType) CreateAdvancedFiller(desc *common.MeasureDesc, tupleInfo *common.TupleInfo,
	dicts map[common.ColRef]dict.Dictionary) (AdvancedFiller, error) {
	return nil, errors.Errorf("measure %s does not use advanced filling", desc.Key())
}
