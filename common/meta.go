package common

import (
	"fmt"
	"time"

	"github.com/quadrantdb/quadrant/errors"
)

type Type int

const (
	TypeUnknown Type = iota
	TypeTinyInt
	TypeInt
	TypeBigInt
	TypeDouble
	TypeVarchar
	TypeTimestamp
	TypeVarBinary
)

var (
	TinyIntColumnType   = ColumnType{Type: TypeTinyInt}
	IntColumnType       = ColumnType{Type: TypeInt}
	BigIntColumnType    = ColumnType{Type: TypeBigInt}
	DoubleColumnType    = ColumnType{Type: TypeDouble}
	VarcharColumnType   = ColumnType{Type: TypeVarchar}
	TimestampColumnType = ColumnType{Type: TypeTimestamp}
	VarBinaryColumnType = ColumnType{Type: TypeVarBinary}
	UnknownColumnType   = ColumnType{Type: TypeUnknown}
)

type ColumnType struct {
	Type Type
}

// InferColumnType from Go type.
func InferColumnType(value interface{}) ColumnType {
	switch value.(type) {
	case string:
		return VarcharColumnType
	case int, int64:
		return BigIntColumnType
	case int16, int32:
		return IntColumnType
	case int8:
		return TinyIntColumnType
	case float64:
		return DoubleColumnType
	case time.Time:
		return TimestampColumnType
	case []byte:
		return VarBinaryColumnType
	default:
		panic(fmt.Sprintf("can't infer column of type %T", value))
	}
}

// ColRef identifies a column of a source table. ColIndex is the zero based
// position of the column within its source table, which is also its offset
// within a materialized lookup row of that table.
type ColRef struct {
	TableName string
	ColName   string
	ColIndex  int
}

func (c ColRef) String() string {
	return fmt.Sprintf("%s.%s", c.TableName, c.ColName)
}

// MeasureDesc describes one requested aggregate function. Cols[0] is the
// numeric parameter, any further columns are literal columns (e.g. the
// grouped dimension of an approximate top-n).
type MeasureDesc struct {
	AggFunc          string
	Cols             []ColRef
	NeedsRewrite     bool
	RewriteFieldName string
}

func (m *MeasureDesc) Col() ColRef {
	return m.Cols[0]
}

func (m *MeasureDesc) LiteralCols() []ColRef {
	return m.Cols[1:]
}

func (m *MeasureDesc) Key() string {
	return fmt.Sprintf("%s(%s)", m.AggFunc, m.Cols[0].String())
}

func (m *MeasureDesc) Validate() error {
	if len(m.Cols) == 0 {
		return errors.NewQuadrantErrorf(errors.InternalError, "measure %s has no parameter column", m.AggFunc)
	}
	if m.NeedsRewrite && m.RewriteFieldName == "" {
		return errors.NewQuadrantErrorf(errors.InternalError, "measure %s needs rewrite but has no rewrite field name", m.Key())
	}
	return nil
}
