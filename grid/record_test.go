package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quadrantdb/quadrant/common"
)

func TestRecordBulkExtract(t *testing.T) {
	record := NewRecord([]interface{}{"US", int64(20210101), 25.5})
	require.Equal(t, 3, record.ColCount())

	dest := make([]interface{}, 2)
	record.GetValues([]int{2, 0}, dest)
	require.Equal(t, 25.5, dest[0])
	require.Equal(t, "US", dest[1])
}

func TestRecordEncodeDecode(t *testing.T) {
	colTypes := []common.ColumnType{
		common.VarcharColumnType,
		common.BigIntColumnType,
		common.DoubleColumnType,
		common.TimestampColumnType,
		common.VarBinaryColumnType,
	}
	ts := time.Date(2021, 6, 1, 12, 30, 0, 0, time.UTC)
	values := []interface{}{"US", int64(20210101), 25.5, ts, []byte{1, 2, 3}}

	buff, err := EncodeRecord(values, colTypes, nil)
	require.NoError(t, err)

	record, err := DecodeRecord(buff, colTypes)
	require.NoError(t, err)
	require.Equal(t, values, []interface{}{record.Value(0), record.Value(1), record.Value(2), record.Value(3), record.Value(4)})
}

func TestRecordEncodeDecodeWithNulls(t *testing.T) {
	colTypes := []common.ColumnType{common.VarcharColumnType, common.BigIntColumnType}
	buff, err := EncodeRecord([]interface{}{nil, int64(5)}, colTypes, nil)
	require.NoError(t, err)

	record, err := DecodeRecord(buff, colTypes)
	require.NoError(t, err)
	require.Nil(t, record.Value(0))
	require.Equal(t, int64(5), record.Value(1))
}

func TestRecordEncodeWrongValueCount(t *testing.T) {
	_, err := EncodeRecord([]interface{}{"US"}, []common.ColumnType{common.VarcharColumnType, common.BigIntColumnType}, nil)
	require.Error(t, err)
}
