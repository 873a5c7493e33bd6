package grid

import (
	"time"

	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/errors"
)

// Stored cuboid rows are encoded column by column, one null byte followed by
// the typed payload, in little-endian order.

func EncodeRecord(values []interface{}, colTypes []common.ColumnType, buffer []byte) ([]byte, error) {
	if len(values) != len(colTypes) {
		return nil, errors.Errorf("expected %d values got %d", len(colTypes), len(values))
	}
	for i, colType := range colTypes {
		var err error
		buffer, err = encodeRecordCol(values[i], colType, buffer)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return buffer, nil
}

func encodeRecordCol(value interface{}, colType common.ColumnType, buffer []byte) ([]byte, error) {
	if value == nil {
		return append(buffer, 0), nil
	}
	buffer = append(buffer, 1)
	switch colType.Type {
	case common.TypeTinyInt, common.TypeInt, common.TypeBigInt:
		// We store as unsigned so convert signed to unsigned
		buffer = common.AppendUint64ToBufferLE(buffer, uint64(value.(int64)))
	case common.TypeDouble:
		buffer = common.AppendFloat64ToBufferLE(buffer, value.(float64))
	case common.TypeVarchar:
		buffer = common.AppendStringToBufferLE(buffer, value.(string))
	case common.TypeTimestamp:
		buffer = common.AppendUint64ToBufferLE(buffer, uint64(value.(time.Time).UnixNano()))
	case common.TypeVarBinary:
		buffer = common.AppendBytesToBufferLE(buffer, value.([]byte))
	default:
		return nil, errors.Errorf("unexpected column type %d", colType.Type)
	}
	return buffer, nil
}

// DecodeRecord decodes one stored cuboid row into a Record.
func DecodeRecord(buffer []byte, colTypes []common.ColumnType) (*Record, error) {
	values := make([]interface{}, len(colTypes))
	offset := 0
	for i, colType := range colTypes {
		if buffer[offset] == 0 {
			offset++
			continue
		}
		offset++
		switch colType.Type {
		case common.TypeTinyInt, common.TypeInt, common.TypeBigInt:
			var u uint64
			u, offset = common.ReadUint64FromBufferLE(buffer, offset)
			values[i] = int64(u)
		case common.TypeDouble:
			values[i], offset = common.ReadFloat64FromBufferLE(buffer, offset)
		case common.TypeVarchar:
			values[i], offset = common.ReadStringFromBufferLE(buffer, offset)
		case common.TypeTimestamp:
			var u uint64
			u, offset = common.ReadUint64FromBufferLE(buffer, offset)
			values[i] = time.Unix(0, int64(u)).UTC()
		case common.TypeVarBinary:
			values[i], offset = common.ReadBytesFromBufferLE(buffer, offset)
		default:
			return nil, errors.Errorf("unexpected column type %d", colType.Type)
		}
	}
	return NewRecord(values), nil
}
