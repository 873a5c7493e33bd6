package common

import (
	"math"
)

// Values are encoded in little-endian order. Most CPU architectures are
// little-endian so this allows us to simply cast values for the int types.

func AppendUint32ToBufferLE(buffer []byte, v uint32) []byte {
	return append(buffer, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func AppendUint64ToBufferLE(buffer []byte, v uint64) []byte {
	return append(buffer, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), byte(v>>32),
		byte(v>>40), byte(v>>48), byte(v>>56))
}

func AppendUint64ToBufferBE(buffer []byte, v uint64) []byte {
	return append(buffer, byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func AppendFloat64ToBufferLE(buffer []byte, value float64) []byte {
	u := math.Float64bits(value)
	return AppendUint64ToBufferLE(buffer, u)
}

func AppendStringToBufferLE(buffer []byte, value string) []byte {
	buffPtr := AppendUint32ToBufferLE(buffer, uint32(len(value)))
	buffPtr = append(buffPtr, value...)
	return buffPtr
}

func AppendBytesToBufferLE(buffer []byte, value []byte) []byte {
	buffPtr := AppendUint32ToBufferLE(buffer, uint32(len(value)))
	buffPtr = append(buffPtr, value...)
	return buffPtr
}

func ReadUint32FromBufferLE(buffer []byte, offset int) (uint32, int) {
	v := uint32(buffer[offset]) | uint32(buffer[offset+1])<<8 | uint32(buffer[offset+2])<<16 | uint32(buffer[offset+3])<<24
	return v, offset + 4
}

func ReadUint64FromBufferLE(buffer []byte, offset int) (uint64, int) {
	v := uint64(buffer[offset]) | uint64(buffer[offset+1])<<8 | uint64(buffer[offset+2])<<16 |
		uint64(buffer[offset+3])<<24 | uint64(buffer[offset+4])<<32 | uint64(buffer[offset+5])<<40 |
		uint64(buffer[offset+6])<<48 | uint64(buffer[offset+7])<<56
	return v, offset + 8
}

func ReadFloat64FromBufferLE(buffer []byte, offset int) (float64, int) {
	u, offset := ReadUint64FromBufferLE(buffer, offset)
	return math.Float64frombits(u), offset
}

func ReadStringFromBufferLE(buffer []byte, offset int) (string, int) {
	l, offset := ReadUint32FromBufferLE(buffer, offset)
	str := string(buffer[offset : offset+int(l)])
	return str, offset + int(l)
}

func ReadBytesFromBufferLE(buffer []byte, offset int) ([]byte, int) {
	l, offset := ReadUint32FromBufferLE(buffer, offset)
	b := make([]byte, l)
	copy(b, buffer[offset:offset+int(l)])
	return b, offset + int(l)
}
