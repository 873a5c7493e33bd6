package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint32RoundTrip(t *testing.T) {
	buff := AppendUint32ToBufferLE(nil, 123456789)
	v, offset := ReadUint32FromBufferLE(buff, 0)
	require.Equal(t, uint32(123456789), v)
	require.Equal(t, 4, offset)
}

func TestUint64RoundTrip(t *testing.T) {
	buff := AppendUint64ToBufferLE(nil, uint64(1)<<62+12345)
	v, offset := ReadUint64FromBufferLE(buff, 0)
	require.Equal(t, uint64(1)<<62+12345, v)
	require.Equal(t, 8, offset)
}

func TestFloat64RoundTrip(t *testing.T) {
	buff := AppendFloat64ToBufferLE(nil, -1234.5625)
	v, _ := ReadFloat64FromBufferLE(buff, 0)
	require.Equal(t, -1234.5625, v)
}

func TestStringRoundTripWithOffset(t *testing.T) {
	buff := AppendUint32ToBufferLE(nil, 7)
	buff = AppendStringToBufferLE(buff, "quadrant")
	s, offset := ReadStringFromBufferLE(buff, 4)
	require.Equal(t, "quadrant", s)
	require.Equal(t, len(buff), offset)

	buff = AppendStringToBufferLE(nil, "")
	s, _ = ReadStringFromBufferLE(buff, 0)
	require.Equal(t, "", s)
}

func TestBytesRoundTrip(t *testing.T) {
	buff := AppendBytesToBufferLE(nil, []byte{0, 1, 2, 255})
	b, offset := ReadBytesFromBufferLE(buff, 0)
	require.Equal(t, []byte{0, 1, 2, 255}, b)
	require.Equal(t, len(buff), offset)
}
