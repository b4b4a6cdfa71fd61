package wasm

import (
	"testing"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/require"
)

func TestMemoryGrowReturnsPriorPageCount(t *testing.T) {
	m := NewMemory()
	require.Equal(t, uint32(0), m.Grow(2))
	require.Equal(t, uint32(2), m.PageCount())
	require.Equal(t, PageSize*2, len(m.Bytes))
}

func TestMemoryStoreLoadRoundTrip(t *testing.T) {
	m := NewMemory()
	m.Grow(1)
	ok := m.Store(0, 4, I32(12345))
	require.True(t, ok)

	v, ok := m.Load(api.ValueTypeI32, 0, 4)
	require.True(t, ok)
	require.Equal(t, int32(12345), v.I32())
}

func TestMemoryLoadOutOfBounds(t *testing.T) {
	m := NewMemory()
	m.Grow(1)
	_, ok := m.Load(api.ValueTypeI64, PageSize-4, 0)
	require.True(t, !ok, "reading past the end of memory must fail rather than panic")
}

func TestMemoryStoreOutOfBounds(t *testing.T) {
	m := NewMemory()
	ok := m.Store(0, 0, I32(1))
	require.True(t, !ok, "storing into an ungrown memory must fail")
}

func TestMemoryNarrowReadWrite(t *testing.T) {
	m := NewMemory()
	m.Grow(1)
	require.True(t, m.WriteBits(0, 0, 0x1122334455667788, 2))

	bits, ok := m.ReadBits(0, 0, 2)
	require.True(t, ok)
	require.Equal(t, uint64(0x7788), bits)

	bits, ok = m.ReadBits(0, 1, 1)
	require.True(t, ok)
	require.Equal(t, uint64(0x77), bits, "writes are little-endian")
}
