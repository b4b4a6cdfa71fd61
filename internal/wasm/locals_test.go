package wasm

import (
	"testing"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/require"
)

func TestLocalsGetSetByIndexAndName(t *testing.T) {
	l := NewLocals([]api.ValueType{api.ValueTypeI32, api.ValueTypeF64}, []string{"$x", ""})

	idx, ok := l.IndexOf("$x")
	require.True(t, ok)
	require.Equal(t, 0, idx)

	require.True(t, l.Set(0, I32(7)))
	v, ok := l.Get(0)
	require.True(t, ok)
	require.Equal(t, int32(7), v.I32())

	_, ok = l.Get(5)
	require.True(t, !ok, "out of range index must not panic")
}

func TestLocalsAppendGrowsFrame(t *testing.T) {
	l := NewLocals([]api.ValueType{api.ValueTypeI32}, []string{""})
	idx := l.Append(api.ValueTypeI64, "$y")
	require.Equal(t, 1, idx)
	require.Equal(t, 2, l.Len())

	got, ok := l.IndexOf("$y")
	require.True(t, ok)
	require.Equal(t, 1, got)
}
