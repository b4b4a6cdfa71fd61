package wasm

import (
	"testing"

	"github.com/watconform/watconform/internal/require"
)

func TestGlobalRegistryDeclareAndExport(t *testing.T) {
	reg := NewGlobalRegistry()
	g := &Global{Name: "$count", Value: I32(0), Mutable: true}
	idx := reg.Declare(g)
	reg.Export("count", g)

	require.Equal(t, g, reg.ByIndex(idx))
	require.Equal(t, g, reg.ByName("$count"))
	require.Equal(t, g, reg.ExportedGlobal("count"))
	require.Equal(t, 1, reg.Len())
}
