package wasm

import (
	"testing"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/require"
)

func TestFunctionRegistryExportResolution(t *testing.T) {
	reg := NewFunctionRegistry()
	idx := reg.DeclareFunction(&Function{Name: "$add"})
	reg.Export("add", idx)

	got, ok := reg.ExportedFunction("add")
	require.True(t, ok)
	require.Equal(t, idx, got)

	byName, ok := reg.FunctionIndex("$add")
	require.True(t, ok)
	require.Equal(t, idx, byName)

	_, ok = reg.ExportedFunction("nope")
	require.True(t, !ok, "unexported names must not resolve")
}

func TestFunctionTypeEqual(t *testing.T) {
	a := FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	b := FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	c := FunctionType{Params: []api.ValueType{api.ValueTypeI64}, Results: []api.ValueType{api.ValueTypeI32}}
	require.True(t, a.Equal(b))
	require.True(t, !a.Equal(c))
}

func TestFunctionRegistryTable(t *testing.T) {
	reg := NewFunctionRegistry()
	f0 := reg.DeclareFunction(&Function{Name: "$f0"})
	f1 := reg.DeclareFunction(&Function{Name: "$f1"})
	reg.SetTable([]int{f1, f0})

	entry, ok := reg.TableEntry(0)
	require.True(t, ok)
	require.Equal(t, f1, entry)

	_, ok = reg.TableEntry(5)
	require.True(t, !ok, "out of range table slot must raise undefined element, not panic")
}
