package instantiate

import (
	"testing"

	"github.com/watconform/watconform/internal/require"
	"github.com/watconform/watconform/internal/sexpr"
	"github.com/watconform/watconform/internal/watruntime"
)

func mustParseOne(t *testing.T, src string) *sexpr.Node {
	nodes, err := sexpr.Parse(src)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	return nodes[0]
}

func TestInstantiateSimpleFunction(t *testing.T) {
	root := mustParseOne(t, `(module
		(func (export "add") (param i32 i32) (result i32)
			(i32.add (local.get 0) (local.get 1))))`)
	m, err := Instantiate(root)
	require.NoError(t, err)

	idx, ok := m.Funcs.ExportedFunction("add")
	require.True(t, ok)
	fn := m.Funcs.Function(idx)
	require.Equal(t, 2, len(fn.Type.Params))
	require.Equal(t, 1, len(fn.Type.Results))
}

func TestInstantiateRejectsTypeMismatch(t *testing.T) {
	root := mustParseOne(t, `(module (func (result i32) (f32.const 0)))`)
	_, err := Instantiate(root)
	require.Error(t, err)
	require.ErrorIs(t, err, watruntime.ErrInvalidFunctionResult)
}

func TestInstantiateRejectsStackUnderflow(t *testing.T) {
	root := mustParseOne(t, `(module (func (result i32) (i32.add (i32.const 1))))`)
	_, err := Instantiate(root)
	require.Error(t, err)
	require.ErrorIs(t, err, watruntime.ErrEmptyOperand)
}

func TestInstantiateRejectsQuoteWrappedModule(t *testing.T) {
	root := mustParseOne(t, `(module quote "(func (result i32) (f32.const 0))")`)
	_, err := Instantiate(root)
	require.Error(t, err)
	require.ErrorIs(t, err, watruntime.ErrUnexpectedToken)
}

func TestInstantiateGlobalExportAndMutability(t *testing.T) {
	root := mustParseOne(t, `(module
		(global $g (export "g") (mut i32) (i32.const 5))
		(func (export "bump")
			(global.set $g (i32.add (global.get $g) (i32.const 1)))))`)
	m, err := Instantiate(root)
	require.NoError(t, err)

	g := m.Globals.ExportedGlobal("g")
	require.True(t, g != nil)
	require.Equal(t, int32(5), g.Value.I32())
	require.True(t, g.Mutable)
}

func TestInstantiateMemoryDeclaration(t *testing.T) {
	root := mustParseOne(t, `(module (memory 2))`)
	m, err := Instantiate(root)
	require.NoError(t, err)
	require.True(t, m.HasMemory)
	require.Equal(t, uint32(2), m.Memory.PageCount())
}

func TestInstantiateElemSegmentAndCallIndirect(t *testing.T) {
	root := mustParseOne(t, `(module
		(type $binop (func (param i32 i32) (result i32)))
		(func $add (type $binop) (i32.add (local.get 0) (local.get 1)))
		(elem $add)
		(func (export "apply") (param i32 i32) (result i32)
			(call_indirect (type $binop) (local.get 0) (local.get 1) (i32.const 0))))`)
	m, err := Instantiate(root)
	require.NoError(t, err)
	require.Equal(t, 1, m.Funcs.TableLen())
}

func TestInstantiateUnknownLocalIsRejected(t *testing.T) {
	root := mustParseOne(t, `(module (func (result i32) (local.get 3) ))`)
	_, err := Instantiate(root)
	require.Error(t, err)
	require.ErrorIs(t, err, watruntime.ErrUnknownVariable)
}

func TestInstantiateCodeAfterBranchIsUnreachable(t *testing.T) {
	// The i32.const after br can never execute, so it must not count
	// against the block's declared results.
	root := mustParseOne(t, `(module (func (result i32)
		(block (result i32)
			(br 0 (i32.const 7))
			(i32.const 99))))`)
	_, err := Instantiate(root)
	require.NoError(t, err)
}

func TestInstantiateIfArmResultMismatch(t *testing.T) {
	root := mustParseOne(t, `(module (func (result i32)
		(if (result i32) (i32.const 1)
			(then (f32.const 0))
			(else (i32.const 2)))))`)
	_, err := Instantiate(root)
	require.Error(t, err)
	require.ErrorIs(t, err, watruntime.ErrInvalidFunctionResult)
}

func TestInstantiateBrTableLiteralOutOfRange(t *testing.T) {
	root := mustParseOne(t, `(module (func
		(block (br_table 5 (i32.const 0)))))`)
	_, err := Instantiate(root)
	require.Error(t, err)
	require.ErrorIs(t, err, watruntime.ErrUnknownLabel)
}

func TestInstantiateSetImmutableGlobalRejected(t *testing.T) {
	root := mustParseOne(t, `(module
		(global $g i32 (i32.const 1))
		(func (global.set $g (i32.const 2))))`)
	_, err := Instantiate(root)
	require.Error(t, err)
	require.ErrorIs(t, err, watruntime.ErrInvalidFunctionSignature)
}

func TestInstantiateNarrowMemoryOps(t *testing.T) {
	root := mustParseOne(t, `(module (memory 1)
		(func (export "w") (i32.store8 (i32.const 0) (i32.const 0x1FF)))
		(func (export "r") (result i32) (i32.load8_u (i32.const 0))))`)
	_, err := Instantiate(root)
	require.NoError(t, err)
}

func TestParseBinaryAndUnderscoreLiterals(t *testing.T) {
	v, err := parseIntLiteral("0b1010", 32)
	require.NoError(t, err)
	require.Equal(t, int64(10), v)

	v, err = parseIntLiteral("1_000_000", 64)
	require.NoError(t, err)
	require.Equal(t, int64(1000000), v)

	v, err = parseIntLiteral("0xFFFFFFFF", 32)
	require.NoError(t, err)
	require.Equal(t, int64(0xFFFFFFFF), v)

	_, err = parseIntLiteral("12abc", 32)
	require.Error(t, err)
	require.ErrorIs(t, err, watruntime.ErrUnexpectedToken)
}
