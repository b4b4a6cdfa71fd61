package spectest

import (
	"testing"

	"github.com/watconform/watconform/internal/require"
)

func TestRunAssertReturnInvokePass(t *testing.T) {
	src := `
	(module (func (export "add") (param i32 i32) (result i32)
		(i32.add (local.get 0) (local.get 1))))
	(assert_return (invoke "add" (i32.const 2) (i32.const 3)) (i32.const 5))
	`
	out, results, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)
	require.Equal(t, 2, out.Passed)
	require.Equal(t, 0, out.Failed)
	require.Equal(t, "invoke(add)", results[1].OpName)
}

func TestRunAssertTrapDivisionByZero(t *testing.T) {
	src := `
	(module (func (export "d") (result i32)
		(i32.div_s (i32.const 1) (i32.const 0))))
	(assert_trap (invoke "d") "integer divide by zero")
	`
	out, _, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 2, out.Passed)
}

func TestRunAssertInvalidTypeMismatch(t *testing.T) {
	src := `(assert_invalid (module (func (result i32) (f32.const 0))) "type mismatch")`
	out, results, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 1, out.Passed)
	require.True(t, results[0].Passed)
}

func TestRunAssertReturnRotateAndEqz(t *testing.T) {
	src := `
	(module
		(func (export "rotl32") (result i32) (i32.rotl (i32.const 1) (i32.const 31)))
		(func (export "eqz") (result i32) (i32.eqz (i32.const 0))))
	(assert_return (invoke "rotl32") (i32.const 0x80000000))
	(assert_return (invoke "eqz") (i32.const 1))
	`
	out, _, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 3, out.Passed)
	require.Equal(t, 0, out.Failed)
}

func TestRunAssertReturnBareExpression(t *testing.T) {
	src := `(assert_return (i32.and (i32.const 0xFF00) (i32.const 0x0FF0)) (i32.const 0x0F00))`
	out, results, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 1, out.Passed)
	require.True(t, results[0].Passed, results[0].Detail)
}

func TestRunAssertReturnFailureIsReported(t *testing.T) {
	src := `
	(module (func (export "add") (param i32 i32) (result i32)
		(i32.add (local.get 0) (local.get 1))))
	(assert_return (invoke "add" (i32.const 2) (i32.const 3)) (i32.const 6))
	`
	out, results, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 1, out.Failed)
	require.True(t, !results[1].Passed)
}

func TestRunAssertMalformedQuotedModule(t *testing.T) {
	src := `(assert_malformed (module quote "(func (result i32) (f32.const 0))") "unexpected token")`
	out, _, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 1, out.Passed)
}

func TestRunAssertTrapUnreachable(t *testing.T) {
	src := `
	(module (func (export "u") (unreachable)))
	(assert_trap (invoke "u") "unreachable")
	`
	out, _, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 2, out.Passed)
}

func TestRunTopLevelInvokeRunsForSideEffects(t *testing.T) {
	src := `
	(module
		(global $c (mut i32) (i32.const 0))
		(func (export "bump") (global.set $c (i32.add (global.get $c) (i32.const 1))))
		(func (export "read") (result i32) (global.get $c)))
	(invoke "bump")
	(invoke "bump")
	(assert_return (invoke "read") (i32.const 2))
	`
	out, _, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 4, out.Passed)
	require.Equal(t, 0, out.Failed)
}

func TestRunGetActionReadsExportedGlobal(t *testing.T) {
	src := `
	(module (global (export "answer") i32 (i32.const 42)))
	(assert_return (get "answer") (i32.const 42))
	`
	out, results, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 2, out.Passed)
	require.Equal(t, "get(answer)", results[1].OpName)
}

func TestRunAssertTrapWrongClassFails(t *testing.T) {
	src := `
	(module (func (export "u") (unreachable)))
	(assert_trap (invoke "u") "integer divide by zero")
	`
	out, _, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 1, out.Failed)
}

func TestRunAssertReturnArityMismatchFails(t *testing.T) {
	src := `
	(module (func (export "two") (result i32 i32) (i32.const 1) (i32.const 2)))
	(assert_return (invoke "two") (i32.const 1))
	`
	out, _, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 1, out.Failed)
}

func TestRunSkipsUnsupportedDirectives(t *testing.T) {
	src := `(assert_return_canonical_nan (invoke "f"))`
	out, results, err := Run(src)
	require.NoError(t, err)
	require.Equal(t, 1, out.Skipped)
	require.True(t, results[0].Skipped)
}
