package sexpr

import (
	"testing"

	"github.com/watconform/watconform/internal/require"
)

func TestParseSimpleModule(t *testing.T) {
	nodes, err := Parse(`(module (func $add (param i32 i32) (result i32) (i32.add (local.get 0) (local.get 1))))`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	mod := nodes[0]
	require.Equal(t, "module", mod.Head)
	require.Len(t, mod.Children, 1)

	fn := mod.Children[0]
	require.Equal(t, "func", fn.Head)
	require.Equal(t, "$add", fn.Name())
}

func TestParseStripsComments(t *testing.T) {
	src := `
	;; line comment
	(module (; block comment (; nested ;) still open ;) (memory 1))
	`
	nodes, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "memory", nodes[0].Children[0].Head)
}

func TestParseQuotedStringAtom(t *testing.T) {
	nodes, err := Parse(`(assert_return (invoke "add" (i32.const 1)) (i32.const 1))`)
	require.NoError(t, err)
	action := nodes[0].Children[0]
	require.Equal(t, "invoke", action.Head)
	require.True(t, len(action.Atoms) > 0)
	require.Equal(t, "add", action.Atoms[0].Text)
	require.True(t, action.Atoms[0].IsString)
}

func TestParseMultipleTopLevelForms(t *testing.T) {
	src := `(module (func)) (assert_return (invoke "f"))`
	nodes, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	require.Equal(t, "module", nodes[0].Head)
	require.Equal(t, "assert_return", nodes[1].Head)
}

func sameTree(a, b *Node) bool {
	if a.Head != b.Head || len(a.Atoms) != len(b.Atoms) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Atoms {
		if a.Atoms[i].Text != b.Atoms[i].Text || a.Atoms[i].IsString != b.Atoms[i].IsString {
			return false
		}
	}
	for i := range a.Children {
		if !sameTree(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func TestParsePrintReparseRoundTrip(t *testing.T) {
	srcs := []string{
		`(module (func $add (param i32 i32) (result i32) (i32.add (local.get 0) (local.get 1))))`,
		`(assert_return (invoke "add" (i32.const 2) (i32.const 3)) (i32.const 5))`,
		`(module (memory 1) (global $g (mut i64) (i64.const -1)))`,
	}
	for _, src := range srcs {
		first, err := Parse(src)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := Parse(first[0].String())
		require.NoError(t, err)
		require.Len(t, second, 1)
		require.True(t, sameTree(first[0], second[0]), "round trip changed the tree for %q", src)
	}
}

func TestParseUnterminatedExpressionErrors(t *testing.T) {
	_, err := Parse(`(module (func)`)
	require.Error(t, err)
}

func TestParseUnterminatedStringErrors(t *testing.T) {
	_, err := Parse(`(module "unterminated)`)
	require.Error(t, err)
}
