package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/watconform/watconform/internal/require"
)

func TestDoMainRunsScriptAndTallies(t *testing.T) {
	src := `
	(module (func (export "add") (param i32 i32) (result i32)
		(i32.add (local.get 0) (local.get 1))))
	(assert_return (invoke "add" (i32.const 2) (i32.const 3)) (i32.const 5))
	`
	path := filepath.Join(t.TempDir(), "script.wast")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var stdOut, stdErr bytes.Buffer
	code := doMain(&stdOut, &stdErr, []string{path})
	require.Equal(t, 0, code)
	require.True(t, strings.Contains(stdOut.String(), "Correct assertions: 2/2."))
}

func TestDoMainMissingFile(t *testing.T) {
	var stdOut, stdErr bytes.Buffer
	code := doMain(&stdOut, &stdErr, []string{"/nonexistent/path.wast"})
	require.Equal(t, 1, code)
	require.True(t, strings.Contains(stdErr.String(), "not found"))
}

func TestDoMainRequiresExactlyOneArg(t *testing.T) {
	var stdOut, stdErr bytes.Buffer
	code := doMain(&stdOut, &stdErr, nil)
	require.Equal(t, 2, code)
}

func TestDoMainReportsFailedAssertion(t *testing.T) {
	src := `
	(module (func (export "add") (param i32 i32) (result i32)
		(i32.add (local.get 0) (local.get 1))))
	(assert_return (invoke "add" (i32.const 2) (i32.const 3)) (i32.const 6))
	`
	path := filepath.Join(t.TempDir(), "script.wast")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var stdOut, stdErr bytes.Buffer
	code := doMain(&stdOut, &stdErr, []string{path})
	require.Equal(t, 0, code)
	require.True(t, strings.Contains(stdOut.String(), "unsuccessful"))
	require.True(t, strings.Contains(stdOut.String(), "Correct assertions: 1/2."))
}
