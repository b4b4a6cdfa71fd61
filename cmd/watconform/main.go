// Command watconform runs a conformance script's assert_return/assert_trap/
// assert_invalid/assert_malformed directives through the harness in
// internal/spectest and prints one line per directive plus a final tally.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/watconform/watconform/internal/spectest"
)

const (
	failColor = "\033[91m"
	warnColor = "\033[93m"
	endColor  = "\033[0m"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr, os.Args[1:]))
}

// doMain is separated from main for unit testing.
func doMain(stdOut, stdErr io.Writer, args []string) int {
	fs := flag.NewFlagSet("watconform", flag.ContinueOnError)
	fs.SetOutput(stdErr)
	fs.Usage = func() {
		fmt.Fprintln(stdErr, "usage: watconform <script.wast>")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	path := fs.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdErr, "%sfile %q not found!%s\n", failColor, path, endColor)
		return 1
	}

	outcome, results, err := spectest.Run(string(src))
	if err != nil {
		fmt.Fprintf(stdErr, "%s%v%s\n", failColor, err, endColor)
		return 1
	}

	assertionIndex := 0
	for _, r := range results {
		if r.Skipped {
			fmt.Fprintf(stdOut, "%sAssertion #%d of type %q was not implemented, skipping.%s\n",
				warnColor, assertionIndex, r.Kind, endColor)
			assertionIndex++
			continue
		}
		if r.Passed {
			fmt.Fprintf(stdOut, "Assertion #%d of type %q was successful! (%s)\n", assertionIndex, r.OpName, r.Kind)
		} else {
			fmt.Fprintf(stdOut, "%sAssertion #%d of type %q was unsuccessful! (%s)%s\n",
				failColor, assertionIndex, r.OpName, r.Kind, endColor)
			if r.Detail != "" {
				fmt.Fprintf(stdOut, "    line %d: %s\n", r.Line, r.Detail)
			}
		}
		assertionIndex++
	}

	fmt.Fprintln(stdOut)
	fmt.Fprintf(stdOut, "Correct assertions: %d/%d.\n", outcome.Passed, outcome.Total)

	return 0
}
