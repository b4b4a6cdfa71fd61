// Package spectest runs a conformance script's assert_return/assert_trap/
// assert_invalid/assert_malformed directives against this interpreter and
// tallies the outcome per directive.
package spectest

import (
	"fmt"

	"github.com/watconform/watconform/internal/instantiate"
	"github.com/watconform/watconform/internal/interpreter"
	"github.com/watconform/watconform/internal/sexpr"
	"github.com/watconform/watconform/internal/wasm"
	"github.com/watconform/watconform/internal/watruntime"
)

// Outcome tallies a script run. Skipped counts directives this scope
// deliberately does not evaluate (see Non-goals: register scripts,
// canonical/arithmetic NaN assertions) plus any unrecognized directive.
type Outcome struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// CaseResult describes a single directive's outcome, for a driver to
// print in its own format.
type CaseResult struct {
	Line    int
	Kind    string
	OpName  string
	Passed  bool
	Skipped bool
	Detail  string
}

// actionOpName renders the action an assert_return/assert_trap directive
// wraps as "<head>(<name>)", e.g. "invoke(add)", "get(count)".
func actionOpName(action *sexpr.Node) string {
	if len(action.Atoms) == 0 {
		return action.Head
	}
	return fmt.Sprintf("%s(%s)", action.Head, action.Atoms[0].Text)
}

// Run parses src as a sequence of top-level forms and evaluates each
// directive in order against a module instantiated by the most recent
// preceding (module ...) form.
func Run(src string) (Outcome, []CaseResult, error) {
	forms, err := sexpr.Parse(src)
	if err != nil {
		return Outcome{}, nil, fmt.Errorf("parse error: %w", err)
	}

	var out Outcome
	var results []CaseResult
	var current *instantiate.Module

	for _, f := range forms {
		switch f.Head {
		case "module":
			m, err := instantiate.Instantiate(f)
			out.Total++
			if err != nil {
				out.Failed++
				results = append(results, CaseResult{Line: f.Line, Kind: "module", OpName: "module", Passed: false, Detail: err.Error()})
				continue
			}
			current = m
			out.Passed++
			results = append(results, CaseResult{Line: f.Line, Kind: "module", OpName: "module", Passed: true})

		case "assert_return":
			out.Total++
			r := runAssertReturn(f, current)
			if r.Passed {
				out.Passed++
			} else {
				out.Failed++
			}
			results = append(results, r)

		case "assert_trap":
			out.Total++
			r := runAssertTrap(f, current)
			if r.Passed {
				out.Passed++
			} else {
				out.Failed++
			}
			results = append(results, r)

		case "assert_invalid":
			out.Total++
			r := runAssertInvalid(f, "assert_invalid")
			if r.Passed {
				out.Passed++
			} else {
				out.Failed++
			}
			results = append(results, r)

		case "assert_malformed":
			out.Total++
			r := runAssertInvalid(f, "assert_malformed")
			if r.Passed {
				out.Passed++
			} else {
				out.Failed++
			}
			results = append(results, r)

		case "invoke":
			// A bare top-level invoke runs for its side effects (global or
			// memory mutation); a trap fails it.
			out.Total++
			r := CaseResult{Line: f.Line, Kind: "invoke", OpName: actionOpName(f), Passed: true}
			if _, err := evalAction(f, current); err != nil {
				r.Passed = false
				r.Detail = err.Error()
			}
			if r.Passed {
				out.Passed++
			} else {
				out.Failed++
			}
			results = append(results, r)

		case "assert_return_canonical_nan", "assert_return_arithmetic_nan", "register":
			out.Total++
			out.Skipped++
			results = append(results, CaseResult{Line: f.Line, Kind: f.Head, Skipped: true})

		default:
			out.Total++
			out.Skipped++
			results = append(results, CaseResult{Line: f.Line, Kind: f.Head, Skipped: true, Detail: "unrecognized directive"})
		}
	}

	return out, results, nil
}

// evalAction executes the action a directive wraps, against the current
// module: `(invoke "name" args...)`, `(get "name")`, or a bare
// expression such as `(i32.and (i32.const 1) (i32.const 2))` (spec
// section 8's literal end-to-end scenario of an assert_return that never
// names a function).
func evalAction(action *sexpr.Node, m *instantiate.Module) ([]wasm.Value, error) {
	switch action.Head {
	case "invoke":
		if m == nil {
			return nil, fmt.Errorf("no module instantiated yet")
		}
		if len(action.Atoms) == 0 {
			return nil, fmt.Errorf("line %d: invoke missing function name", action.Line)
		}
		name := action.Atoms[0].Text
		idx, ok := m.Funcs.ExportedFunction(name)
		if !ok {
			idx, ok = m.Funcs.FunctionIndex("$" + name)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q", watruntime.ErrUnknownFunction, name)
		}
		var args []wasm.Value
		for _, c := range action.Children {
			v, err := instantiate.ConstLiteral(c)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return interpreter.CallFunction(m, idx, args)
	case "get":
		if m == nil {
			return nil, fmt.Errorf("no module instantiated yet")
		}
		if len(action.Atoms) == 0 {
			return nil, fmt.Errorf("line %d: get missing global name", action.Line)
		}
		gname := action.Atoms[0].Text
		g := m.Globals.ExportedGlobal(gname)
		if g == nil {
			g = m.Globals.ByName("$" + gname)
		}
		if g == nil {
			return nil, fmt.Errorf("%w: %q", watruntime.ErrUnknownVariable, gname)
		}
		return []wasm.Value{g.Value}, nil
	default:
		nodes, err := instantiate.BuildExpr(action, m)
		if err != nil {
			return nil, err
		}
		return interpreter.EvalExpr(m, nodes)
	}
}

func runAssertReturn(f *sexpr.Node, m *instantiate.Module) CaseResult {
	if len(f.Children) == 0 {
		return CaseResult{Line: f.Line, Kind: "assert_return", Passed: false, Detail: "missing action"}
	}
	action := f.Children[0]
	op := actionOpName(action)
	got, err := evalAction(action, m)
	if err != nil {
		return CaseResult{Line: f.Line, Kind: "assert_return", OpName: op, Passed: false, Detail: fmt.Sprintf("unexpected trap: %v", err)}
	}
	var want []wasm.Value
	for _, c := range f.Children[1:] {
		v, err := instantiate.ConstLiteral(c)
		if err != nil {
			return CaseResult{Line: f.Line, Kind: "assert_return", OpName: op, Passed: false, Detail: err.Error()}
		}
		want = append(want, v)
	}
	if len(got) != len(want) {
		return CaseResult{Line: f.Line, Kind: "assert_return", OpName: op, Passed: false,
			Detail: fmt.Sprintf("expected %d results, got %d", len(want), len(got))}
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			return CaseResult{Line: f.Line, Kind: "assert_return", OpName: op, Passed: false,
				Detail: fmt.Sprintf("result %d: expected %+v, got %+v", i, want[i], got[i])}
		}
	}
	return CaseResult{Line: f.Line, Kind: "assert_return", OpName: op, Passed: true}
}

func runAssertTrap(f *sexpr.Node, m *instantiate.Module) CaseResult {
	if len(f.Children) == 0 {
		return CaseResult{Line: f.Line, Kind: "assert_trap", Passed: false, Detail: "missing action"}
	}
	action := f.Children[0]
	op := actionOpName(action)
	msg := ""
	if len(f.Atoms) > 0 {
		msg = f.Atoms[0].Text
	}
	_, err := evalAction(action, m)
	if err == nil {
		return CaseResult{Line: f.Line, Kind: "assert_trap", OpName: op, Passed: false, Detail: "expected a trap, none occurred"}
	}
	if !satisfiesMessage(msg, err) {
		return CaseResult{Line: f.Line, Kind: "assert_trap", OpName: op, Passed: false,
			Detail: fmt.Sprintf("trap %q does not match expected %q", err, msg)}
	}
	return CaseResult{Line: f.Line, Kind: "assert_trap", OpName: op, Passed: true}
}

func runAssertInvalid(f *sexpr.Node, kind string) CaseResult {
	if len(f.Children) == 0 {
		return CaseResult{Line: f.Line, Kind: kind, OpName: "module", Passed: false, Detail: "missing module"}
	}
	moduleNode := f.Children[0]
	msg := ""
	if len(f.Atoms) > 0 {
		msg = f.Atoms[0].Text
	}
	_, err := instantiate.Instantiate(moduleNode)
	if err == nil {
		return CaseResult{Line: f.Line, Kind: kind, OpName: "module", Passed: false, Detail: "expected instantiation failure, none occurred"}
	}
	if !satisfiesMessage(msg, err) {
		return CaseResult{Line: f.Line, Kind: kind, OpName: "module", Passed: false,
			Detail: fmt.Sprintf("error %q does not match expected %q", err, msg)}
	}
	return CaseResult{Line: f.Line, Kind: kind, OpName: "module", Passed: true}
}
