package instantiate

import (
	"fmt"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/sexpr"
	"github.com/watconform/watconform/internal/wasm"
	"github.com/watconform/watconform/internal/watruntime"
)

// paramInfo pairs a parsed (param ...) entry's type with its optional name,
// needed later to number a function's locals frame starting with its
// parameters.
type paramInfo struct {
	typ  api.ValueType
	name string
}

// parseParamsResults walks a func/type/block's children for (param ...)
// and (result ...) forms, in source order, returning the flattened
// parameter list and result type list.
func parseParamsResults(children []*sexpr.Node) ([]paramInfo, []api.ValueType, error) {
	var params []paramInfo
	var results []api.ValueType
	for _, c := range children {
		switch c.Head {
		case "param":
			if len(c.Atoms) == 2 && len(c.Atoms[0].Text) > 0 && c.Atoms[0].Text[0] == '$' {
				t, ok := api.ParseValueType(c.Atoms[1].Text)
				if !ok {
					return nil, nil, fmt.Errorf("line %d: %w: invalid param type %q", c.Line, watruntime.ErrUnexpectedToken, c.Atoms[1].Text)
				}
				params = append(params, paramInfo{typ: t, name: c.Atoms[0].Text})
				continue
			}
			for _, a := range c.Atoms {
				t, ok := api.ParseValueType(a.Text)
				if !ok {
					return nil, nil, fmt.Errorf("line %d: %w: invalid param type %q", c.Line, watruntime.ErrUnexpectedToken, a.Text)
				}
				params = append(params, paramInfo{typ: t})
			}
		case "result":
			for _, a := range c.Atoms {
				t, ok := api.ParseValueType(a.Text)
				if !ok {
					return nil, nil, fmt.Errorf("line %d: %w: invalid result type %q", c.Line, watruntime.ErrUnexpectedToken, a.Text)
				}
				results = append(results, t)
			}
		}
	}
	return params, results, nil
}

// parseSignature is parseParamsResults flattened into a wasm.FunctionType,
// for (type ...) declarations where parameter names are irrelevant.
func parseSignature(children []*sexpr.Node) (wasm.FunctionType, error) {
	params, results, err := parseParamsResults(children)
	if err != nil {
		return wasm.FunctionType{}, err
	}
	types := make([]api.ValueType, len(params))
	for i, p := range params {
		types[i] = p.typ
	}
	return wasm.FunctionType{Params: types, Results: results}, nil
}

// parseFuncSignature resolves a function's signature, either from an
// inline (param ...)/(result ...) list or a (type $t|N) reference to a
// previously declared type.
func parseFuncSignature(n *sexpr.Node, reg *wasm.FunctionRegistry) (string, wasm.FunctionType, error) {
	name := n.Name()
	for _, c := range n.Children {
		if c.Head == "type" {
			if len(c.Atoms) == 0 {
				return "", wasm.FunctionType{}, fmt.Errorf("line %d: %w: type use missing reference", c.Line, watruntime.ErrInvalidSyntax)
			}
			ref := c.Atoms[0].Text
			var sig wasm.FunctionType
			var ok bool
			if len(ref) > 0 && ref[0] == '$' {
				idx, found := reg.TypeIndex(ref)
				if found {
					sig, ok = reg.Type(idx)
				}
			} else {
				idx, err := parseIntLiteral(ref, 32)
				if err == nil {
					sig, ok = reg.Type(int(idx))
				}
			}
			if !ok {
				return "", wasm.FunctionType{}, fmt.Errorf("line %d: %w: unknown type %q", c.Line, watruntime.ErrUnknownFunction, ref)
			}
			return name, sig, nil
		}
	}
	sig, err := parseSignature(n.Children)
	return name, sig, err
}
