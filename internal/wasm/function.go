package wasm

import "github.com/watconform/watconform/api"

// FunctionType is a function's parameter and result signature, resolved
// either from an inline `(param ...) (result ...)` list or a declared
// `(type $t)` reference.
type FunctionType struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// Equal reports whether t and other declare the same parameter and result
// types, used to validate a call_indirect's expected signature against the
// table entry it resolves to.
func (t FunctionType) Equal(other FunctionType) bool {
	if len(t.Params) != len(other.Params) || len(t.Results) != len(other.Results) {
		return false
	}
	for i, p := range t.Params {
		if p != other.Params[i] {
			return false
		}
	}
	for i, r := range t.Results {
		if r != other.Results[i] {
			return false
		}
	}
	return true
}

// Function is a declared, instantiated function: its signature plus local
// declarations and a Body left opaque to this package (the interpreter
// walks an *ir.Node tree stored by the instantiator).
type Function struct {
	Name       string
	Type       FunctionType
	LocalTypes []api.ValueType
	LocalNames []string
	Body       interface{}
}

// FunctionRegistry is the ordered, index-and-$name addressable set of
// functions and declared types a module exposes, plus the element table
// backing call_indirect. One registry per module.
type FunctionRegistry struct {
	funcs       []*Function
	funcNames   map[string]int
	exportNames map[string]int
	types       []FunctionType
	typeNames   map[string]int
	elems       []int
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		funcNames:   make(map[string]int),
		exportNames: make(map[string]int),
		typeNames:   make(map[string]int),
	}
}

// DeclareFunction registers fn at the next function index.
func (r *FunctionRegistry) DeclareFunction(fn *Function) int {
	idx := len(r.funcs)
	r.funcs = append(r.funcs, fn)
	if fn.Name != "" {
		r.funcNames[fn.Name] = idx
	}
	return idx
}

// Function returns the function at idx, or nil if idx is out of range —
// the interpreter raises UnknownFunction for a direct call and
// UndefinedElement for call_indirect in that case.
func (r *FunctionRegistry) Function(idx int) *Function {
	if idx < 0 || idx >= len(r.funcs) {
		return nil
	}
	return r.funcs[idx]
}

// FunctionIndex resolves a $name to its function index.
func (r *FunctionRegistry) FunctionIndex(name string) (int, bool) {
	idx, ok := r.funcNames[name]
	return idx, ok
}

// Export records idx as reachable under its text-format export name.
func (r *FunctionRegistry) Export(name string, idx int) { r.exportNames[name] = idx }

// ExportedFunction resolves a module's `(export "name")` string to its
// function index, the lookup `invoke "name"` performs.
func (r *FunctionRegistry) ExportedFunction(name string) (int, bool) {
	idx, ok := r.exportNames[name]
	return idx, ok
}

// FunctionCount reports how many functions are declared.
func (r *FunctionRegistry) FunctionCount() int { return len(r.funcs) }

// DeclareType registers a named or anonymous function type.
func (r *FunctionRegistry) DeclareType(name string, t FunctionType) int {
	idx := len(r.types)
	r.types = append(r.types, t)
	if name != "" {
		r.typeNames[name] = idx
	}
	return idx
}

// Type returns the declared type at idx.
func (r *FunctionRegistry) Type(idx int) (FunctionType, bool) {
	if idx < 0 || idx >= len(r.types) {
		return FunctionType{}, false
	}
	return r.types[idx], true
}

// TypeIndex resolves a $name to its declared type index.
func (r *FunctionRegistry) TypeIndex(name string) (int, bool) {
	idx, ok := r.typeNames[name]
	return idx, ok
}

// SetTable installs the `(elem ...)` function-index list backing
// call_indirect, in declaration order.
func (r *FunctionRegistry) SetTable(elems []int) { r.elems = elems }

// TableEntry returns the function index at table slot i. ok is false when
// i is out of range — the interpreter raises UndefinedElement.
func (r *FunctionRegistry) TableEntry(i int) (int, bool) {
	if i < 0 || i >= len(r.elems) {
		return 0, false
	}
	return r.elems[i], true
}

// TableLen reports the table's element count.
func (r *FunctionRegistry) TableLen() int { return len(r.elems) }
