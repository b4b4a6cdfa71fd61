package wasm

// Global is a module-level variable. The mutability flag is separate from
// its Value so global.set on an immutable global can be rejected at
// validation time.
type Global struct {
	Name    string
	Value   Value
	Mutable bool
}

// GlobalRegistry is the ordered, $name-and-index addressable set of
// globals declared by a module.
type GlobalRegistry struct {
	byIndex     []*Global
	byName      map[string]*Global
	exportNames map[string]*Global
}

// NewGlobalRegistry returns an empty registry.
func NewGlobalRegistry() *GlobalRegistry {
	return &GlobalRegistry{byName: make(map[string]*Global), exportNames: make(map[string]*Global)}
}

// Declare registers g at the next index, also indexing it by name if g.Name
// is non-empty.
func (r *GlobalRegistry) Declare(g *Global) int {
	idx := len(r.byIndex)
	r.byIndex = append(r.byIndex, g)
	if g.Name != "" {
		r.byName[g.Name] = g
	}
	return idx
}

// ByIndex returns the global at idx, or nil if idx is out of range.
func (r *GlobalRegistry) ByIndex(idx int) *Global {
	if idx < 0 || idx >= len(r.byIndex) {
		return nil
	}
	return r.byIndex[idx]
}

// ByName returns the global declared as $name, or nil if none matches.
func (r *GlobalRegistry) ByName(name string) *Global {
	return r.byName[name]
}

// Export records g as reachable under its text-format export name, the
// lookup `(get "name")` performs.
func (r *GlobalRegistry) Export(name string, g *Global) { r.exportNames[name] = g }

// ExportedGlobal resolves a module's `(export "name")` string to its global.
func (r *GlobalRegistry) ExportedGlobal(name string) *Global {
	return r.exportNames[name]
}

// Len reports the number of declared globals.
func (r *GlobalRegistry) Len() int { return len(r.byIndex) }
