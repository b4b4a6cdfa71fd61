package wasm

import "github.com/watconform/watconform/api"

// Locals is a function's local-variable frame: parameters followed by
// `local` declarations, each addressable by index or by an optional
// $name. Both views refer to the same slot.
type Locals struct {
	values []Value
	names  map[string]int
}

// NewLocals builds a frame from an ordered list of declared types, each
// optionally named; unnamed slots pass an empty string.
func NewLocals(types []api.ValueType, names []string) *Locals {
	l := &Locals{
		values: make([]Value, len(types)),
		names:  make(map[string]int, len(types)),
	}
	for i, t := range types {
		l.values[i] = ZeroValue(t)
		if i < len(names) && names[i] != "" {
			l.names[names[i]] = i
		}
	}
	return l
}

// Get returns the value at idx.
func (l *Locals) Get(idx int) (Value, bool) {
	if idx < 0 || idx >= len(l.values) {
		return Value{}, false
	}
	return l.values[idx], true
}

// Set overwrites the value at idx.
func (l *Locals) Set(idx int, v Value) bool {
	if idx < 0 || idx >= len(l.values) {
		return false
	}
	l.values[idx] = v
	return true
}

// IndexOf resolves a $name to its slot index.
func (l *Locals) IndexOf(name string) (int, bool) {
	idx, ok := l.names[name]
	return idx, ok
}

// Len reports the number of local slots, parameters included.
func (l *Locals) Len() int { return len(l.values) }

// Append grows the frame by one zero-valued slot, optionally named. The
// instantiator lays out every declared local up front, so it does not call
// this.
func (l *Locals) Append(t api.ValueType, name string) int {
	idx := len(l.values)
	l.values = append(l.values, ZeroValue(t))
	if name != "" {
		l.names[name] = idx
	}
	return idx
}
