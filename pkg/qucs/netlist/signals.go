package netlist

import "sort"

// DefaultSignalType is the VHDL type of signals without a declared type.
const DefaultSignalType = "std_logic"

// Signal is a digital net.
type Signal struct {
	Name string
	Type string // empty means DefaultSignalType
}

// SignalRegistry holds the digital nets of one document pass keyed by
// name.
type SignalRegistry struct {
	m map[string]string
}

// NewSignalRegistry returns an empty registry.
func NewSignalRegistry() *SignalRegistry {
	return &SignalRegistry{m: make(map[string]string)}
}

// Add declares a signal. A name seen before keeps its type unless typ is
// non-empty.
func (r *SignalRegistry) Add(name, typ string) {
	if _, ok := r.m[name]; ok && typ == "" {
		return
	}
	r.m[name] = typ
}

// Remove drops a signal.
func (r *SignalRegistry) Remove(name string) {
	delete(r.m, name)
}

// Has reports whether the signal is declared.
func (r *SignalRegistry) Has(name string) bool {
	_, ok := r.m[name]
	return ok
}

// Type returns the declared type of a signal.
func (r *SignalRegistry) Type(name string) string {
	return r.m[name]
}

// Len returns the number of signals.
func (r *SignalRegistry) Len() int { return len(r.m) }

// Sorted returns the signals ordered by name.
func (r *SignalRegistry) Sorted() []Signal {
	out := make([]Signal, 0, len(r.m))
	for n, t := range r.m {
		out = append(out, Signal{Name: n, Type: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s Signal) vhdlType() string {
	if s.Type == "" {
		return DefaultSignalType
	}
	return s.Type
}

func (r *SignalRegistry) clone() *SignalRegistry {
	c := NewSignalRegistry()
	for n, t := range r.m {
		c.m[n] = t
	}
	return c
}
