package netlist

import "fmt"

// DomainConflictError reports a document that cannot be netlisted in a
// single dialect.
type DomainConflictError struct {
	Component string // empty when the conflict is document wide
	Reason    string
}

func (e *DomainConflictError) Error() string {
	if e.Component == "" {
		return "netlist: " + e.Reason
	}
	return fmt.Sprintf("netlist: component %q %s", e.Component, e.Reason)
}

// MissingSubcircuitError reports a reference whose target cannot be found
// or loaded, or has no usable ports.
type MissingSubcircuitError struct {
	Component string
	File      string
	Err       error
}

func (e *MissingSubcircuitError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("netlist: component %q: no file name given", e.Component)
	}
	if e.Err == nil {
		return fmt.Sprintf("netlist: component %q: cannot load %q", e.Component, e.File)
	}
	return fmt.Sprintf("netlist: component %q: cannot load %q: %v", e.Component, e.File, e.Err)
}

func (e *MissingSubcircuitError) Unwrap() error { return e.Err }

// UnloadableForeignFileError reports a SPICE, VHDL or Verilog file that
// fails its own format check.
type UnloadableForeignFileError struct {
	Component string
	File      string
	Err       error
}

func (e *UnloadableForeignFileError) Error() string {
	return fmt.Sprintf("netlist: component %q: %s: %v", e.Component, e.File, e.Err)
}

func (e *UnloadableForeignFileError) Unwrap() error { return e.Err }

// RecursiveSubcircuitError reports a sub-circuit that instantiates itself,
// directly or through other sub-circuits.
type RecursiveSubcircuitError struct {
	File string
}

func (e *RecursiveSubcircuitError) Error() string {
	return fmt.Sprintf("netlist: sub-circuit %q includes itself", e.File)
}
