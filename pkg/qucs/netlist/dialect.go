package netlist

import (
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

// Dialect is a netlist output syntax.
type Dialect int

const (
	Analog Dialect = iota
	VHDL
	Verilog
)

func (d Dialect) String() string {
	switch d {
	case Analog:
		return "analog"
	case VHDL:
		return "VHDL"
	case Verilog:
		return "Verilog"
	}
	return "unknown"
}

// Digital reports whether d is one of the structural digital dialects.
func (d Dialect) Digital() bool { return d != Analog }

func (d Dialect) model() schematic.Model {
	switch d {
	case VHDL:
		return schematic.ModelVHDL
	case Verilog:
		return schematic.ModelVerilog
	}
	return schematic.ModelAnalog
}

// Comment returns the line comment marker of the dialect.
func (d Dialect) Comment() string {
	switch d {
	case VHDL:
		return "--"
	case Verilog:
		return "//"
	}
	return "#"
}

// Domain is the simulation domain of a top-level document.
type Domain struct {
	Dialect Dialect
	// Explicit is false when no simulation component selected the
	// dialect and analog was assumed.
	Explicit   bool
	TruthTable bool
	// NumPorts is -1 for analog, 0 for a digital time-list simulation and
	// the number of digital sources for a truth-table simulation.
	NumPorts int
	Digi     *schematic.Component
}

// DetectDomain picks the dialect from the simulation components of doc.
// Open components are ignored. A .Digi component selects a digital
// dialect; any other simulation selects analog; both together are a
// DomainConflictError.
func DetectDomain(doc *schematic.Document) (Domain, error) {
	var (
		dom     = Domain{Dialect: Analog}
		analog  bool
		digital bool
		sources int
	)
	for _, c := range doc.Components {
		if c.IsOpen() {
			continue
		}
		switch k := c.Kind().(type) {
		case schematic.Simulation:
			if k.Digital {
				if digital {
					return Domain{}, &DomainConflictError{Component: c.Name, Reason: "is a second digital simulation, only one is allowed"}
				}
				digital = true
				dom.Digi = c
				dom.TruthTable = c.PropAt(0) != "TimeList"
				dom.Dialect = VHDL
				if len(c.Props) > 0 && c.Props[len(c.Props)-1].Value != "VHDL" {
					dom.Dialect = Verilog
				}
			} else {
				analog = true
			}
			if analog && digital {
				return Domain{}, &DomainConflictError{Reason: "analog and digital simulations cannot be mixed"}
			}
		case schematic.DigitalSource:
			sources++
		}
	}

	switch {
	case !analog && !digital:
		dom.Dialect = Analog
		dom.NumPorts = -1
	case digital:
		dom.Explicit = true
		if dom.TruthTable {
			if sources < 1 {
				return Domain{}, &DomainConflictError{Reason: "digital simulation needs at least one digital source"}
			}
			dom.NumPorts = sources
		}
	default:
		dom.Explicit = true
		dom.NumPorts = -1
	}
	return dom, nil
}

// otherHDL reports whether c is a VHDL or Verilog file component in a
// netlist of the other digital dialect. Such components are left out.
func otherHDL(c *schematic.Component, d Dialect) bool {
	k, ok := c.Kind().(schematic.ForeignFile)
	if !ok {
		return false
	}
	switch k.Lang {
	case schematic.LangVHDL:
		return d == Verilog
	case schematic.LangVerilog:
		return d == VHDL
	}
	return false
}

// checkModels rejects active components without a model in the dialect.
func checkModels(doc *schematic.Document, d Dialect) error {
	for _, c := range doc.Components {
		if c.State != schematic.Active || otherHDL(c, d) {
			continue
		}
		s := schematic.Lookup(c.Type)
		if s == nil || s.Supports(d.model()) {
			continue
		}
		return &DomainConflictError{Component: c.Name, Reason: "has no " + d.String() + " model"}
	}
	return nil
}
