package schematic

import (
	"strconv"
	"strings"
)

// Kind is the structural role of a component. The set of variants is
// closed; switch on the concrete type to handle each one.
type Kind interface {
	isKind()
}

// Device is an ordinary circuit element such as a resistor or a gate.
type Device struct{}

// Ground ties its single node to the reserved ground net.
type Ground struct{}

// PortMarker declares an external port of a sub-circuit document.
type PortMarker struct {
	Number    int
	Direction string // "analog", "in", "out" or "inout"
}

// SubcircuitRef instantiates another schematic.
type SubcircuitRef struct {
	File string
}

// LibraryRef instantiates a component from a Qucs library.
type LibraryRef struct {
	Library   string
	Component string
}

// Language identifies the format of a foreign leaf file.
type Language int

const (
	LangSPICE Language = iota
	LangVHDL
	LangVerilog
)

func (l Language) String() string {
	switch l {
	case LangSPICE:
		return "SPICE"
	case LangVHDL:
		return "VHDL"
	case LangVerilog:
		return "Verilog"
	}
	return "unknown"
}

// ForeignFile references a SPICE, VHDL or Verilog file.
type ForeignFile struct {
	Lang Language
	File string
}

// EquationBlock carries name=value definitions.
type EquationBlock struct{}

// Simulation is a simulation directive (.DC, .TR, .Digi ...).
type Simulation struct {
	Digital bool
}

// DigitalSource is a stimulus of a digital simulation.
type DigitalSource struct{}

func (Device) isKind()        {}
func (Ground) isKind()        {}
func (PortMarker) isKind()    {}
func (SubcircuitRef) isKind() {}
func (LibraryRef) isKind()    {}
func (ForeignFile) isKind()   {}
func (EquationBlock) isKind() {}
func (Simulation) isKind()    {}
func (DigitalSource) isKind() {}

// Kind classifies the component from its type tag and current properties.
func (c *Component) Kind() Kind {
	s := Lookup(c.Type)
	class := ClassDevice
	if s != nil {
		class = s.Class
	} else if c.IsSimulation() {
		class = ClassSimulation
	}

	switch class {
	case ClassGround:
		return Ground{}
	case ClassPort:
		n, _ := strconv.Atoi(strings.TrimSpace(c.PropAt(0)))
		return PortMarker{Number: n, Direction: c.PropAt(1)}
	case ClassSubcircuit:
		return SubcircuitRef{File: c.PropAt(0)}
	case ClassLibrary:
		return LibraryRef{Library: c.PropAt(0), Component: c.PropAt(1)}
	case ClassSPICE:
		return ForeignFile{Lang: LangSPICE, File: c.PropAt(0)}
	case ClassVHDL:
		return ForeignFile{Lang: LangVHDL, File: c.PropAt(0)}
	case ClassVerilog:
		return ForeignFile{Lang: LangVerilog, File: c.PropAt(0)}
	case ClassEquation:
		return EquationBlock{}
	case ClassSimulation:
		return Simulation{Digital: c.Type == ".Digi"}
	case ClassDigiSource:
		return DigitalSource{}
	}
	return Device{}
}

// IsReference reports whether the component pulls in another file.
func (c *Component) IsReference() bool {
	switch c.Kind().(type) {
	case SubcircuitRef, LibraryRef, ForeignFile:
		return true
	}
	return false
}

// File returns the file referenced by a sub-circuit, library or foreign
// leaf component. For library references it is the library name.
func (c *Component) File() string {
	switch k := c.Kind().(type) {
	case SubcircuitRef:
		return k.File
	case LibraryRef:
		return k.Library
	case ForeignFile:
		return k.File
	}
	return ""
}
