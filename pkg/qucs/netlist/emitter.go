package netlist

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

const vhdlLibraries = "\nlibrary ieee;\nuse ieee.std_logic_1164.all;\n"

// subPort is one external port of a sub-circuit document.
type subPort struct {
	Name string
	Type string
	Dir  string
}

// subPorts returns the port markers of doc ordered by number. Gaps in the
// numbering are dropped and a repeated number keeps the last marker.
func subPorts(doc *schematic.Document, naming *NamingResult) []subPort {
	byNum := make(map[int]subPort)
	last := 0
	for _, c := range doc.Components {
		k, ok := c.Kind().(schematic.PortMarker)
		if !ok || len(c.Ports) == 0 || c.Ports[0].Node == nil {
			continue
		}
		n := c.Ports[0].Node
		p := subPort{Name: n.Name, Dir: k.Direction}
		if naming != nil && naming.Signals.Has(n.Name) {
			p.Type = naming.Signals.Type(n.Name)
		} else {
			p.Type = n.DType
		}
		byNum[k.Number] = p
		if k.Number > last {
			last = k.Number
		}
	}
	var out []subPort
	for i := 0; i <= last; i++ {
		if p, ok := byNum[i]; ok {
			out = append(out, p)
		}
	}
	return out
}

func header(doc *schematic.Document, d Dialect) string {
	return fmt.Sprintf("%s Qucs %s  %s\n", d.Comment(), schematic.Supported, doc.Path)
}

// body renders the components of doc in document order. Digital
// equation blocks are rendered separately into eqns. Sub-circuit bodies
// never contain simulations.
func body(doc *schematic.Document, naming *NamingResult, dom Domain, indent string, sub bool) (comps, eqns string, err error) {
	var cb, eb strings.Builder
	for _, c := range doc.Components {
		if c.IsOpen() || otherHDL(c, dom.Dialect) {
			continue
		}
		switch c.Kind().(type) {
		case schematic.Simulation:
			if sub || dom.Dialect.Digital() {
				continue
			}
		case schematic.EquationBlock:
			if c.IsShort() {
				continue
			}
			switch dom.Dialect {
			case VHDL:
				s, err := vhdlEquations(c, indent)
				if err != nil {
					return "", "", err
				}
				eb.WriteString(s)
				continue
			case Verilog:
				eb.WriteString(verilogEquations(c, indent))
				continue
			}
		}
		s, err := componentText(c, naming, dom)
		if err != nil {
			return "", "", err
		}
		cb.WriteString(s)
	}
	return cb.String(), eb.String(), nil
}

// Emit renders the top-level netlist of doc in the dialect of dom.
func Emit(doc *schematic.Document, naming *NamingResult, dom Domain) (string, error) {
	comps, eqns, err := body(doc, naming, dom, "  ", false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(header(doc, dom.Dialect))
	switch dom.Dialect {
	case Analog:
		for _, blk := range naming.Blocks {
			b.WriteString(blk)
		}
		for _, ns := range naming.NodeSets {
			b.WriteString(ns + "\n")
		}
		b.WriteString("\n")
		b.WriteString(comps)

	case VHDL:
		for _, blk := range naming.Blocks {
			b.WriteString(blk)
		}
		b.WriteString(vhdlLibraries)
		b.WriteString("entity TestBench is\nend entity;\nuse work.all;\n")
		b.WriteString("\narchitecture Arch_TestBench of TestBench is\n")
		for _, s := range naming.Signals.Sorted() {
			b.WriteString("  signal " + s.Name + " : " + s.vhdlType() + ";\n")
		}
		b.WriteString(eqns)
		b.WriteString("begin\n")
		if naming.Signals.Has("gnd") {
			b.WriteString("  gnd <= '0';\n")
		}
		b.WriteString(comps)
		b.WriteString("end architecture;\n")

	case Verilog:
		simTime, err := SimulationTime(dom)
		if err != nil {
			return "", err
		}
		b.WriteString("\n`timescale 1ps/100fs\n")
		for _, blk := range naming.Blocks {
			b.WriteString(blk)
		}
		b.WriteString("\nmodule TestBench ();\n")
		for _, s := range naming.Signals.Sorted() {
			b.WriteString("  wire " + s.Name + ";\n")
		}
		b.WriteString("\n")
		b.WriteString(eqns)
		if naming.Signals.Has("gnd") {
			b.WriteString("  assign gnd = 0;\n")
		}
		b.WriteString(comps)
		b.WriteString("  initial begin\n")
		b.WriteString("    $dumpfile(\"digi.vcd\");\n")
		b.WriteString("    $dumpvars();\n")
		b.WriteString("    #" + simTime + " $finish;\n")
		b.WriteString("  end\n")
		b.WriteString("endmodule // TestBench\n")
	}
	return b.String(), nil
}

// EmitSubBlock renders doc as a named definition block: a .Def block in
// analog, an entity with its architecture in VHDL, a module in Verilog.
func EmitSubBlock(doc *schematic.Document, naming *NamingResult, dom Domain, name string) (string, error) {
	comps, eqns, err := body(doc, naming, dom, " ", true)
	if err != nil {
		return "", err
	}
	ports := subPorts(doc, naming)
	params := doc.Parameters()

	var b strings.Builder
	switch dom.Dialect {
	case Analog:
		names := make([]string, len(ports))
		for i, p := range ports {
			names[i] = p.Name
		}
		b.WriteString("\n.Def:" + name + " " + strings.Join(names, " "))
		for _, p := range params {
			b.WriteString(" " + p.Name + "=\"" + p.Default + "\"")
		}
		b.WriteString("\n")
		b.WriteString(comps)
		for _, ns := range naming.NodeSets {
			b.WriteString(ns + "\n")
		}
		b.WriteString(".Def:End\n")

	case VHDL:
		signals := naming.Signals.clone()
		decls := make([]string, len(ports))
		for i, p := range ports {
			typ := p.Type
			if typ == "" {
				typ = DefaultSignalType
			}
			signals.Remove(p.Name)
			switch {
			case strings.HasPrefix(p.Dir, "a"):
				decls[i] = p.Name + " : inout " + typ
			case strings.HasPrefix(p.Dir, "o"):
				signals.Add(p.Name, p.Type)
				decls[i] = "net_out" + p.Name + " : out " + typ
			case p.Dir == "":
				decls[i] = p.Name + " : in " + typ
			default:
				decls[i] = p.Name + " : " + p.Dir + " " + typ
			}
		}
		b.WriteString(vhdlLibraries)
		b.WriteString("entity Sub_" + name + " is\n")
		b.WriteString(" port (" + strings.Join(decls, ";\n ") + ");\n")
		if len(params) > 0 {
			gens := make([]string, len(params))
			for i, p := range params {
				typ := p.Type
				if typ == "" {
					typ = "real"
				}
				gens[i] = p.Name + " : " + typ + " := " + p.Default
			}
			b.WriteString(" generic (" + strings.Join(gens, ";\n ") + ");\n")
		}
		b.WriteString("end entity;\nuse work.all;\n")
		b.WriteString("architecture Arch_Sub_" + name + " of Sub_" + name + " is\n")
		for _, s := range signals.Sorted() {
			b.WriteString(" signal " + s.Name + " : " + s.vhdlType() + ";\n")
		}
		b.WriteString(eqns)
		b.WriteString("begin\n")
		if signals.Has("gnd") {
			b.WriteString(" gnd <= '0';\n")
		}
		b.WriteString(comps)
		b.WriteString("end architecture;\n")

	case Verilog:
		signals := naming.Signals.clone()
		var names, ins, outs, inouts []string
		for _, p := range ports {
			names = append(names, p.Name)
			signals.Remove(p.Name)
			switch {
			case strings.HasPrefix(p.Dir, "a"), p.Dir == "inout":
				inouts = append(inouts, p.Name)
			case strings.HasPrefix(p.Dir, "o"):
				outs = append(outs, p.Name)
			default:
				ins = append(ins, p.Name)
			}
		}
		b.WriteString("\nmodule Sub_" + name + " (" + strings.Join(names, ", ") + ");\n")
		if len(ins) > 0 {
			b.WriteString(" input " + strings.Join(ins, ", ") + ";\n")
		}
		if len(outs) > 0 {
			b.WriteString(" output " + strings.Join(outs, ", ") + ";\n")
		}
		if len(inouts) > 0 {
			b.WriteString(" inout " + strings.Join(inouts, ", ") + ";\n")
		}
		for _, s := range signals.Sorted() {
			b.WriteString(" wire " + s.Name + ";\n")
		}
		b.WriteString("\n")
		if len(params) > 0 {
			for _, p := range params {
				b.WriteString(" parameter " + p.Name + " = " + verilogParam(p.Default) + ";\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(eqns)
		if signals.Has("gnd") {
			b.WriteString(" assign gnd = 0;\n")
		}
		b.WriteString(comps)
		b.WriteString("endmodule\n")
	}
	return b.String(), nil
}
