// Package netlist turns a connected schematic document into simulator
// input.
//
// Three dialects are produced: the flat analog netlist read by qucsator,
// and two structural digital forms (VHDL and Verilog). The dialect is
// picked by DetectDomain from the simulation components of the top-level
// document.
//
// A pass runs in three stages:
//
//	DetectDomain      pick the dialect, reject mixed analog/digital documents
//	AssignNodeNames   resolve sub-circuits, then name every node
//	Emit              render the netlist text
//
// Every referenced file (sub-circuit schematic, library component, SPICE,
// VHDL or Verilog file) is resolved once per pass through a Context. Its
// definition block is emitted before the referencing document, and only
// its port types are reused by later instances.
//
// Generator wires the stages together for a file on disk:
//
//	g := netlist.NewGenerator(library.DirCatalog{Dirs: libDirs}, netlist.Options{})
//	res, err := g.Generate("amp.sch")
//	if err != nil {
//		return err
//	}
//	fmt.Print(res.Text)
package netlist
