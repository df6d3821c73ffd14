package netlist

import (
	"os"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/hdl"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/library"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

// FileLoader loads schematics from disk and supplies the port geometry of
// components whose symbol lives in another file.
type FileLoader struct {
	Parser  *schematic.Parser
	Catalog library.Catalog
	// SearchPaths are tried after the referencing document's directory.
	SearchPaths []string

	libs map[string]*library.Library
}

func (l *FileLoader) parser() *schematic.Parser {
	if l.Parser == nil {
		l.Parser = schematic.NewParser()
	}
	return l.Parser
}

// Load parses path, attaches ports to every component and builds the
// connectivity graph.
func (l *FileLoader) Load(path string) (*schematic.Document, error) {
	doc, err := l.parser().ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := schematic.AttachPorts(doc, l); err != nil {
		return nil, err
	}
	schematic.BuildConnectivity(doc)
	return doc, nil
}

// SymbolPorts implements schematic.SymbolSource. A reference whose file
// cannot be found gets no ports; resolving it later reports the error.
func (l *FileLoader) SymbolPorts(doc *schematic.Document, c *schematic.Component) ([]schematic.Point, error) {
	switch k := c.Kind().(type) {
	case schematic.SubcircuitRef:
		return l.subcircuitPorts(doc, k.File), nil
	case schematic.LibraryRef:
		return l.libraryPorts(k), nil
	case schematic.ForeignFile:
		return l.foreignPorts(doc, k), nil
	}
	return nil, nil
}

func (l *FileLoader) subcircuitPorts(doc *schematic.Document, file string) []schematic.Point {
	path, err := findFile(docDir(doc), file, l.SearchPaths)
	if err != nil {
		return nil
	}
	sub, err := l.parser().ParseFile(path)
	if err != nil {
		return nil
	}
	if syms := sub.PortSymbols(); len(syms) > 0 {
		pts := make([]schematic.Point, len(syms))
		for i, s := range syms {
			pts[i] = s.Pos
		}
		return pts
	}
	n := 0
	for _, c := range sub.Components {
		if _, ok := c.Kind().(schematic.PortMarker); ok {
			n++
		}
	}
	return schematic.BoxPorts(n)
}

func (l *FileLoader) libraryPorts(k schematic.LibraryRef) []schematic.Point {
	if l.Catalog == nil {
		return nil
	}
	path, err := l.Catalog.Locate(k.Library)
	if err != nil {
		return nil
	}
	if l.libs == nil {
		l.libs = make(map[string]*library.Library)
	}
	lib, ok := l.libs[path]
	if !ok {
		if lib, err = library.ParseFile(path); err != nil {
			return nil
		}
		l.libs[path] = lib
	}
	comp := lib.Component(k.Component)
	if comp == nil {
		return nil
	}
	syms := library.PortSymbols(lib.SymbolOf(comp))
	pts := make([]schematic.Point, len(syms))
	for i, s := range syms {
		pts[i] = s.Pos
	}
	return pts
}

func (l *FileLoader) foreignPorts(doc *schematic.Document, k schematic.ForeignFile) []schematic.Point {
	path, err := findFile(docDir(doc), k.File, l.SearchPaths)
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var leaf *hdl.Leaf
	switch k.Lang {
	case schematic.LangVHDL:
		leaf, err = hdl.ParseVHDL(string(data))
	case schematic.LangVerilog:
		leaf, err = hdl.ParseVerilog(string(data))
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return schematic.BoxPorts(len(leaf.Ports))
}
