package netlist

import (
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/library"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/nets"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

// Options configures a Generator.
type Options struct {
	// IgnoreFutureVersion loads files written by newer versions.
	IgnoreFutureVersion bool
	// SubstituteUnknown replaces unknown component types instead of failing.
	SubstituteUnknown bool
	// CreatingLibrary skips library references.
	CreatingLibrary bool
	// SubcircuitPaths are searched after the referencing document's
	// directory.
	SubcircuitPaths []string
}

// Result is the output of one netlisting pass.
type Result struct {
	Text    string
	Domain  Domain
	SimTime string // stop time of a digital simulation
	// Warnings are non-fatal conditions raised during the pass.
	Warnings []string
	Nets     *nets.Report
}

// Generator netlists schematic files.
type Generator struct {
	Loader  Loader
	Catalog library.Catalog
	Options Options
	// Logf receives warnings as they are raised. It may be nil.
	Logf func(format string, args ...any)
}

// NewGenerator returns a Generator reading files from disk. The catalog
// may be nil when no library references are expected.
func NewGenerator(catalog library.Catalog, opts Options) *Generator {
	var popts []schematic.Option
	if opts.IgnoreFutureVersion {
		popts = append(popts, schematic.WithIgnoreFutureVersion())
	}
	if opts.SubstituteUnknown {
		popts = append(popts, schematic.WithSubstituteUnknown())
	}
	return &Generator{
		Loader: &FileLoader{
			Parser:      schematic.NewParser(popts...),
			Catalog:     catalog,
			SearchPaths: opts.SubcircuitPaths,
		},
		Catalog: catalog,
		Options: opts,
	}
}

// Generate loads path and netlists it.
func (g *Generator) Generate(path string) (*Result, error) {
	doc, err := g.Loader.Load(path)
	if err != nil {
		return nil, err
	}
	return g.GenerateDocument(doc)
}

// GenerateDocument netlists a loaded document. A fresh Context is used, so
// every reference is resolved again. A document without connectivity gets
// its reference ports from the Loader first, when the Loader is also a
// schematic.SymbolSource.
func (g *Generator) GenerateDocument(doc *schematic.Document) (*Result, error) {
	if !doc.Connected() {
		if src, ok := g.Loader.(schematic.SymbolSource); ok {
			if err := schematic.AttachPorts(doc, src); err != nil {
				return nil, err
			}
		}
		schematic.BuildConnectivity(doc)
	}
	dom, err := DetectDomain(doc)
	if err != nil {
		return nil, err
	}
	ctx := NewContext(g.Loader, g.Catalog)
	ctx.SearchPaths = g.Options.SubcircuitPaths
	ctx.CreatingLibrary = g.Options.CreatingLibrary
	ctx.Logf = g.Logf

	naming, err := AssignNodeNames(ctx, doc, dom)
	if err != nil {
		return nil, err
	}
	text, err := Emit(doc, naming, dom)
	if err != nil {
		return nil, err
	}
	simTime, err := SimulationTime(dom)
	if err != nil {
		return nil, err
	}
	return &Result{
		Text:     text,
		Domain:   dom,
		SimTime:  simTime,
		Warnings: ctx.Warnings(),
		Nets:     nets.Build(doc),
	}, nil
}

// GenerateNetlist netlists the schematic at path with default options and
// no library catalog.
func GenerateNetlist(path string) (string, error) {
	res, err := NewGenerator(nil, Options{}).Generate(path)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
