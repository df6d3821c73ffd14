package netlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/hdl"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

var (
	errNoPorts  = errors.New("no usable ports")
	errNoSymbol = errors.New("no ports attached to the instance symbol")
)

// Resolution is the outcome of resolving one reference component.
type Resolution struct {
	Entry *CacheEntry
	// Block is the definition text, set only on the first encounter.
	Block string
	Fresh bool
}

// Resolved collects the resolutions of one document.
type Resolved struct {
	Blocks  []string
	Entries map[*schematic.Component]*CacheEntry
}

// ResolveSubcircuits resolves every active reference component of doc in
// document order. Definition blocks of references seen for the first time
// in this pass are returned in that order.
func ResolveSubcircuits(ctx *Context, doc *schematic.Document, dom Domain) (*Resolved, error) {
	res := &Resolved{Entries: make(map[*schematic.Component]*CacheEntry)}
	for _, c := range doc.Components {
		if c.State != schematic.Active || !c.IsReference() {
			continue
		}
		r, err := ctx.Resolve(doc, c, dom)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		res.Entries[c] = r.Entry
		if r.Fresh {
			res.Blocks = append(res.Blocks, r.Block)
		}
	}
	return res, nil
}

// Resolve resolves one reference component of doc. It returns nil for
// components that are skipped, such as library references while a library
// is being built or VHDL files in a Verilog netlist.
func (ctx *Context) Resolve(doc *schematic.Document, c *schematic.Component, dom Domain) (*Resolution, error) {
	if otherHDL(c, dom.Dialect) {
		return nil, nil
	}
	switch k := c.Kind().(type) {
	case schematic.SubcircuitRef:
		return ctx.resolveSchematic(doc, c, k.File, dom)
	case schematic.LibraryRef:
		return ctx.resolveLibrary(c, k, dom)
	case schematic.ForeignFile:
		return ctx.resolveForeign(doc, c, k)
	}
	return nil, nil
}

// cached reuses a previous resolution: only the port types are copied.
func (ctx *Context) cached(c *schematic.Component, key string) (*Resolution, bool) {
	e, ok := ctx.cache[key]
	if !ok {
		return nil, false
	}
	applyPortTypes(c, e.PortTypes)
	return &Resolution{Entry: e}, true
}

func (ctx *Context) resolveSchematic(doc *schematic.Document, c *schematic.Component, file string, dom Domain) (*Resolution, error) {
	if file == "" {
		return nil, &MissingSubcircuitError{Component: c.Name}
	}
	path, err := ctx.locate(doc, file)
	if err != nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: file, Err: err}
	}
	if r, ok := ctx.cached(c, path); ok {
		if len(c.Ports) == 0 {
			return nil, &MissingSubcircuitError{Component: c.Name, File: file, Err: errNoSymbol}
		}
		return r, nil
	}
	if ctx.pending[path] {
		return nil, &RecursiveSubcircuitError{File: path}
	}
	if ctx.Loader == nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: file, Err: errors.New("no document loader")}
	}

	ctx.pending[path] = true
	defer delete(ctx.pending, path)

	sub, err := ctx.Loader.Load(path)
	if err != nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: file, Err: err}
	}
	if _, err := DetectDomain(sub); err != nil {
		return nil, err
	}
	for _, sc := range sub.Components {
		if sc.IsSimulation() && !sc.IsOpen() {
			ctx.warn("ignoring simulation component %q in sub-circuit %q", sc.Name, file)
		}
	}

	naming, err := AssignNodeNames(ctx, sub, dom)
	if err != nil {
		return nil, err
	}
	ports := subPorts(sub, naming)
	if len(ports) == 0 {
		return nil, &MissingSubcircuitError{Component: c.Name, File: file, Err: errNoPorts}
	}
	if len(c.Ports) == 0 {
		return nil, &MissingSubcircuitError{Component: c.Name, File: file, Err: errNoSymbol}
	}
	name := ctx.definitionName(properName(file), path)
	block, err := EmitSubBlock(sub, naming, dom, name)
	if err != nil {
		return nil, err
	}

	entry := &CacheEntry{Kind: KindSchematic, Name: name}
	for _, p := range ports {
		entry.PortTypes = append(entry.PortTypes, p.Type)
	}
	for _, p := range sub.Parameters() {
		entry.Params = append(entry.Params, p.Name)
	}
	ctx.cache[path] = entry
	applyPortTypes(c, entry.PortTypes)

	return &Resolution{
		Entry: entry,
		Block: strings.Join(naming.Blocks, "") + block,
		Fresh: true,
	}, nil
}

func (ctx *Context) resolveLibrary(c *schematic.Component, k schematic.LibraryRef, dom Domain) (*Resolution, error) {
	if ctx.CreatingLibrary {
		ctx.warn("skipping library component %q", c.Name)
		return nil, nil
	}
	if k.Library == "" || k.Component == "" {
		return nil, &MissingSubcircuitError{Component: c.Name, File: k.Library}
	}
	if ctx.Catalog == nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: k.Library, Err: errors.New("no library catalog")}
	}
	path, err := ctx.Catalog.Locate(k.Library)
	if err != nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: k.Library, Err: err}
	}
	noSymbol := &MissingSubcircuitError{Component: c.Name, File: k.Library, Err: errNoSymbol}
	key := path + "/" + k.Component
	if r, ok := ctx.cached(c, key); ok {
		if len(c.Ports) == 0 {
			return nil, noSymbol
		}
		return r, nil
	}

	lib, err := ctx.library(path)
	if err != nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: k.Library, Err: err}
	}
	comp := lib.Component(k.Component)
	if comp == nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: k.Library,
			Err: fmt.Errorf("no component %q in library", k.Component)}
	}
	if len(c.Ports) == 0 {
		return nil, noSymbol
	}
	var model string
	switch dom.Dialect {
	case Analog:
		model = comp.Model
	case VHDL:
		model = comp.VHDLModel
	case Verilog:
		model = comp.VerilogModel
	}
	if strings.TrimSpace(model) == "" {
		return nil, &MissingSubcircuitError{Component: c.Name, File: k.Library,
			Err: fmt.Errorf("component %q has no %s model", k.Component, dom.Dialect)}
	}
	if len(comp.ModelIncludes) > 0 {
		ctx.warn("model includes of library component %q are not inlined", k.Component)
	}

	entry := &CacheEntry{
		Kind: KindLibrary,
		Name: ctx.definitionName(properName(filepath.Base(k.Library)+"_"+k.Component), key),
	}
	entry.Params = symbolParams(lib.SymbolOf(comp))
	ctx.cache[key] = entry

	return &Resolution{Entry: entry, Block: "\n" + ensureNewline(model), Fresh: true}, nil
}

func symbolParams(symbol []schematic.Painting) []string {
	for _, p := range symbol {
		if id, ok := p.IDText(); ok {
			names := make([]string, len(id.Params))
			for i, sp := range id.Params {
				names[i] = sp.Name
			}
			return names
		}
	}
	return nil
}

func (ctx *Context) resolveForeign(doc *schematic.Document, c *schematic.Component, k schematic.ForeignFile) (*Resolution, error) {
	if k.File == "" {
		return nil, &MissingSubcircuitError{Component: c.Name}
	}
	path, err := ctx.locate(doc, k.File)
	if err != nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: k.File, Err: err}
	}
	if r, ok := ctx.cached(c, path); ok {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MissingSubcircuitError{Component: c.Name, File: k.File, Err: err}
	}
	unloadable := func(err error) error {
		return &UnloadableForeignFileError{Component: c.Name, File: k.File, Err: err}
	}

	var (
		entry *CacheEntry
		block string
	)
	switch k.Lang {
	case schematic.LangSPICE:
		ports := schematic.SplitPortList(c.PropValue("Ports"))
		if len(ports) == 0 {
			return nil, &MissingSubcircuitError{Component: c.Name, File: k.File, Err: errNoPorts}
		}
		name := ctx.definitionName(properName(k.File), path)
		leaf, err := hdl.ConvertSpice(name, string(data), ports)
		if err != nil {
			return nil, unloadable(err)
		}
		entry = &CacheEntry{Kind: KindSPICE, Name: name}
		block = leaf.Text
	case schematic.LangVHDL, schematic.LangVerilog:
		parse, kind := hdl.ParseVHDL, KindVHDL
		if k.Lang == schematic.LangVerilog {
			parse, kind = hdl.ParseVerilog, KindVerilog
		}
		leaf, err := parse(string(data))
		if err != nil {
			return nil, unloadable(err)
		}
		if len(leaf.Ports) == 0 {
			return nil, &MissingSubcircuitError{Component: c.Name, File: k.File, Err: errNoPorts}
		}
		entry = &CacheEntry{Kind: kind, Name: leaf.Name, PortTypes: leaf.PortTypes}
		for _, g := range leaf.Generics {
			entry.Params = append(entry.Params, g.Name)
		}
		block = "\n" + ensureNewline(leaf.Text)
	default:
		return nil, unloadable(fmt.Errorf("unsupported language %s", k.Lang))
	}

	ctx.cache[path] = entry
	applyPortTypes(c, entry.PortTypes)
	return &Resolution{Entry: entry, Block: block, Fresh: true}, nil
}

// applyPortTypes copies resolved signal types onto the component's ports
// and the nodes they touch.
func applyPortTypes(c *schematic.Component, types []string) {
	for i, p := range c.Ports {
		if i >= len(types) || strings.TrimSpace(types[i]) == "" {
			continue
		}
		p.Type = types[i]
		if p.Node != nil {
			p.Node.DType = types[i]
		}
	}
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

