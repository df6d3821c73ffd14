// Package library reads Qucs component libraries (.lib files) and locates
// them by name.
package library

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

// Library is a parsed .lib file.
type Library struct {
	Path          string
	Name          string
	Version       schematic.Version
	DefaultSymbol []schematic.Painting
	Components    []*Component
}

// Component is one <Component> block of a library.
type Component struct {
	Name          string
	Description   string
	Model         string // analog netlist text
	VHDLModel     string
	VerilogModel  string
	ModelIncludes []string
	Symbol        []schematic.Painting
}

// Component returns the named component, or nil.
func (l *Library) Component(name string) *Component {
	for _, c := range l.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// SymbolOf returns the component symbol, falling back to the library's
// default symbol.
func (l *Library) SymbolOf(c *Component) []schematic.Painting {
	if len(c.Symbol) > 0 {
		return c.Symbol
	}
	return l.DefaultSymbol
}

// PortSymbols returns the decoded .PortSym paintings of a symbol ordered by
// port number.
func PortSymbols(symbol []schematic.Painting) []schematic.PortSymbol {
	var out []schematic.PortSymbol
	for _, p := range symbol {
		if ps, ok := p.PortSymbol(); ok {
			out = append(out, ps)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

type libHeader struct {
	Version string `"<" "Qucs" "Library" @Word`
	Name    string `@String ">"`
}

var headerParser = participle.MustBuild[libHeader](
	participle.Lexer(schematic.RecordLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// ParseFile reads a library from disk.
func ParseFile(filename string) (*Library, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	defer f.Close()

	lib, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	lib.Path = filename
	return lib, nil
}

// ParseString reads a library from a string.
func ParseString(s string) (*Library, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a library.
func Parse(r io.Reader) (*Library, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	n := 0
	next := func() (string, bool) {
		for sc.Scan() {
			n++
			if line := strings.TrimSpace(sc.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}

	first, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("library: empty file")
	}
	hdr, err := headerParser.ParseString("", first)
	if err != nil {
		return nil, &schematic.FormatError{Line: n, Text: first, Msg: "invalid library header"}
	}
	v, err := schematic.ParseVersion(hdr.Version)
	if err != nil {
		return nil, &schematic.FormatError{Line: n, Text: first, Msg: err.Error()}
	}
	if v.Compare(schematic.Supported) > 0 {
		return nil, &schematic.VersionError{Got: v, Supported: schematic.Supported}
	}
	lib := &Library{Name: hdr.Name, Version: v}

	// section collects raw lines up to </tag>.
	section := func(tag string) ([]string, error) {
		var body []string
		start := n
		for {
			line, ok := next()
			if !ok {
				return nil, &schematic.FormatError{Line: start, Text: "<" + tag + ">", Msg: "unterminated section"}
			}
			if line == "</"+tag+">" {
				return body, nil
			}
			body = append(body, line)
		}
	}

	var cur *Component
	for {
		line, ok := next()
		if !ok {
			break
		}
		tag, rest := splitTag(line)
		switch {
		case tag == "Component":
			if cur != nil {
				return nil, &schematic.FormatError{Line: n, Text: line, Msg: "nested component"}
			}
			cur = &Component{Name: strings.TrimSpace(rest)}
		case tag == "/Component":
			if cur == nil {
				return nil, &schematic.FormatError{Line: n, Text: line, Msg: "component end without start"}
			}
			lib.Components = append(lib.Components, cur)
			cur = nil
		case tag == "DefaultSymbol" && cur == nil:
			body, err := section(tag)
			if err != nil {
				return nil, err
			}
			lib.DefaultSymbol = paintings(body)
		case cur == nil:
			return nil, &schematic.FormatError{Line: n, Text: line, Msg: "content outside component"}
		case tag == "ModelIncludes":
			cur.ModelIncludes = quotedFields(rest)
		case tag == "Description" || tag == "Model" || tag == "VHDLModel" || tag == "VerilogModel" || tag == "Symbol":
			body, err := section(tag)
			if err != nil {
				return nil, err
			}
			text := strings.Join(body, "\n")
			switch tag {
			case "Description":
				cur.Description = text
			case "Model":
				cur.Model = text
			case "VHDLModel":
				cur.VHDLModel = text
			case "VerilogModel":
				cur.VerilogModel = text
			case "Symbol":
				cur.Symbol = paintings(body)
			}
		default:
			if _, err := section(tag); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, fmt.Errorf("library: component %s is not terminated", cur.Name)
	}
	return lib, nil
}

// splitTag splits "<Tag rest>" into its tag and remainder.
func splitTag(line string) (string, string) {
	line = strings.TrimSuffix(strings.TrimPrefix(line, "<"), ">")
	tag, rest, _ := strings.Cut(line, " ")
	return tag, rest
}

func quotedFields(s string) []string {
	var out []string
	for _, f := range strings.Fields(s) {
		if f = strings.Trim(f, `"`); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func paintings(body []string) []schematic.Painting {
	out := make([]schematic.Painting, 0, len(body))
	for _, line := range body {
		raw := strings.TrimSuffix(strings.TrimPrefix(line, "<"), ">")
		typ, _, _ := strings.Cut(raw, " ")
		out = append(out, schematic.Painting{Type: typ, Raw: raw})
	}
	return out
}

// Catalog finds library files by library name.
type Catalog interface {
	Locate(name string) (string, error)
}

// NotFoundError reports a library missing from every search location.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("library: %s not found", e.Name)
}

// DirCatalog looks for <name>.lib in a list of directories.
type DirCatalog struct {
	Dirs []string
}

// Locate implements Catalog.
func (d DirCatalog) Locate(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	file := name
	if filepath.Ext(file) != ".lib" {
		file += ".lib"
	}
	for _, dir := range d.Dirs {
		p := filepath.Join(dir, file)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &NotFoundError{Name: name}
}
