package schematic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Section names as they appear in the file.
const (
	SectionProperties = "Properties"
	SectionSymbol     = "Symbol"
	SectionComponents = "Components"
	SectionWires      = "Wires"
	SectionDiagrams   = "Diagrams"
	SectionPaintings  = "Paintings"
)

const headerPrefix = "<Qucs Schematic "

var diagramTypes = map[string]bool{
	"Rect": true, "Polar": true, "Tab": true, "Smith": true, "ySmith": true,
	"PS": true, "SP": true, "Rect3D": true, "Curve": true, "Time": true, "Truth": true,
}

var paintingTypes = map[string]bool{
	"Line": true, "EArc": true, ".PortSym": true, ".ID": true, "Text": true,
	"Rectangle": true, "Arrow": true, "Ellipse": true,
}

// Option configures a Parser.
type Option func(*Parser)

// WithIgnoreFutureVersion accepts files written by a newer format version.
func WithIgnoreFutureVersion() Option {
	return func(p *Parser) { p.ignoreFuture = true }
}

// WithSubstituteUnknown replaces components of unknown type with a
// sub-circuit reference to "<type>.sch" instead of failing.
func WithSubstituteUnknown() Option {
	return func(p *Parser) { p.substitute = true }
}

// WithSkip discards the named sections without decoding them.
func WithSkip(sections ...string) Option {
	return func(p *Parser) {
		for _, s := range sections {
			p.skip[s] = true
		}
	}
}

// Parser reads schematic documents.
type Parser struct {
	ignoreFuture bool
	substitute   bool
	skip         map[string]bool
}

// NewParser creates a parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{skip: map[string]bool{}}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse reads a schematic with default options.
func Parse(r io.Reader) (*Document, error) {
	return NewParser().Parse(r)
}

// ParseString reads a schematic from a string with default options.
func ParseString(s string) (*Document, error) {
	return NewParser().ParseString(s)
}

// ParseFile reads a schematic file with default options.
func ParseFile(filename string) (*Document, error) {
	return NewParser().ParseFile(filename)
}

// ParseFile opens and parses a schematic file.
func (p *Parser) ParseFile(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	doc, err := p.Parse(f)
	if err != nil {
		return nil, err
	}
	doc.Path = filename
	return doc, nil
}

// ParseString parses a schematic held in a string.
func (p *Parser) ParseString(s string) (*Document, error) {
	return p.Parse(strings.NewReader(s))
}

// Parse reads a complete document.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	lr := newLineReader(r)
	line, ok := lr.next()
	if !ok {
		if err := lr.err(); err != nil {
			return nil, err
		}
		return nil, ErrEmptyFile
	}
	doc := &Document{}
	v, err := p.header(line, lr.n)
	if err != nil {
		return nil, err
	}
	doc.Version = v

	if err := p.sections(lr, doc); err != nil {
		return nil, err
	}
	AttachPorts(doc, nil)
	return doc, nil
}

func (p *Parser) header(line string, n int) (Version, error) {
	if !strings.HasPrefix(line, headerPrefix) || !strings.HasSuffix(line, ">") {
		return Version{}, formatErr(n, line, "wrong document type")
	}
	s := strings.TrimSuffix(strings.TrimPrefix(line, headerPrefix), ">")
	v, err := ParseVersion(s)
	if err != nil {
		return Version{}, formatErr(n, line, "%v", err)
	}
	if v.Compare(Supported) > 0 && !p.ignoreFuture {
		return v, &VersionError{Got: v, Supported: Supported}
	}
	return v, nil
}

// sections dispatches on section headers until EOF.
func (p *Parser) sections(lr *lineReader, doc *Document) error {
	for {
		line, ok := lr.next()
		if !ok {
			return lr.err()
		}
		if !strings.HasPrefix(line, "<") || !strings.HasSuffix(line, ">") {
			return formatErr(lr.n, line, "section header expected")
		}
		name := line[1 : len(line)-1]
		if p.skip[name] {
			if err := skipSection(lr, name); err != nil {
				return err
			}
			continue
		}

		var err error
		switch name {
		case SectionProperties:
			err = p.loadProperties(lr, &doc.Settings)
		case SectionSymbol:
			doc.Symbol, err = p.loadPaintings(lr, name)
		case SectionComponents:
			err = p.loadComponents(lr, doc)
		case SectionWires:
			err = p.loadWires(lr, doc)
		case SectionDiagrams:
			err = p.loadDiagrams(lr, doc)
		case SectionPaintings:
			doc.Paintings, err = p.loadPaintings(lr, name)
		default:
			err = formatErr(lr.n, line, "unknown section")
		}
		if err != nil {
			return err
		}
	}
}

// skipSection reads up to the closing line of a section.
func skipSection(lr *lineReader, name string) error {
	for {
		line, ok := lr.next()
		if !ok {
			if err := lr.err(); err != nil {
				return err
			}
			return formatErr(lr.n, "", "section <%s> is not closed", name)
		}
		if strings.HasPrefix(line, "</") {
			return nil
		}
	}
}

// body returns the next line of a section, or done at its closing line.
func body(lr *lineReader, name string) (line string, done bool, err error) {
	line, ok := lr.next()
	if !ok {
		if err := lr.err(); err != nil {
			return "", false, err
		}
		return "", false, formatErr(lr.n, "", "section <%s> is not closed", name)
	}
	if strings.HasPrefix(line, "</") {
		return line, true, nil
	}
	if !strings.HasPrefix(line, "<") || !strings.HasSuffix(line, ">") {
		return "", false, formatErr(lr.n, line, "record in section <%s> must be enclosed in <>", name)
	}
	return line, false, nil
}

func (p *Parser) loadProperties(lr *lineReader, s *Settings) error {
	for {
		line, done, err := body(lr, SectionProperties)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		key, val, ok := strings.Cut(line[1:len(line)-1], "=")
		if !ok {
			return formatErr(lr.n, line, "property without value")
		}
		if err := s.set(key, val); err != nil {
			return formatErr(lr.n, line, "%v", err)
		}
	}
}

func (s *Settings) set(key, val string) error {
	switch key {
	case "View":
		if err := numberList(val, 7); err != nil {
			return err
		}
		s.View = val
	case "Grid":
		if err := numberList(val, 3); err != nil {
			return err
		}
		s.Grid = val
	case "DataSet":
		s.DataSet = val
	case "DataDisplay":
		s.DataDisplay = val
	case "OpenDisplay":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("number expected in property field")
		}
		s.OpenDisplay = n != 0
	case "Script":
		s.Script = val
	case "RunScript":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("number expected in property field")
		}
		s.RunScript = n != 0
	case "showFrame":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("number expected in property field")
		}
		s.ShowFrame = n
	case "FrameText0", "FrameText1", "FrameText2", "FrameText3":
		s.FrameText[key[len(key)-1]-'0'] = val
	default:
		return fmt.Errorf("unknown property %q", key)
	}
	return nil
}

func numberList(val string, n int) error {
	parts := strings.Split(val, ",")
	if len(parts) != n {
		return fmt.Errorf("expected %d numbers, got %d", n, len(parts))
	}
	for _, f := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return fmt.Errorf("number expected in property field")
		}
	}
	return nil
}

func (p *Parser) loadComponents(lr *lineReader, doc *Document) error {
	for {
		line, done, err := body(lr, SectionComponents)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		c, err := p.decodeComponent(line, lr.n, doc.Version)
		if err != nil {
			return err
		}
		doc.Components = append(doc.Components, c)
	}
}

type valuePair struct {
	Value   string
	Display bool
}

func (p *Parser) decodeComponent(line string, n int, v Version) (*Component, error) {
	toks, err := splitRecord(line)
	if err != nil {
		return nil, formatErr(n, line, "%v", err)
	}
	if len(toks) < 9 {
		return nil, formatErr(n, line, "component needs 9 positional fields, got %d", len(toks))
	}
	// flags, x, y, text x, text y, mirror, rotate
	var ints [7]int
	for i := range ints {
		t := toks[i+2]
		if t.Quoted {
			return nil, formatErr(n, line, "number expected in field %d", i+3)
		}
		if ints[i], err = strconv.Atoi(t.Text); err != nil {
			return nil, formatErr(n, line, "number expected in field %d", i+3)
		}
	}
	c := &Component{
		Type:     toks[0].Text,
		Name:     toks[1].Text,
		State:    Activation(ints[0] & 3),
		ShowName: ints[0]&4 == 0,
		Pos:      Point{ints[1], ints[2]},
		Text:     Point{ints[3], ints[4]},
		Line:     n,
	}
	if c.Name == "*" {
		c.Name = ""
	}
	if c.State > Short {
		return nil, formatErr(n, line, "invalid activation state %d", c.State)
	}
	mirror, rotate := ints[5], ints[6]
	if mirror != 0 && mirror != 1 {
		return nil, formatErr(n, line, "invalid mirror flag %d", mirror)
	}
	if rotate < 0 || rotate > 3 {
		return nil, formatErr(n, line, "invalid rotation %d", rotate)
	}
	if !c.IsSimulation() {
		c.Mirrored = mirror == 1
		c.Rotation = rotate
	}

	rest := toks[9:]
	if len(rest)%2 != 0 {
		return nil, formatErr(n, line, "property value without display flag")
	}
	pairs := make([]valuePair, 0, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		if !rest[i].Quoted {
			return nil, formatErr(n, line, "property value must be quoted")
		}
		d, err := strconv.Atoi(rest[i+1].Text)
		if err != nil || rest[i+1].Quoted {
			return nil, formatErr(n, line, "number expected as display flag")
		}
		pairs = append(pairs, valuePair{Value: rest[i].Text, Display: d == 1})
	}

	schema := Lookup(c.Type)
	if schema == nil {
		if !p.substitute {
			return nil, &UnknownComponentError{Type: c.Type, Line: n}
		}
		return substitute(c, pairs), nil
	}
	alias, aliased := aliases[c.Type]
	c.Type = canonicalType(c.Type)
	c.Props, err = schema.decodeProps(pairs, v)
	if err != nil {
		return nil, formatErr(n, line, "%v", err)
	}
	if aliased {
		for i := range c.Props {
			if o, ok := alias.Overrides[c.Props[i].Name]; ok {
				c.Props[i].Value = o
			}
		}
	}
	return c, nil
}

// substitute turns an unknown component into a placeholder sub-circuit
// reference. The stored values become its parameters.
func substitute(c *Component, pairs []valuePair) *Component {
	file := c.Type + ".sch"
	c.Type = "Sub"
	c.Props = []Property{{Name: "File", Value: file, Display: true}}
	for i, pr := range pairs {
		c.Props = append(c.Props, Property{Name: "p" + strconv.Itoa(i+2), Value: pr.Value, Display: pr.Display})
	}
	return c
}

// decodeProps maps stored value pairs onto the schema's properties.
func (s *Schema) decodeProps(pairs []valuePair, v Version) ([]Property, error) {
	if s.FreeForm {
		return s.decodeFreeForm(pairs)
	}
	props := s.Defaults()
	index := make(map[string]int, len(props))
	for i, p := range props {
		index[p.Name] = i
	}

	if names, ok := s.layout(len(pairs), v); ok {
		for i, name := range names {
			j := index[name]
			props[j].Value = pairs[i].Value
			props[j].Display = pairs[i].Display
		}
		return props, nil
	}
	if len(pairs) <= len(props) {
		for i, pr := range pairs {
			props[i].Value = pr.Value
			props[i].Display = pr.Display
		}
		return props, nil
	}
	if !s.Variadic {
		return nil, fmt.Errorf("%s takes %d properties, got %d", s.Type, len(props), len(pairs))
	}
	for i, pr := range pairs {
		if i < len(props) {
			props[i].Value = pr.Value
			props[i].Display = pr.Display
			continue
		}
		if s.NamedExtras {
			name, val, ok := strings.Cut(pr.Value, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("%s property %q has no name", s.Type, pr.Value)
			}
			props = append(props, Property{Name: name, Value: val, Display: pr.Display, Named: true})
			continue
		}
		extra := i - len(s.Props)
		props = append(props, Property{Name: s.extraName(extra, i), Value: pr.Value, Display: pr.Display})
	}
	return props, nil
}

// decodeFreeForm reads "name=value" pairs followed by the declared
// trailing properties.
func (s *Schema) decodeFreeForm(pairs []valuePair) ([]Property, error) {
	neq := len(pairs) - len(s.Props)
	if neq < 0 {
		neq = 0
	}
	var props []Property
	for _, pr := range pairs[:neq] {
		name, val, ok := strings.Cut(pr.Value, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("equation %q has no name", pr.Value)
		}
		props = append(props, Property{Name: name, Value: val, Display: pr.Display, Named: true})
	}
	tail := s.Defaults()
	for i, pr := range pairs[neq:] {
		tail[i].Value = pr.Value
		tail[i].Display = pr.Display
	}
	return append(props, tail...), nil
}

func (p *Parser) loadWires(lr *lineReader, doc *Document) error {
	for {
		line, done, err := body(lr, SectionWires)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		w, err := decodeWire(line, lr.n)
		if err != nil {
			return err
		}
		doc.Wires = append(doc.Wires, w)
	}
}

func decodeWire(line string, n int) (*Wire, error) {
	toks, err := splitRecord(line)
	if err != nil {
		return nil, formatErr(n, line, "%v", err)
	}
	if len(toks) < 4 {
		return nil, formatErr(n, line, "wire needs 4 coordinates, got %d", len(toks))
	}
	var xy [4]int
	for i := range xy {
		if toks[i].Quoted {
			return nil, formatErr(n, line, "number expected in field %d", i+1)
		}
		if xy[i], err = strconv.Atoi(toks[i].Text); err != nil {
			return nil, formatErr(n, line, "number expected in field %d", i+1)
		}
	}
	w := &Wire{P1: Point{xy[0], xy[1]}, P2: Point{xy[2], xy[3]}}
	if len(toks) == 4 {
		return w, nil
	}
	if len(toks) < 8 || !toks[4].Quoted {
		return nil, formatErr(n, line, "incomplete wire label")
	}
	var lab [3]int
	for i := range lab {
		if lab[i], err = strconv.Atoi(toks[5+i].Text); err != nil {
			return nil, formatErr(n, line, "number expected in label field %d", i+1)
		}
	}
	if toks[4].Text == "" {
		return w, nil
	}
	w.Label = &Label{Name: toks[4].Text, Pos: Point{lab[0], lab[1]}, Delta: lab[2]}
	if len(toks) > 8 {
		w.Label.InitValue = toks[8].Text
	}
	return w, nil
}

func (p *Parser) loadDiagrams(lr *lineReader, doc *Document) error {
	for {
		line, done, err := body(lr, SectionDiagrams)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		inner := line[1 : len(line)-1]
		typ, _, _ := strings.Cut(inner, " ")
		if !diagramTypes[typ] {
			return formatErr(lr.n, line, "unknown diagram type %q", typ)
		}
		d := Diagram{Type: typ, Header: inner, Line: lr.n}
		end := "</" + typ + ">"
		for {
			l, ok := lr.next()
			if !ok {
				if err := lr.err(); err != nil {
					return err
				}
				return formatErr(d.Line, line, "diagram is not closed")
			}
			if l == end {
				break
			}
			if strings.HasPrefix(l, "</") {
				return formatErr(lr.n, l, "diagram <%s> is not closed", typ)
			}
			d.Body = append(d.Body, l)
		}
		doc.Diagrams = append(doc.Diagrams, d)
	}
}

func (p *Parser) loadPaintings(lr *lineReader, section string) ([]Painting, error) {
	var out []Painting
	for {
		line, done, err := body(lr, section)
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		inner := line[1 : len(line)-1]
		typ, _, _ := strings.Cut(inner, " ")
		if !paintingTypes[typ] {
			return nil, formatErr(lr.n, line, "unknown painting type %q", typ)
		}
		pt := Painting{Type: typ, Raw: inner, Line: lr.n}
		if _, err := splitRecord(line); err != nil {
			return nil, formatErr(lr.n, line, "%v", err)
		}
		out = append(out, pt)
	}
}

// lineReader yields trimmed, non-empty lines and counts them.
type lineReader struct {
	sc *bufio.Scanner
	n  int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &lineReader{sc: sc}
}

func (lr *lineReader) next() (string, bool) {
	for lr.sc.Scan() {
		lr.n++
		line := strings.TrimSpace(lr.sc.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func (lr *lineReader) err() error {
	if err := lr.sc.Err(); err != nil {
		return fmt.Errorf("failed to read: %w", err)
	}
	return nil
}
