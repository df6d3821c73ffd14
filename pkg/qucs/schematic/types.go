// Package schematic provides parsing and writing of Qucs schematic files (.sch)
package schematic

import "strings"

// Point is an integer grid coordinate. Connectivity is decided by exact
// equality of points, never by distance.
type Point struct {
	X int
	Y int
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Activation is the state stored in bits 0-1 of a component's flag field.
type Activation int

const (
	Open   Activation = 0 // commented out, emits nothing
	Active Activation = 1
	Short  Activation = 2 // all ports tied together
)

func (a Activation) String() string {
	switch a {
	case Open:
		return "open"
	case Active:
		return "active"
	case Short:
		return "short"
	}
	return "unknown"
}

// Property is one name/value pair of a component.
type Property struct {
	Name    string
	Value   string
	Display bool // shown on the canvas
	Named   bool // stored as "Name=Value" (equation-style)
}

// Port is a connection point of a component.
type Port struct {
	Offset    Point  // relative to the component, after mirror and rotation
	Type      string // declared signal type, may be empty
	Node      *Node
	Component *Component
}

// Label names a node or a wire.
type Label struct {
	Name      string
	Pos       Point  // position of the label text
	Delta     int    // offset of the anchor along the wire
	InitValue string // initial condition, emitted as NodeSet in analog netlists
}

// Node is a logical connection point merging all wires and ports at one
// coordinate.
type Node struct {
	Pos   Point
	Label *Label
	DType string // signal type propagated from ports
	Name  string // assigned during netlisting, never saved

	Wires []*Wire
	Ports []*Port

	visited bool
}

// Connections returns the number of wires and ports attached to the node.
func (n *Node) Connections() int {
	return len(n.Wires) + len(n.Ports)
}

// Visited reports whether the node was reached during the current naming
// pass.
func (n *Node) Visited() bool { return n.visited }

// SetVisited sets the transient naming marker.
func (n *Node) SetVisited(v bool) { n.visited = v }

// Wire connects two nodes.
type Wire struct {
	P1    Point
	P2    Point
	Node1 *Node
	Node2 *Node
	Label *Label
}

// IsLabel reports whether the wire has zero length. Such records denote a
// node label rather than a real wire.
func (w *Wire) IsLabel() bool {
	return w.P1 == w.P2
}

// Other returns the node at the opposite end of the wire from n.
func (w *Wire) Other(n *Node) *Node {
	if n != w.Node1 {
		return w.Node1
	}
	return w.Node2
}

// Component is a circuit element placed on the schematic.
type Component struct {
	Type     string
	Name     string
	State    Activation
	ShowName bool
	Pos      Point
	Text     Point // offset of the property text
	Mirrored bool
	Rotation int // quarter turns, 0..3

	Props []Property
	Ports []*Port

	Line int // source line, 0 when built in memory
}

// Prop returns the property with the given name.
func (c *Component) Prop(name string) (Property, bool) {
	for _, p := range c.Props {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// PropValue returns the value of the named property or "" if absent.
func (c *Component) PropValue(name string) string {
	p, _ := c.Prop(name)
	return p.Value
}

// PropAt returns the value of the i-th property or "" if out of range.
func (c *Component) PropAt(i int) string {
	if i < 0 || i >= len(c.Props) {
		return ""
	}
	return c.Props[i].Value
}

// IsSimulation reports whether the component is a simulation directive.
func (c *Component) IsSimulation() bool {
	return strings.HasPrefix(c.Type, ".")
}

// IsGround reports whether the component is a ground marker.
func (c *Component) IsGround() bool { return c.Type == "GND" }

// IsOpen reports whether the component is commented out.
func (c *Component) IsOpen() bool { return c.State == Open }

// IsShort reports whether the component is shorted.
func (c *Component) IsShort() bool { return c.State == Short }

// Settings holds the <Properties> section of a document.
type Settings struct {
	View        string // x1,y1,x2,y2,scale,xpos,ypos
	Grid        string // gx,gy,on
	DataSet     string
	DataDisplay string
	OpenDisplay bool
	Script      string
	RunScript   bool
	ShowFrame   int
	FrameText   [4]string
}

// Painting is one record of the <Symbol> or <Paintings> section. The record
// is kept verbatim; accessors decode the kinds the netlister cares about.
type Painting struct {
	Type string
	Raw  string // record text without the enclosing brackets
	Line int
}

// Diagram is one block of the <Diagrams> section, kept verbatim.
type Diagram struct {
	Type   string
	Header string   // header record without brackets
	Body   []string // inner lines, trimmed
	Line   int
}

// Document is one schematic file.
type Document struct {
	Path    string
	Version Version

	Settings   Settings
	Symbol     []Painting
	Components []*Component
	Wires      []*Wire
	Nodes      []*Node
	Diagrams   []Diagram
	Paintings  []Painting

	connected bool
}

// DataSet returns the secondary data file associated with the document.
func (d *Document) DataSet() string {
	return d.Settings.DataSet
}

// Connected reports whether BuildConnectivity has run on the document.
func (d *Document) Connected() bool { return d.connected }

// Component returns the component with the given instance name.
func (d *Document) Component(name string) *Component {
	for _, c := range d.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NodeAt returns the node at p, or nil.
func (d *Document) NodeAt(p Point) *Node {
	for _, n := range d.Nodes {
		if n.Pos == p {
			return n
		}
	}
	return nil
}

// PortSymbols returns the .PortSym paintings of the symbol section ordered
// by port number.
func (d *Document) PortSymbols() []PortSymbol {
	var out []PortSymbol
	for _, p := range d.Symbol {
		if ps, ok := p.PortSymbol(); ok {
			out = append(out, ps)
		}
	}
	sortPortSymbols(out)
	return out
}

// Parameters returns the user parameters declared by the symbol's .ID text.
func (d *Document) Parameters() []SubParameter {
	for _, p := range d.Symbol {
		if id, ok := p.IDText(); ok {
			return id.Params
		}
	}
	return nil
}
