package schematic

// transform applies the component orientation to a symbol offset: mirror
// about the x axis first, then one quarter turn per rotation step.
func transform(p Point, mirrored bool, rotation int) Point {
	if mirrored {
		p.Y = -p.Y
	}
	for i := 0; i < rotation; i++ {
		p.X, p.Y = p.Y, -p.X
	}
	return p
}

// SetPorts replaces the component's ports with unconnected ports at the
// given symbol offsets, oriented by the component's mirror and rotation.
func (c *Component) SetPorts(offsets []Point) {
	c.Ports = make([]*Port, len(offsets))
	for i, o := range offsets {
		c.Ports[i] = &Port{Offset: transform(o, c.Mirrored, c.Rotation), Component: c}
	}
}

// PortPos returns the absolute position of port i.
func (c *Component) PortPos(i int) Point {
	return c.Pos.Add(c.Ports[i].Offset)
}

// BoxPorts returns the port offsets of the default rectangular symbol used
// for references without a drawn symbol. Ports alternate left and right
// from the top.
func BoxPorts(n int) []Point {
	if n <= 0 {
		return nil
	}
	h := 30*((n-1)/2) + 10
	y := 10 - h
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			pts = append(pts, Point{-30, y})
		} else {
			pts = append(pts, Point{30, y})
			y += 60
		}
	}
	return pts
}

// SymbolSource supplies port geometry for components whose symbol lives in
// another file (sub-circuits, library parts, HDL files).
type SymbolSource interface {
	SymbolPorts(doc *Document, c *Component) ([]Point, error)
}

// AttachPorts gives every component its ports. Components with built-in
// geometry use the schema; the rest ask src. A nil src leaves referencing
// components without ports.
func AttachPorts(doc *Document, src SymbolSource) error {
	for _, c := range doc.Components {
		s := Lookup(c.Type)
		if s != nil && s.Ports != nil {
			c.SetPorts(s.Ports(c.Props))
			continue
		}
		if src == nil {
			continue
		}
		pts, err := src.SymbolPorts(doc, c)
		if err != nil {
			return err
		}
		c.SetPorts(pts)
	}
	return nil
}
