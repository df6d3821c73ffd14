package schematic

// BuildConnectivity creates the document's nodes. Every port position and
// wire end maps to exactly one node; points are merged only when their
// coordinates are equal. Zero-length wires become node labels and are
// removed from doc.Wires. Nodes keep their creation order: component ports
// in document order first, then wire ends.
//
// Running it again rebuilds the graph and keeps existing node labels.
func BuildConnectivity(doc *Document) {
	var labeled []*Node
	for _, n := range doc.Nodes {
		if n.Label != nil {
			labeled = append(labeled, n)
		}
	}

	doc.Nodes = nil
	index := make(map[Point]*Node)
	nodeAt := func(p Point) *Node {
		if n, ok := index[p]; ok {
			return n
		}
		n := &Node{Pos: p}
		index[p] = n
		doc.Nodes = append(doc.Nodes, n)
		return n
	}

	for _, c := range doc.Components {
		for i, pt := range c.Ports {
			n := nodeAt(c.PortPos(i))
			if n.DType != "" {
				pt.Type = n.DType
			}
			if pt.Type != "" {
				n.DType = pt.Type
			}
			n.Ports = append(n.Ports, pt)
			pt.Node = n
		}
	}

	wires := doc.Wires[:0]
	for _, w := range doc.Wires {
		if w.IsLabel() {
			n := nodeAt(w.P1)
			if w.Label != nil {
				n.Label = w.Label
			}
			continue
		}
		w.Node1 = nodeAt(w.P1)
		w.Node2 = nodeAt(w.P2)
		w.Node1.Wires = append(w.Node1.Wires, w)
		w.Node2.Wires = append(w.Node2.Wires, w)
		wires = append(wires, w)
	}
	doc.Wires = wires

	for _, old := range labeled {
		if n := nodeAt(old.Pos); n.Label == nil {
			n.Label = old.Label
		}
	}
	doc.connected = true
}
