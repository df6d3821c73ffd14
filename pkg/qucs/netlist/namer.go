package netlist

import (
	"strconv"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

// NamingResult is the outcome of AssignNodeNames for one document.
type NamingResult struct {
	// NodeSets are the analog initial-condition lines of the document
	// itself. Those of a sub-circuit stay inside its definition block.
	NodeSets []string
	// Blocks are definition texts of references resolved for the first
	// time, nested definitions before the ones using them.
	Blocks []string
	// Signals holds the digital nets. It is empty for analog documents.
	Signals *SignalRegistry
	// Entries maps each resolved reference component to its definition.
	Entries map[*schematic.Component]*CacheEntry
}

// AssignNodeNames names every node of doc and resolves its references.
// Labels win, then ground, then synthetic names in node order. Each named
// node propagates its name across wires to the unnamed nodes it reaches.
//
// Node names are overwritten on every call.
func AssignNodeNames(ctx *Context, doc *schematic.Document, dom Domain) (*NamingResult, error) {
	if !doc.Connected() {
		schematic.BuildConnectivity(doc)
	}
	digital := dom.Dialect.Digital()
	prefix := ""
	if digital {
		prefix = "net"
	}

	for _, n := range doc.Nodes {
		n.Name = ""
		n.SetVisited(false)
		if n.Label != nil {
			n.Name = prefix + n.Label.Name
		}
	}
	for _, w := range doc.Wires {
		if w.Label != nil && w.Node1 != nil {
			w.Node1.Name = prefix + w.Label.Name
		}
	}

	if err := checkModels(doc, dom.Dialect); err != nil {
		return nil, err
	}
	resolved, err := ResolveSubcircuits(ctx, doc, dom)
	if err != nil {
		return nil, err
	}
	for _, c := range doc.Components {
		if c.State != schematic.Active || !c.IsGround() {
			continue
		}
		for _, p := range c.Ports {
			if p.Node != nil {
				p.Node.Name = "gnd"
			}
		}
	}

	res := &NamingResult{
		Blocks:  resolved.Blocks,
		Signals: NewSignalRegistry(),
		Entries: resolved.Entries,
	}
	nm := &namer{ctx: ctx, analog: !digital}

	for _, n := range doc.Nodes {
		if n.Name == "" || n.Visited() {
			continue
		}
		n.SetVisited(true)
		if nm.analog && n.Label != nil {
			nm.nodeSet(n.Name, n.Label.InitValue)
		}
		nm.propagate(n)
	}

	synthetic := "_net"
	if digital {
		synthetic = "net_net"
	}
	k := 0
	for _, n := range doc.Nodes {
		if n.Name != "" {
			continue
		}
		n.Name = synthetic + strconv.Itoa(k)
		k++
		n.SetVisited(true)
		nm.propagate(n)
	}
	res.NodeSets = nm.sets

	if digital {
		for _, n := range doc.Nodes {
			res.Signals.Add(n.Name, n.DType)
		}
	}
	return res, nil
}

type namer struct {
	ctx    *Context
	analog bool
	sets   []string
}

func (nm *namer) nodeSet(name, init string) {
	if init == "" {
		return
	}
	nm.sets = append(nm.sets,
		"NodeSet:NS"+strconv.Itoa(nm.ctx.nextNodeSet())+" "+name+" U=\""+init+"\"")
}

// propagate hands seed's name to every unnamed node reachable over wires.
func (nm *namer) propagate(seed *schematic.Node) {
	queue := []*schematic.Node{seed}
	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		for _, w := range cur.Wires {
			far := w.Other(cur)
			if far == nil || far.Name != "" {
				continue
			}
			far.Name = seed.Name
			far.SetVisited(true)
			queue = append(queue, far)
			if nm.analog && w.Label != nil {
				nm.nodeSet(seed.Name, w.Label.InitValue)
			}
		}
	}
}
