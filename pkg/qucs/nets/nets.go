// Package nets groups the component pins of a connected schematic into
// electrical nets and exports them as JSON or as a KiCad style netlist.
//
// A net is the set of nodes joined by wires. Nodes that merely share a
// label name are not merged; the netlist emitters join them by name.
package nets

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

// Pin is one component terminal. Port numbers start at 1.
type Pin struct {
	Component string `json:"component"`
	Port      int    `json:"port"`
}

// Net is one electrical net.
type Net struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Pins    []Pin    `json:"pins"`
}

// Report tracks node connectivity with a union-find structure.
type Report struct {
	Source string
	// Final nets after calling Finalize()
	Nets []*Net

	parent []int
	rank   []int
	nodes  []*schematic.Node
}

// NewReport creates a report in which every node is its own net.
func NewReport(nodes []*schematic.Node) *Report {
	r := &Report{
		parent: make([]int, len(nodes)),
		rank:   make([]int, len(nodes)),
		nodes:  nodes,
	}
	for i := range nodes {
		r.parent[i] = i
	}
	return r
}

// Build returns the finalized net report of a connected document. Net
// names are taken from the node names, so it is meant to run after the
// naming pass.
func Build(doc *schematic.Document) *Report {
	if !doc.Connected() {
		schematic.BuildConnectivity(doc)
	}
	r := NewReport(doc.Nodes)
	r.Source = doc.Path
	index := make(map[*schematic.Node]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		index[n] = i
	}
	for _, w := range doc.Wires {
		a, okA := index[w.Node1]
		b, okB := index[w.Node2]
		if okA && okB {
			r.Connect(a, b)
		}
	}
	r.Finalize()
	return r
}

// Connect merges the nets of nodes a and b.
func (r *Report) Connect(a, b int) {
	rootA, rootB := r.Find(a), r.Find(b)
	if rootA == rootB {
		return
	}
	// Union by rank
	switch {
	case r.rank[rootA] < r.rank[rootB]:
		r.parent[rootA] = rootB
	case r.rank[rootA] > r.rank[rootB]:
		r.parent[rootB] = rootA
	default:
		r.parent[rootB] = rootA
		r.rank[rootA]++
	}
}

// Find returns the representative node index of the net containing i.
func (r *Report) Find(i int) int {
	root := i
	for r.parent[root] != root {
		root = r.parent[root]
	}
	// Path compression
	for i != root {
		next := r.parent[i]
		r.parent[i] = root
		i = next
	}
	return root
}

// Finalize builds Nets from the union-find structure. Nets are numbered
// in node load order. Nets without pins are dropped.
func (r *Report) Finalize() {
	byRoot := make(map[int]*Net)
	var order []int
	for i, n := range r.nodes {
		root := r.Find(i)
		net, ok := byRoot[root]
		if !ok {
			net = &Net{}
			byRoot[root] = net
			order = append(order, root)
		}
		if n.Name != "" {
			switch {
			case net.Name == "":
				net.Name = n.Name
			case n.Name != net.Name && !contains(net.Aliases, n.Name):
				net.Aliases = append(net.Aliases, n.Name)
			}
		}
		for _, p := range n.Ports {
			c := p.Component
			if c == nil || c.IsOpen() || c.IsGround() {
				continue
			}
			net.Pins = append(net.Pins, Pin{Component: c.Name, Port: portNumber(c, p)})
		}
	}

	r.Nets = make([]*Net, 0, len(order))
	for _, root := range order {
		net := byRoot[root]
		if len(net.Pins) == 0 {
			continue
		}
		net.ID = len(r.Nets)
		if net.Name == "" {
			net.Name = "Net-" + strconv.Itoa(net.ID)
		}
		sort.Strings(net.Aliases)
		sort.Slice(net.Pins, func(i, j int) bool {
			if net.Pins[i].Component != net.Pins[j].Component {
				return net.Pins[i].Component < net.Pins[j].Component
			}
			return net.Pins[i].Port < net.Pins[j].Port
		})
		r.Nets = append(r.Nets, net)
	}
}

func portNumber(c *schematic.Component, p *schematic.Port) int {
	for i, q := range c.Ports {
		if q == p {
			return i + 1
		}
	}
	return 0
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// NetCount returns the number of nets. Only valid after Finalize().
func (r *Report) NetCount() int {
	return len(r.Nets)
}

// MultiPinNetCount returns the number of nets with more than one pin.
func (r *Report) MultiPinNetCount() int {
	count := 0
	for _, net := range r.Nets {
		if len(net.Pins) > 1 {
			count++
		}
	}
	return count
}

// Net returns the net with the given name or alias.
func (r *Report) Net(name string) *Net {
	for _, net := range r.Nets {
		if net.Name == name || contains(net.Aliases, name) {
			return net
		}
	}
	return nil
}

// ExportJSON exports the report to JSON.
func (r *Report) ExportJSON() ([]byte, error) {
	if r.Nets == nil {
		return nil, fmt.Errorf("nets: report not finalized")
	}
	output := struct {
		Source    string `json:"source"`
		NetCount  int    `json:"net_count"`
		MultiNets int    `json:"multi_pin_nets"`
		Nets      []*Net `json:"nets"`
	}{
		Source:    r.Source,
		NetCount:  r.NetCount(),
		MultiNets: r.MultiPinNetCount(),
		Nets:      r.Nets,
	}
	return json.MarshalIndent(output, "", "  ")
}

// ExportKiCad exports the report in the KiCad netlist S-expression form.
func (r *Report) ExportKiCad() (string, error) {
	if r.Nets == nil {
		return "", fmt.Errorf("nets: report not finalized")
	}

	var b strings.Builder
	b.WriteString("(export (version D)\n")
	b.WriteString("  (design\n")
	fmt.Fprintf(&b, "    (source %s)\n", atom(r.Source))
	b.WriteString("    (tool qnet)\n")
	b.WriteString("  )\n")

	b.WriteString("  (components\n")
	seen := make(map[string]bool)
	var refs []string
	for _, net := range r.Nets {
		for _, p := range net.Pins {
			if !seen[p.Component] {
				seen[p.Component] = true
				refs = append(refs, p.Component)
			}
		}
	}
	sort.Strings(refs)
	for _, ref := range refs {
		fmt.Fprintf(&b, "    (comp (ref %s))\n", atom(ref))
	}
	b.WriteString("  )\n")

	b.WriteString("  (nets\n")
	for _, net := range r.Nets {
		fmt.Fprintf(&b, "    (net (code %d) (name %s)\n", net.ID+1, atom(net.Name))
		for _, p := range net.Pins {
			fmt.Fprintf(&b, "      (node (ref %s) (pin %d))\n", atom(p.Component), p.Port)
		}
		b.WriteString("    )\n")
	}
	b.WriteString("  )\n")
	b.WriteString(")\n")
	return b.String(), nil
}

var bareAtom = regexp.MustCompile(`^[A-Za-z0-9_.+\-/]+$`)

// atom quotes s unless it is a plain symbol.
func atom(s string) string {
	if bareAtom.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}
