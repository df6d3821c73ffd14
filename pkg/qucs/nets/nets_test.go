package nets

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/chewxy/sexp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

const input = `<Qucs Schematic 0.0.19>
<Components>
  <R R1 1 100 100 -26 15 0 0 "1 kOhm" 1 "26.85" 0 "0.0" 0 "0.0" 0 "26.85" 0 "european" 0>
  <R R2 1 200 100 -26 15 0 0 "1 kOhm" 1 "26.85" 0 "0.0" 0 "0.0" 0 "26.85" 0 "european" 0>
  <GND * 1 230 100 0 0 0 0>
  <C C1 0 300 300 17 -26 0 0 "1 pF" 1 "" 0 "neutral" 0>
</Components>
<Wires>
  <130 100 170 100 "" 0 0 0 "">
</Wires>
`

func build(t *testing.T) *Report {
	t.Helper()
	doc, err := schematic.ParseString(input)
	require.NoError(t, err)
	schematic.BuildConnectivity(doc)
	doc.NodeAt(schematic.Point{X: 130, Y: 100}).Name = "mid"
	doc.NodeAt(schematic.Point{X: 170, Y: 100}).Name = "alt"
	doc.NodeAt(schematic.Point{X: 230, Y: 100}).Name = "gnd"
	doc.Path = "divider.sch"
	return Build(doc)
}

func TestUnionFind(t *testing.T) {
	nodes := make([]*schematic.Node, 4)
	for i := range nodes {
		nodes[i] = &schematic.Node{}
	}
	r := NewReport(nodes)
	for i := range nodes {
		assert.Equal(t, i, r.Find(i), "node %d should be its own root", i)
	}

	r.Connect(0, 1)
	assert.Equal(t, r.Find(0), r.Find(1))
	assert.NotEqual(t, r.Find(0), r.Find(2))

	// Transitive: 0-1-2
	r.Connect(1, 2)
	assert.Equal(t, r.Find(0), r.Find(2))
	assert.NotEqual(t, r.Find(0), r.Find(3))

	// Already joined
	r.Connect(2, 0)
	assert.Equal(t, r.Find(1), r.Find(2))
}

func TestBuild(t *testing.T) {
	r := build(t)

	require.Equal(t, 3, r.NetCount())
	assert.Equal(t, 1, r.MultiPinNetCount())

	first := r.Nets[0]
	assert.Equal(t, "Net-0", first.Name)
	assert.Equal(t, []Pin{{Component: "R1", Port: 1}}, first.Pins)

	mid := r.Net("alt")
	require.NotNil(t, mid)
	assert.Equal(t, "mid", mid.Name)
	assert.Equal(t, []string{"alt"}, mid.Aliases)
	assert.Equal(t, []Pin{{Component: "R1", Port: 2}, {Component: "R2", Port: 1}}, mid.Pins)

	// Ground markers and open components contribute no pins.
	gnd := r.Net("gnd")
	require.NotNil(t, gnd)
	assert.Equal(t, []Pin{{Component: "R2", Port: 2}}, gnd.Pins)
	assert.Nil(t, r.Net("nothing"))
}

func TestExportJSON(t *testing.T) {
	data, err := build(t).ExportJSON()
	require.NoError(t, err)

	var out struct {
		Source   string `json:"source"`
		NetCount int    `json:"net_count"`
		Nets     []Net  `json:"nets"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "divider.sch", out.Source)
	assert.Equal(t, 3, out.NetCount)
	assert.Equal(t, "mid", out.Nets[1].Name)

	_, err = NewReport(nil).ExportJSON()
	assert.Error(t, err)
}

func TestExportKiCad(t *testing.T) {
	out, err := build(t).ExportKiCad()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "(export (version D)\n"))
	assert.Contains(t, out, "    (net (code 2) (name mid)\n      (node (ref R1) (pin 2))\n      (node (ref R2) (pin 1))\n    )\n")
	assert.Contains(t, out, "    (comp (ref R1))\n    (comp (ref R2))\n")

	exprs, err := sexp.ParseString(out)
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.False(t, exprs[0].IsLeaf())
}

func TestAtom(t *testing.T) {
	assert.Equal(t, "R1", atom("R1"))
	assert.Equal(t, "_net0", atom("_net0"))
	assert.Equal(t, `"two words"`, atom("two words"))
	assert.Equal(t, `"a(b)"`, atom("a(b)"))
}
