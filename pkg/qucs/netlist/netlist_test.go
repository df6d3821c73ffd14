package netlist

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/library"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

const (
	schHeader = "<Qucs Schematic 0.0.19>\n"
	r1        = `<R R1 1 100 100 -26 15 0 0 "1 kOhm" 1 "26.85" 0 "0.0" 0 "0.0" 0 "26.85" 0 "european" 0>`
	r1Line    = `R:R1 _net0 _net1 R="1 kOhm" Temp="26.85" Tc1="0.0" Tc2="0.0" Tnom="26.85"`
	dcLine    = `.DC:DC1 Temp="26.85" reltol="0.001" abstol="1 pA" vntol="1 uV" saveOPs="no" MaxIter="150" saveAll="no" convHelper="none" Solver="CroutLU"`
)

func parse(t *testing.T, components, wires string) *schematic.Document {
	t.Helper()
	doc, err := schematic.ParseString(schHeader +
		"<Components>\n" + components + "\n</Components>\n" +
		"<Wires>\n" + wires + "\n</Wires>\n")
	require.NoError(t, err)
	schematic.BuildConnectivity(doc)
	return doc
}

func generate(t *testing.T, doc *schematic.Document) *Result {
	t.Helper()
	res, err := NewGenerator(nil, Options{}).GenerateDocument(doc)
	require.NoError(t, err)
	return res
}

func TestSyntheticNames(t *testing.T) {
	doc := parse(t, r1, `<40 100 70 100 "" 0 0 0 "">`+"\n"+`<130 100 160 100 "" 0 0 0 "">`)
	res := generate(t, doc)

	assert.Equal(t, "# Qucs 0.0.20  \n\n"+r1Line+"\n", res.Text)
	assert.Equal(t, Analog, res.Domain.Dialect)
	assert.False(t, res.Domain.Explicit)

	// Wire ends take the name of the port they connect to.
	assert.Equal(t, "_net0", doc.NodeAt(schematic.Point{X: 40, Y: 100}).Name)
	assert.Equal(t, "_net1", doc.NodeAt(schematic.Point{X: 160, Y: 100}).Name)
}

func TestNodeLabel(t *testing.T) {
	doc := parse(t, r1, `<130 100 130 100 "VCC" 140 80 0 "">`)
	res := generate(t, doc)

	assert.Contains(t, res.Text, `R:R1 _net0 VCC R="1 kOhm"`)
	assert.Empty(t, doc.Wires)
}

func TestGroundWinsOverLabel(t *testing.T) {
	res, err := NewGenerator(nil, Options{}).Generate("testdata/ground.sch")
	require.NoError(t, err)

	want := strings.Join([]string{
		"# Qucs 0.0.20  testdata/ground.sch",
		`NodeSet:NS0 out U="1 V"`,
		"",
		`Vdc:V1 _net0 gnd U="1 V"`,
		`R:R1 _net0 out R="1 kOhm" Temp="26.85" Tc1="0.0" Tc2="0.0" Tnom="26.85"`,
		dcLine,
		"",
	}, "\n")
	assert.Equal(t, want, res.Text)
	assert.True(t, res.Domain.Explicit)
	assert.NotContains(t, res.Text, "low")
}

func TestShortAndOpen(t *testing.T) {
	short := strings.Replace(r1, "<R R1 1 ", "<R R1 2 ", 1)
	open := `<C C1 0 300 100 17 -26 0 0 "1 pF" 1 "" 0 "neutral" 0>`
	res := generate(t, parse(t, short+"\n"+open, ""))

	assert.Equal(t, "# Qucs 0.0.20  \n\n"+`R:R1.0 _net0 _net1 R="0"`+"\n", res.Text)
}

func TestDeviceModels(t *testing.T) {
	bjt := `<_BJT T1 1 300 200 8 -26 0 0 "npn" 1 "1e-16" 1 "1" 1>`
	pulse := `<Vpulse V1 1 60 200 18 -26 0 0 "0 V" 1 "1 V" 1 "0" 1 "1 ms" 1 "1 ns" 0 "1 ns" 0>`
	hb := `<.HB HB1 1 60 400 0 51 0 0 "1 GHz" 1 "8" 1 "1 pA" 0 "1 uV" 0 "0.001" 0 "150" 0>`
	res := generate(t, parse(t, bjt+"\n"+pulse+"\n"+hb, ""))

	assert.True(t, res.Domain.Explicit)
	assert.Equal(t, Analog, res.Domain.Dialect)
	// The substrate of a three-pin transistor is tied to its emitter.
	assert.Contains(t, res.Text, "\n"+`BJT:T1 _net0 _net1 _net2 _net2 Type="npn" Is="1e-16" Nf="1" Nr="1" `)
	assert.Contains(t, res.Text, "\n"+`Vpulse:V1 _net3 _net4 U1="0 V" U2="1 V" T1="0" T2="1 ms" Tr="1 ns" Tf="1 ns"`+"\n")
	assert.Contains(t, res.Text, "\n"+`.HB:HB1 f="1 GHz" n="8" iabstol="1 pA" vabstol="1 uV" reltol="0.001" MaxIter="150"`+"\n")
}

func TestDeterministic(t *testing.T) {
	g := NewGenerator(nil, Options{})
	first, err := g.Generate("testdata/sub_top.sch")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := g.Generate("testdata/sub_top.sch")
		require.NoError(t, err)
		assert.Equal(t, first.Text, again.Text)
	}
}

func TestSubcircuit(t *testing.T) {
	res, err := NewGenerator(nil, Options{}).Generate("testdata/sub_top.sch")
	require.NoError(t, err)

	want := strings.Join([]string{
		"# Qucs 0.0.20  testdata/sub_top.sch",
		"",
		`.Def:rc _net0 mid Rval="1 kOhm"`,
		`R:R1 _net0 mid R="Rval" Temp="26.85" Tc1="0.0" Tc2="0.0" Tnom="26.85"`,
		`C:C1 gnd mid C="10 nF" V=""`,
		`NodeSet:NS0 mid U="0.5 V"`,
		".Def:End",
		"",
		`Vdc:V1 _net0 gnd U="1 V"`,
		`Sub:SUB1 _net0 _net1 Type="rc" Rval="2 kOhm"`,
		`Sub:SUB2 _net1 out Type="rc"`,
		dcLine,
		"",
	}, "\n")
	assert.Equal(t, want, res.Text)
	assert.Equal(t, 1, strings.Count(res.Text, ".Def:rc"))
}

func TestSameNamedSubcircuits(t *testing.T) {
	res, err := NewGenerator(nil, Options{}).Generate("testdata/twin/top.sch")
	require.NoError(t, err)

	first := strings.Join([]string{
		`.Def:rc _net0 mid Rval="1 kOhm"`,
		`R:R1 _net0 mid R="Rval" Temp="26.85" Tc1="0.0" Tc2="0.0" Tnom="26.85"`,
		`C:C1 gnd mid C="10 nF" V=""`,
		`NodeSet:NS0 mid U="0.5 V"`,
		".Def:End",
	}, "\n")
	second := strings.Join([]string{
		`.Def:rc_1 _net0 mid Rval="1 kOhm"`,
		`R:R1 _net0 mid R="Rval" Temp="26.85" Tc1="0.0" Tc2="0.0" Tnom="26.85"`,
		`C:C1 gnd mid C="22 nF" V=""`,
		`NodeSet:NS1 mid U="0.5 V"`,
		".Def:End",
	}, "\n")
	assert.Contains(t, res.Text, first)
	assert.Contains(t, res.Text, second)
	assert.Less(t, strings.Index(res.Text, first), strings.Index(res.Text, second))
	assert.Equal(t, 1, strings.Count(res.Text, ".Def:rc "))

	assert.Contains(t, res.Text, `Sub:SUB1 _net0 _net1 Type="rc" Rval="2 kOhm"`)
	assert.Contains(t, res.Text, `Sub:SUB2 _net1 out Type="rc_1"`)
	// No initial condition refers to a net of another definition.
	assert.NotContains(t, res.Text, ".Def:End\nNodeSet")
}

func TestDefinitionName(t *testing.T) {
	ctx := NewContext(nil, nil)
	assert.Equal(t, "rc", ctx.definitionName("rc", "/a/rc.sch"))
	assert.Equal(t, "rc_1", ctx.definitionName("rc", "/b/rc.sch"))
	assert.Equal(t, "rc", ctx.definitionName("rc", "/a/rc.sch"))
	assert.Equal(t, "rc_1_1", ctx.definitionName("rc_1", "/c/rc_1.sch"))
	assert.Equal(t, "rc_2", ctx.definitionName("rc", "/d/rc.sch"))
}

// fileOnlyLoader loads documents but supplies no symbol ports.
type fileOnlyLoader struct{}

func (fileOnlyLoader) Load(path string) (*schematic.Document, error) {
	return (&FileLoader{}).Load(path)
}

func TestGenerateDocumentAttachesPorts(t *testing.T) {
	const sub = `<Sub SUB1 1 200 140 -26 20 0 0 "testdata/rc.sch" 0 "2 kOhm" 1>`
	parsed := func() *schematic.Document {
		doc, err := schematic.ParseString(schHeader + "<Components>\n" + sub + "\n</Components>\n")
		require.NoError(t, err)
		require.False(t, doc.Connected())
		return doc
	}

	res, err := NewGenerator(nil, Options{}).GenerateDocument(parsed())
	require.NoError(t, err)
	assert.Contains(t, res.Text, `Sub:SUB1 _net0 _net1 Type="rc" Rval="2 kOhm"`)

	g := &Generator{Loader: fileOnlyLoader{}}
	_, err = g.GenerateDocument(parsed())
	var missing *MissingSubcircuitError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, "SUB1", missing.Component)
	assert.ErrorIs(t, err, errNoSymbol)
}

func TestResolverMemoizes(t *testing.T) {
	loader := &FileLoader{}
	doc, err := loader.Load("testdata/sub_top.sch")
	require.NoError(t, err)
	dom, err := DetectDomain(doc)
	require.NoError(t, err)

	ctx := NewContext(loader, nil)
	naming, err := AssignNodeNames(ctx, doc, dom)
	require.NoError(t, err)

	assert.Equal(t, 1, ctx.Len())
	assert.Len(t, naming.Blocks, 1)
	assert.Len(t, naming.Entries, 2)

	abs, err := filepath.Abs("testdata/rc.sch")
	require.NoError(t, err)
	entry, ok := ctx.Entry(abs)
	require.True(t, ok)
	assert.Equal(t, KindSchematic, entry.Kind)
	assert.Equal(t, "rc", entry.Name)
	assert.Equal(t, []string{"Rval"}, entry.Params)
	assert.Equal(t, []string{"", ""}, entry.PortTypes)

	// A second pass on the same context emits no definition again.
	again, err := AssignNodeNames(ctx, doc, dom)
	require.NoError(t, err)
	assert.Empty(t, again.Blocks)
	assert.Empty(t, again.NodeSets)
}

func TestMissingSubcircuit(t *testing.T) {
	res, err := NewGenerator(nil, Options{}).Generate("testdata/missing.sch")
	require.Error(t, err)
	assert.Nil(t, res)

	var missing *MissingSubcircuitError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "SUB1", missing.Component)
	assert.Equal(t, "nothere.sch", missing.File)
}

func TestRecursiveSubcircuit(t *testing.T) {
	_, err := NewGenerator(nil, Options{}).Generate("testdata/self.sch")
	var rec *RecursiveSubcircuitError
	require.True(t, errors.As(err, &rec), "got %v", err)
	assert.True(t, strings.HasSuffix(rec.File, "self.sch"))
}

func TestDomainConflict(t *testing.T) {
	digi := `<.Digi Digi1 1 100 300 0 51 0 0 "TimeList" 1 "10 ns" 0 "VHDL" 0>`
	dc := `<.DC DC1 1 100 340 0 36 0 0 "26.85" 0 "0.001" 0 "1 pA" 0 "1 uV" 0 "no" 0 "150" 0 "no" 0 "none" 0 "CroutLU" 0>`

	tests := []struct {
		name       string
		components string
		component  string
	}{
		{"analog part in digital", r1 + "\n" + digi, "R1"},
		{"mixed simulations", digi + "\n" + dc, ""},
		{"two digital simulations", digi + "\n" + strings.Replace(digi, "Digi1", "Digi2", 1), "Digi2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.components, "")
			_, err := NewGenerator(nil, Options{}).GenerateDocument(doc)
			var conflict *DomainConflictError
			require.True(t, errors.As(err, &conflict), "got %v", err)
			assert.Equal(t, tt.component, conflict.Component)
		})
	}
}

func TestSpiceReference(t *testing.T) {
	res, err := NewGenerator(nil, Options{}).Generate("testdata/spice_top.sch")
	require.NoError(t, err)

	want := strings.Join([]string{
		"# Qucs 0.0.20  testdata/spice_top.sch",
		"",
		".Def:divider_cir in out",
		`R:R1 in out R="1000"`,
		`R:R2 out gnd R="1000"`,
		".Def:End",
		"",
		`Sub:X1 _net0 vout Type="divider_cir"`,
		`Vdc:V1 _net0 gnd U="1 V"`,
		"",
	}, "\n")
	assert.Equal(t, want, res.Text)
}

func TestLibraryReference(t *testing.T) {
	catalog := library.DirCatalog{Dirs: []string{"../library/testdata"}}
	res, err := NewGenerator(catalog, Options{}).Generate("testdata/lib_top.sch")
	require.NoError(t, err)

	assert.Contains(t, res.Text, ".Def:Diodes_1N4148 _net0 _net1\n")
	assert.Contains(t, res.Text, "\n"+`Sub:D1 _net0 gnd Type="Diodes_1N4148"`+"\n")
	assert.Contains(t, res.Text, `Vdc:V1 _net0 gnd U="1 V"`)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "model includes")

	t.Run("no catalog", func(t *testing.T) {
		_, err := NewGenerator(nil, Options{}).Generate("testdata/lib_top.sch")
		var missing *MissingSubcircuitError
		require.True(t, errors.As(err, &missing), "got %v", err)
		assert.Equal(t, "Diodes", missing.File)
	})

	t.Run("creating library", func(t *testing.T) {
		var logged []string
		g := NewGenerator(catalog, Options{CreatingLibrary: true})
		g.Logf = func(format string, args ...any) { logged = append(logged, format) }
		res, err := g.Generate("testdata/lib_top.sch")
		require.NoError(t, err)
		assert.NotContains(t, res.Text, ".Def:Diodes_1N4148")
		assert.Len(t, res.Warnings, 1)
		assert.Len(t, logged, 1)
	})
}

func TestNetReport(t *testing.T) {
	res, err := NewGenerator(nil, Options{}).Generate("testdata/ground.sch")
	require.NoError(t, err)
	require.NotNil(t, res.Nets)

	out := res.Nets.Net("out")
	require.NotNil(t, out)
	assert.Len(t, out.Pins, 1)
	assert.Equal(t, "R1", out.Pins[0].Component)
	assert.Equal(t, 2, out.Pins[0].Port)

	n0 := res.Nets.Net("_net0")
	require.NotNil(t, n0)
	assert.Len(t, n0.Pins, 2)
}
