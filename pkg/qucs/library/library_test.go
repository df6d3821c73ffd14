package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

func TestParseFile(t *testing.T) {
	lib, err := ParseFile("testdata/Diodes.lib")
	require.NoError(t, err)

	assert.Equal(t, "Diodes", lib.Name)
	assert.Equal(t, "0.0.20", lib.Version.String())
	assert.Equal(t, "testdata/Diodes.lib", lib.Path)
	require.Len(t, lib.Components, 2)
	require.Len(t, lib.DefaultSymbol, 3)

	d := lib.Component("1N4148")
	require.NotNil(t, d)
	assert.Equal(t, "Fast switching diode\n100 V, 200 mA", d.Description)
	assert.Equal(t, ".Def:Diodes_1N4148 _net0 _net1\n"+
		`Diode:D1 _net0 _net1 Is="2.22 nA" N="1.906" Cj0="0.95 pF"`+"\n"+
		".Def:End", d.Model)
	assert.Equal(t, []string{"1n4148.cir.lst"}, d.ModelIncludes)
	assert.Empty(t, d.VHDLModel)

	ports := PortSymbols(lib.SymbolOf(d))
	require.Len(t, ports, 2)
	assert.Equal(t, schematic.Point{X: -30, Y: 0}, ports[0].Pos)

	g := lib.Component("Gate")
	require.NotNil(t, g)
	assert.Empty(t, g.Model)
	assert.Contains(t, g.VHDLModel, "entity Diodes_Gate is")
	gp := PortSymbols(lib.SymbolOf(g))
	require.Len(t, gp, 2)
	assert.Equal(t, 1, gp[0].Number)
	assert.Equal(t, schematic.Point{X: 30, Y: 0}, gp[0].Pos)

	assert.Nil(t, lib.Component("missing"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"bad header", "<Qucs Schematic 0.0.20>\n", 1},
		{"unterminated section", "<Qucs Library 0.0.20 \"X\">\n<Component A>\n<Model>\nR:R1 a b\n", 3},
		{"nested component", "<Qucs Library 0.0.20 \"X\">\n<Component A>\n<Component B>\n", 3},
		{"outside component", "<Qucs Library 0.0.20 \"X\">\n<Model>\n</Model>\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			var fe *schematic.FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.line, fe.Line)
		})
	}

	_, err := ParseString("<Qucs Library 9.0.0 \"X\">\n")
	var ve *schematic.VersionError
	assert.True(t, errors.As(err, &ve))

	_, err = ParseString("<Qucs Library 0.0.20 \"X\">\n<Component A>\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminated")
}

func TestDirCatalog(t *testing.T) {
	cat := DirCatalog{Dirs: []string{t.TempDir(), "testdata"}}

	p, err := cat.Locate("Diodes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "Diodes.lib"), p)

	_, err = cat.Locate("Transistors")
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "Transistors", nf.Name)
}

func TestSQLiteCatalog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src, err := os.ReadFile("testdata/Diodes.lib")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Diodes.lib"), src, 0o644))

	cat, err := NewSQLiteCatalog(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })

	n, err := cat.Index(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// reindexing replaces rows instead of failing on the primary key
	n, err = cat.Index(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	libs, err := cat.Libraries(ctx)
	require.NoError(t, err)
	require.Len(t, libs, 1)
	assert.Equal(t, "Diodes", libs[0].Name)
	assert.Equal(t, 2, libs[0].Components)
	assert.Equal(t, "0.0.20", libs[0].Version)

	comps, err := cat.Components(ctx, "Diodes")
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Equal(t, ComponentInfo{
		Library:     "Diodes",
		Name:        "1N4148",
		Description: "Fast switching diode\n100 V, 200 mA",
		Analog:      true,
		Ports:       2,
	}, comps[0])
	assert.True(t, comps[1].VHDL)
	assert.False(t, comps[1].Analog)

	p, err := cat.Locate("Diodes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Diodes.lib"), p)

	_, err = cat.Locate("Nope")
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}
