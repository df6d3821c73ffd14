package hdl

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestParseVHDL(t *testing.T) {
	src := readTestdata(t, "inv.vhdl")
	leaf, err := ParseVHDL(src)
	require.NoError(t, err)

	assert.Equal(t, "inv_delay", leaf.Name)
	assert.Equal(t, []string{"a", "y", "bus_o", "bus_n"}, leaf.Ports)
	assert.Equal(t, []string{
		"std_logic",
		"std_logic",
		"std_logic_vector(width-1 downto 0)",
		"std_logic_vector(width-1 downto 0)",
	}, leaf.PortTypes)
	require.Len(t, leaf.Generics, 2)
	assert.Equal(t, Generic{Name: "delay", Type: "time", Default: "1 ns"}, leaf.Generics[0])
	assert.Equal(t, Generic{Name: "width", Type: "integer", Default: "4"}, leaf.Generics[1])
	assert.Equal(t, src, leaf.Text)
}

func TestParseVHDLMinimal(t *testing.T) {
	leaf, err := ParseVHDL("ENTITY Top IS\nEND;\n")
	require.NoError(t, err)
	assert.Equal(t, "Top", leaf.Name)
	assert.Empty(t, leaf.Ports)
	assert.Empty(t, leaf.Generics)
}

func TestParseVHDLErrors(t *testing.T) {
	_, err := ParseVHDL("library ieee;\n")
	assert.True(t, errors.Is(err, ErrNoEntity))

	_, err = ParseVHDL("entity a is\n port (x : in bit);\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminated")

	_, err = ParseVHDL("entity a is\nend entity b;\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed by end b")
}

func TestParseVerilog(t *testing.T) {
	leaf, err := ParseVerilog(readTestdata(t, "counter.v"))
	require.NoError(t, err)

	assert.Equal(t, "counter", leaf.Name)
	assert.Equal(t, []string{"clk", "rst", "q"}, leaf.Ports)
	assert.Equal(t, []Generic{
		{Name: "WIDTH", Default: "2"},
		{Name: "STEP", Default: "1"},
	}, leaf.Generics)
}

func TestParseVerilogPlainPorts(t *testing.T) {
	src := "module and2(a, b, y);\n  input a, b;\n  output y;\n  assign y = a & b;\nendmodule\n"
	leaf, err := ParseVerilog(src)
	require.NoError(t, err)
	assert.Equal(t, "and2", leaf.Name)
	assert.Equal(t, []string{"a", "b", "y"}, leaf.Ports)
	assert.Empty(t, leaf.Generics)
}

func TestParseVerilogErrors(t *testing.T) {
	_, err := ParseVerilog("// nothing here\n")
	assert.True(t, errors.Is(err, ErrNoModule))

	_, err = ParseVerilog("module m (a, b\n")
	require.Error(t, err)
}

func TestConvertSpice(t *testing.T) {
	leaf, err := ConvertSpice("opamp", readTestdata(t, "opamp.cir"), []string{"inp", "inn", "out"})
	require.NoError(t, err)

	want := strings.Join([]string{
		"",
		".Def:stage in out",
		`R:R1 in out R="10000"`,
		`C:C1 out gnd C="1.59e-09"`,
		".Def:End",
		"",
		".Def:opamp inp inn out",
		`R:RIN inp inn R="1e+06"`,
		`Sub:X1 inp mid Type="stage"`,
		`Diode:D1 out mid Is="1e-14" N="1.05"`,
		`Vdc:VOFF out gnd U="0.5"`,
		".Def:End",
		"",
	}, "\n")
	assert.Equal(t, want, leaf.Text)
	assert.Equal(t, "opamp", leaf.Name)
	assert.Equal(t, []string{"inp", "inn", "out"}, leaf.Ports)
}

func TestConvertSpiceErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		ports []string
		want  string
	}{
		{"unsupported element", "title\nQ1 c b e npn\n", nil, "unsupported element"},
		{"unterminated subckt", "title\n.subckt a x\nR1 x 0 1\n", nil, "not terminated"},
		{"stray ends", "title\n.ends\n", nil, ".ENDS without .SUBCKT"},
		{"unknown port", "title\nR1 a 0 1k\n", []string{"b"}, `port "b"`},
		{"ac source", "title\nV1 a 0 AC 1 SIN(0 1 1k)\n", nil, "unsupported element"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertSpice("x", tt.src, tt.ports)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSpiceValue(t *testing.T) {
	tests := map[string]string{
		"4.7k":  "4700",
		"1MEG":  "1e+06",
		"1M":    "0.001",
		"10uF":  "1e-05",
		"2.2p":  "2.2e-12",
		"100":   "100",
		"{val}": "{val}",
		"-1.5":  "-1.5",
	}
	for in, want := range tests {
		assert.Equal(t, want, SpiceValue(in), in)
	}
}
