package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	netlistData = "../../../pkg/qucs/netlist/testdata"
	libraryData = "../../../pkg/qucs/library/testdata"
)

// run executes the root command with args and returns what it printed to
// stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flags to prevent accumulation between tests
	verbose = false
	configPath = ""
	libDirs = nil
	catalogDB = ""
	outputFile = ""
	netsJSONFile = ""
	netsKiCadFile = ""
	subcircuitDirs = nil
	writeBack = false

	// Keep the user's config out of the tests
	cfg := filepath.Join(t.TempDir(), "qnet.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("version: 1\nlibrary_paths: []\n"), 0644))

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err = rootCmd.Execute()

	w.Close()
	os.Stdout = old
	<-done
	return buf.String(), err
}

func TestNetlistE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "subcircuit",
			args: []string{"netlist", filepath.Join(netlistData, "sub_top.sch")},
			wantContain: []string{
				".Def:rc _net0 mid",
				`NodeSet:NS0 mid U="0.5 V"`,
				`Sub:SUB1 _net0 _net1 Type="rc" Rval="2 kOhm"`,
			},
		},
		{
			name: "library",
			args: []string{"netlist", "-L", libraryData, filepath.Join(netlistData, "lib_top.sch")},
			wantContain: []string{
				".Def:Diodes_1N4148 _net0 _net1",
				`Sub:D1 _net0 gnd Type="Diodes_1N4148"`,
			},
		},
		{
			name: "vhdl",
			args: []string{"netlist", filepath.Join(netlistData, "gates.sch")},
			wantContain: []string{
				"entity TestBench is",
				"end architecture;",
			},
		},
		{
			name: "json report",
			args: []string{"netlist", "--nets-json", "-", filepath.Join(netlistData, "ground.sch")},
			wantContain: []string{
				`"net_count"`,
				`"multi_pin_nets"`,
			},
		},
		{
			name:    "missing subcircuit",
			args:    []string{"netlist", filepath.Join(netlistData, "missing.sch")},
			wantErr: true,
		},
		{
			name:    "library without directories",
			args:    []string{"netlist", filepath.Join(netlistData, "lib_top.sch")},
			wantErr: true,
		},
		{
			name:    "no file",
			args:    []string{"netlist"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err, "output: %s", output)
			for _, want := range tt.wantContain {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestNetlistOutputFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "rc.net")
	kicad := filepath.Join(dir, "rc.kicad")

	output, err := run(t, "netlist", "-o", out, "--nets-kicad", kicad,
		filepath.Join(netlistData, "sub_top.sch"))
	require.NoError(t, err)
	assert.Empty(t, output)

	text, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(text), "# Qucs 0.0.20")

	nets, err := os.ReadFile(kicad)
	require.NoError(t, err)
	assert.Contains(t, string(nets), "(export (version D)")
	assert.Contains(t, string(nets), "(ref SUB1)")
}

func TestPortsE2E(t *testing.T) {
	output, err := run(t, "ports", filepath.Join(netlistData, "rc.sch"))
	require.NoError(t, err)
	assert.Equal(t, "2\n", output)

	output, err = run(t, "ports", filepath.Join(netlistData, "rc.sch"), filepath.Join(netlistData, "sub_top.sch"))
	require.NoError(t, err)
	assert.Contains(t, output, "rc.sch: 2\n")
	assert.Contains(t, output, "sub_top.sch: 0\n")

	_, err = run(t, "ports", filepath.Join(netlistData, "nothere.sch"))
	assert.Error(t, err)
}

func TestInfoE2E(t *testing.T) {
	rc := filepath.Join(netlistData, "rc.sch")

	output, err := run(t, "info", rc)
	require.NoError(t, err)
	for _, want := range []string{
		"Version: 0.0.19",
		"Domain: analog (no simulation)",
		"  R: R1\n",
		"  Port: P1, P2\n",
		"  mid\n",
		"Subcircuit ports: 2",
		"Rval = 1 kOhm  (series resistance)",
	} {
		assert.Contains(t, output, want)
	}

	output, err = run(t, "info", rc, "C1")
	require.NoError(t, err)
	assert.Contains(t, output, "Type: C\n")
	assert.Contains(t, output, "Rotation: 90°")
	assert.Contains(t, output, "  C: 10 nF\n")

	_, err = run(t, "info", rc, "X9")
	assert.Error(t, err)
}

func TestFmtE2E(t *testing.T) {
	src, err := os.ReadFile(filepath.Join(netlistData, "rc.sch"))
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "rc.sch")
	require.NoError(t, os.WriteFile(file, src, 0644))

	output, err := run(t, "fmt", file)
	require.NoError(t, err)
	assert.Contains(t, output, "<Qucs Schematic 0.0.20>")

	output, err = run(t, "fmt", "-w", file)
	require.NoError(t, err)
	assert.Empty(t, output)
	rewritten, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "<Qucs Schematic 0.0.20>")
}

func TestLibE2E(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lib.db")

	_, err := run(t, "lib", "ls")
	assert.Error(t, err, "no catalog configured")

	output, err := run(t, "--catalog", db, "lib", "index", libraryData)
	require.NoError(t, err)
	assert.Contains(t, output, "Indexed 1 libraries")

	output, err = run(t, "--catalog", db, "lib", "ls")
	require.NoError(t, err)
	assert.Contains(t, output, "Diodes")
	assert.Contains(t, output, "2 components")

	output, err = run(t, "--catalog", db, "lib", "show", "Diodes")
	require.NoError(t, err)
	assert.Contains(t, output, "1N4148: 2 ports [analog] Fast switching diode\n")
	assert.Contains(t, output, "Gate: 2 ports [VHDL]")

	output, err = run(t, "--catalog", db, "netlist", filepath.Join(netlistData, "lib_top.sch"))
	require.NoError(t, err)
	assert.Contains(t, output, ".Def:Diodes_1N4148")
}
