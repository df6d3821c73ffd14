package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/qucsnet/internal/config"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/netlist"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/nets"
)

var (
	outputFile        string
	netsJSONFile      string
	netsKiCadFile     string
	subcircuitDirs    []string
	ignoreFutureVer   bool
	substituteUnknown bool
	creatingLibrary   bool
)

var netlistCmd = &cobra.Command{
	Use:   "netlist <schematic_file>",
	Short: "Write the netlist of a schematic",
	Long: `Netlist a Qucs schematic and every subcircuit, library component and
SPICE, VHDL or Verilog file it references.

The dialect follows the simulation components of the schematic: a
digital simulation selects VHDL or Verilog, anything else selects the
analog Qucs netlist format.

The connectivity of the top-level schematic can also be written as a
JSON report or a KiCad netlist. Use "-" to write a report to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runNetlist,
}

func init() {
	rootCmd.AddCommand(netlistCmd)
	netlistCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"output file (default stdout)")
	netlistCmd.Flags().StringVar(&netsJSONFile, "nets-json", "",
		"write a JSON net report to this file")
	netlistCmd.Flags().StringVar(&netsKiCadFile, "nets-kicad", "",
		"write a KiCad netlist to this file")
	netlistCmd.Flags().StringSliceVarP(&subcircuitDirs, "sub-dir", "I", nil,
		"extra subcircuit search directory (repeatable)")
	netlistCmd.Flags().BoolVar(&ignoreFutureVer, "ignore-future-version", false,
		"load files written by newer Qucs versions")
	netlistCmd.Flags().BoolVar(&substituteUnknown, "substitute-unknown", false,
		"replace unknown component types instead of failing")
	netlistCmd.Flags().BoolVar(&creatingLibrary, "creating-library", false,
		"skip library component references")
}

func netlistOptions(cmd *cobra.Command, cfg *config.Config) netlist.Options {
	opts := netlist.Options{
		IgnoreFutureVersion: cfg.IgnoreFutureVersion,
		SubstituteUnknown:   cfg.SubstituteUnknown,
		CreatingLibrary:     cfg.CreatingLibrary,
		SubcircuitPaths:     append(append([]string(nil), subcircuitDirs...), cfg.SubcircuitPaths...),
	}
	if cmd.Flags().Changed("ignore-future-version") {
		opts.IgnoreFutureVersion = ignoreFutureVer
	}
	if cmd.Flags().Changed("substitute-unknown") {
		opts.SubstituteUnknown = substituteUnknown
	}
	if cmd.Flags().Changed("creating-library") {
		opts.CreatingLibrary = creatingLibrary
	}
	return opts
}

func runNetlist(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, closeCatalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	gen := netlist.NewGenerator(catalog, netlistOptions(cmd, cfg))
	res, err := gen.Generate(args[0])
	if err != nil {
		return fmt.Errorf("netlist %s: %w", args[0], err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	logf("%s: %s netlist, %d nets", args[0], res.Domain.Dialect, res.Nets.NetCount())
	if res.SimTime != "" {
		logf("simulation time %s", res.SimTime)
	}

	if err := writeOutput(outputFile, []byte(res.Text)); err != nil {
		return err
	}
	if netsJSONFile != "" {
		data, err := res.Nets.ExportJSON()
		if err != nil {
			return fmt.Errorf("net report: %w", err)
		}
		if err := writeOutput(netsJSONFile, append(data, '\n')); err != nil {
			return err
		}
	}
	if netsKiCadFile != "" {
		if err := writeKiCad(res.Nets, netsKiCadFile); err != nil {
			return err
		}
	}
	return nil
}

func writeKiCad(r *nets.Report, path string) error {
	text, err := r.ExportKiCad()
	if err != nil {
		return fmt.Errorf("kicad netlist: %w", err)
	}
	return writeOutput(path, []byte(text))
}

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logf("wrote %s", path)
	return nil
}
