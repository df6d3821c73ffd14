package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/qucsnet/internal/config"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/library"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

var (
	// Global flags
	verbose    bool
	configPath string
	libDirs    []string
	catalogDB  string
)

var rootCmd = &cobra.Command{
	Use:   "qnet",
	Short: "Qucs schematic netlister",
	Long: `qnet reads Qucs schematic files and writes simulator netlists.

Analog schematics produce a Qucs netlist. Schematics with a digital
simulation produce a VHDL or Verilog test bench.

Examples:
  qnet netlist amp.sch -o amp.net         # Write an analog netlist
  qnet netlist counter.sch --nets-json -  # Netlist plus a JSON net report
  qnet ports opamp.sch                    # Count subcircuit ports
  qnet lib index /usr/share/qucs/library  # Index component libraries`,
	Version:       "0.9.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: $QNET_CONFIG, ./qnet.yaml or ~/.config/qnet/config.yaml)")
	rootCmd.PersistentFlags().StringSliceVarP(&libDirs, "lib-dir", "L", nil,
		"library directory, overrides library_paths")
	rootCmd.PersistentFlags().StringVar(&catalogDB, "catalog", "",
		"SQLite library index, overrides catalog")
}

// loadConfig reads the config file and applies the global flags.
func loadConfig() (*config.Config, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		logf("using config %s", path)
	}
	if len(libDirs) > 0 {
		cfg.LibraryPaths = libDirs
	}
	if catalogDB != "" {
		cfg.Catalog = catalogDB
	}
	return cfg, nil
}

// openCatalog returns the library catalog selected by cfg and a function
// releasing it.
func openCatalog(cfg *config.Config) (library.Catalog, func(), error) {
	if cfg.Catalog == "" {
		return library.DirCatalog{Dirs: cfg.LibraryPaths}, func() {}, nil
	}
	c, err := library.NewSQLiteCatalog(cfg.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog %s: %w", cfg.Catalog, err)
	}
	logf("using catalog %s", cfg.Catalog)
	return c, func() { c.Close() }, nil
}

func newParser(cfg *config.Config) *schematic.Parser {
	var opts []schematic.Option
	if cfg.IgnoreFutureVersion {
		opts = append(opts, schematic.WithIgnoreFutureVersion())
	}
	if cfg.SubstituteUnknown {
		opts = append(opts, schematic.WithSubstituteUnknown())
	}
	return schematic.NewParser(opts...)
}

func logf(format string, args ...any) {
	if verbose {
		log.Printf("qnet: "+format, args...)
	}
}
