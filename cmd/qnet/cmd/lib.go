package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/qucsnet/internal/config"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/library"
)

var libCmd = &cobra.Command{
	Use:   "lib",
	Short: "Component library operations",
	Long: `Commands for working with Qucs component libraries (.lib).

Libraries are found in the library directories, or through an SQLite
index when a catalog is configured.`,
}

var libIndexCmd = &cobra.Command{
	Use:   "index [dir]...",
	Short: "Index library directories into the catalog",
	Long: `Parse every .lib file of the given directories and store them in the
catalog database. Without arguments the configured library directories
are indexed.`,
	RunE: runLibIndex,
}

var libListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List indexed libraries",
	Args:  cobra.NoArgs,
	RunE:  runLibList,
}

var libShowCmd = &cobra.Command{
	Use:   "show <library>",
	Short: "Show the components of a library",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibShow,
}

func init() {
	rootCmd.AddCommand(libCmd)
	libCmd.AddCommand(libIndexCmd)
	libCmd.AddCommand(libListCmd)
	libCmd.AddCommand(libShowCmd)
}

func openSQLiteCatalog() (*library.SQLiteCatalog, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Catalog == "" {
		return nil, nil, fmt.Errorf("no catalog database configured, use --catalog")
	}
	c, err := library.NewSQLiteCatalog(cfg.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog %s: %w", cfg.Catalog, err)
	}
	return c, cfg, nil
}

func runLibIndex(cmd *cobra.Command, args []string) error {
	catalog, cfg, err := openSQLiteCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	dirs := args
	if len(dirs) == 0 {
		dirs = cfg.LibraryPaths
	}
	n, err := catalog.Index(context.Background(), dirs...)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d libraries from %s\n", n, strings.Join(dirs, ", "))
	return nil
}

func runLibList(cmd *cobra.Command, args []string) error {
	catalog, _, err := openSQLiteCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	libs, err := catalog.Libraries(context.Background())
	if err != nil {
		return err
	}
	if len(libs) == 0 {
		fmt.Println("No libraries indexed")
		return nil
	}
	for _, l := range libs {
		fmt.Printf("%-20s %4d components  %s\n", l.Name, l.Components, l.Path)
	}
	return nil
}

func runLibShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, closeCatalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	path, err := catalog.Locate(args[0])
	if err != nil {
		return err
	}
	lib, err := library.ParseFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("Library: %s\n", lib.Name)
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Version: %s\n", lib.Version)
	fmt.Println()
	fmt.Println("Components:")
	for _, c := range lib.Components {
		var models []string
		if c.Model != "" {
			models = append(models, "analog")
		}
		if c.VHDLModel != "" {
			models = append(models, "VHDL")
		}
		if c.VerilogModel != "" {
			models = append(models, "Verilog")
		}
		ports := len(library.PortSymbols(lib.SymbolOf(c)))
		fmt.Printf("  %s: %d ports [%s]", c.Name, ports, strings.Join(models, ", "))
		if c.Description != "" {
			fmt.Printf(" %s", strings.SplitN(c.Description, "\n", 2)[0])
		}
		fmt.Println()
	}
	return nil
}
