package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/netlist"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

var infoCmd = &cobra.Command{
	Use:   "info <schematic_file> [component]",
	Short: "Show schematic information",
	Long: `Display information about a Qucs schematic file.

Without component argument: shows schematic summary
With component argument: shows details for that specific component`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, closeCatalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	loader := &netlist.FileLoader{
		Parser:      newParser(cfg),
		Catalog:     catalog,
		SearchPaths: cfg.SubcircuitPaths,
	}
	doc, err := loader.Load(args[0])
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}

	if len(args) >= 2 {
		return showComponent(doc, args[1])
	}
	return showSummary(doc)
}

func showSummary(doc *schematic.Document) error {
	dom, err := netlist.DetectDomain(doc)
	if err != nil {
		return err
	}

	fmt.Printf("Schematic: %s\n", doc.Path)
	fmt.Printf("Version: %s\n", doc.Version)
	fmt.Printf("Domain: %s", dom.Dialect)
	if !dom.Explicit {
		fmt.Print(" (no simulation)")
	}
	fmt.Println()
	fmt.Println()

	fmt.Println("Statistics:")
	fmt.Printf("  Components: %d\n", len(doc.Components))
	fmt.Printf("  Wires: %d\n", len(doc.Wires))
	fmt.Printf("  Nodes: %d\n", len(doc.Nodes))
	fmt.Printf("  Diagrams: %d\n", len(doc.Diagrams))
	fmt.Printf("  Paintings: %d\n", len(doc.Paintings))
	fmt.Println()

	if len(doc.Components) > 0 {
		fmt.Println("Components:")
		byType := make(map[string][]string)
		for _, c := range doc.Components {
			name := c.Name
			if c.State != schematic.Active {
				name += " (" + c.State.String() + ")"
			}
			byType[c.Type] = append(byType[c.Type], name)
		}
		var types []string
		for t := range byType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %s: %s\n", t, strings.Join(byType[t], ", "))
		}
		fmt.Println()
	}

	var labels []string
	for _, n := range doc.Nodes {
		if n.Label != nil {
			labels = append(labels, n.Label.Name)
		}
	}
	for _, w := range doc.Wires {
		if w.Label != nil {
			labels = append(labels, w.Label.Name)
		}
	}
	if len(labels) > 0 {
		fmt.Println("Net Labels:")
		sort.Strings(labels)
		for _, l := range labels {
			fmt.Printf("  %s\n", l)
		}
		fmt.Println()
	}

	if ports := doc.PortSymbols(); len(ports) > 0 {
		fmt.Printf("Subcircuit ports: %d\n", len(ports))
		for _, p := range doc.Parameters() {
			fmt.Printf("  %s = %s", p.Name, p.Default)
			if p.Description != "" {
				fmt.Printf("  (%s)", p.Description)
			}
			fmt.Println()
		}
	}
	return nil
}

func showComponent(doc *schematic.Document, name string) error {
	c := doc.Component(name)
	if c == nil {
		return fmt.Errorf("component '%s' not found", name)
	}

	fmt.Printf("Component: %s\n", c.Name)
	fmt.Printf("Type: %s\n", c.Type)
	fmt.Printf("State: %s\n", c.State)
	fmt.Printf("Position: (%d, %d)\n", c.Pos.X, c.Pos.Y)
	if c.Rotation != 0 {
		fmt.Printf("Rotation: %d°\n", c.Rotation*90)
	}
	if c.Mirrored {
		fmt.Println("Mirror: x")
	}
	fmt.Println()

	if len(c.Props) > 0 {
		fmt.Println("Properties:")
		for _, p := range c.Props {
			fmt.Printf("  %s: %s\n", p.Name, p.Value)
		}
		fmt.Println()
	}

	if len(c.Ports) > 0 {
		fmt.Println("Ports:")
		for i, p := range c.Ports {
			pos := c.Pos.Add(p.Offset)
			fmt.Printf("  %d: (%d, %d)", i+1, pos.X, pos.Y)
			if p.Node != nil && p.Node.Label != nil {
				fmt.Printf(" %s", p.Node.Label.Name)
			}
			if p.Type != "" {
				fmt.Printf(" [%s]", p.Type)
			}
			fmt.Println()
		}
	}
	return nil
}
