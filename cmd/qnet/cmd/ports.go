package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

var portsCmd = &cobra.Command{
	Use:   "ports <schematic_file>...",
	Short: "Count the ports of subcircuit schematics",
	Long: `Print the number of Port components of each schematic. Only the
<Components> section is read, so the count works on files that do not
load completely.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	for _, file := range args {
		n, err := schematic.CountSubcircuitPorts(file)
		if err != nil {
			return fmt.Errorf("count ports of %s: %w", file, err)
		}
		if len(args) == 1 {
			fmt.Println(n)
			continue
		}
		fmt.Printf("%s: %d\n", file, n)
	}
	return nil
}
