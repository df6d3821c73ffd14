package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

var writeBack bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <schematic_file>",
	Short: "Rewrite a schematic in the current file format",
	Long: `Load a schematic and write it back in the current format version.
Older files are upgraded on the way. Without -w the result goes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&writeBack, "write", "w", false,
		"write the result to the source file")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := newParser(cfg).ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}
	logf("%s: version %s, %d components, %d wires",
		args[0], doc.Version, len(doc.Components), len(doc.Wires))

	if writeBack {
		return schematic.WriteFile(doc, args[0])
	}
	fmt.Print(schematic.Serialize(doc))
	return nil
}
