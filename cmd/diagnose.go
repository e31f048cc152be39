package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/diagnostic"
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <graph.json> <mappings.json>",
	Short: "Generate a diagnostic item list",
	Long:  "Diagnose selects a bounded item set from the graph's item-skill mappings, probing prerequisites before their dependents. The same inputs always produce the same list.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := skillgraph.LoadFile(args[0])
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read item mappings %s: %w", args[1], err)
		}
		var mappings []diagnostic.ItemMapping
		if err := json.Unmarshal(data, &mappings); err != nil {
			return fmt.Errorf("parse item mappings %s: %w", args[1], err)
		}

		maxItems, _ := cmd.Flags().GetInt("max-items")
		eng := diagnostic.NewEngine(diagnostic.DefaultConfig())
		items := eng.GenerateDiagnostic(g, mappings, maxItems)
		logger.Debug().Int("mappings", len(mappings)).Int("selected", len(items)).Msg("diagnostic generated")

		for _, id := range items {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	diagnoseCmd.Flags().Int("max-items", 15, "Maximum number of diagnostic items")
}
