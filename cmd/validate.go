package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/skillgraph"
)

var validateCmd = &cobra.Command{
	Use:   "validate <graph.json>",
	Short: "Validate a skill graph file",
	Long:  "Validate checks a skill graph file against the JSON schema, then for dangling prerequisite references and cycles. All problems found are reported together.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := skillgraph.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: valid (%d skills)\n", args[0], g.Len())
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			for _, id := range g.TopologicalOrder() {
				logger.Debug().Str("skill", id).Msg("topological order")
			}
		}
		return nil
	},
}
