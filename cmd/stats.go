package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/mastery"
	"github.com/abhisek/skilltrace/internal/replay"
	"github.com/abhisek/skilltrace/internal/skillgraph"
	"github.com/abhisek/skilltrace/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <graph.json>",
	Short: "Show learner statistics from the local database",
	Long:  "Stats rebuilds learner models from the saved engine state, falling back to a full replay of the event log, and prints mastery per learner.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := skillgraph.LoadFile(args[0])
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer s.Close()

		eng, err := loadEngine(cmd, s, g)
		if err != nil {
			return err
		}

		threshold, _ := cmd.Flags().GetFloat64("threshold")
		printStats(eng, g, threshold)

		if snap, _ := cmd.Flags().GetBool("snapshot"); snap {
			blob, err := eng.ExportState()
			if err != nil {
				return err
			}
			seq, err := s.SaveEngineState(cmd.Context(), blob)
			if err != nil {
				return err
			}
			if err := s.PruneEngineStates(cmd.Context(), snapshotKeep); err != nil {
				return err
			}
			logger.Debug().Int64("sequence", seq).Msg("engine state saved")
		}
		return nil
	},
}

// snapshotKeep is how many engine snapshots survive pruning.
const snapshotKeep = 5

func init() {
	statsCmd.Flags().Float64("threshold", 0.9, "Mastery threshold for the summary buckets")
	statsCmd.Flags().Bool("snapshot", false, "Save the rebuilt engine state and prune old snapshots")
}

// loadEngine restores learner models from the most recent saved state;
// when none exists the event log is replayed from scratch.
func loadEngine(cmd *cobra.Command, s *store.Store, g *skillgraph.Graph) (*mastery.Engine, error) {
	st, err := s.LatestEngineState(cmd.Context())
	if err != nil {
		return nil, err
	}
	if st != nil {
		eng := mastery.NewEngine(g, mastery.DefaultParams())
		if err := eng.ImportState(st.Data); err == nil {
			logger.Debug().Int64("sequence", st.Sequence).Msg("restored saved engine state")
			return eng, nil
		}
		logger.Warn().Int64("sequence", st.Sequence).Msg("saved state unusable, replaying event log")
	}
	return replay.FromStore(cmd.Context(), s, g, "")
}

func printStats(eng *mastery.Engine, g *skillgraph.Graph, threshold float64) {
	learners := eng.LearnerIDs()
	sort.Strings(learners)
	if len(learners) == 0 {
		fmt.Println("no learners recorded")
		return
	}

	for _, learnerID := range learners {
		m := eng.GetLearnerModel(learnerID)
		mastered := 0
		for _, skillID := range g.TopologicalOrder() {
			if eng.PMastery(learnerID, skillID) >= threshold {
				mastered++
			}
		}
		fmt.Printf("%s: %d/%d skills mastered, %d events\n", learnerID, mastered, g.Len(), m.TotalEvents)
	}
}
