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

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay a recorded event stream",
	Long:  "Replay feeds a fixture's practice events through a fresh engine and prints the resulting learner models. With --check, pinned expectations are verified exactly and any mismatch fails the command.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if fromLog, _ := cmd.Flags().GetBool("from-log"); fromLog {
			return replayEventLog(cmd, args[0])
		}

		f, err := replay.LoadFixture(args[0])
		if err != nil {
			return err
		}

		res, err := replay.Run(f)
		if err != nil {
			return err
		}
		logger.Debug().Int("events", res.EventsFed).Msg("replay complete")

		printModels(res.Engine)

		check, _ := cmd.Flags().GetBool("check")
		if check {
			for _, m := range res.Mismatches {
				fmt.Printf("MISMATCH %s/%s: want %v, got %v\n", m.LearnerID, m.SkillID, m.Want, m.Got)
			}
			if len(res.Mismatches) > 0 {
				return fmt.Errorf("%d expectation(s) failed", len(res.Mismatches))
			}
			fmt.Printf("all %d expectation(s) hold\n", len(f.Expected))
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().Bool("check", false, "Verify the fixture's expected probabilities")
	replayCmd.Flags().Bool("from-log", false, "Treat the argument as a graph file and replay the stored event log")
}

// replayEventLog rebuilds every learner model from the local database
// instead of a fixture.
func replayEventLog(cmd *cobra.Command, graphPath string) error {
	g, err := skillgraph.LoadFile(graphPath)
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

	eng, err := replay.FromStore(cmd.Context(), s, g, "")
	if err != nil {
		return err
	}
	printModels(eng)
	return nil
}

func printModels(eng *mastery.Engine) {
	learners := eng.LearnerIDs()
	sort.Strings(learners)
	for _, learnerID := range learners {
		m := eng.GetLearnerModel(learnerID)
		fmt.Printf("%s (%d events)\n", learnerID, m.TotalEvents)

		skills := make([]string, 0, len(m.SkillProbabilities))
		for id := range m.SkillProbabilities {
			skills = append(skills, id)
		}
		sort.Strings(skills)
		for _, skillID := range skills {
			sp := m.SkillProbabilities[skillID]
			fmt.Printf("  %-24s p=%.4f  %d/%d correct\n", skillID, sp.PMastery, sp.Correct, sp.Attempts)
		}
	}
}
