package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/skilltrace/internal/event"
	"github.com/abhisek/skilltrace/internal/mastery"
	"github.com/abhisek/skilltrace/internal/skillgraph"
	"github.com/abhisek/skilltrace/internal/store"
)

// Result captures the outcome of one replay run.
type Result struct {
	Engine     *mastery.Engine
	EventsFed  int
	Mismatches []Mismatch
}

// Mismatch is one expectation the replayed engine failed to meet.
type Mismatch struct {
	LearnerID string
	SkillID   string
	Want      float64
	Got       float64
}

// Run replays a fixture against a fresh engine and checks every pinned
// expectation by exact comparison.
func Run(f *Fixture) (*Result, error) {
	g, err := f.Graph()
	if err != nil {
		return nil, err
	}

	eng := mastery.NewEngine(g, mastery.DefaultParams())
	events := f.PracticeEvents(event.FixedContext(time.Unix(0, 0).UTC(), time.Second))
	for _, ev := range events {
		eng.ProcessEvent(ev)
	}

	res := &Result{Engine: eng, EventsFed: len(events)}
	for _, exp := range f.Expected {
		got := eng.PMastery(exp.LearnerID, exp.SkillID)
		if got != exp.PMastery {
			res.Mismatches = append(res.Mismatches, Mismatch{
				LearnerID: exp.LearnerID,
				SkillID:   exp.SkillID,
				Want:      exp.PMastery,
				Got:       got,
			})
		}
	}
	return res, nil
}

// FromStore rebuilds a mastery engine from the persisted event log:
// event-sourced recovery. An empty learnerID replays every learner.
func FromStore(ctx context.Context, s *store.Store, g *skillgraph.Graph, learnerID string) (*mastery.Engine, error) {
	events, err := s.PracticeEvents(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load event log: %w", err)
	}
	eng := mastery.NewEngine(g, mastery.DefaultParams())
	for _, ev := range events {
		eng.ProcessEvent(ev)
	}
	return eng, nil
}
