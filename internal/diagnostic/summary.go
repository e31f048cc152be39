package diagnostic

import (
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// Summary partitions skills by their diagnostic estimates.
// Topological order is preserved within each bucket.
type Summary struct {
	Mastered   []string
	Learning   []string
	NotStarted []string
}

// Summarize buckets every skill by estimate: mastered at or above the
// mastery threshold, learning between the default prior and the
// threshold, not-started below the prior.
func (e *Engine) Summarize(g *skillgraph.Graph, estimates map[string]float64) Summary {
	var s Summary
	for _, skillID := range g.TopologicalOrder() {
		est, ok := estimates[skillID]
		if !ok {
			est = DefaultPrior
		}
		switch {
		case est >= e.cfg.MasteryThreshold:
			s.Mastered = append(s.Mastered, skillID)
		case est >= DefaultPrior:
			s.Learning = append(s.Learning, skillID)
		default:
			s.NotStarted = append(s.NotStarted, skillID)
		}
	}
	return s
}
