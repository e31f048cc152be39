package diagnostic

import (
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// skillAccumulator gathers response evidence for one skill.
type skillAccumulator struct {
	itemsAttempted  int
	itemsCorrect    int
	totalDifficulty float64
}

// AnalyzeResults turns raw diagnostic responses into per-skill mastery
// estimates. Every skill in the graph receives an estimate: skills with
// response data get an accuracy-based value adjusted for item
// difficulty and clamped to [0.05, 0.95]; skills without data fall back
// to the default prior. Estimates then propagate across prerequisite
// edges (mastering a skill implies some command of its prerequisites).
func (e *Engine) AnalyzeResults(g *skillgraph.Graph, mappings []ItemMapping, responses []Response) map[string]float64 {
	byItem := make(map[string]ItemMapping, len(mappings))
	for _, m := range mappings {
		byItem[m.ItemID] = m
	}

	acc := make(map[string]*skillAccumulator)
	record := func(skillID string, correct bool, difficulty float64) {
		a := acc[skillID]
		if a == nil {
			a = &skillAccumulator{}
			acc[skillID] = a
		}
		a.itemsAttempted++
		if correct {
			a.itemsCorrect++
		}
		a.totalDifficulty += difficulty
	}

	for _, r := range responses {
		m, ok := byItem[r.ItemID]
		if !ok {
			continue
		}
		record(m.PrimarySkillID, r.Correct, m.Difficulty)
		for _, sec := range m.SecondarySkillIDs {
			// Secondary skills count as a full attempt but at half
			// the difficulty weight.
			record(sec, r.Correct, m.Difficulty*0.5)
		}
	}

	estimates := make(map[string]float64)
	for skillID, a := range acc {
		if !g.Has(skillID) || a.itemsAttempted == 0 {
			continue
		}
		accuracy := float64(a.itemsCorrect) / float64(a.itemsAttempted)
		avgDifficulty := a.totalDifficulty / float64(a.itemsAttempted)
		adjustment := (avgDifficulty - 0.5) * e.cfg.DifficultyWeight
		estimates[skillID] = clamp(0.05, 0.95, accuracy+adjustment)
	}

	e.propagateEstimates(g, estimates)

	for _, s := range g.AllSkills() {
		if _, ok := estimates[s.ID]; !ok {
			estimates[s.ID] = DefaultPrior
		}
	}

	return estimates
}

// propagateEstimates walks skills in reverse topological order; when a
// skill's estimate clears the mastery threshold, every transitive
// prerequisite is raised to at least estimate * boost factor. Estimates
// are never lowered.
func (e *Engine) propagateEstimates(g *skillgraph.Graph, estimates map[string]float64) {
	order := g.TopologicalOrder()
	for i := len(order) - 1; i >= 0; i-- {
		skillID := order[i]
		est, ok := estimates[skillID]
		if !ok || est < e.cfg.MasteryThreshold {
			continue
		}
		boosted := est * e.cfg.PrerequisiteBoostFactor
		for _, prereqID := range g.AllPrerequisites(skillID) {
			if cur, ok := estimates[prereqID]; !ok || boosted > cur {
				estimates[prereqID] = boosted
			}
		}
	}
}
