package mastery

import (
	"github.com/abhisek/skilltrace/internal/event"
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// Engine tracks mastery probabilities for every learner it has seen.
// The skill graph is shared read-only; learner models are exclusively
// owned by the engine. Not safe for concurrent use — callers embedding
// the engine in a concurrent host must serialize access per engine.
type Engine struct {
	graph    *skillgraph.Graph
	params   Params
	learners map[string]*LearnerModel
}

// NewEngine creates an engine over a validated skill graph.
func NewEngine(g *skillgraph.Graph, params Params) *Engine {
	return &Engine{
		graph:    g,
		params:   params,
		learners: make(map[string]*LearnerModel),
	}
}

// Graph returns the skill graph the engine was built over.
func (e *Engine) Graph() *skillgraph.Graph {
	return e.graph
}

// GetOrCreateLearnerModel returns the model for a learner, creating an
// empty one on first reference.
func (e *Engine) GetOrCreateLearnerModel(learnerID string) *LearnerModel {
	if m, ok := e.learners[learnerID]; ok {
		return m
	}
	m := &LearnerModel{
		LearnerID:          learnerID,
		SkillProbabilities: make(map[string]*SkillProbability),
	}
	e.learners[learnerID] = m
	return m
}

// GetLearnerModel returns the model for a learner, or nil if no events
// or references have created one yet.
func (e *Engine) GetLearnerModel(learnerID string) *LearnerModel {
	return e.learners[learnerID]
}

// LearnerIDs returns the IDs of all tracked learners, unordered.
func (e *Engine) LearnerIDs() []string {
	ids := make([]string, 0, len(e.learners))
	for id := range e.learners {
		ids = append(ids, id)
	}
	return ids
}

// PMastery returns the current estimate for a learner/skill pair,
// falling back to the default prior for skills never practiced.
func (e *Engine) PMastery(learnerID, skillID string) float64 {
	m, ok := e.learners[learnerID]
	if !ok {
		return e.params.DefaultPrior
	}
	sp, ok := m.SkillProbabilities[skillID]
	if !ok {
		return e.params.DefaultPrior
	}
	return sp.PMastery
}

// ProcessEvent folds one practice event into the targeted learner's
// model. The update is a pure function of the event and prior state:
// a Bayesian evidence step with slip/guess parameters, plus a learning
// transit applied only on correct answers, so correct answers raise
// the estimate toward 1 and incorrect answers lower it toward 0.
func (e *Engine) ProcessEvent(ev event.PracticeEvent) {
	m := e.GetOrCreateLearnerModel(ev.LearnerID)
	m.TotalEvents++

	sp, ok := m.SkillProbabilities[ev.SkillID]
	if !ok {
		sp = &SkillProbability{PMastery: e.params.DefaultPrior}
		m.SkillProbabilities[ev.SkillID] = sp
	}

	sp.Attempts++
	if ev.Correct {
		sp.Correct++
	}

	p := sp.PMastery
	if ev.Correct {
		num := p * (1 - e.params.PSlip)
		den := num + (1-p)*e.params.PGuess
		if den > 0 {
			p = num / den
		}
		p = p + (1-p)*e.params.PTransit
	} else {
		num := p * e.params.PSlip
		den := num + (1-p)*(1-e.params.PGuess)
		if den > 0 {
			p = num / den
		}
	}
	sp.PMastery = clamp01(p)
}

// SeedFromDiagnostic installs diagnostic estimates as the learner's
// starting probabilities. Only skills present in the graph are seeded;
// attempt counters are untouched.
func (e *Engine) SeedFromDiagnostic(learnerID string, estimates map[string]float64) {
	m := e.GetOrCreateLearnerModel(learnerID)
	for skillID, est := range estimates {
		if !e.graph.Has(skillID) {
			continue
		}
		sp, ok := m.SkillProbabilities[skillID]
		if !ok {
			sp = &SkillProbability{}
			m.SkillProbabilities[skillID] = sp
		}
		sp.PMastery = clamp01(est)
	}
}

// EligibleSkills returns, in topological order, every skill whose
// prerequisites all clear the mastery threshold while the skill itself
// does not. This is the learner's current frontier.
func (e *Engine) EligibleSkills(learnerID string, masteryThreshold float64) []string {
	var eligible []string
	for _, skillID := range e.graph.TopologicalOrder() {
		if e.PMastery(learnerID, skillID) >= masteryThreshold {
			continue
		}
		s, err := e.graph.Skill(skillID)
		if err != nil {
			continue
		}
		ready := true
		for _, prereqID := range s.Prerequisites {
			if e.PMastery(learnerID, prereqID) < masteryThreshold {
				ready = false
				break
			}
		}
		if ready {
			eligible = append(eligible, skillID)
		}
	}
	return eligible
}

// GetNextAction recommends the first skill on the learner's frontier.
// If every skill is mastered, the action signals session completion.
func (e *Engine) GetNextAction(learnerID string, masteryThreshold float64) Action {
	e.GetOrCreateLearnerModel(learnerID)

	if eligible := e.EligibleSkills(learnerID, masteryThreshold); len(eligible) > 0 {
		return Action{Type: ActionPracticeSkill, SkillID: eligible[0]}
	}
	return Action{Type: ActionSessionComplete}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
