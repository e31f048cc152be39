// Package session orchestrates one practice sitting: it seeds a
// learner model from a diagnostic pass, feeds answers through the
// mastery engine, and sequences what to practice next within the
// sitting's time and item budget.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/skilltrace/internal/diagnostic"
	"github.com/abhisek/skilltrace/internal/event"
	"github.com/abhisek/skilltrace/internal/mastery"
	"github.com/abhisek/skilltrace/internal/skillgraph"
	"github.com/abhisek/skilltrace/internal/store"
)

// Runner drives a single learner through one sitting. It owns the
// event factory and the sitting's bookkeeping; the skill graph and
// mastery engine are shared with the host and outlive the runner.
type Runner struct {
	cfg     Config
	graph   *skillgraph.Graph
	engine  *mastery.Engine
	factory *event.Factory
	clock   func() time.Time
	log     *store.Store

	learnerID string
	sessionID string
	started   time.Time

	submitted int
	correct   int
	lastSkill string

	attemptsThisSitting map[string]int
	transferIssued      map[string]bool
}

// NewRunner starts a sitting for one learner. The event context
// supplies the clock and ID source, so a fixed context yields a fully
// reproducible session.
func NewRunner(g *skillgraph.Graph, eng *mastery.Engine, cfg Config, learnerID string, ectx event.Context) *Runner {
	return &Runner{
		cfg:                 cfg,
		graph:               g,
		engine:              eng,
		factory:             event.NewFactory(ectx),
		clock:               ectx.Clock,
		learnerID:           learnerID,
		sessionID:           ectx.NextID(),
		started:             ectx.Clock(),
		attemptsThisSitting: make(map[string]int),
		transferIssued:      make(map[string]bool),
	}
}

// UseStore attaches a persistent event log. Every submitted answer is
// appended before it reaches the engine.
func (r *Runner) UseStore(s *store.Store) {
	r.log = s
}

// SessionID returns the sitting's identifier.
func (r *Runner) SessionID() string { return r.sessionID }

// SeedFromDiagnostic analyzes a diagnostic response set and installs
// the resulting estimates as the learner's starting probabilities.
func (r *Runner) SeedFromDiagnostic(mappings []diagnostic.ItemMapping, responses []diagnostic.Response) {
	diag := diagnostic.NewEngine(diagnostic.DefaultConfig())
	estimates := diag.AnalyzeResults(r.graph, mappings, responses)
	r.engine.SeedFromDiagnostic(r.learnerID, estimates)
}

// Submit records one answer: it builds the practice event, appends it
// to the log when one is attached, and folds it into the learner model.
func (r *Runner) Submit(ctx context.Context, skillID, itemID string, correct bool, latencyMs int64) (event.PracticeEvent, error) {
	if !r.graph.Has(skillID) {
		return event.PracticeEvent{}, fmt.Errorf("submit answer for %q: %w", skillID, skillgraph.ErrSkillNotFound)
	}

	ev := r.factory.CreatePracticeEvent(r.learnerID, r.sessionID, skillID, itemID, correct, latencyMs)
	if r.log != nil {
		if err := r.log.AppendPracticeEvent(ctx, ev); err != nil {
			return event.PracticeEvent{}, fmt.Errorf("append practice event: %w", err)
		}
	}
	r.engine.ProcessEvent(ev)

	r.submitted++
	if correct {
		r.correct++
	}
	r.lastSkill = skillID
	r.attemptsThisSitting[skillID]++
	return ev, nil
}

// Next returns the sitting's next action. The budget is checked first:
// once the item target or time limit is reached the sitting is over
// regardless of remaining unmastered skills.
func (r *Runner) Next() mastery.Action {
	if r.budgetExhausted() {
		return mastery.Action{Type: mastery.ActionSessionComplete}
	}

	eligible := r.engine.EligibleSkills(r.learnerID, r.cfg.MasteryThreshold)
	if len(eligible) > 0 {
		return mastery.Action{Type: mastery.ActionPracticeSkill, SkillID: r.pickEligible(eligible)}
	}

	if r.cfg.RequireTransferTests {
		if skillID, ok := r.pendingTransfer(); ok {
			r.transferIssued[skillID] = true
			return mastery.Action{Type: mastery.ActionPracticeSkill, SkillID: skillID}
		}
	}
	return mastery.Action{Type: mastery.ActionSessionComplete}
}

func (r *Runner) budgetExhausted() bool {
	if r.cfg.TargetItems > 0 && r.submitted >= r.cfg.TargetItems {
		return true
	}
	if r.cfg.MaxDurationMinutes > 0 {
		limit := time.Duration(r.cfg.MaxDurationMinutes) * time.Minute
		if r.clock().Sub(r.started) >= limit {
			return true
		}
	}
	return false
}

// pickEligible interleaves practice across the frontier: with spaced
// retrieval enforced, the skill answered last is not repeated while an
// alternative exists.
func (r *Runner) pickEligible(eligible []string) string {
	if !r.cfg.EnforceSpacedRetrieval || r.lastSkill == "" {
		return eligible[0]
	}
	for _, skillID := range eligible {
		if skillID != r.lastSkill {
			return skillID
		}
	}
	return eligible[0]
}

// pendingTransfer finds a mastered skill that has not yet been probed
// in this sitting. Each skill is probed at most once.
func (r *Runner) pendingTransfer() (string, bool) {
	for _, skillID := range r.graph.TopologicalOrder() {
		if r.transferIssued[skillID] {
			continue
		}
		if r.attemptsThisSitting[skillID] > 0 {
			continue
		}
		if r.engine.PMastery(r.learnerID, skillID) >= r.cfg.MasteryThreshold {
			return skillID, true
		}
	}
	return "", false
}
