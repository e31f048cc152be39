// Package replay re-executes recorded practice-event streams against a
// fresh mastery engine and checks that the resulting learner models
// match expectations exactly. It is the executable form of the
// engine's determinism contract.
package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abhisek/skilltrace/internal/event"
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string               `json:"description"`
	Skills      []skillgraph.Skill   `json:"skills"`
	Events      []FixtureEvent       `json:"events"`
	Expected    []ExpectedProbability `json:"expected,omitempty"`
}

// FixtureEvent mirrors event.PracticeEvent with JSON tags suited to
// hand-written fixtures; the timestamp and ID are assigned by a fixed
// context during replay, so fixtures only carry the behavioral fields.
type FixtureEvent struct {
	LearnerID string `json:"learner_id"`
	SessionID string `json:"session_id"`
	SkillID   string `json:"skill_id"`
	ItemID    string `json:"item_id"`
	Correct   bool   `json:"correct"`
	LatencyMs int64  `json:"latency_ms"`
}

// ExpectedProbability pins the exact final estimate for one
// learner/skill pair.
type ExpectedProbability struct {
	LearnerID string  `json:"learner_id"`
	SkillID   string  `json:"skill_id"`
	PMastery  float64 `json:"p_mastery"`
}

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Graph builds and validates the fixture's skill graph.
func (f *Fixture) Graph() (*skillgraph.Graph, error) {
	g := skillgraph.FromSkills(f.Skills)
	if err := g.Validate().Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// PracticeEvents materializes the fixture's events through a fixed
// event context, preserving order.
func (f *Fixture) PracticeEvents(ctx event.Context) []event.PracticeEvent {
	factory := event.NewFactory(ctx)
	events := make([]event.PracticeEvent, 0, len(f.Events))
	for _, fe := range f.Events {
		events = append(events,
			factory.CreatePracticeEvent(fe.LearnerID, fe.SessionID, fe.SkillID, fe.ItemID, fe.Correct, fe.LatencyMs))
	}
	return events
}
