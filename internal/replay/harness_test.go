package replay

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/skilltrace/internal/event"
	"github.com/abhisek/skilltrace/internal/skillgraph"
	"github.com/abhisek/skilltrace/internal/store"
)

func testFixture() *Fixture {
	return &Fixture{
		Description: "two-skill chain, mixed answers",
		Skills: []skillgraph.Skill{
			{ID: "a", Name: "A", Prerequisites: []string{}},
			{ID: "b", Name: "B", Prerequisites: []string{"a"}},
		},
		Events: []FixtureEvent{
			{LearnerID: "learner-1", SessionID: "s1", SkillID: "a", ItemID: "i1", Correct: true, LatencyMs: 500},
			{LearnerID: "learner-1", SessionID: "s1", SkillID: "a", ItemID: "i2", Correct: false, LatencyMs: 600},
			{LearnerID: "learner-1", SessionID: "s1", SkillID: "a", ItemID: "i3", Correct: true, LatencyMs: 400},
		},
	}
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	f := testFixture()

	r1, err := Run(f)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Run(f)
	if err != nil {
		t.Fatal(err)
	}

	p1 := r1.Engine.PMastery("learner-1", "a")
	p2 := r2.Engine.PMastery("learner-1", "a")
	if p1 != p2 {
		t.Errorf("replays disagree: %v vs %v", p1, p2)
	}
	if r1.EventsFed != 3 {
		t.Errorf("EventsFed = %d, want 3", r1.EventsFed)
	}
}

func TestRun_ChecksExpectations(t *testing.T) {
	f := testFixture()

	// Pin the expectation to the actual replayed value, then verify a
	// perturbed expectation is flagged.
	r, err := Run(f)
	if err != nil {
		t.Fatal(err)
	}
	actual := r.Engine.PMastery("learner-1", "a")

	f.Expected = []ExpectedProbability{{LearnerID: "learner-1", SkillID: "a", PMastery: actual}}
	r, err = Run(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Mismatches) != 0 {
		t.Errorf("unexpected mismatches: %+v", r.Mismatches)
	}

	f.Expected[0].PMastery = actual + 1e-9
	r, err = Run(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Mismatches) != 1 {
		t.Errorf("perturbed expectation not flagged: %+v", r.Mismatches)
	}
}

func TestRun_InvalidGraphRejected(t *testing.T) {
	f := testFixture()
	f.Skills[0].Prerequisites = []string{"b"} // a <-> b cycle
	if _, err := Run(f); err == nil {
		t.Fatal("expected error for cyclic fixture graph")
	}
}

func TestLoadFixture_RoundTrip(t *testing.T) {
	f := testFixture()
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Description != f.Description || len(loaded.Events) != len(f.Events) {
		t.Errorf("loaded fixture differs: %+v", loaded)
	}
}

func TestFromStore_MatchesLiveProcessing(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "replay.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	f := testFixture()
	g, err := f.Graph()
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	live, err := Run(f)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range f.PracticeEvents(event.FixedContext(time.Unix(0, 0).UTC(), time.Second)) {
		if err := s.AppendPracticeEvent(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	recovered, err := FromStore(ctx, s, g, "learner-1")
	if err != nil {
		t.Fatal(err)
	}

	want := live.Engine.PMastery("learner-1", "a")
	got := recovered.PMastery("learner-1", "a")
	if got != want {
		t.Errorf("recovered model %v != live model %v", got, want)
	}
	if recovered.GetLearnerModel("learner-1").TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3", recovered.GetLearnerModel("learner-1").TotalEvents)
	}
}
