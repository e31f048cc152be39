package event

import (
	"testing"
	"time"
)

func TestFactory_DeterministicWithFixedContext(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	makeEvents := func() []PracticeEvent {
		f := NewFactory(FixedContext(start, time.Second))
		return []PracticeEvent{
			f.CreatePracticeEvent("learner-1", "s1", "counting", "i1", true, 500),
			f.CreatePracticeEvent("learner-1", "s1", "counting", "i2", false, 600),
			f.CreatePracticeEvent("learner-1", "s1", "addition", "i3", true, 400),
		}
	}

	a := makeEvents()
	b := makeEvents()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("event %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestFactory_AdvancesClockAndIDs(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f := NewFactory(FixedContext(start, time.Minute))

	e1 := f.CreatePracticeEvent("l", "s", "sk", "i1", true, 100)
	e2 := f.CreatePracticeEvent("l", "s", "sk", "i2", true, 100)

	if e1.ID == e2.ID {
		t.Errorf("consecutive events share ID %q", e1.ID)
	}
	if !e2.Timestamp.Equal(e1.Timestamp.Add(time.Minute)) {
		t.Errorf("timestamps %v, %v not one step apart", e1.Timestamp, e2.Timestamp)
	}
}

func TestFactory_PopulatesAllFields(t *testing.T) {
	f := NewFactory(DefaultContext())
	ev := f.CreatePracticeEvent("learner-1", "session-9", "addition", "item-3", true, 1234)

	if ev.ID == "" {
		t.Error("empty event ID")
	}
	if ev.LearnerID != "learner-1" || ev.SessionID != "session-9" {
		t.Errorf("learner/session = %q/%q", ev.LearnerID, ev.SessionID)
	}
	if ev.SkillID != "addition" || ev.ItemID != "item-3" {
		t.Errorf("skill/item = %q/%q", ev.SkillID, ev.ItemID)
	}
	if !ev.Correct || ev.LatencyMs != 1234 {
		t.Errorf("correct/latency = %v/%d", ev.Correct, ev.LatencyMs)
	}
	if ev.Timestamp.IsZero() {
		t.Error("zero timestamp")
	}
}
