// Package event produces immutable practice-event records. Time and
// identity come from an injected Context rather than globals, so the
// same inputs always yield the same event regardless of when or where
// the code runs.
package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PracticeEvent is a single recorded practice attempt. Events are
// created once and never mutated.
type PracticeEvent struct {
	ID        string    `json:"id"`
	LearnerID string    `json:"learner_id"`
	SessionID string    `json:"session_id"`
	SkillID   string    `json:"skill_id"`
	ItemID    string    `json:"item_id"`
	Correct   bool      `json:"correct"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// Context supplies the clock and ID source for event creation.
type Context struct {
	Clock  func() time.Time
	NextID func() string
}

// DefaultContext returns a context backed by the system clock and
// random UUIDs. Not for replay; use FixedContext there.
func DefaultContext() Context {
	return Context{
		Clock:  func() time.Time { return time.Now().UTC() },
		NextID: uuid.NewString,
	}
}

// FixedContext returns a fully deterministic context: the clock starts
// at start and advances by step per event, and IDs are a simple
// counter. Two FixedContexts with the same arguments produce identical
// event sequences.
func FixedContext(start time.Time, step time.Duration) Context {
	now := start
	n := 0
	return Context{
		Clock: func() time.Time {
			t := now
			now = now.Add(step)
			return t
		},
		NextID: func() string {
			n++
			return fmt.Sprintf("evt-%06d", n)
		},
	}
}

// Factory creates practice events from an injected context.
type Factory struct {
	ctx Context
}

// NewFactory creates a factory bound to the given context.
func NewFactory(ctx Context) *Factory {
	return &Factory{ctx: ctx}
}

// CreatePracticeEvent builds an immutable practice event, reading the
// timestamp and ID from the factory's context.
func (f *Factory) CreatePracticeEvent(learnerID, sessionID, skillID, itemID string, correct bool, latencyMs int64) PracticeEvent {
	return PracticeEvent{
		ID:        f.ctx.NextID(),
		LearnerID: learnerID,
		SessionID: sessionID,
		SkillID:   skillID,
		ItemID:    itemID,
		Correct:   correct,
		LatencyMs: latencyMs,
		Timestamp: f.ctx.Clock(),
	}
}
