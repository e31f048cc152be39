// Package mastery implements the deterministic learner-mastery engine:
// it consumes an ordered stream of practice events and maintains one
// probability model per learner. Identical event histories always
// produce identical models; nothing in this package reads a clock or a
// random source.
package mastery

// SkillProbability is the engine's running estimate for one skill.
type SkillProbability struct {
	PMastery float64 `json:"p_mastery"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
}

// LearnerModel holds all per-skill estimates for one learner. Models
// are created lazily on first reference and mutated only by event
// processing.
type LearnerModel struct {
	LearnerID          string                       `json:"learner_id"`
	SkillProbabilities map[string]*SkillProbability `json:"skills"`
	TotalEvents        int                          `json:"total_events"`
}

// Params are the calibration constants of the probability update.
// They are configuration, not invariants: changing them changes the
// model's trajectory but not the engine's determinism.
type Params struct {
	// DefaultPrior seeds skills that have never been practiced.
	DefaultPrior float64
	// PSlip is the probability of answering incorrectly despite mastery.
	PSlip float64
	// PGuess is the probability of answering correctly without mastery.
	PGuess float64
	// PTransit is the learning gain applied after a correct answer.
	PTransit float64
}

// DefaultParams returns the standard update parameters.
func DefaultParams() Params {
	return Params{
		DefaultPrior: 0.3,
		PSlip:        0.1,
		PGuess:       0.2,
		PTransit:     0.15,
	}
}

// ActionType classifies a sequencing recommendation.
type ActionType string

const (
	// ActionPracticeSkill recommends practicing a specific skill.
	ActionPracticeSkill ActionType = "practice_skill"
	// ActionSessionComplete signals that every skill is mastered.
	ActionSessionComplete ActionType = "session_complete"
)

// Action is the engine's next-step recommendation for a learner.
type Action struct {
	Type    ActionType `json:"type"`
	SkillID string     `json:"skill_id,omitempty"`
}
