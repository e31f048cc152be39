package mastery

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/mod/semver"
)

// StateVersion is the schema version written by ExportState and
// accepted (same major) by ImportState.
const StateVersion = "1.0.0"

// ErrMalformedState is returned when ImportState is given text that is
// unparsable or schema-incompatible. The engine's existing models are
// left untouched in that case.
var ErrMalformedState = errors.New("malformed engine state")

// stateEnvelope is the versioned on-wire form of the engine's learner
// models. Hosts treat the encoded string as an opaque persistence blob.
type stateEnvelope struct {
	Version  string                   `json:"version"`
	Learners map[string]*LearnerModel `json:"learners"`
}

// ExportState encodes the full map of learner models into a stable,
// versioned textual form. encoding/json sorts map keys and emits
// shortest round-trip float representations, so exports of identical
// state are byte-identical and probabilities survive exactly.
func (e *Engine) ExportState() (string, error) {
	env := stateEnvelope{
		Version:  StateVersion,
		Learners: e.learners,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("export engine state: %w", err)
	}
	return string(b), nil
}

// ImportState replaces the engine's in-memory models with the decoded
// envelope. The replacement is atomic: a malformed or incompatible
// string leaves existing state untouched and returns an error wrapping
// ErrMalformedState.
func (e *Engine) ImportState(s string) error {
	var env stateEnvelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if env.Version == "" {
		return fmt.Errorf("%w: missing version", ErrMalformedState)
	}
	if semver.Major("v"+env.Version) != semver.Major("v"+StateVersion) {
		return fmt.Errorf("%w: incompatible version %q", ErrMalformedState, env.Version)
	}

	learners := make(map[string]*LearnerModel, len(env.Learners))
	for id, m := range env.Learners {
		if m == nil {
			return fmt.Errorf("%w: null model for learner %q", ErrMalformedState, id)
		}
		if m.LearnerID == "" {
			m.LearnerID = id
		}
		if m.SkillProbabilities == nil {
			m.SkillProbabilities = make(map[string]*SkillProbability)
		}
		for skillID, sp := range m.SkillProbabilities {
			if sp == nil {
				return fmt.Errorf("%w: null probability for learner %q skill %q", ErrMalformedState, id, skillID)
			}
			if sp.PMastery < 0 || sp.PMastery > 1 {
				return fmt.Errorf("%w: probability %v out of range for learner %q skill %q",
					ErrMalformedState, sp.PMastery, id, skillID)
			}
		}
		learners[id] = m
	}

	e.learners = learners
	return nil
}
