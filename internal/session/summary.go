package session

import "time"

// Summary holds the end-of-sitting report.
type Summary struct {
	SessionID    string
	LearnerID    string
	Duration     time.Duration
	TotalItems   int
	TotalCorrect int
	Accuracy     float64
	Mastered     []string
	InProgress   []string
}

// Summary builds the report for the sitting so far. Skill lists are in
// topological order; InProgress covers skills attempted this sitting
// that remain below the mastery threshold.
func (r *Runner) Summary() *Summary {
	s := &Summary{
		SessionID:    r.sessionID,
		LearnerID:    r.learnerID,
		Duration:     r.clock().Sub(r.started),
		TotalItems:   r.submitted,
		TotalCorrect: r.correct,
	}
	if r.submitted > 0 {
		s.Accuracy = float64(r.correct) / float64(r.submitted)
	}

	for _, skillID := range r.graph.TopologicalOrder() {
		switch {
		case r.engine.PMastery(r.learnerID, skillID) >= r.cfg.MasteryThreshold:
			s.Mastered = append(s.Mastered, skillID)
		case r.attemptsThisSitting[skillID] > 0:
			s.InProgress = append(s.InProgress, skillID)
		}
	}
	return s
}
