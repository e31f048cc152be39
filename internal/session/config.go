package session

// Config is pure session configuration. It carries no internal state
// and may be shared between runners.
type Config struct {
	MaxDurationMinutes     int     `json:"max_duration_minutes"`
	TargetItems            int     `json:"target_items"`
	MasteryThreshold       float64 `json:"mastery_threshold"`
	EnforceSpacedRetrieval bool    `json:"enforce_spaced_retrieval"`
	RequireTransferTests   bool    `json:"require_transfer_tests"`
}

// DefaultConfig returns the standard sitting parameters.
func DefaultConfig() Config {
	return Config{
		MaxDurationMinutes:     15,
		TargetItems:            20,
		MasteryThreshold:       0.9,
		EnforceSpacedRetrieval: true,
		RequireTransferTests:   false,
	}
}
