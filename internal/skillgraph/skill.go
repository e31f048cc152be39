package skillgraph

// Skill represents a single skill node in the graph.
type Skill struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Prerequisites []string `json:"prerequisites"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	Difficulty    float64  `json:"difficulty,omitempty"`
}

// ErrorType classifies a structural problem found during validation.
type ErrorType string

const (
	ErrMissingPrerequisite ErrorType = "MISSING_PREREQUISITE"
	ErrCycleDetected       ErrorType = "CYCLE_DETECTED"
)

// ValidationError describes one structural problem found in a graph.
type ValidationError struct {
	Type           ErrorType `json:"type"`
	Message        string    `json:"message"`
	AffectedSkills []string  `json:"affected_skills"`
}

// ValidationResult holds the outcome of a Validate call.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}
