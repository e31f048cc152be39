// Package diagnostic implements the cold-start assessment pass: it
// selects a small, targeted item set from a validated skill graph and
// turns the raw responses into per-skill mastery priors.
package diagnostic

import (
	"math"
	"sort"

	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// DefaultPrior is the mastery estimate assigned to skills with no
// response data.
const DefaultPrior = 0.3

// Config holds the tunable constants of the diagnostic pass.
type Config struct {
	MinItemsPerSkill        int
	MaxItemsPerSkill        int
	MasteryThreshold        float64
	DifficultyWeight        float64
	PrerequisiteBoostFactor float64
}

// DefaultConfig returns the standard diagnostic configuration.
func DefaultConfig() Config {
	return Config{
		MinItemsPerSkill:        2,
		MaxItemsPerSkill:        5,
		MasteryThreshold:        0.7,
		DifficultyWeight:        0.3,
		PrerequisiteBoostFactor: 0.9,
	}
}

// ItemMapping links an assessment item to the skills it probes.
// Secondary skills are weighted at half the primary weight during
// analysis.
type ItemMapping struct {
	ItemID           string   `json:"item_id"`
	PrimarySkillID   string   `json:"primary_skill_id"`
	SecondarySkillIDs []string `json:"secondary_skill_ids,omitempty"`
	Difficulty       float64  `json:"difficulty"`
}

// Response is one raw right/wrong answer to a diagnostic item.
type Response struct {
	ItemID  string `json:"item_id"`
	Correct bool   `json:"correct"`
}

// Engine runs diagnostic generation and analysis against a validated
// skill graph. The graph is shared read-only; the engine holds no
// mutable state of its own.
type Engine struct {
	cfg Config
}

// NewEngine creates a diagnostic engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// GenerateDiagnostic selects a bounded, deterministic item set covering
// the graph's skills, prerequisites probed before their dependents.
// The result never exceeds maxItems and never repeats an item ID.
func (e *Engine) GenerateDiagnostic(g *skillgraph.Graph, mappings []ItemMapping, maxItems int) []string {
	if maxItems <= 0 || len(mappings) == 0 {
		return nil
	}

	bySkill := make(map[string][]ItemMapping)
	for _, m := range mappings {
		bySkill[m.PrimarySkillID] = append(bySkill[m.PrimarySkillID], m)
	}

	skillCount := len(bySkill)
	if skillCount == 0 {
		return nil
	}
	base := clampInt(e.cfg.MinItemsPerSkill, e.cfg.MaxItemsPerSkill, maxItems/skillCount)

	var selected []string
	seen := make(map[string]bool)

	for _, skillID := range g.TopologicalOrder() {
		if len(selected) >= maxItems {
			break
		}
		items := bySkill[skillID]
		if len(items) == 0 {
			continue
		}

		sort.Slice(items, func(i, j int) bool {
			if items[i].Difficulty != items[j].Difficulty {
				return items[i].Difficulty < items[j].Difficulty
			}
			return items[i].ItemID < items[j].ItemID
		})

		target := base
		if remaining := maxItems - len(selected); target > remaining {
			target = remaining
		}
		if target > len(items) {
			target = len(items)
		}

		for _, idx := range spacedIndices(len(items), target) {
			id := items[idx].ItemID
			if seen[id] {
				continue
			}
			seen[id] = true
			selected = append(selected, id)
		}
	}

	return selected
}

// spacedIndices returns count indices evenly spread over [0, total),
// always including the first and last positions when count >= 2.
func spacedIndices(total, count int) []int {
	if count <= 0 || total <= 0 {
		return nil
	}
	if count == 1 {
		return []int{0}
	}
	if count > total {
		count = total
	}
	step := float64(total-1) / float64(count-1)
	indices := make([]int, count)
	for i := range indices {
		indices[i] = int(math.Round(float64(i) * step))
	}
	return indices
}

func clampInt(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
