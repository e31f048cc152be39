package skillgraph

import (
	"fmt"
	"sort"
	"strings"
)

// Validate performs all structural checks on the graph: dangling
// prerequisite references and prerequisite cycles. All problems found
// are reported, not just the first.
func (g *Graph) Validate() ValidationResult {
	var errs []ValidationError

	ids := g.sortedIDs()

	// Dangling prerequisites: single pass over all skills.
	for _, id := range ids {
		for _, prereqID := range g.skills[id].Prerequisites {
			if _, ok := g.skills[prereqID]; !ok {
				errs = append(errs, ValidationError{
					Type:           ErrMissingPrerequisite,
					Message:        fmt.Sprintf("skill %q references nonexistent prerequisite %q", id, prereqID),
					AffectedSkills: []string{id},
				})
			}
		}
	}

	if cycleIDs := g.findCycles(ids); len(cycleIDs) > 0 {
		errs = append(errs, ValidationError{
			Type:           ErrCycleDetected,
			Message:        fmt.Sprintf("cycle detected involving skills: %s", strings.Join(cycleIDs, ", ")),
			AffectedSkills: cycleIDs,
		})
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// findCycles runs a three-color DFS over the prerequisite relation and
// returns the sorted, deduplicated set of skills implicated in cycles.
// When a gray skill is re-encountered, the cyclic suffix of the current
// DFS path is marked. Iterative on an explicit stack, so arbitrarily
// deep graphs don't exhaust the goroutine stack.
func (g *Graph) findCycles(ids []string) []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.skills))
	pathIndex := make(map[string]int)
	inCycle := make(map[string]bool)

	type frame struct {
		id   string
		next int
	}

	for _, start := range ids {
		if color[start] != white {
			continue
		}

		var stack []frame
		var path []string

		color[start] = gray
		pathIndex[start] = 0
		path = append(path, start)
		stack = append(stack, frame{id: start})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			prereqs := g.skills[top.id].Prerequisites

			if top.next < len(prereqs) {
				child := prereqs[top.next]
				top.next++
				if _, ok := g.skills[child]; !ok {
					continue // dangling ref, reported separately
				}
				switch color[child] {
				case white:
					color[child] = gray
					pathIndex[child] = len(path)
					path = append(path, child)
					stack = append(stack, frame{id: child})
				case gray:
					for i := pathIndex[child]; i < len(path); i++ {
						inCycle[path[i]] = true
					}
				}
				continue
			}

			color[top.id] = black
			delete(pathIndex, top.id)
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}

	if len(inCycle) == 0 {
		return nil
	}
	result := make([]string, 0, len(inCycle))
	for id := range inCycle {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// Err converts the result into a single combined error listing every
// problem found, or nil if the graph is valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return fmt.Errorf("skill graph validation failed:\n  %s", strings.Join(msgs, "\n  "))
}
