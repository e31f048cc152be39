package skillgraph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSkillNotFound is returned when a lookup references an unknown skill ID.
var ErrSkillNotFound = errors.New("skill not found")

// Graph holds a mutable set of skills related by prerequisite edges.
// Derived orderings (topological order, closures) are only meaningful
// after Validate reports the graph as valid; callers must re-validate
// after mutating the skill set.
type Graph struct {
	skills map[string]Skill
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{skills: make(map[string]Skill)}
}

// FromSkills builds a graph from a slice of skills. Later duplicates
// overwrite earlier ones; Validate is not called.
func FromSkills(skills []Skill) *Graph {
	g := New()
	for _, s := range skills {
		g.AddSkill(s)
	}
	return g
}

// AddSkill inserts or replaces a skill by ID.
func (g *Graph) AddSkill(s Skill) {
	g.skills[s.ID] = s
}

// RemoveSkill deletes a skill by ID. Dangling prerequisite references
// in other skills are left in place; callers must re-validate.
func (g *Graph) RemoveSkill(id string) bool {
	if _, ok := g.skills[id]; !ok {
		return false
	}
	delete(g.skills, id)
	return true
}

// Skill returns a skill by ID, or ErrSkillNotFound.
func (g *Graph) Skill(id string) (Skill, error) {
	s, ok := g.skills[id]
	if !ok {
		return Skill{}, fmt.Errorf("%w: %q", ErrSkillNotFound, id)
	}
	return s, nil
}

// Has reports whether a skill with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.skills[id]
	return ok
}

// Len returns the number of skills in the graph.
func (g *Graph) Len() int {
	return len(g.skills)
}

// AllSkills returns all skills sorted by ID.
func (g *Graph) AllSkills() []Skill {
	ids := g.sortedIDs()
	result := make([]Skill, 0, len(ids))
	for _, id := range ids {
		result = append(result, g.skills[id])
	}
	return result
}

// sortedIDs returns all skill IDs in lexicographic order. Map iteration
// order is randomized, so every traversal starts from this.
func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.skills))
	for id := range g.skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// dependentsIndex builds the reverse adjacency: skill ID -> IDs of
// skills that list it as a direct prerequisite.
func (g *Graph) dependentsIndex() map[string][]string {
	idx := make(map[string][]string, len(g.skills))
	for _, id := range g.sortedIDs() {
		for _, prereqID := range g.skills[id].Prerequisites {
			idx[prereqID] = append(idx[prereqID], id)
		}
	}
	return idx
}

// TopologicalOrder returns skill IDs in an order that places every
// skill after all of its prerequisites, using Kahn's algorithm by
// frontier levels. Each level is sorted lexicographically once, so the
// result is fully deterministic. Skills caught in a prerequisite cycle
// are omitted; call Validate first to guarantee a complete result.
func (g *Graph) TopologicalOrder() []string {
	inDegree := make(map[string]int, len(g.skills))
	for id, s := range g.skills {
		deg := 0
		for _, prereqID := range s.Prerequisites {
			if _, ok := g.skills[prereqID]; ok {
				deg++
			}
		}
		inDegree[id] = deg
	}

	dependents := g.dependentsIndex()

	var level []string
	for id, deg := range inDegree {
		if deg == 0 {
			level = append(level, id)
		}
	}
	sort.Strings(level)

	result := make([]string, 0, len(g.skills))
	for len(level) > 0 {
		var next []string
		for _, id := range level {
			result = append(result, id)
			for _, depID := range dependents[id] {
				inDegree[depID]--
				if inDegree[depID] == 0 {
					next = append(next, depID)
				}
			}
		}
		sort.Strings(next)
		level = next
	}

	return result
}

// AllPrerequisites returns every transitive prerequisite of the given
// skill, deepest first (post-order), so callers can fold over the
// result in dependency order. Uses an explicit stack; safe on graphs
// deeper than the goroutine stack would allow recursively.
func (g *Graph) AllPrerequisites(id string) []string {
	s, ok := g.skills[id]
	if !ok {
		return nil
	}

	type frame struct {
		id   string
		next int
	}

	visited := map[string]bool{id: true}
	var order []string
	var stack []frame

	// Seed with the direct prerequisites; the start skill itself is
	// never part of its own closure.
	for _, p := range s.Prerequisites {
		if visited[p] {
			continue
		}
		if _, ok := g.skills[p]; !ok {
			continue
		}
		visited[p] = true
		stack = append(stack, frame{id: p})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			prereqs := g.skills[top.id].Prerequisites
			if top.next < len(prereqs) {
				child := prereqs[top.next]
				top.next++
				if !visited[child] {
					if _, ok := g.skills[child]; ok {
						visited[child] = true
						stack = append(stack, frame{id: child})
					}
				}
				continue
			}
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
		}
	}

	return order
}

// Dependents returns every skill that transitively lists the given ID
// as a prerequisite, sorted for determinism.
func (g *Graph) Dependents(id string) []string {
	if _, ok := g.skills[id]; !ok {
		return nil
	}

	idx := g.dependentsIndex()
	visited := map[string]bool{id: true}
	var result []string

	stack := append([]string(nil), idx[id]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		result = append(result, cur)
		stack = append(stack, idx[cur]...)
	}

	sort.Strings(result)
	return result
}

// IsPrerequisiteOf reports whether a is a direct or transitive
// prerequisite of b.
func (g *Graph) IsPrerequisiteOf(a, b string) bool {
	for _, p := range g.AllPrerequisites(b) {
		if p == a {
			return true
		}
	}
	return false
}
