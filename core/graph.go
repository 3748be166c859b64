package core

import (
	"slices"

	"github.com/tier4/mapvalidator/schema"
)

// Graph is the prerequisite graph of one run.
// Edges point from a prerequisite to the checks that depend on it.
type Graph struct {
	names      []string
	dependents map[string][]string
	indegree   map[string]int
}

// BuildGraph builds the prerequisite graph from the declared checks.
// Every declared name gets an indegree entry. An edge to a name that was never
// declared still counts towards the indegree of its dependent, so the dependent
// can never become ready.
func BuildGraph(specs []schema.CheckSpec) *Graph {
	g := &Graph{
		names:      make([]string, 0, len(specs)),
		dependents: make(map[string][]string),
		indegree:   make(map[string]int, len(specs)),
	}
	for _, spec := range specs {
		if _, seen := g.indegree[spec.Name]; !seen {
			g.names = append(g.names, spec.Name)
			g.indegree[spec.Name] = 0
		}
	}
	slices.Sort(g.names)

	for _, spec := range specs {
		seen := make(map[string]struct{}, len(spec.Prerequisites))
		for _, edge := range spec.Prerequisites {
			if _, dup := seen[edge.Prerequisite]; dup {
				continue
			}
			seen[edge.Prerequisite] = struct{}{}
			g.dependents[edge.Prerequisite] = append(g.dependents[edge.Prerequisite], spec.Name)
			g.indegree[spec.Name]++
		}
	}
	for prereq := range g.dependents {
		slices.Sort(g.dependents[prereq])
	}
	return g
}

// Names returns every declared check name, sorted.
func (g *Graph) Names() []string {
	return slices.Clone(g.names)
}

// Dependents returns the checks declaring name as a prerequisite, sorted.
func (g *Graph) Dependents(name string) []string {
	return slices.Clone(g.dependents[name])
}

// Indegree returns the number of distinct prerequisites declared by name.
func (g *Graph) Indegree(name string) int {
	return g.indegree[name]
}
