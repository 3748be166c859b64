package core

import (
	"maps"
	"slices"
)

// Plan is the execution order derived from a Graph.
// Order and Failed partition the declared names.
type Plan struct {
	Order  []string   // run-list, level by level
	Levels [][]string // checks in one level never depend on each other
	Failed []string   // checks caught in a cycle or behind an undeclared prerequisite
}

// Schedule orders the graph with Kahn's algorithm, one level at a time.
// Within a level names are sorted, so the plan only depends on the graph.
func Schedule(g *Graph) Plan {
	indegree := maps.Clone(g.indegree)

	var level []string
	for _, name := range g.names {
		if indegree[name] == 0 {
			level = append(level, name)
		}
	}

	var plan Plan
	for len(level) > 0 {
		plan.Levels = append(plan.Levels, level)
		plan.Order = append(plan.Order, level...)

		var next []string
		for _, name := range level {
			for _, dep := range g.dependents[name] {
				indegree[dep]--
				if indegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		slices.Sort(next)
		level = next
	}

	for _, name := range g.names {
		if indegree[name] > 0 {
			plan.Failed = append(plan.Failed, name)
		}
	}
	return plan
}
