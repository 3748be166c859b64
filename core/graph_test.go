package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tier4/mapvalidator/schema"
)

func TestBuildGraph(t *testing.T) {
	g := BuildGraph([]schema.CheckSpec{
		spec("c", needs("a"), needs("b"), needs("a")),
		spec("b", needs("a")),
		spec("a"),
		spec("d", needs("ghost")),
	})

	assert.Equal(t, []string{"a", "b", "c", "d"}, g.Names())
	assert.Equal(t, 0, g.Indegree("a"))
	assert.Equal(t, 1, g.Indegree("b"))
	assert.Equal(t, 2, g.Indegree("c"))
	assert.Equal(t, 1, g.Indegree("d"))
	assert.Equal(t, []string{"b", "c"}, g.Dependents("a"))
	assert.Equal(t, []string{"d"}, g.Dependents("ghost"))
	assert.Empty(t, g.Dependents("c"))
}

func TestBuildGraph_Empty(t *testing.T) {
	g := BuildGraph(nil)
	assert.Empty(t, g.Names())
	plan := Schedule(g)
	assert.Empty(t, plan.Order)
	assert.Empty(t, plan.Failed)
}
