package orgchart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtreeFromIncludesRoot(t *testing.T) {
	g := NewGraph([]Edge{
		{ManagerID: 1, PersonID: 2},
		{ManagerID: 1, PersonID: 3},
		{ManagerID: 2, PersonID: 4},
		{ManagerID: 9, PersonID: 10},
	})

	assert.Equal(t, []uint64{1, 2, 3, 4}, SubtreeFrom(g, 1))
	assert.Equal(t, []uint64{2, 4}, SubtreeFrom(g, 2))
	assert.Equal(t, []uint64{4}, SubtreeFrom(g, 4))
	assert.Equal(t, []uint64{77}, SubtreeFrom(g, 77))
}

func TestSubtreeFromTerminatesOnCycle(t *testing.T) {
	g := NewGraph([]Edge{
		{ManagerID: 1, PersonID: 2},
		{ManagerID: 2, PersonID: 3},
		{ManagerID: 3, PersonID: 1},
		{ManagerID: 3, PersonID: 3},
	})

	got := SubtreeFrom(g, 1)
	assert.ElementsMatch(t, []uint64{1, 2, 3}, got)
	assert.Len(t, got, 3)
}

func TestIsDescendant(t *testing.T) {
	g := NewGraph([]Edge{{ManagerID: 1, PersonID: 2}, {ManagerID: 2, PersonID: 3}})

	assert.True(t, IsDescendant(g, 1, 3))
	assert.False(t, IsDescendant(g, 3, 1))
	assert.False(t, IsDescendant(g, 1, 1))
}

func TestFilterEdges(t *testing.T) {
	edges := []Edge{{ManagerID: 1, PersonID: 2}, {ManagerID: 5, PersonID: 2}, {ManagerID: 2, PersonID: 3}}
	assert.Equal(t, []Edge{{ManagerID: 1, PersonID: 2}}, FilterEdges(edges, []uint64{1, 2}))
}
