package orgchart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeSize(t *testing.T) {
	assert.Equal(t, MinNodeSize, NodeSize(1, 1, 3))
	assert.Equal(t, 2250.0, NodeSize(2, 1, 3))
	assert.Equal(t, MaxNodeSize, NodeSize(3, 1, 3))
	assert.Equal(t, MaxNodeSize, NodeSize(4, 4, 4))
}

func TestLevelStylesAreStableAndDistinct(t *testing.T) {
	first := LevelStyles([]int{3, 1, 2, 1, 3})
	second := LevelStyles([]int{2, 3, 1})

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{1, 2, 3}, []int{first[0].Level, first[1].Level, first[2].Level})

	colors := map[string]bool{}
	for _, s := range first {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, s.Color)
		colors[s.Color] = true
	}
	assert.Len(t, colors, 3)
}

func TestPastelColorFirstHueIsPink(t *testing.T) {
	// hue 0, светлота 0.8, насыщенность 0.6
	assert.Equal(t, "#ebadad", PastelColor(0, 4))
}

func TestLayoutDropsForeignEdges(t *testing.T) {
	chart := Layout([]Member{
		{PersonID: 2, Name: "Ruiz Paz Ana", PositionName: "Analista", Level: 1},
		{PersonID: 1, Name: "Diaz Soto Luis", PositionName: "Gerente", Level: 3},
	}, []Edge{{ManagerID: 1, PersonID: 2}, {ManagerID: 8, PersonID: 1}})

	require.Len(t, chart.Nodes, 2)
	assert.Equal(t, uint64(1), chart.Nodes[0].ID)
	assert.Equal(t, "Diaz Soto Luis\n(Gerente)", chart.Nodes[0].Label)
	assert.Contains(t, chart.Nodes[0].Tooltip, "Уровень: 3")
	assert.Equal(t, MaxNodeSize, chart.Nodes[0].Size)
	assert.Equal(t, MinNodeSize, chart.Nodes[1].Size)
	assert.Equal(t, []Edge{{ManagerID: 1, PersonID: 2}}, chart.Edges)
}
