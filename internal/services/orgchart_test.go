package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-system/internal/dto"
	"hr-system/internal/orgchart"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

func TestDepartmentChart(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)
	f.store.addDepartment(2, "Ventas")
	f.store.addPosition(50, "Vendedor", 2, 1)
	f.store.addPerson(6, "Vera", "Vega", 50, day("2023-01-01"))
	f.store.addEdge(6, 1, day("2023-01-01"))

	chart, err := f.orgChart.DepartmentChart(ctx, 1, today)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-03", chart.AsOf)
	require.NotNil(t, chart.DepartmentID)
	require.Len(t, chart.Nodes, 4)
	// связь 6 -> 1 ведёт в другой департамент и отбрасывается
	assert.Len(t, chart.Edges, 3)
	assert.Equal(t, orgchart.AlgorithmLayered, chart.Algorithm)
	assert.Len(t, chart.Levels, 3)
}

func TestDepartmentChartWithoutMembers(t *testing.T) {
	f := newHRFixture(day("2024-06-03"))
	seedTeam(f)
	f.store.addDepartment(2, "Ventas")

	_, err := f.orgChart.DepartmentChart(context.Background(), 2, day("2024-06-03"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, "Нет данных для этого департамента", httpErr.Message)

	_, err = f.orgChart.DepartmentChart(context.Background(), 99, day("2024-06-03"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPersonChartAndSubtree(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)
	// подчинённый без должности тоже попадает в поддерево
	f.store.addPerson(7, "Nora", "Nieto", 0, day("2023-01-01"))
	f.store.addEdge(7, 3, day("2023-01-01"))

	chart, err := f.orgChart.PersonChart(ctx, 2, today)
	require.NoError(t, err)
	require.NotNil(t, chart.RootID)
	assert.Equal(t, uint64(2), *chart.RootID)
	assert.Len(t, chart.Nodes, 4)
	assert.Len(t, chart.Edges, 3)
	for _, n := range chart.Nodes {
		if n.ID == 7 {
			assert.Equal(t, noPositionLabel, n.Position)
		}
	}

	count, err := f.orgChart.PersonSubtreeCount(ctx, 2, today)
	require.NoError(t, err)
	assert.Equal(t, 3, count.Descendants)

	count, err = f.orgChart.PersonSubtreeCount(ctx, 4, today)
	require.NoError(t, err)
	assert.Equal(t, 0, count.Descendants)

	rows, err := f.orgChart.PersonSubtreeTable(ctx, 1, today)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, uint64(2), rows[0].ID)
	assert.Equal(t, 1, rows[0].Depth)
	assert.Equal(t, "Mora Marta", rows[0].ManagerName)
	assert.Equal(t, uint64(7), rows[3].ID)
	assert.Equal(t, 3, rows[3].Depth)
	assert.Equal(t, "Sanz Sara", rows[3].ManagerName)
	assert.Equal(t, noPositionLabel, rows[3].PositionName)
}

func TestPersonChartAsOfPastDate(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	_, err := f.reorganizer.Apply(ctx, nil, 2, nil, nil, today)
	require.NoError(t, err)

	now, err := f.orgChart.PersonSubtreeCount(ctx, 2, today)
	require.NoError(t, err)
	assert.Equal(t, 0, now.Descendants)

	before, err := f.orgChart.PersonSubtreeCount(ctx, 2, day("2024-06-02"))
	require.NoError(t, err)
	assert.Equal(t, 2, before.Descendants)
}

func TestDepartmentChartAsOfPastDate(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)
	f.store.addDepartment(2, "Ventas")
	f.store.addPosition(50, "Vendedor", 2, 1)

	_, err := f.reorganizer.Apply(ctx, nil, 2, utils.ToPtr[uint64](50), utils.ToPtr[uint64](1), today)
	require.NoError(t, err)
	require.NoError(t, f.persons.TerminatePerson(ctx, 4, dto.TerminatePersonDTO{Reason: "Renuncia", Date: "2024-06-03"}))

	now, err := f.orgChart.DepartmentChart(ctx, 1, today)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 3}, nodeIDs(now.Chart))

	before, err := f.orgChart.DepartmentChart(ctx, 1, day("2024-06-02"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 2, 3, 4}, nodeIDs(before.Chart))
	for _, n := range before.Nodes {
		if n.ID == 2 {
			assert.Equal(t, "Gerente", n.Position)
		}
	}

	table, err := f.orgChart.PersonSubtreeTable(ctx, 1, day("2024-06-02"))
	require.NoError(t, err)
	require.NotEmpty(t, table)
	assert.Equal(t, uint64(2), table[0].ID)
	assert.Equal(t, "Gerente", table[0].PositionName)
}

func nodeIDs(chart *orgchart.Chart) []uint64 {
	ids := make([]uint64, 0, len(chart.Nodes))
	for _, n := range chart.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestPersonChartUnknownRoot(t *testing.T) {
	f := newHRFixture(day("2024-06-03"))
	_, err := f.orgChart.PersonChart(context.Background(), 42, day("2024-06-03"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRenderPNGFallsBackToPlaceholder(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	chart, err := f.orgChart.PersonChart(ctx, 1, today)
	require.NoError(t, err)

	png, degraded := f.orgChart.RenderPNG(ctx, chart)
	assert.False(t, degraded)
	assert.Equal(t, []byte("png"), png)
	assert.Same(t, chart.Chart, f.renderer.rendered)

	f.renderer.err = errors.New("нет шрифта")
	png, degraded = f.orgChart.RenderPNG(ctx, chart)
	assert.True(t, degraded)
	assert.Contains(t, string(png), "placeholder:")
}
