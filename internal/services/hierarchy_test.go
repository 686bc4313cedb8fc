package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hr-system/pkg/errors"
)

func seedChain(f *hrFixture) {
	// 1 <- 2 <- 3, 4 без руководителя
	f.store.addPerson(1, "Luis", "Diaz", 0, day("2020-01-01"))
	f.store.addPerson(2, "Ana", "Ruiz", 0, day("2020-01-01"))
	f.store.addPerson(3, "Eva", "Soto", 0, day("2020-01-01"))
	f.store.addPerson(4, "Juan", "Paz", 0, day("2020-01-01"))
	f.store.addEdge(2, 1, day("2020-01-01"))
	f.store.addEdge(3, 2, day("2020-01-01"))
}

func TestAssignManagerRejectsSelf(t *testing.T) {
	f := newHRFixture(day("2024-05-01"))
	seedChain(f)

	err := f.hierarchy.AssignManager(context.Background(), nil, 4, 4, day("2024-05-01"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAssignment)
}

func TestAssignManagerRejectsDescendant(t *testing.T) {
	f := newHRFixture(day("2024-05-01"))
	seedChain(f)

	err := f.hierarchy.AssignManager(context.Background(), nil, 1, 3, day("2024-05-01"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAssignment)
	assert.Equal(t, 422, apperrors.StatusCode(err))
}

func TestAssignManagerUnknownPerson(t *testing.T) {
	f := newHRFixture(day("2024-05-01"))
	seedChain(f)

	err := f.hierarchy.AssignManager(context.Background(), nil, 4, 99, day("2024-05-01"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAssignManagerKeepsHistory(t *testing.T) {
	ctx := context.Background()
	f := newHRFixture(day("2024-05-01"))
	seedChain(f)

	require.NoError(t, f.hierarchy.AssignManager(ctx, nil, 3, 4, day("2024-03-10")))

	before, err := f.hierarchy.CurrentManagerOf(ctx, nil, 3, day("2024-03-09"))
	require.NoError(t, err)
	require.NotNil(t, before)
	assert.Equal(t, uint64(2), before.ManagerID)

	after, err := f.hierarchy.CurrentManagerOf(ctx, nil, 3, day("2024-03-10"))
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, uint64(4), after.ManagerID)
	assert.Equal(t, "Paz Juan", after.ManagerName)

	history, err := f.hierarchy.ManagerHistory(ctx, 3)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsOpen())
	require.NotNil(t, history[1].EffectiveEnd)
	assert.Equal(t, day("2024-03-10"), *history[1].EffectiveEnd)

	reports, err := f.hierarchy.DirectReportsOf(ctx, nil, 2, day("2024-03-09"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, reports)
	reports, err = f.hierarchy.DirectReportsOf(ctx, nil, 2, day("2024-03-10"))
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestAssignManagerBeforeOpenEdgeIsRejected(t *testing.T) {
	f := newHRFixture(day("2024-05-01"))
	seedChain(f)

	err := f.hierarchy.AssignManager(context.Background(), nil, 3, 4, day("2019-12-31"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Len(t, f.store.openEdges(3), 1)
}

func TestAssignManagerSameDayTwice(t *testing.T) {
	ctx := context.Background()
	f := newHRFixture(day("2024-05-01"))
	seedChain(f)

	require.NoError(t, f.hierarchy.AssignManager(ctx, nil, 4, 1, day("2024-05-01")))
	require.NoError(t, f.hierarchy.AssignManager(ctx, nil, 4, 2, day("2024-05-01")))

	edge, err := f.hierarchy.CurrentManagerOf(ctx, nil, 4, day("2024-05-01"))
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.Equal(t, uint64(2), edge.ManagerID)
}

func TestCloseEdgeWithoutManagerIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newHRFixture(day("2024-05-01"))
	seedChain(f)

	require.NoError(t, f.hierarchy.CloseEdge(ctx, nil, 1, day("2024-05-01")))

	require.NoError(t, f.hierarchy.CloseEdge(ctx, nil, 2, day("2024-05-01")))
	edge, err := f.hierarchy.CurrentManagerOf(ctx, nil, 2, day("2024-05-01"))
	require.NoError(t, err)
	assert.Nil(t, edge)
}

func TestGraphAtSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newHRFixture(day("2024-05-01"))
	seedChain(f)
	require.NoError(t, f.hierarchy.CloseEdge(ctx, nil, 3, day("2024-02-01")))

	graph, edges, err := f.hierarchy.GraphAt(ctx, nil, day("2024-01-15"))
	require.NoError(t, err)
	assert.Len(t, edges, 2)
	assert.Equal(t, []uint64{3}, graph.DirectReports(2))

	graph, edges, err = f.hierarchy.GraphAt(ctx, nil, day("2024-02-01"))
	require.NoError(t, err)
	assert.Len(t, edges, 1)
	assert.Empty(t, graph.DirectReports(2))
}
