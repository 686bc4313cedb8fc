package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-system/pkg/utils"
)

// seedTeam: M(1) <- P(2) <- {S1(3), S2(4)}
func seedTeam(f *hrFixture) {
	f.store.addDepartment(1, "Operaciones")
	f.store.addPosition(10, "Director", 1, 4)
	f.store.addPosition(20, "Gerente", 1, 3)
	f.store.addPosition(30, "Analista", 1, 2)
	f.store.addPosition(40, "Auxiliar", 1, 1)

	since := day("2023-01-01")
	f.store.addPerson(1, "Marta", "Mora", 10, since)
	f.store.addPerson(2, "Pablo", "Perez", 20, since)
	f.store.addPerson(3, "Sara", "Sanz", 30, since)
	f.store.addPerson(4, "Saul", "Solis", 30, since)
	f.store.addEdge(2, 1, since)
	f.store.addEdge(3, 2, since)
	f.store.addEdge(4, 2, since)
}

func managerOf(t *testing.T, f *hrFixture, personID uint64, asOf string) *uint64 {
	t.Helper()
	edge, err := f.hierarchy.CurrentManagerOf(context.Background(), nil, personID, day(asOf))
	require.NoError(t, err)
	if edge == nil {
		return nil
	}
	return utils.ToPtr(edge.ManagerID)
}

func TestReorganizeSplicesReportsToGrandparent(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	result, err := f.reorganizer.Apply(ctx, nil, 2, utils.ToPtr[uint64](40), utils.ToPtr[uint64](1), today)
	require.NoError(t, err)

	assert.True(t, result.PositionChanged)
	assert.False(t, result.ManagerChanged)
	assert.Equal(t, []uint64{3, 4}, result.ReassignedSubordinates)
	assert.Equal(t, utils.ToPtr[uint64](1), result.PreviousManagerID)
	assert.Equal(t, utils.ToPtr[uint64](20), result.OldPositionID)

	assert.Equal(t, utils.ToPtr[uint64](1), managerOf(t, f, 3, "2024-06-03"))
	assert.Equal(t, utils.ToPtr[uint64](1), managerOf(t, f, 4, "2024-06-03"))
	reports, err := f.hierarchy.DirectReportsOf(ctx, nil, 2, today)
	require.NoError(t, err)
	assert.Empty(t, reports)

	// вчерашний срез не меняется
	assert.Equal(t, utils.ToPtr[uint64](2), managerOf(t, f, 3, "2024-06-02"))

	active := f.store.activeAssignment(2)
	require.NotNil(t, active)
	assert.Equal(t, uint64(40), active.PositionID)
	assert.Equal(t, today, active.StartDate)
}

func TestReorganizeRootLeavesReportsWithoutManager(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	// A(1) без руководителя, подчинённые B(2) и C(5)
	f.store.addPerson(5, "Carla", "Cruz", 20, day("2023-01-01"))
	f.store.addEdge(5, 1, day("2023-01-01"))

	result, err := f.reorganizer.Apply(ctx, nil, 1, utils.ToPtr[uint64](40), nil, today)
	require.NoError(t, err)

	assert.Nil(t, result.PreviousManagerID)
	assert.Equal(t, []uint64{2, 5}, result.ReassignedSubordinates)
	assert.Nil(t, managerOf(t, f, 2, "2024-06-03"))
	assert.Nil(t, managerOf(t, f, 5, "2024-06-03"))

	reports, err := f.hierarchy.DirectReportsOf(ctx, nil, 1, today)
	require.NoError(t, err)
	assert.Empty(t, reports)
	// подчинённые B остаются у B
	assert.Equal(t, utils.ToPtr[uint64](2), managerOf(t, f, 3, "2024-06-03"))
}

func TestReorganizeSamePositionIsNoop(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	result, err := f.reorganizer.Apply(ctx, nil, 2, utils.ToPtr[uint64](20), utils.ToPtr[uint64](1), today)
	require.NoError(t, err)

	assert.False(t, result.PositionChanged)
	assert.False(t, result.ManagerChanged)
	assert.Empty(t, result.ReassignedSubordinates)
	assert.Equal(t, utils.ToPtr[uint64](2), managerOf(t, f, 3, "2024-06-03"))
	assert.Len(t, f.store.assignments, 4)
}

func TestReorganizeAppliesOwnManagerAfterSplice(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	// P уходит в подчинение к своему бывшему подчинённому S1:
	// после переноса S1 уже не потомок P, назначение допустимо
	result, err := f.reorganizer.Apply(ctx, nil, 2, utils.ToPtr[uint64](40), utils.ToPtr[uint64](3), today)
	require.NoError(t, err)

	assert.True(t, result.PositionChanged)
	assert.True(t, result.ManagerChanged)
	assert.Equal(t, utils.ToPtr[uint64](3), managerOf(t, f, 2, "2024-06-03"))
	assert.Equal(t, utils.ToPtr[uint64](1), managerOf(t, f, 3, "2024-06-03"))
}

func TestReorganizeClearsManager(t *testing.T) {
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	result, err := f.reorganizer.Apply(context.Background(), nil, 3, utils.ToPtr[uint64](30), nil, today)
	require.NoError(t, err)

	assert.False(t, result.PositionChanged)
	assert.True(t, result.ManagerChanged)
	assert.Nil(t, managerOf(t, f, 3, "2024-06-03"))
}

func TestReorganizeRemovesPosition(t *testing.T) {
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	result, err := f.reorganizer.Apply(context.Background(), nil, 2, nil, utils.ToPtr[uint64](1), today)
	require.NoError(t, err)

	assert.True(t, result.PositionChanged)
	assert.Nil(t, result.NewPositionID)
	assert.Nil(t, f.store.activeAssignment(2))
	assert.Equal(t, utils.ToPtr[uint64](1), managerOf(t, f, 4, "2024-06-03"))
}
