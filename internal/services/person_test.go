package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/events"
	"hr-system/pkg/constants"
	"hr-system/pkg/contextkeys"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

func TestCreatePerson(t *testing.T) {
	ctx := context.Background()
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	detail, err := f.persons.CreatePerson(ctx, dto.CreatePersonDTO{
		GivenName:       " Irene ",
		SurnamePaternal: "Ibarra",
		PositionID:      null.Uint64From(30),
		ManagerID:       null.Uint64From(2),
		StartDate:       "2024-05-20",
		Username:        "iibarra",
		Password:        "secreto1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Irene", detail.GivenName)
	assert.Equal(t, "Analista", detail.PositionName.String)
	assert.Equal(t, uint64(2), detail.ManagerID.Uint64)
	assert.Equal(t, "Perez Pablo", detail.ManagerName.String)

	active := f.store.activeAssignment(detail.ID)
	require.NotNil(t, active)
	assert.Equal(t, day("2024-05-20"), active.StartDate)

	user, err := fakeUserRepo{f.store}.FindByUsername(ctx, "IIBARRA")
	require.NoError(t, err)
	assert.Equal(t, detail.ID, user.PersonID.Uint64)
	assert.NoError(t, utils.ComparePasswords(user.PasswordHash, "secreto1"))
}

func TestCreatePersonValidation(t *testing.T) {
	ctx := context.Background()
	f := newHRFixture(day("2024-06-03"))
	seedTeam(f)
	f.store.positions[40].Active = false

	_, err := f.persons.CreatePerson(ctx, dto.CreatePersonDTO{GivenName: "A", SurnamePaternal: "B", StartDate: "2024-07-01"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.persons.CreatePerson(ctx, dto.CreatePersonDTO{GivenName: "A", SurnamePaternal: "B", PositionID: null.Uint64From(40)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.persons.CreatePerson(ctx, dto.CreatePersonDTO{GivenName: "A", SurnamePaternal: "B", PositionID: null.Uint64From(77)})
	assert.Equal(t, 404, apperrors.StatusCode(err))
}

func TestUpdatePersonPublishesReorganization(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, uint64(900))
	today := day("2024-06-03")
	f := newHRFixture(today)
	seedTeam(f)

	result, err := f.persons.UpdatePerson(ctx, 2, dto.UpdatePersonDTO{
		GivenName:       "Pablo",
		SurnamePaternal: "Perez",
		SurnameMaternal: "Gil",
		PositionID:      null.Uint64From(40),
		ManagerID:       null.Uint64From(1),
	})
	require.NoError(t, err)
	assert.True(t, result.PositionChanged)
	assert.Equal(t, []uint64{3, 4}, result.ReassignedSubordinates)
	assert.Equal(t, "Gil", f.store.persons[2].SurnameMaternal)

	require.Len(t, f.recorder.events, 1)
	event, ok := f.recorder.events[0].(events.HierarchyReorganizedEvent)
	require.True(t, ok)
	assert.Equal(t, uint64(2), event.PersonID)
	assert.Equal(t, uint64(900), event.ActorID)
	assert.Equal(t, utils.ToPtr[uint64](20), event.OldPositionID)
	assert.Equal(t, utils.ToPtr[uint64](40), event.NewPositionID)
}

func TestUpdatePersonWithoutChangesPublishesNothing(t *testing.T) {
	f := newHRFixture(day("2024-06-03"))
	seedTeam(f)

	_, err := f.persons.UpdatePerson(context.Background(), 3, dto.UpdatePersonDTO{
		GivenName:       "Sara",
		SurnamePaternal: "Sanz",
		PositionID:      null.Uint64From(30),
		ManagerID:       null.Uint64From(2),
	})
	require.NoError(t, err)
	assert.Empty(t, f.recorder.events)
}

func TestUpdatePersonRejectsCycle(t *testing.T) {
	f := newHRFixture(day("2024-06-03"))
	seedTeam(f)

	_, err := f.persons.UpdatePerson(context.Background(), 1, dto.UpdatePersonDTO{
		GivenName:       "Marta",
		SurnamePaternal: "Mora",
		PositionID:      null.Uint64From(10),
		ManagerID:       null.Uint64From(3),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAssignment)
	assert.Empty(t, f.recorder.events)
}

func TestPositionHistoryAfterReorganization(t *testing.T) {
	ctx := context.Background()
	f := newHRFixture(day("2024-06-03"))
	seedTeam(f)

	_, err := f.persons.UpdatePerson(ctx, 3, dto.UpdatePersonDTO{
		GivenName:       "Sara",
		SurnamePaternal: "Sanz",
		PositionID:      null.Uint64From(20),
		ManagerID:       null.Uint64From(1),
	})
	require.NoError(t, err)

	history, err := f.persons.PositionHistory(ctx, 3)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uint64(20), history[0].PositionID)
	assert.True(t, history[0].Active)
	assert.Equal(t, uint64(30), history[1].PositionID)
	require.NotNil(t, history[1].EndDate)
	assert.Equal(t, day("2024-06-03"), *history[1].EndDate)

	_, err = f.persons.PositionHistory(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTerminatePerson(t *testing.T) {
	ctx := context.Background()
	f := newHRFixture(day("2024-06-03"))
	seedTeam(f)
	f.store.users[500] = &entities.User{ID: 500, PersonID: null.Uint64From(3), Username: "ssanz", Active: true}

	err := f.persons.TerminatePerson(ctx, 3, dto.TerminatePersonDTO{Reason: " Renuncia ", Date: "2024-05-31"})
	require.NoError(t, err)

	assert.Equal(t, constants.PersonStatusTerminated, f.store.persons[3].Status)
	assert.False(t, f.store.users[500].Active)

	detail, err := f.persons.GetPerson(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, detail.Termination)
	assert.Equal(t, "Renuncia", detail.Termination.Reason)
	assert.Equal(t, day("2024-05-31"), detail.Termination.Date)

	require.Len(t, f.recorder.events, 2)
	terminated := f.recorder.events[0].(events.PersonTerminatedEvent)
	assert.Equal(t, []uint64{500}, terminated.DisabledUserIDs)
	changed := f.recorder.events[1].(events.PermissionsChangedEvent)
	assert.Equal(t, []uint64{500}, changed.UserIDs)

	err = f.persons.TerminatePerson(ctx, 3, dto.TerminatePersonDTO{Reason: "otra vez"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFormDataListsManagers(t *testing.T) {
	f := newHRFixture(day("2024-06-03"))
	seedTeam(f)
	f.store.persons[4].Status = constants.PersonStatusTerminated

	data, err := f.persons.FormData(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Managers, 3)
	assert.Equal(t, uint64(1), data.Managers[0].ID)
	assert.Equal(t, 4, data.Managers[0].Level)
	assert.Len(t, data.Positions, 4)
	assert.Len(t, data.Departments, 1)
}
