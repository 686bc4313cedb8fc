package utils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/validation"
)

func TestParseFilterFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("search", "Lopez")
	values.Set("sort[apellidop]", "DESC")
	values.Set("sort[bad]", "sideways")
	values.Add("filter[departamento_id]", "1")
	values.Add("filter[departamento_id]", "3")
	values.Set("limit", "10")
	values.Set("page", "3")

	f := ParseFilterFromQuery(values)

	assert.Equal(t, "Lopez", f.Search)
	assert.Equal(t, map[string]string{"apellidop": "desc"}, f.Sort)
	assert.Equal(t, "1,3", f.Filter["departamento_id"])
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
	assert.True(t, f.WithPagination)
}

func TestParseFilterCapsLimit(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{"limit": {"100000"}, "withPagination": {"false"}})
	assert.Equal(t, MaxLimit, f.Limit)
	assert.False(t, f.WithPagination)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)

	fallback := time.Date(2023, 1, 5, 17, 45, 0, 0, time.UTC)
	d, err = ParseDateOr("  ", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), d)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, c.Hour())
	assert.Equal(t, 30, c.Minute())

	_, err = ParseClock("9.30")
	assert.Error(t, err)
}

func TestErrorResponseMapsSentinels(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := ErrorResponse(c, apperrors.NewInvalidAssignmentError("нельзя назначить самого себя"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "нельзя назначить самого себя")

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, ErrorResponse(c, apperrors.ErrStorage, zap.NewNop()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Внутренняя ошибка сервера")
}

func TestErrorResponseListsInvalidFields(t *testing.T) {
	type absenceForm struct {
		Fecha string `json:"fecha" validate:"required,date_ymd"`
	}
	verr := validation.New().Validate(&absenceForm{Fecha: "01/05/2024"})
	require.Error(t, verr)

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	require.NoError(t, ErrorResponse(c, verr, zap.NewNop()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fecha":"дата в формате ГГГГ-ММ-ДД"`)
}

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("secreto")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswords(hash, "secreto"))
	assert.ErrorIs(t, ComparePasswords(hash, "otro"), apperrors.ErrInvalidCredentials)
	assert.False(t, NeedsRehash(hash))

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNeedsRehash(t *testing.T) {
	weak, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, NeedsRehash(string(weak)))
	assert.True(t, NeedsRehash("no-es-bcrypt"))
}
