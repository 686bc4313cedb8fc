package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found wrapped", fmt.Errorf("persona 7: %w", ErrNotFound), http.StatusNotFound},
		{"validation", NewValidationError("поле %s обязательно", "nombres"), http.StatusBadRequest},
		{"cycle", NewInvalidAssignmentError("цикл"), http.StatusUnprocessableEntity},
		{"conflict", ErrConflict, http.StatusConflict},
		{"token", ErrTokenExpired, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"storage", fmt.Errorf("insert: %w", ErrStorage), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestHttpErrorUnwrap(t *testing.T) {
	err := NewInvalidAssignmentError("руководитель %d является подчинённым", 5)
	assert.True(t, errors.Is(err, ErrInvalidAssignment))
	assert.Contains(t, err.Error(), "руководитель 5")
}
