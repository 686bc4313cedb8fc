package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterValues(t *testing.T) {
	f := Filter{Filter: map[string]interface{}{
		"estatus":         "Activo, Baja,,",
		"departamento_id": "3",
		"activo":          true,
	}}

	assert.Equal(t, []string{"Activo", "Baja"}, f.Values("estatus"))
	assert.Equal(t, []string{"3"}, f.Values("departamento_id"))
	assert.Nil(t, f.Values("activo"))
	assert.Nil(t, f.Values("nivel"))
}
