package validation

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hr-system/pkg/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func TestValidateFileAcceptsPNG(t *testing.T) {
	r := bytes.NewReader(pngHeader)
	require.NoError(t, ValidateFile("acta.PNG", int64(len(pngHeader)), r, "person_document"))

	pos, _ := r.Seek(0, 1)
	assert.Equal(t, int64(0), pos)
}

func TestValidateFileRejectsExtension(t *testing.T) {
	err := ValidateFile("macro.docm", 10, bytes.NewReader([]byte("hola")), "person_document")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestValidateFileRejectsSpoofedContent(t *testing.T) {
	body := []byte("#!/bin/sh\necho pwned\n")
	err := ValidateFile("curp.pdf", int64(len(body)), bytes.NewReader(body), "person_document")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestValidateFileRejectsOversize(t *testing.T) {
	err := ValidateFile("ine.jpg", 21*1024*1024, bytes.NewReader(pngHeader), "person_document")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "превышает лимит")
}

func TestValidateFileUnknownContext(t *testing.T) {
	assert.Error(t, ValidateFile("a.pdf", 1, bytes.NewReader(nil), "avatar"))
}

type absenceForm struct {
	Date    string      `validate:"required,date_ymd"`
	Clock   string      `validate:"omitempty,clock_hm"`
	Email   string      `validate:"omitempty,custom_email"`
	Comment null.String `validate:"omitempty,max=5"`
	Reason  null.Uint64 `validate:"omitempty,gt=0"`
}

func TestRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&absenceForm{Date: "2024-05-01", Clock: "08:15", Email: "ana@empresa.mx"}))
	assert.Error(t, v.Validate(&absenceForm{Date: "01/05/2024"}))
	assert.Error(t, v.Validate(&absenceForm{Date: "2024-05-01", Clock: "8h"}))
	assert.Error(t, v.Validate(&absenceForm{Date: "2024-05-01", Comment: null.StringFrom("demasiado largo")}))
	assert.NoError(t, v.Validate(&absenceForm{Date: "2024-05-01", Comment: null.String{}}))
	assert.NoError(t, v.Validate(&absenceForm{Date: "2024-05-01", Reason: null.Uint64{}}))
	assert.Error(t, v.Validate(&absenceForm{Date: "2024-05-01", Reason: null.Uint64From(0)}))
	assert.NoError(t, v.Validate(&absenceForm{Date: "2024-05-01", Reason: null.Uint64From(3)}))
	assert.NoError(t, v.Validate(&absenceForm{Date: "2024-05-01", Comment: null.StringFrom("")}))
}

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Internal string `json:"-" validate:"omitempty,max=1"`
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	err := New().Validate(&loginForm{Password: "abc"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"username": "обязательное поле",
		"password": "не короче 6",
	}, FieldErrors(err))
	assert.Nil(t, FieldErrors(apperrors.ErrValidation))
}
