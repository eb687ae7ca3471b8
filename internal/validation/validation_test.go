package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staffBody struct {
	NombreCompleto string   `json:"nombre_completo" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Role           string   `json:"role" binding:"required,oneof=jurado profesor"`
	Emails         []string `json:"emails" binding:"omitempty,min=1,dive,required,email,institutional_email"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Register("uninorte.edu.co")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req staffBody
	return c.ShouldBindJSON(&req)
}

func TestDescribe_RequiredAndFormatErrors(t *testing.T) {
	err := bind(t, `{"email":"not-an-email","role":"admin"}`)
	require.Error(t, err)

	fields := Describe(err)
	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}

	assert.Equal(t, "nombre_completo es obligatorio", byField["nombre_completo"])
	assert.Equal(t, "email debe ser un correo electrónico válido", byField["email"])
	assert.Equal(t, "role debe ser uno de: jurado, profesor", byField["role"])
}

func TestDescribe_InstitutionalEmailInsideSlice(t *testing.T) {
	err := bind(t, `{"nombre_completo":"Ana","email":"ana@uninorte.edu.co","role":"jurado","emails":["ok@uninorte.edu.co","x@gmail.com"]}`)
	require.Error(t, err)

	fields := Describe(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "emails[1]", fields[0].Field)
	assert.Contains(t, fields[0].Message, "uninorte.edu.co")
}

func TestDescribe_UnknownField(t *testing.T) {
	err := bind(t, `{"nombre_completo":"Ana","email":"ana@uninorte.edu.co","role":"jurado","is_admin":true}`)
	require.Error(t, err)

	fields := Describe(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "is_admin", fields[0].Field)
}

func TestDescribe_MalformedJSON(t *testing.T) {
	err := bind(t, `{"nombre_completo":`)
	require.Error(t, err)

	fields := Describe(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "body", fields[0].Field)
}

func TestDescribe_EmptyBody(t *testing.T) {
	err := bind(t, ``)
	require.Error(t, err)

	fields := Describe(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "body", fields[0].Field)
}

func TestDescribe_WrongType(t *testing.T) {
	err := bind(t, `{"nombre_completo":12,"email":"ana@uninorte.edu.co","role":"jurado"}`)
	require.Error(t, err)

	fields := Describe(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "nombre_completo", fields[0].Field)
}

func TestValidBodyPasses(t *testing.T) {
	err := bind(t, `{"nombre_completo":"Ana Ruiz","email":"ana@uninorte.edu.co","role":"profesor"}`)
	assert.NoError(t, err)
}

func TestIsInstitutional(t *testing.T) {
	Register("uninorte.edu.co")

	assert.True(t, IsInstitutional("ana@uninorte.edu.co"))
	assert.True(t, IsInstitutional("ana@UNINORTE.edu.co"))
	assert.False(t, IsInstitutional("ana@gmail.com"))
	assert.False(t, IsInstitutional("ana@evil-uninorte.edu.co"))
	assert.False(t, IsInstitutional("no-at-sign"))
}

func TestStruct_UsesRegisteredTags(t *testing.T) {
	Register("uninorte.edu.co")

	type cli struct {
		Email string `json:"email" binding:"required,email,institutional_email"`
	}
	assert.NoError(t, Struct(&cli{Email: "admin@uninorte.edu.co"}))
	assert.Error(t, Struct(&cli{Email: "admin@example.com"}))
}

func TestStruct_ComparisonMessages(t *testing.T) {
	Register("uninorte.edu.co")

	type game struct {
		MaxJugadores int `json:"max_jugadores" binding:"gte=1"`
		NrcID        int `json:"nrc_id" binding:"gt=0"`
	}
	errs := Describe(Struct(&game{MaxJugadores: 0, NrcID: 0}))
	require.Len(t, errs, 2)
	assert.Equal(t, FieldError{Field: "max_jugadores", Message: "max_jugadores debe ser mayor o igual a 1"}, errs[0])
	assert.Equal(t, FieldError{Field: "nrc_id", Message: "nrc_id debe ser mayor que 0"}, errs[1])
}
