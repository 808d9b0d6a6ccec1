package validacion_test

import (
	"testing"

	"barberia/internal/validacion"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEsNombrePersona(t *testing.T) {
	for _, ok := range []string{"Ana", "José María", "O'Neil", "Núñez-Peña"} {
		assert.True(t, validacion.EsNombrePersona(ok), ok)
	}
	for _, bad := range []string{"", "A", "Ana3", "Ana  Paz", "-Ana"} {
		assert.False(t, validacion.EsNombrePersona(bad), bad)
	}
}

func TestEsTelefono(t *testing.T) {
	assert.True(t, validacion.EsTelefono("+57 300-123-4567"))
	assert.True(t, validacion.EsTelefono("6011234"))
	assert.False(t, validacion.EsTelefono("123"))
	assert.False(t, validacion.EsTelefono("abc1234567"))
}

func TestEsFechaYHora(t *testing.T) {
	assert.True(t, validacion.EsFecha("2025-11-10"))
	assert.False(t, validacion.EsFecha("10/11/2025"))
	assert.True(t, validacion.EsHora("23:59"))
	assert.False(t, validacion.EsHora("24:00"))
	assert.False(t, validacion.EsHora("9:00"))
}

type solicitud struct {
	Nombre string          `json:"nombre" validate:"required,nombre_persona"`
	Precio decimal.Decimal `json:"precio" validate:"gte=0.01,lte=10000"`
	Fecha  string          `json:"fecha" validate:"required,fecha"`
}

func TestStruct_CamposConNombreJSON(t *testing.T) {
	err := validacion.Struct(solicitud{Nombre: "X1", Precio: decimal.Zero, Fecha: "ayer"})
	require.Error(t, err)

	campos := validacion.Campos(err)
	assert.Contains(t, campos, "nombre")
	assert.Contains(t, campos, "precio")
	assert.Contains(t, campos, "fecha")
}

func TestStruct_Valido(t *testing.T) {
	assert.NoError(t, validacion.Struct(solicitud{Nombre: "Ana", Precio: decimal.RequireFromString("10000.00"), Fecha: "2025-01-31"}))
}
