package service_test

import (
	"testing"

	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCliente_UnicosSinDistinguirMayusculas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewClienteService(e.store, e.reg, e.sink)

	c, err := svc.Crear(e.ctx, recepcionista, dto.ClienteRequest{Nombre: "Ana", Apellido: "Ruiz", Email: strPtr("Ana@Mail.test")})
	require.NoError(t, err)
	assert.Equal(t, "ana@mail.test", *c.Email)

	_, err = svc.Crear(e.ctx, recepcionista, dto.ClienteRequest{Nombre: "Otra", Email: strPtr("ANA@mail.test")})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "email")

	// updating a record with its own e-mail is not a duplicate
	_, err = svc.Actualizar(e.ctx, recepcionista, c.ID, dto.ClienteRequest{Nombre: "Ana Maria", Apellido: "Ruiz", Email: strPtr("ana@mail.test")})
	assert.NoError(t, err)
}

func TestCliente_ValidacionDeCampos(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewClienteService(e.store, e.reg, e.sink)

	_, err := svc.Crear(e.ctx, admin, dto.ClienteRequest{Nombre: "Ana3", Telefono: strPtr("12")})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "nombre")
	assert.Contains(t, verr.Campos, "telefono")
}

func TestCliente_EliminarConCitas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewClienteService(e.store, e.reg, e.sink)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")
	luis := e.cliente(t, "Luis", "luis@mail.test")

	_, err := nuevaCitaService(e).Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Eliminar(e.ctx, admin, ana.ID), service.ErrConflicto)
	assert.ErrorIs(t, svc.Eliminar(e.ctx, barbero, luis.ID), service.ErrAccesoDenegado)
	require.NoError(t, svc.Eliminar(e.ctx, recepcionista, luis.ID))

	lista, err := svc.Listar(e.ctx, barbero, "")
	require.NoError(t, err)
	assert.Len(t, lista, 1)
}

func TestEmpleado_DesactivarConCitasActivas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewEmpleadoService(e.store, e.reg, e.sink)
	citas := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	emp, err := svc.Crear(e.ctx, admin, dto.EmpleadoRequest{Nombre: "Pedro", Apellido: "Gomez", Documento: "10000001"})
	require.NoError(t, err)

	c, err := citas.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, EmpleadoID: uintPtr(emp.ID), Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Desactivar(e.ctx, admin, emp.ID), service.ErrConflicto)

	_, err = citas.Cancelar(e.ctx, admin, c.ID, dto.CancelarCitaRequest{})
	require.NoError(t, err)
	require.NoError(t, svc.Desactivar(e.ctx, admin, emp.ID))

	activos, err := svc.Listar(e.ctx, admin, "", false)
	require.NoError(t, err)
	assert.Empty(t, activos)

	_, err = citas.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, EmpleadoID: uintPtr(emp.ID), Fecha: "2025-11-11", Hora: "10:00"})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "empleado_id")
}

func TestEmpleado_DocumentoUnico(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewEmpleadoService(e.store, e.reg, e.sink)

	_, err := svc.Crear(e.ctx, admin, dto.EmpleadoRequest{Nombre: "Pedro", Apellido: "Gomez", Documento: "ABC12345"})
	require.NoError(t, err)
	_, err = svc.Crear(e.ctx, admin, dto.EmpleadoRequest{Nombre: "Juan", Apellido: "Diaz", Documento: "abc12345"})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "documento")
}
