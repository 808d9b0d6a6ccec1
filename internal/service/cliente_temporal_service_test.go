package service_test

import (
	"testing"

	"barberia/internal/acceso"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservar(t *testing.T, e *entorno, nombre, email string, servicioID uint, hora string) *dto.ReservaResponse {
	t.Helper()
	svc := service.NewReservaService(e.store, e.reg, e.sink, nil, "Barberia Test")
	resp, err := svc.Reservar(e.ctx, dto.ReservaRequest{
		Nombre: nombre, Email: email, ServicioID: servicioID, Fecha: "2025-11-10", Hora: hora,
	})
	require.NoError(t, err)
	return resp
}

func TestReserva_CreaYReutilizaTemporal(t *testing.T) {
	e := nuevoEntorno(t)
	srv := e.servicio(t, "Corte clasico")

	r1 := reservar(t, e, "Juan Carlos Perez", "juan@mail.test", srv.ID, "10:00")
	r2 := reservar(t, e, "Juan Carlos Perez", "JUAN@mail.test", srv.ID, "11:00")
	assert.True(t, r1.Temporal)
	assert.True(t, r2.Temporal)
	assert.Equal(t, "Corte clasico", r1.Servicio)

	temporales, err := e.store.Temporales.List(e.ctx)
	require.NoError(t, err)
	require.Len(t, temporales, 1)
	assert.Equal(t, "juan@mail.test", temporales[0].Email)
}

func TestReserva_ClienteExistente(t *testing.T) {
	e := nuevoEntorno(t)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	r := reservar(t, e, "Ana Cliente", "Ana@Mail.test", srv.ID, "10:00")
	assert.False(t, r.Temporal)

	c, err := e.store.Citas.FindByID(e.ctx, r.CitaID)
	require.NoError(t, err)
	require.NotNil(t, c.ClienteID)
	assert.Equal(t, ana.ID, *c.ClienteID)
	assert.Nil(t, c.ClienteTemporalID)
}

func TestReserva_ClienteInactivoSeRechaza(t *testing.T) {
	e := nuevoEntorno(t)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")
	ana.Activo = false
	require.NoError(t, e.store.Clientes.Update(e.ctx, ana))

	svc := service.NewReservaService(e.store, e.reg, e.sink, nil, "Barberia Test")
	_, err := svc.Reservar(e.ctx, dto.ReservaRequest{
		Nombre: "Ana Cliente", Email: "ANA@mail.test", ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00",
	})
	assert.ErrorIs(t, err, service.ErrConflicto)
	assert.ErrorContains(t, err, "inactiva")

	temporales, err := e.store.Temporales.List(e.ctx)
	require.NoError(t, err)
	assert.Empty(t, temporales, "sin temporal imposible de promover")
	citas, err := e.store.Citas.List(e.ctx)
	require.NoError(t, err)
	assert.Empty(t, citas)
}

func TestTemporal_EliminarConCitasActivas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewClienteTemporalService(e.store, e.reg, e.sink)
	citas := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")

	r := reservar(t, e, "Juan Perez", "juan@mail.test", srv.ID, "10:00")
	cita, err := e.store.Citas.FindByID(e.ctx, r.CitaID)
	require.NoError(t, err)
	temporalID := *cita.ClienteTemporalID

	lista, err := svc.Listar(e.ctx, admin, "")
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, int64(1), lista[0].CitasActivas)

	assert.ErrorIs(t, svc.Eliminar(e.ctx, admin, temporalID), service.ErrConflicto)

	_, err = citas.Cancelar(e.ctx, admin, r.CitaID, dto.CancelarCitaRequest{Motivo: "no vino"})
	require.NoError(t, err)

	require.NoError(t, svc.Eliminar(e.ctx, admin, temporalID))
	_, err = e.store.Citas.FindByID(e.ctx, r.CitaID)
	assert.Error(t, err)
	ultimo := e.sink.Mensajes[len(e.sink.Mensajes)-1]
	assert.Equal(t, "Cliente temporal eliminado junto con 1 citas completadas o canceladas", ultimo.Mensaje)
	_, err = e.store.Temporales.FindByID(e.ctx, temporalID)
	assert.Error(t, err)
}

func TestTemporal_Promover(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewClienteTemporalService(e.store, e.reg, e.sink)
	srv := e.servicio(t, "Corte clasico")

	r1 := reservar(t, e, "Juan Carlos Perez", "juan@mail.test", srv.ID, "10:00")
	reservar(t, e, "Juan Carlos Perez", "juan@mail.test", srv.ID, "11:00")
	cita, err := e.store.Citas.FindByID(e.ctx, r1.CitaID)
	require.NoError(t, err)
	temporalID := *cita.ClienteTemporalID

	resp, err := svc.Promover(e.ctx, admin, temporalID, dto.PromoverRequest{Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "Juan", resp.Cliente.Nombre)
	assert.Equal(t, "Carlos Perez", resp.Cliente.Apellido)
	assert.Equal(t, acceso.RolCliente, resp.Usuario.Rol)
	assert.Equal(t, resp.Cliente.ID, *resp.Usuario.ClienteID)
	assert.Equal(t, int64(2), resp.CitasReasignadas)

	cita, err = e.store.Citas.FindByID(e.ctx, r1.CitaID)
	require.NoError(t, err)
	assert.Nil(t, cita.ClienteTemporalID)
	assert.Equal(t, resp.Cliente.ID, *cita.ClienteID)

	tmp, err := e.store.Temporales.FindByID(e.ctx, temporalID)
	require.NoError(t, err)
	assert.Equal(t, model.TemporalRegistrado, tmp.Estado)

	_, err = svc.Promover(e.ctx, admin, temporalID, dto.PromoverRequest{Password: "secreto123"})
	assert.ErrorIs(t, err, service.ErrConflicto)
}

func TestTemporal_PromoverConApellido(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewClienteTemporalService(e.store, e.reg, e.sink)
	srv := e.servicio(t, "Corte clasico")

	r := reservar(t, e, "Maria Jose", "mj@mail.test", srv.ID, "10:00")
	cita, err := e.store.Citas.FindByID(e.ctx, r.CitaID)
	require.NoError(t, err)

	resp, err := svc.Promover(e.ctx, admin, *cita.ClienteTemporalID, dto.PromoverRequest{Apellido: strPtr("Lopez"), Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "Maria Jose", resp.Cliente.Nombre)
	assert.Equal(t, "Lopez", resp.Cliente.Apellido)
}

func TestTemporal_PromoverEmailEnUso(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewClienteTemporalService(e.store, e.reg, e.sink)
	srv := e.servicio(t, "Corte clasico")

	r := reservar(t, e, "Juan Perez", "juan@mail.test", srv.ID, "10:00")
	cita, err := e.store.Citas.FindByID(e.ctx, r.CitaID)
	require.NoError(t, err)
	// the e-mail becomes a client after the walk-in was captured
	e.cliente(t, "Juan", "juan@mail.test")

	_, err = svc.Promover(e.ctx, admin, *cita.ClienteTemporalID, dto.PromoverRequest{Password: "secreto123"})
	assert.ErrorIs(t, err, service.ErrConflicto)
}

func TestTemporal_RegistradoNoRecibeCitas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewClienteTemporalService(e.store, e.reg, e.sink)
	srv := e.servicio(t, "Corte clasico")

	r := reservar(t, e, "Juan Perez", "juan@mail.test", srv.ID, "10:00")
	cita, err := e.store.Citas.FindByID(e.ctx, r.CitaID)
	require.NoError(t, err)
	temporalID := *cita.ClienteTemporalID
	_, err = svc.Promover(e.ctx, admin, temporalID, dto.PromoverRequest{Password: "secreto123"})
	require.NoError(t, err)

	_, err = nuevaCitaService(e).Crear(e.ctx, admin, dto.CrearCitaRequest{
		ClienteTemporalID: uintPtr(temporalID), ServicioID: srv.ID, Fecha: "2025-11-12", Hora: "10:00",
	})
	assert.ErrorIs(t, err, service.ErrConflicto)
}
