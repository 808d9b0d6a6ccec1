package service_test

import (
	"testing"

	"barberia/internal/acceso"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevaCitaService(e *entorno) service.CitaService {
	return service.NewCitaService(e.store, e.reg, e.sink, nil, "Barberia Test")
}

func TestCita_ClienteSoloVeSusCitas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")
	luis := e.cliente(t, "Luis", "luis@mail.test")

	for _, c := range []*model.Cliente{ana, luis, ana} {
		_, err := svc.Crear(e.ctx, recepcionista, dto.CrearCitaRequest{
			ClienteID: uintPtr(c.ID), ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00",
		})
		require.NoError(t, err)
	}

	propias, err := svc.Listar(e.ctx, clienteActor(ana.ID, "ana@mail.test"), dto.CitaFilter{})
	require.NoError(t, err)
	assert.Len(t, propias, 2)
	for _, c := range propias {
		assert.Equal(t, ana.ID, *c.ClienteID)
		assert.Empty(t, c.Acciones)
	}

	todas, err := svc.Listar(e.ctx, barbero, dto.CitaFilter{})
	require.NoError(t, err)
	assert.Len(t, todas, 3)
}

func TestCita_ClienteSinRegistroNoVeNada(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")
	_, err := svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)

	huerfano := acceso.Actor{UsuarioID: 50, Email: "nadie@mail.test", Rol: acceso.RolCliente}
	citas, err := svc.Listar(e.ctx, huerfano, dto.CitaFilter{})
	require.NoError(t, err)
	assert.Empty(t, citas)

	_, err = svc.Crear(e.ctx, huerfano, dto.CrearCitaRequest{ServicioID: srv.ID, Fecha: "2025-11-11", Hora: "10:00"})
	assert.ErrorIs(t, err, service.ErrClienteNoEncontrado)
}

func TestCita_ClienteResueltoPorEmail(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	actor := acceso.Actor{UsuarioID: 60, Email: "ANA@mail.test", Rol: acceso.RolCliente}
	c, err := svc.Crear(e.ctx, actor, dto.CrearCitaRequest{ServicioID: srv.ID, Fecha: "2025-11-11", Hora: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, ana.ID, *c.ClienteID)
}

func TestActorConCliente_ResuelvePorEmailParaNotificaciones(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	_, err := svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: &ana.ID, ServicioID: srv.ID, Fecha: "2025-11-11", Hora: "09:00"})
	require.NoError(t, err)
	require.NotEmpty(t, e.sink.Mensajes)
	msg := e.sink.Mensajes[len(e.sink.Mensajes)-1]

	hub := notificacion.NuevoHub(e.reg, nil)
	sinVinculo := acceso.Actor{UsuarioID: 60, Email: "ANA@mail.test", Rol: acceso.RolCliente}
	assert.False(t, hub.Destinatario(sinVinculo, msg))

	actor, err := service.ActorConCliente(e.ctx, e.store, sinVinculo)
	require.NoError(t, err)
	require.NotNil(t, actor.ClienteID)
	assert.Equal(t, ana.ID, *actor.ClienteID)
	assert.True(t, hub.Destinatario(actor, msg))

	otro, err := service.ActorConCliente(e.ctx, e.store, acceso.Actor{UsuarioID: 61, Email: "nadie@mail.test", Rol: acceso.RolCliente})
	require.NoError(t, err)
	assert.Nil(t, otro.ClienteID)

	staff, err := service.ActorConCliente(e.ctx, e.store, barbero)
	require.NoError(t, err)
	assert.Equal(t, barbero, staff)
}

func TestCita_ClienteNoReservaParaOtros(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")
	luis := e.cliente(t, "Luis", "luis@mail.test")

	_, err := svc.Crear(e.ctx, clienteActor(ana.ID, "ana@mail.test"), dto.CrearCitaRequest{
		ClienteID: uintPtr(luis.ID), ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00",
	})
	assert.ErrorIs(t, err, service.ErrAccesoDenegado)
}

func TestCita_ClienteNoModifica(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")
	actor := clienteActor(ana.ID, "ana@mail.test")

	c, err := svc.Crear(e.ctx, actor, dto.CrearCitaRequest{ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)

	_, err = svc.Cancelar(e.ctx, actor, c.ID, dto.CancelarCitaRequest{})
	assert.ErrorIs(t, err, service.ErrAccesoDenegado)
	assert.ErrorIs(t, svc.Eliminar(e.ctx, actor, c.ID), service.ErrAccesoDenegado)
}

func TestCita_ObtenerCitaAjenaEsNoEncontrada(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")
	luis := e.cliente(t, "Luis", "luis@mail.test")

	c, err := svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(luis.ID), ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)

	_, err = svc.Obtener(e.ctx, clienteActor(ana.ID, "ana@mail.test"), c.ID)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestCita_CicloDeVida(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	emp := e.empleado(t, "Pedro", "10000001")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	c, err := svc.Crear(e.ctx, recepcionista, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, string(model.CitaPendiente), c.Estado)
	assert.Equal(t, []string{"editar", "confirmar", "cancelar", "eliminar"}, c.Acciones)

	_, err = svc.Completar(e.ctx, recepcionista, c.ID)
	assert.ErrorIs(t, err, model.ErrTransicionInvalida)

	c, err = svc.Confirmar(e.ctx, recepcionista, c.ID, dto.ConfirmarCitaRequest{EmpleadoID: uintPtr(emp.ID)})
	require.NoError(t, err)
	assert.Equal(t, string(model.CitaConfirmada), c.Estado)
	assert.Equal(t, emp.ID, *c.EmpleadoID)

	c, err = svc.Completar(e.ctx, recepcionista, c.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.CitaCompletada), c.Estado)
	assert.Empty(t, c.Acciones)

	_, err = svc.Cancelar(e.ctx, recepcionista, c.ID, dto.CancelarCitaRequest{Motivo: "tarde"})
	assert.ErrorIs(t, err, model.ErrTransicionInvalida)

	assert.ErrorIs(t, svc.Eliminar(e.ctx, admin, c.ID), model.ErrTransicionInvalida)
	assert.NotEmpty(t, e.sink.Mensajes)
}

func TestCita_ActualizarQuitaEmpleado(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	emp := e.empleado(t, "Pedro", "10000001")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	c, err := svc.Crear(e.ctx, recepcionista, dto.CrearCitaRequest{
		ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, EmpleadoID: uintPtr(emp.ID), Fecha: "2025-11-10", Hora: "10:00",
	})
	require.NoError(t, err)
	require.NotNil(t, c.EmpleadoID)

	_, err = svc.Actualizar(e.ctx, recepcionista, c.ID, dto.ActualizarCitaRequest{EmpleadoID: uintPtr(emp.ID), SinEmpleado: true})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "empleado_id")

	c, err = svc.Actualizar(e.ctx, recepcionista, c.ID, dto.ActualizarCitaRequest{SinEmpleado: true})
	require.NoError(t, err)
	assert.Nil(t, c.EmpleadoID)

	guardada, err := e.store.Citas.FindByID(e.ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, guardada.EmpleadoID)
	assert.Equal(t, string(model.CitaPendiente), string(guardada.Estado))
}

func TestCita_TerminalNoSeEdita(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	c, err := svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)
	_, err = svc.Cancelar(e.ctx, admin, c.ID, dto.CancelarCitaRequest{Motivo: "viaje"})
	require.NoError(t, err)

	_, err = svc.Actualizar(e.ctx, admin, c.ID, dto.ActualizarCitaRequest{Hora: strPtr("11:00")})
	assert.ErrorIs(t, err, model.ErrTransicionInvalida)
}

func TestCita_ActualizarEstadoSoloUnPaso(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	c, err := svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)

	_, err = svc.Actualizar(e.ctx, admin, c.ID, dto.ActualizarCitaRequest{Estado: strPtr("completada")})
	assert.ErrorIs(t, err, model.ErrTransicionInvalida)

	c, err = svc.Actualizar(e.ctx, admin, c.ID, dto.ActualizarCitaRequest{Estado: strPtr("confirmada")})
	require.NoError(t, err)
	assert.Equal(t, "confirmada", c.Estado)
}

func TestCita_HorarioOcupado(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")
	emp := e.empleado(t, "Pedro", "10000001")
	ana := e.cliente(t, "Ana", "ana@mail.test")
	luis := e.cliente(t, "Luis", "luis@mail.test")

	primera, err := svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: srv.ID, EmpleadoID: uintPtr(emp.ID), Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)

	_, err = svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(luis.ID), ServicioID: srv.ID, EmpleadoID: uintPtr(emp.ID), Fecha: "2025-11-10", Hora: "10:00"})
	assert.ErrorIs(t, err, service.ErrConflicto)

	// a cancelled appointment frees the slot
	_, err = svc.Cancelar(e.ctx, admin, primera.ID, dto.CancelarCitaRequest{})
	require.NoError(t, err)
	_, err = svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(luis.ID), ServicioID: srv.ID, EmpleadoID: uintPtr(emp.ID), Fecha: "2025-11-10", Hora: "10:00"})
	assert.NoError(t, err)
}

func TestCita_ExactamenteUnCliente(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	srv := e.servicio(t, "Corte clasico")

	_, err := svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00"})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "cliente_id")
}

func TestCita_ListarBusqueda(t *testing.T) {
	e := nuevoEntorno(t)
	svc := nuevaCitaService(e)
	corte := e.servicio(t, "Corte clasico")
	barba := e.servicio(t, "Perfilado de barba")
	ana := e.cliente(t, "Ana", "ana@mail.test")

	_, err := svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: corte.ID, Fecha: "2025-11-10", Hora: "10:00"})
	require.NoError(t, err)
	_, err = svc.Crear(e.ctx, admin, dto.CrearCitaRequest{ClienteID: uintPtr(ana.ID), ServicioID: barba.ID, Fecha: "2025-12-01", Hora: "15:30"})
	require.NoError(t, err)

	got, err := svc.Listar(e.ctx, admin, dto.CitaFilter{Q: "BARBA"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Perfilado de barba", got[0].Servicio)

	got, err = svc.Listar(e.ctx, admin, dto.CitaFilter{Fecha: "2025-11-10"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Listar(e.ctx, admin, dto.CitaFilter{Q: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
