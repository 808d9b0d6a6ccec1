package service

import (
	"context"
	"fmt"
	"time"

	"barberia/internal/acceso"
	"barberia/internal/busqueda"
	"barberia/internal/dto"
	"barberia/internal/metrics"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/worker"

	"github.com/rs/zerolog/log"
)

type CitaService interface {
	Crear(ctx context.Context, actor acceso.Actor, req dto.CrearCitaRequest) (*dto.CitaResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, filter dto.CitaFilter) ([]dto.CitaResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.CitaResponse, error)
	Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ActualizarCitaRequest) (*dto.CitaResponse, error)
	Confirmar(ctx context.Context, actor acceso.Actor, id uint, req dto.ConfirmarCitaRequest) (*dto.CitaResponse, error)
	Completar(ctx context.Context, actor acceso.Actor, id uint) (*dto.CitaResponse, error)
	Cancelar(ctx context.Context, actor acceso.Actor, id uint, req dto.CancelarCitaRequest) (*dto.CitaResponse, error)
	Eliminar(ctx context.Context, actor acceso.Actor, id uint) error
}

type citaService struct {
	store   *repository.Store
	reg     *acceso.Registro
	sink    notificacion.Sink
	cola    worker.EmailQueue
	negocio string
	ahora   func() time.Time
}

func NewCitaService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink, cola worker.EmailQueue, negocio string) CitaService {
	return &citaService{store: store, reg: reg, sink: sink, cola: cola, negocio: negocio, ahora: time.Now}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *citaService) Crear(ctx context.Context, actor acceso.Actor, req dto.CrearCitaRequest) (*dto.CitaResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloCitas, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}

	ref, err := s.referenciaCliente(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	if err := s.verificarAgenda(ctx, req.ServicioID, req.EmpleadoID, req.Fecha, req.Hora, 0); err != nil {
		return nil, err
	}

	cita := &model.Cita{
		ServicioID: req.ServicioID,
		EmpleadoID: req.EmpleadoID,
		Fecha:      req.Fecha,
		Hora:       req.Hora,
		Estado:     model.CitaPendiente,
		Notas:      recortarPtr(req.Notas),
	}
	cita.AsignarCliente(ref)
	if err := s.store.Citas.Create(ctx, cita); err != nil {
		return nil, duplicado(err, "el empleado ya tiene una cita en ese horario")
	}

	creada, err := s.store.Citas.FindByID(ctx, cita.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("cita_id", creada.ID).Str("cliente", ref.String()).Str("fecha", creada.Fecha).Msg("cita creada")
	s.notificar(creada, notificacion.Exito, "Cita registrada")
	s.avisarCliente(ctx, creada, "registrada")
	return s.respuesta(actor, creada), nil
}

// referenciaCliente decides who the new appointment belongs to. Client actors
// may only book for themselves.
func (s *citaService) referenciaCliente(ctx context.Context, actor acceso.Actor, req dto.CrearCitaRequest) (model.ClienteRef, error) {
	if actor.EsCliente() {
		propio, err := resolverCliente(ctx, s.store, actor)
		if err != nil {
			return model.ClienteRef{}, err
		}
		if propio == nil {
			return model.ClienteRef{}, ErrClienteNoEncontrado
		}
		if req.ClienteTemporalID != nil || (req.ClienteID != nil && *req.ClienteID != *propio) {
			return model.ClienteRef{}, denegado("solo puede reservar citas para usted")
		}
		return model.RefCliente(*propio), nil
	}

	switch {
	case req.ClienteID != nil && req.ClienteTemporalID == nil:
		c, err := s.store.Clientes.FindByID(ctx, *req.ClienteID)
		if err != nil {
			if esNoEncontrado(err) {
				return model.ClienteRef{}, invalido("cliente_id", "el cliente no existe")
			}
			return model.ClienteRef{}, err
		}
		if !c.Activo {
			return model.ClienteRef{}, invalido("cliente_id", "el cliente esta inactivo")
		}
		return model.RefCliente(c.ID), nil
	case req.ClienteTemporalID != nil && req.ClienteID == nil:
		t, err := s.store.Temporales.FindByID(ctx, *req.ClienteTemporalID)
		if err != nil {
			if esNoEncontrado(err) {
				return model.ClienteRef{}, invalido("cliente_temporal_id", "el cliente temporal no existe")
			}
			return model.ClienteRef{}, err
		}
		if t.Estado == model.TemporalRegistrado {
			return model.ClienteRef{}, conflicto("el cliente temporal ya fue registrado como cliente")
		}
		return model.RefTemporal(t.ID), nil
	}
	return model.ClienteRef{}, invalido("cliente_id", "indique exactamente un cliente o un cliente temporal")
}

// verificarAgenda checks the service, the employee and the slot.
func (s *citaService) verificarAgenda(ctx context.Context, servicioID uint, empleadoID *uint, fecha, hora string, excluirID uint) error {
	srv, err := s.store.Servicios.FindByID(ctx, servicioID)
	if err != nil {
		if esNoEncontrado(err) {
			return invalido("servicio_id", "el servicio no existe")
		}
		return err
	}
	if srv.Estado != model.ServicioActivo {
		return invalido("servicio_id", "el servicio esta inactivo")
	}
	if empleadoID == nil {
		return nil
	}
	emp, err := s.store.Empleados.FindByID(ctx, *empleadoID)
	if err != nil {
		if esNoEncontrado(err) {
			return invalido("empleado_id", "el empleado no existe")
		}
		return err
	}
	if !emp.Activo {
		return invalido("empleado_id", "el empleado esta inactivo")
	}
	ocupado, err := s.store.Citas.HorarioOcupado(ctx, *empleadoID, fecha, hora, excluirID)
	if err != nil {
		return err
	}
	if ocupado {
		return conflicto("%s ya tiene una cita el %s a las %s", emp.NombreCompleto(), fecha, hora)
	}
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *citaService) Listar(ctx context.Context, actor acceso.Actor, filter dto.CitaFilter) ([]dto.CitaResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloCitas, acceso.OpLeer); err != nil {
		return nil, err
	}
	todas, err := s.store.Citas.List(ctx)
	if err != nil {
		return nil, err
	}
	visibles, err := s.visibles(ctx, actor, todas)
	if err != nil {
		return nil, err
	}

	filtradas := make([]model.Cita, 0, len(visibles))
	for _, c := range visibles {
		if filter.Estado != "" && string(c.Estado) != filter.Estado {
			continue
		}
		if filter.Fecha != "" && c.Fecha != filter.Fecha {
			continue
		}
		filtradas = append(filtradas, c)
	}
	filtradas = busqueda.Filtrar(filter.Q, filtradas, func(c model.Cita) []string {
		return vistaCita(&c).Campos()
	})

	resp := make([]dto.CitaResponse, len(filtradas))
	for i := range filtradas {
		resp[i] = *s.respuesta(actor, &filtradas[i])
	}
	return resp, nil
}

func (s *citaService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.CitaResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloCitas, acceso.OpLeer); err != nil {
		return nil, err
	}
	c, err := s.store.Citas.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("cita no encontrada", err)
	}
	visibles, err := s.visibles(ctx, actor, []model.Cita{*c})
	if err != nil {
		return nil, err
	}
	if len(visibles) == 0 {
		// another client's appointment is reported as missing
		return nil, errNegocio{base: ErrNoEncontrado, msg: "cita no encontrada"}
	}
	return s.respuesta(actor, c), nil
}

func (s *citaService) visibles(ctx context.Context, actor acceso.Actor, citas []model.Cita) ([]model.Cita, error) {
	var clienteID *uint
	if actor.EsCliente() {
		var err error
		if clienteID, err = resolverCliente(ctx, s.store, actor); err != nil {
			return nil, err
		}
	}
	return acceso.Visibles(actor, clienteID, citas, duenioCita), nil
}

func duenioCita(c model.Cita) (uint, bool) {
	if c.ClienteID == nil {
		return 0, false
	}
	return *c.ClienteID, true
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// cargarMutable loads an appointment for a staff mutation requiring op.
func (s *citaService) cargarMutable(ctx context.Context, actor acceso.Actor, id uint, op acceso.Operacion) (*model.Cita, error) {
	if actor.EsCliente() {
		return nil, denegado("los clientes no pueden modificar citas")
	}
	if err := autorizar(s.reg, actor, acceso.ModuloCitas, op); err != nil {
		return nil, err
	}
	c, err := s.store.Citas.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("cita no encontrada", err)
	}
	return c, nil
}

func (s *citaService) Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ActualizarCitaRequest) (*dto.CitaResponse, error) {
	c, err := s.cargarMutable(ctx, actor, id, acceso.OpActualizar)
	if err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	if c.Estado.EsTerminal() {
		return nil, fmt.Errorf("%w: la cita esta %s", model.ErrTransicionInvalida, c.Estado)
	}

	if req.ServicioID != nil {
		c.ServicioID = *req.ServicioID
	}
	switch {
	case req.SinEmpleado && req.EmpleadoID != nil:
		return nil, invalido("empleado_id", "no se puede asignar y quitar el empleado a la vez")
	case req.SinEmpleado:
		c.EmpleadoID, c.Empleado = nil, nil
	case req.EmpleadoID != nil:
		c.EmpleadoID = req.EmpleadoID
	}
	if req.Fecha != nil {
		c.Fecha = *req.Fecha
	}
	if req.Hora != nil {
		c.Hora = *req.Hora
	}
	if req.Notas != nil {
		c.Notas = recortarPtr(req.Notas)
	}
	if req.ServicioID != nil || req.EmpleadoID != nil || req.SinEmpleado || req.Fecha != nil || req.Hora != nil {
		if err := s.verificarAgenda(ctx, c.ServicioID, c.EmpleadoID, c.Fecha, c.Hora, c.ID); err != nil {
			return nil, err
		}
	}

	transicion := false
	if req.Estado != nil && model.EstadoCita(*req.Estado) != c.Estado {
		accion, ok := c.Estado.AccionHacia(model.EstadoCita(*req.Estado))
		if !ok {
			return nil, fmt.Errorf("%w: no se puede pasar de %s a %s", model.ErrTransicionInvalida, c.Estado, *req.Estado)
		}
		if err := c.Transicionar(accion, s.ahora()); err != nil {
			return nil, err
		}
		transicion = true
	}

	if err := s.guardar(ctx, c); err != nil {
		return nil, err
	}
	if transicion {
		return s.trasTransicion(ctx, actor, c.ID)
	}
	act, err := s.store.Citas.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	s.notificar(act, notificacion.Info, "Cita actualizada")
	return s.respuesta(actor, act), nil
}

func (s *citaService) Confirmar(ctx context.Context, actor acceso.Actor, id uint, req dto.ConfirmarCitaRequest) (*dto.CitaResponse, error) {
	c, err := s.cargarMutable(ctx, actor, id, acceso.OpActualizar)
	if err != nil {
		return nil, err
	}
	if req.EmpleadoID != nil && (c.EmpleadoID == nil || *c.EmpleadoID != *req.EmpleadoID) {
		if err := s.verificarAgenda(ctx, c.ServicioID, req.EmpleadoID, c.Fecha, c.Hora, c.ID); err != nil {
			return nil, err
		}
		c.EmpleadoID = req.EmpleadoID
	}
	return s.transicionar(ctx, actor, c, model.AccionConfirmar)
}

func (s *citaService) Completar(ctx context.Context, actor acceso.Actor, id uint) (*dto.CitaResponse, error) {
	c, err := s.cargarMutable(ctx, actor, id, acceso.OpActualizar)
	if err != nil {
		return nil, err
	}
	return s.transicionar(ctx, actor, c, model.AccionCompletar)
}

func (s *citaService) Cancelar(ctx context.Context, actor acceso.Actor, id uint, req dto.CancelarCitaRequest) (*dto.CitaResponse, error) {
	c, err := s.cargarMutable(ctx, actor, id, acceso.OpActualizar)
	if err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	c.MotivoCancelacion = recortarPtr(&req.Motivo)
	return s.transicionar(ctx, actor, c, model.AccionCancelar)
}

func (s *citaService) transicionar(ctx context.Context, actor acceso.Actor, c *model.Cita, accion model.AccionCita) (*dto.CitaResponse, error) {
	if err := c.Transicionar(accion, s.ahora()); err != nil {
		return nil, err
	}
	if err := s.guardar(ctx, c); err != nil {
		return nil, err
	}
	return s.trasTransicion(ctx, actor, c.ID)
}

func (s *citaService) guardar(ctx context.Context, c *model.Cita) error {
	return duplicado(s.store.Citas.Update(ctx, c), "el empleado ya tiene una cita en ese horario")
}

func (s *citaService) trasTransicion(ctx context.Context, actor acceso.Actor, id uint) (*dto.CitaResponse, error) {
	c, err := s.store.Citas.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.ObserveTransicion(string(c.Estado))
	log.Info().Uint("cita_id", c.ID).Str("estado", string(c.Estado)).Uint("usuario_id", actor.UsuarioID).Msg("cita transicionada")
	s.notificar(c, notificacion.Exito, "Cita "+string(c.Estado))
	s.avisarCliente(ctx, c, string(c.Estado))
	return s.respuesta(actor, c), nil
}

func (s *citaService) Eliminar(ctx context.Context, actor acceso.Actor, id uint) error {
	c, err := s.cargarMutable(ctx, actor, id, acceso.OpEliminar)
	if err != nil {
		return err
	}
	if c.Estado.EsTerminal() {
		return fmt.Errorf("%w: una cita %s no puede eliminarse", model.ErrTransicionInvalida, c.Estado)
	}
	if err := s.store.Citas.Delete(ctx, c.ID); err != nil {
		return err
	}
	log.Info().Uint("cita_id", c.ID).Uint("usuario_id", actor.UsuarioID).Msg("cita eliminada")
	s.notificar(c, notificacion.Info, "Cita eliminada")
	return nil
}

// ── Salida ────────────────────────────────────────────────────────────────────

func (s *citaService) notificar(c *model.Cita, sev notificacion.Severidad, msg string) {
	publicar(s.sink, notificacion.Mensaje{
		Mensaje:    fmt.Sprintf("%s (#%d)", msg, c.ID),
		Severidad:  sev,
		Modulo:     acceso.ModuloCitas,
		RegistroID: c.ID,
		ClienteID:  c.ClienteID,
	})
}

func (s *citaService) avisarCliente(ctx context.Context, c *model.Cita, estado string) {
	nombre, email := c.Contacto()
	if email == "" {
		return
	}
	servicio := ""
	if c.Servicio != nil {
		servicio = c.Servicio.Nombre
	}
	encolarEmail(ctx, s.cola, worker.EmailJobPayload{
		ToEmail: email,
		Subject: fmt.Sprintf("%s: su cita fue %s", s.negocio, estado),
		Body: fmt.Sprintf("Hola %s,\n\nSu cita de %s del %s a las %s fue %s.\n\n%s",
			nombre, servicio, c.Fecha, c.Hora, estado, s.negocio),
	})
}

// acciones lists what actor may do with c right now.
func (s *citaService) acciones(actor acceso.Actor, c *model.Cita) []string {
	out := []string{}
	if actor.EsCliente() || c.Estado.EsTerminal() {
		return out
	}
	if s.reg.Permite(actor.Rol, acceso.ModuloCitas, acceso.OpActualizar) {
		out = append(out, "editar")
		for _, a := range []model.AccionCita{model.AccionConfirmar, model.AccionCompletar, model.AccionCancelar} {
			if _, err := c.Estado.Aplicar(a); err == nil {
				out = append(out, string(a))
			}
		}
	}
	if s.reg.Permite(actor.Rol, acceso.ModuloCitas, acceso.OpEliminar) {
		out = append(out, "eliminar")
	}
	return out
}

func (s *citaService) respuesta(actor acceso.Actor, c *model.Cita) *dto.CitaResponse {
	v := vistaCita(c)
	return &dto.CitaResponse{
		ID:                c.ID,
		ClienteID:         c.ClienteID,
		ClienteTemporalID: c.ClienteTemporalID,
		Cliente:           v.Cliente,
		ServicioID:        c.ServicioID,
		Servicio:          v.Servicio,
		EmpleadoID:        c.EmpleadoID,
		Empleado:          v.Empleado,
		Fecha:             c.Fecha,
		Hora:              c.Hora,
		Estado:            string(c.Estado),
		Notas:             c.Notas,
		MotivoCancelacion: c.MotivoCancelacion,
		Acciones:          s.acciones(actor, c),
	}
}

func vistaCita(c *model.Cita) busqueda.CitaVista {
	v := busqueda.CitaVista{
		ID:     c.ID,
		Fecha:  c.Fecha,
		Hora:   c.Hora,
		Estado: string(c.Estado),
	}
	v.Cliente, _ = c.Contacto()
	if c.Servicio != nil {
		v.Servicio = c.Servicio.Nombre
	}
	if c.Empleado != nil {
		v.Empleado = c.Empleado.NombreCompleto()
	}
	if c.Notas != nil {
		v.Notas = *c.Notas
	}
	return v
}
