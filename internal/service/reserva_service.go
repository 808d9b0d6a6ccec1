package service

import (
	"context"
	"strings"
	"time"

	"barberia/internal/acceso"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/worker"

	"github.com/rs/zerolog/log"
)

// ReservaService serves the public booking page. Bookings from unknown e-mail
// addresses are attached to a walk-in (temporary client) record.
type ReservaService interface {
	Reservar(ctx context.Context, req dto.ReservaRequest) (*dto.ReservaResponse, error)
}

type reservaService struct {
	store *repository.Store
	citas *citaService
	ahora func() time.Time
}

func NewReservaService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink, cola worker.EmailQueue, negocio string) ReservaService {
	return &reservaService{
		store: store,
		citas: &citaService{store: store, reg: reg, sink: sink, cola: cola, negocio: negocio, ahora: time.Now},
		ahora: time.Now,
	}
}

func (s *reservaService) Reservar(ctx context.Context, req dto.ReservaRequest) (*dto.ReservaResponse, error) {
	if err := validar(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(recortar(req.Email))

	if err := s.citas.verificarAgenda(ctx, req.ServicioID, req.EmpleadoID, req.Fecha, req.Hora, 0); err != nil {
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
	temporal := false

	err := s.store.EnTransaccion(ctx, func(tx *repository.Store) error {
		cliente, err := tx.Clientes.FindByEmail(ctx, email)
		switch {
		case err == nil && cliente.Activo:
			cita.AsignarCliente(model.RefCliente(cliente.ID))
		case err == nil:
			// A walk-in with this e-mail could never be promoted.
			return conflicto("la cuenta asociada a %s esta inactiva; comuniquese con la barberia", email)
		case esNoEncontrado(err):
			t, err := s.temporalPara(ctx, tx, req, email)
			if err != nil {
				return err
			}
			cita.AsignarCliente(model.RefTemporal(t.ID))
			temporal = true
		default:
			return err
		}
		return duplicado(tx.Citas.Create(ctx, cita), "el horario ya no esta disponible")
	})
	if err != nil {
		return nil, err
	}

	creada, err := s.store.Citas.FindByID(ctx, cita.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("cita_id", creada.ID).Bool("temporal", temporal).Msg("reserva publica registrada")
	s.citas.notificar(creada, notificacion.Info, "Nueva reserva online")
	s.citas.avisarCliente(ctx, creada, "registrada")

	resp := &dto.ReservaResponse{
		CitaID:   creada.ID,
		Estado:   string(creada.Estado),
		Fecha:    creada.Fecha,
		Hora:     creada.Hora,
		Temporal: temporal,
	}
	if creada.Servicio != nil {
		resp.Servicio = creada.Servicio.Nombre
	}
	return resp, nil
}

// temporalPara reuses the pending walk-in with this e-mail or creates one.
func (s *reservaService) temporalPara(ctx context.Context, tx *repository.Store, req dto.ReservaRequest, email string) (*model.ClienteTemporal, error) {
	t, err := tx.Temporales.FindPendienteByEmail(ctx, email)
	if err == nil {
		if tel := recortarPtr(req.Telefono); tel != nil {
			t.Telefono = tel
			if err := tx.Temporales.Update(ctx, t); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
	if !esNoEncontrado(err) {
		return nil, err
	}
	t = &model.ClienteTemporal{
		Nombre:        strings.Join(strings.Fields(req.Nombre), " "),
		Email:         email,
		Telefono:      recortarPtr(req.Telefono),
		FechaRegistro: s.ahora(),
		Estado:        model.TemporalPendiente,
	}
	if err := tx.Temporales.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
