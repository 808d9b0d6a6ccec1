package service

import (
	"context"
	"fmt"

	"barberia/internal/acceso"
	"barberia/internal/busqueda"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"

	"github.com/rs/zerolog/log"
)

// ClienteTemporalService manages walk-ins captured by the booking page.
type ClienteTemporalService interface {
	Listar(ctx context.Context, actor acceso.Actor, q string) ([]dto.ClienteTemporalResponse, error)
	Eliminar(ctx context.Context, actor acceso.Actor, id uint) error
	// Promover turns the walk-in into a client with a login account and moves
	// every appointment over to the new client, in one transaction.
	Promover(ctx context.Context, actor acceso.Actor, id uint, req dto.PromoverRequest) (*dto.PromocionResponse, error)
}

type clienteTemporalService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
}

func NewClienteTemporalService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink) ClienteTemporalService {
	return &clienteTemporalService{store: store, reg: reg, sink: sink}
}

func (s *clienteTemporalService) Listar(ctx context.Context, actor acceso.Actor, q string) ([]dto.ClienteTemporalResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloClientes, acceso.OpLeer); err != nil {
		return nil, err
	}
	temporales, err := s.store.Temporales.List(ctx)
	if err != nil {
		return nil, err
	}
	temporales = busqueda.Filtrar(q, temporales, func(t model.ClienteTemporal) []string {
		campos := []string{t.Nombre, t.Email, string(t.Estado)}
		if t.Telefono != nil {
			campos = append(campos, *t.Telefono)
		}
		return campos
	})

	resp := make([]dto.ClienteTemporalResponse, len(temporales))
	for i, t := range temporales {
		activas, err := s.store.Citas.ContarActivasPorTemporal(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		resp[i] = temporalToResponse(&t, activas)
	}
	return resp, nil
}

func (s *clienteTemporalService) Eliminar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloClientes, acceso.OpEliminar); err != nil {
		return err
	}
	// An appointment always points at a client, so the walk-in's closed
	// appointments go with it.
	var historial int64
	err := s.store.EnTransaccion(ctx, func(tx *repository.Store) error {
		t, err := tx.Temporales.FindByID(ctx, id)
		if err != nil {
			return noEncontrado("cliente temporal no encontrado", err)
		}
		activas, err := tx.Citas.ContarActivasPorTemporal(ctx, t.ID)
		if err != nil {
			return err
		}
		if activas > 0 {
			return conflicto("el cliente temporal tiene %d citas pendientes o confirmadas", activas)
		}
		if historial, err = tx.Citas.EliminarTerminalesPorTemporal(ctx, t.ID); err != nil {
			return err
		}
		return tx.Temporales.Delete(ctx, t.ID)
	})
	if err != nil {
		return err
	}
	log.Info().Uint("temporal_id", id).Int64("citas_eliminadas", historial).Msg("cliente temporal eliminado")
	mensaje := "Cliente temporal eliminado"
	if historial > 0 {
		mensaje = fmt.Sprintf("Cliente temporal eliminado junto con %d citas completadas o canceladas", historial)
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: mensaje, Severidad: notificacion.Info, Modulo: acceso.ModuloClientes, RegistroID: id})
	return nil
}

func (s *clienteTemporalService) Promover(ctx context.Context, actor acceso.Actor, id uint, req dto.PromoverRequest) (*dto.PromocionResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloClientes, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var (
		cliente        model.Cliente
		usuario        model.Usuario
		reasignadas    int64
		nombreTemporal string
	)
	err = s.store.EnTransaccion(ctx, func(tx *repository.Store) error {
		t, err := tx.Temporales.FindByID(ctx, id)
		if err != nil {
			return noEncontrado("cliente temporal no encontrado", err)
		}
		if t.Estado == model.TemporalRegistrado {
			return conflicto("el cliente temporal ya fue registrado")
		}
		nombreTemporal = t.Nombre

		if existe, err := tx.Clientes.ExisteEmail(ctx, t.Email, 0); err != nil {
			return err
		} else if existe {
			return conflicto("ya existe un cliente con el correo %s", t.Email)
		}
		if existe, err := tx.Usuarios.ExisteEmail(ctx, t.Email, 0); err != nil {
			return err
		} else if existe {
			return conflicto("ya existe una cuenta con el correo %s", t.Email)
		}
		documento := recortarPtr(req.Documento)
		if documento != nil {
			if existe, err := tx.Clientes.ExisteDocumento(ctx, *documento, 0); err != nil {
				return err
			} else if existe {
				return invalido("documento", "ya existe un cliente con ese documento")
			}
		}

		rol, err := tx.Roles.FindByNombre(ctx, acceso.RolCliente)
		if err != nil {
			if esNoEncontrado(err) {
				return fmt.Errorf("rol %s no configurado: %w", acceso.RolCliente, err)
			}
			return err
		}

		nombre, apellido := model.DividirNombre(t.Nombre)
		if ap := recortarPtr(req.Apellido); ap != nil {
			nombre, apellido = recortar(t.Nombre), *ap
		}
		email := t.Email
		cliente = model.Cliente{
			Nombre:    nombre,
			Apellido:  apellido,
			Documento: documento,
			Email:     &email,
			Telefono:  t.Telefono,
			Activo:    true,
		}
		if err := tx.Clientes.Create(ctx, &cliente); err != nil {
			return duplicado(err, "el cliente ya existe")
		}

		usuario = model.Usuario{
			Nombre:       recortar(t.Nombre),
			Email:        email,
			PasswordHash: hash,
			RolID:        rol.ID,
			ClienteID:    &cliente.ID,
			Activo:       true,
			Rol:          rol,
		}
		if err := tx.Usuarios.Create(ctx, &usuario); err != nil {
			return duplicado(err, "la cuenta ya existe")
		}

		if reasignadas, err = tx.Citas.ReasignarTemporal(ctx, t.ID, cliente.ID); err != nil {
			return err
		}

		t.Estado = model.TemporalRegistrado
		t.ClienteID = &cliente.ID
		return tx.Temporales.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("temporal_id", id).Uint("cliente_id", cliente.ID).Int64("citas", reasignadas).Msg("cliente temporal promovido")
	publicar(s.sink, notificacion.Mensaje{
		Mensaje:    fmt.Sprintf("%s fue registrado como cliente", nombreTemporal),
		Severidad:  notificacion.Exito,
		Modulo:     acceso.ModuloClientes,
		RegistroID: cliente.ID,
	})
	return &dto.PromocionResponse{
		Cliente:          *clienteToResponse(&cliente),
		Usuario:          usuarioToResponse(&usuario),
		CitasReasignadas: reasignadas,
	}, nil
}

func temporalToResponse(t *model.ClienteTemporal, activas int64) dto.ClienteTemporalResponse {
	return dto.ClienteTemporalResponse{
		ID:            t.ID,
		Nombre:        t.Nombre,
		Email:         t.Email,
		Telefono:      t.Telefono,
		FechaRegistro: t.FechaRegistro,
		Estado:        string(t.Estado),
		ClienteID:     t.ClienteID,
		CitasActivas:  activas,
	}
}
