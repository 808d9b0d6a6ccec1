package service

import (
	"context"
	"unicode/utf8"

	"barberia/internal/acceso"
	"barberia/internal/busqueda"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	precioMinimo = decimal.RequireFromString("0.01")
	precioMaximo = decimal.RequireFromString("10000.00")
)

const (
	duracionMinima = 5
	duracionMaxima = 480
)

type ServicioService interface {
	Crear(ctx context.Context, actor acceso.Actor, req dto.ServicioRequest) (*dto.ServicioResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, filter dto.ServicioFilter) ([]dto.ServicioResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.ServicioResponse, error)
	Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ServicioRequest) (*dto.ServicioResponse, error)
	Eliminar(ctx context.Context, actor acceso.Actor, id uint) error
	// Publicos lists active services for the unauthenticated booking page.
	Publicos(ctx context.Context) ([]dto.ServicioResponse, error)
}

type servicioService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
	cache catalogoCache
}

func NewServicioService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink, rdb redis.Cmdable) ServicioService {
	return &servicioService{store: store, reg: reg, sink: sink, cache: catalogoCache{rdb: rdb}}
}

// ValidarServicio applies the catalogue rules: name 3 to 100 characters,
// description up to 500, price 0.01 to 10000.00 and duration 5 to 480
// minutes, all bounds inclusive.
func ValidarServicio(req dto.ServicioRequest) *ValidacionError {
	campos := map[string]string{}
	if n := utf8.RuneCountInString(recortar(req.Nombre)); n < 3 || n > 100 {
		campos["nombre"] = "debe tener entre 3 y 100 caracteres"
	}
	if req.Descripcion != nil && utf8.RuneCountInString(*req.Descripcion) > 500 {
		campos["descripcion"] = "no puede superar 500 caracteres"
	}
	if req.Precio.LessThan(precioMinimo) || req.Precio.GreaterThan(precioMaximo) {
		campos["precio"] = "debe estar entre 0.01 y 10000.00"
	}
	if req.DuracionMinutos < duracionMinima || req.DuracionMinutos > duracionMaxima {
		campos["duracion_minutos"] = "debe estar entre 5 y 480 minutos"
	}
	if req.Estado != "" && req.Estado != string(model.ServicioActivo) && req.Estado != string(model.ServicioInactivo) {
		campos["estado"] = "debe ser activo o inactivo"
	}
	if len(campos) > 0 {
		return &ValidacionError{Campos: campos}
	}
	return nil
}

// validarNombreUnico rejects a name already used by another service, ignoring case.
func (s *servicioService) validarNombreUnico(ctx context.Context, nombre string, excluirID uint) error {
	existe, err := s.store.Servicios.ExisteNombre(ctx, nombre, excluirID)
	if err != nil {
		return err
	}
	if existe {
		return invalido("nombre", "ya existe un servicio con ese nombre")
	}
	return nil
}

func (s *servicioService) Crear(ctx context.Context, actor acceso.Actor, req dto.ServicioRequest) (*dto.ServicioResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloServicios, acceso.OpCrear); err != nil {
		return nil, err
	}
	if verr := ValidarServicio(req); verr != nil {
		return nil, verr
	}
	if err := s.validarNombreUnico(ctx, req.Nombre, 0); err != nil {
		return nil, err
	}

	srv := &model.Servicio{Estado: model.ServicioActivo}
	aplicarServicio(srv, req)
	if err := s.store.Servicios.Create(ctx, srv); err != nil {
		return nil, duplicado(err, "ya existe un servicio con ese nombre")
	}
	s.cache.invalidar(ctx)
	log.Info().Uint("servicio_id", srv.ID).Str("nombre", srv.Nombre).Msg("servicio creado")
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Servicio creado: " + srv.Nombre, Severidad: notificacion.Exito, Modulo: acceso.ModuloServicios, RegistroID: srv.ID})
	return servicioToResponse(srv), nil
}

func (s *servicioService) Listar(ctx context.Context, actor acceso.Actor, filter dto.ServicioFilter) ([]dto.ServicioResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloServicios, acceso.OpLeer); err != nil {
		return nil, err
	}
	servicios, err := s.store.Servicios.List(ctx, actor.EsCliente())
	if err != nil {
		return nil, err
	}
	servicios = busqueda.Filtrar(filter.Q, servicios, func(v model.Servicio) []string {
		campos := []string{v.Nombre, string(v.Estado), v.Precio.StringFixed(2)}
		if v.Descripcion != nil {
			campos = append(campos, *v.Descripcion)
		}
		return campos
	})
	resp := make([]dto.ServicioResponse, 0, len(servicios))
	for i := range servicios {
		if filter.Estado != "" && string(servicios[i].Estado) != filter.Estado {
			continue
		}
		resp = append(resp, *servicioToResponse(&servicios[i]))
	}
	return resp, nil
}

func (s *servicioService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.ServicioResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloServicios, acceso.OpLeer); err != nil {
		return nil, err
	}
	srv, err := s.store.Servicios.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("servicio no encontrado", err)
	}
	if actor.EsCliente() && srv.Estado != model.ServicioActivo {
		return nil, errNegocio{base: ErrNoEncontrado, msg: "servicio no encontrado"}
	}
	return servicioToResponse(srv), nil
}

func (s *servicioService) Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ServicioRequest) (*dto.ServicioResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloServicios, acceso.OpActualizar); err != nil {
		return nil, err
	}
	srv, err := s.store.Servicios.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("servicio no encontrado", err)
	}
	if verr := ValidarServicio(req); verr != nil {
		return nil, verr
	}
	if err := s.validarNombreUnico(ctx, req.Nombre, srv.ID); err != nil {
		return nil, err
	}

	aplicarServicio(srv, req)
	if err := s.store.Servicios.Update(ctx, srv); err != nil {
		return nil, duplicado(err, "ya existe un servicio con ese nombre")
	}
	s.cache.invalidar(ctx)
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Servicio actualizado: " + srv.Nombre, Severidad: notificacion.Exito, Modulo: acceso.ModuloServicios, RegistroID: srv.ID})
	return servicioToResponse(srv), nil
}

func (s *servicioService) Eliminar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloServicios, acceso.OpEliminar); err != nil {
		return err
	}
	srv, err := s.store.Servicios.FindByID(ctx, id)
	if err != nil {
		return noEncontrado("servicio no encontrado", err)
	}
	n, err := s.store.Citas.ContarPorServicio(ctx, srv.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflicto("el servicio tiene %d citas asociadas; desactivelo en lugar de eliminarlo", n)
	}
	if err := s.store.Servicios.Delete(ctx, srv.ID); err != nil {
		return err
	}
	s.cache.invalidar(ctx)
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Servicio eliminado: " + srv.Nombre, Severidad: notificacion.Info, Modulo: acceso.ModuloServicios, RegistroID: srv.ID})
	return nil
}

func (s *servicioService) Publicos(ctx context.Context) ([]dto.ServicioResponse, error) {
	if resp, ok := s.cache.obtener(ctx); ok {
		return resp, nil
	}
	servicios, err := s.store.Servicios.List(ctx, true)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ServicioResponse, len(servicios))
	for i := range servicios {
		resp[i] = *servicioToResponse(&servicios[i])
	}
	s.cache.guardar(ctx, resp)
	return resp, nil
}

func aplicarServicio(srv *model.Servicio, req dto.ServicioRequest) {
	srv.Nombre = recortar(req.Nombre)
	srv.Descripcion = recortarPtr(req.Descripcion)
	srv.Precio = req.Precio.Round(2)
	srv.DuracionMinutos = req.DuracionMinutos
	if req.Estado != "" {
		srv.Estado = model.EstadoServicio(req.Estado)
	}
}

func servicioToResponse(s *model.Servicio) *dto.ServicioResponse {
	return &dto.ServicioResponse{
		ID:              s.ID,
		Nombre:          s.Nombre,
		Descripcion:     s.Descripcion,
		Precio:          s.Precio,
		DuracionMinutos: s.DuracionMinutos,
		Estado:          string(s.Estado),
	}
}
