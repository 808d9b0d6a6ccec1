package service

import (
	"context"
	"fmt"
	"strings"

	"barberia/internal/acceso"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"

	"github.com/rs/zerolog/log"
)

// RolService edits roles and keeps the in-memory registry in sync. The
// Administrador role can never be renamed, deactivated or deleted.
type RolService interface {
	Crear(ctx context.Context, actor acceso.Actor, req dto.CrearRolRequest) (*dto.RolResponse, error)
	Listar(ctx context.Context, actor acceso.Actor) ([]dto.RolResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.RolResponse, error)
	Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ActualizarRolRequest) (*dto.RolResponse, error)
	CambiarEstado(ctx context.Context, actor acceso.Actor, id uint, activo bool) (*dto.RolResponse, error)
	Eliminar(ctx context.Context, actor acceso.Actor, id uint) error
}

type rolService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
}

func NewRolService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink) RolService {
	return &rolService{store: store, reg: reg, sink: sink}
}

// SembrarRoles creates the built-in roles that do not exist yet.
func SembrarRoles(ctx context.Context, store *repository.Store) error {
	for _, def := range acceso.DefinicionesPorDefecto() {
		_, err := store.Roles.FindByNombre(ctx, def.Nombre)
		if err == nil {
			continue
		}
		if !esNoEncontrado(err) {
			return err
		}
		rol := &model.Rol{Nombre: def.Nombre, Permisos: def.Permisos, Activo: true}
		if err := store.Roles.Create(ctx, rol); err != nil {
			return err
		}
		log.Info().Str("rol", rol.Nombre).Msg("rol sembrado")
	}
	return nil
}

// CargarRegistro reloads reg from the stored roles.
func CargarRegistro(ctx context.Context, store *repository.Store, reg *acceso.Registro) error {
	roles, err := store.Roles.List(ctx)
	if err != nil {
		return err
	}
	defs := make([]acceso.DefinicionRol, len(roles))
	for i, r := range roles {
		defs[i] = r.Definicion()
	}
	reg.Recargar(defs)
	return nil
}

func (s *rolService) recargar(ctx context.Context) error {
	if err := CargarRegistro(ctx, s.store, s.reg); err != nil {
		log.Error().Err(err).Msg("no se pudo recargar el registro de roles")
		return err
	}
	return nil
}

func (s *rolService) validarNombre(ctx context.Context, nombre string, excluirID uint) error {
	if acceso.EsRolProtegido(nombre) {
		return invalido("nombre", "el nombre "+acceso.RolAdministrador+" esta reservado")
	}
	existe, err := s.store.Roles.ExisteNombre(ctx, nombre, excluirID)
	if err != nil {
		return err
	}
	if existe {
		return invalido("nombre", "ya existe un rol con ese nombre")
	}
	return nil
}

func validarPermisos(nombreRol string, p acceso.Permisos) error {
	if err := p.Validar(); err != nil {
		return invalido("permisos", err.Error())
	}
	if acceso.EsRolCliente(nombreRol) {
		if m, op, fuera := p.FueraDe(acceso.PermisosMaximosCliente); fuera {
			return invalido("permisos", fmt.Sprintf("el rol %s no puede %s en %s: solo crear/leer citas y leer servicios", acceso.RolCliente, op, m))
		}
	}
	return nil
}

func (s *rolService) Crear(ctx context.Context, actor acceso.Actor, req dto.CrearRolRequest) (*dto.RolResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloRoles, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	nombre := recortar(req.Nombre)
	if err := s.validarNombre(ctx, nombre, 0); err != nil {
		return nil, err
	}
	if err := validarPermisos(nombre, req.Permisos); err != nil {
		return nil, err
	}
	permisos := req.Permisos
	if permisos == nil {
		permisos = acceso.Permisos{}
	}

	rol := &model.Rol{Nombre: nombre, Descripcion: recortarPtr(req.Descripcion), Permisos: permisos, Activo: true}
	if err := s.store.Roles.Create(ctx, rol); err != nil {
		return nil, duplicado(err, "ya existe un rol con ese nombre")
	}
	if err := s.recargar(ctx); err != nil {
		return nil, err
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Rol creado: " + rol.Nombre, Severidad: notificacion.Exito, Modulo: acceso.ModuloRoles, RegistroID: rol.ID})
	return rolToResponse(rol), nil
}

func (s *rolService) Listar(ctx context.Context, actor acceso.Actor) ([]dto.RolResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloRoles, acceso.OpLeer); err != nil {
		return nil, err
	}
	roles, err := s.store.Roles.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RolResponse, len(roles))
	for i := range roles {
		resp[i] = *rolToResponse(&roles[i])
	}
	return resp, nil
}

func (s *rolService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.RolResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloRoles, acceso.OpLeer); err != nil {
		return nil, err
	}
	rol, err := s.store.Roles.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("rol no encontrado", err)
	}
	return rolToResponse(rol), nil
}

func (s *rolService) Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ActualizarRolRequest) (*dto.RolResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloRoles, acceso.OpActualizar); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	rol, err := s.store.Roles.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("rol no encontrado", err)
	}

	if acceso.EsRolProtegido(rol.Nombre) {
		if req.Nombre != nil && recortar(*req.Nombre) != rol.Nombre {
			return nil, ErrRolProtegido
		}
		if req.Permisos != nil {
			return nil, ErrRolProtegido
		}
	} else {
		if req.Nombre != nil {
			nombre := recortar(*req.Nombre)
			if acceso.EsRolCliente(rol.Nombre) && !acceso.EsRolCliente(nombre) {
				return nil, conflicto("el rol %s no puede renombrarse", acceso.RolCliente)
			}
			if err := s.validarNombre(ctx, nombre, rol.ID); err != nil {
				return nil, err
			}
			rol.Nombre = nombre
		}
		if req.Permisos != nil {
			if err := validarPermisos(rol.Nombre, req.Permisos); err != nil {
				return nil, err
			}
			rol.Permisos = req.Permisos
		}
	}
	if req.Descripcion != nil {
		rol.Descripcion = recortarPtr(req.Descripcion)
	}

	if err := s.store.Roles.Update(ctx, rol); err != nil {
		return nil, duplicado(err, "ya existe un rol con ese nombre")
	}
	if err := s.recargar(ctx); err != nil {
		return nil, err
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Rol actualizado: " + rol.Nombre, Severidad: notificacion.Exito, Modulo: acceso.ModuloRoles, RegistroID: rol.ID})
	return rolToResponse(rol), nil
}

func (s *rolService) CambiarEstado(ctx context.Context, actor acceso.Actor, id uint, activo bool) (*dto.RolResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloRoles, acceso.OpActualizar); err != nil {
		return nil, err
	}
	rol, err := s.store.Roles.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("rol no encontrado", err)
	}
	if acceso.EsRolProtegido(rol.Nombre) && !activo {
		return nil, ErrRolProtegido
	}
	if rol.Activo == activo {
		return rolToResponse(rol), nil
	}
	rol.Activo = activo
	if err := s.store.Roles.Update(ctx, rol); err != nil {
		return nil, err
	}
	if err := s.recargar(ctx); err != nil {
		return nil, err
	}
	estado := "activado"
	if !activo {
		estado = "desactivado"
	}
	log.Info().Uint("rol_id", rol.ID).Str("estado", estado).Msg("rol cambio de estado")
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Rol " + estado + ": " + rol.Nombre, Severidad: notificacion.Info, Modulo: acceso.ModuloRoles, RegistroID: rol.ID})
	return rolToResponse(rol), nil
}

func (s *rolService) Eliminar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloRoles, acceso.OpEliminar); err != nil {
		return err
	}
	rol, err := s.store.Roles.FindByID(ctx, id)
	if err != nil {
		return noEncontrado("rol no encontrado", err)
	}
	if acceso.EsRolProtegido(rol.Nombre) {
		return ErrRolProtegido
	}
	if acceso.EsRolCliente(rol.Nombre) {
		return conflicto("el rol %s es necesario para registrar clientes", rol.Nombre)
	}
	n, err := s.store.Roles.ContarUsuarios(ctx, rol.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflicto("el rol tiene %d usuarios asignados", n)
	}
	if err := s.store.Roles.Delete(ctx, rol.ID); err != nil {
		return err
	}
	if err := s.recargar(ctx); err != nil {
		return err
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Rol eliminado: " + rol.Nombre, Severidad: notificacion.Info, Modulo: acceso.ModuloRoles, RegistroID: rol.ID})
	return nil
}

func rolToResponse(r *model.Rol) *dto.RolResponse {
	permisos := r.Permisos
	protegido := acceso.EsRolProtegido(r.Nombre)
	if protegido {
		permisos = acceso.PermisosCompletos()
	}
	return &dto.RolResponse{
		ID:          r.ID,
		Nombre:      strings.TrimSpace(r.Nombre),
		Descripcion: r.Descripcion,
		Permisos:    permisos,
		Activo:      r.Activo,
		Protegido:   protegido,
	}
}
