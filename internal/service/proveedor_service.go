package service

import (
	"context"

	"barberia/internal/acceso"
	"barberia/internal/busqueda"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
)

type ProveedorService interface {
	Crear(ctx context.Context, actor acceso.Actor, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, q string, incluirInactivos bool) ([]dto.ProveedorResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	Desactivar(ctx context.Context, actor acceso.Actor, id uint) error
	Reactivar(ctx context.Context, actor acceso.Actor, id uint) error
}

type proveedorService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
}

func NewProveedorService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink) ProveedorService {
	return &proveedorService{store: store, reg: reg, sink: sink}
}

func aplicarProveedor(p *model.Proveedor, req dto.ProveedorRequest) {
	p.RazonSocial = recortar(req.RazonSocial)
	p.NIT = recortar(req.NIT)
	p.Contacto = recortarPtr(req.Contacto)
	p.Telefono = recortarPtr(req.Telefono)
	p.Email = emailPtr(req.Email)
	p.Direccion = recortarPtr(req.Direccion)
}

func (s *proveedorService) Crear(ctx context.Context, actor acceso.Actor, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloProveedores, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	p := &model.Proveedor{Activo: true}
	aplicarProveedor(p, req)
	if existe, err := s.store.Proveedores.ExisteNIT(ctx, p.NIT, 0); err != nil {
		return nil, err
	} else if existe {
		return nil, invalido("nit", "ya existe un proveedor con ese NIT")
	}
	if err := s.store.Proveedores.Create(ctx, p); err != nil {
		return nil, duplicado(err, "el proveedor ya existe")
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Proveedor creado: " + p.RazonSocial, Severidad: notificacion.Exito, Modulo: acceso.ModuloProveedores, RegistroID: p.ID})
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, actor acceso.Actor, q string, incluirInactivos bool) ([]dto.ProveedorResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloProveedores, acceso.OpLeer); err != nil {
		return nil, err
	}
	proveedores, err := s.store.Proveedores.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	proveedores = busqueda.Filtrar(q, proveedores, func(p model.Proveedor) []string {
		return []string{p.RazonSocial, p.NIT, deref(p.Contacto), deref(p.Email)}
	})
	resp := make([]dto.ProveedorResponse, len(proveedores))
	for i := range proveedores {
		resp[i] = *proveedorToResponse(&proveedores[i])
	}
	return resp, nil
}

func (s *proveedorService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.ProveedorResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloProveedores, acceso.OpLeer); err != nil {
		return nil, err
	}
	p, err := s.store.Proveedores.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("proveedor no encontrado", err)
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloProveedores, acceso.OpActualizar); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	p, err := s.store.Proveedores.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("proveedor no encontrado", err)
	}
	aplicarProveedor(p, req)
	if existe, err := s.store.Proveedores.ExisteNIT(ctx, p.NIT, p.ID); err != nil {
		return nil, err
	} else if existe {
		return nil, invalido("nit", "ya existe un proveedor con ese NIT")
	}
	if err := s.store.Proveedores.Update(ctx, p); err != nil {
		return nil, duplicado(err, "el proveedor ya existe")
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Proveedor actualizado: " + p.RazonSocial, Severidad: notificacion.Exito, Modulo: acceso.ModuloProveedores, RegistroID: p.ID})
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Desactivar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloProveedores, acceso.OpEliminar); err != nil {
		return err
	}
	p, err := s.store.Proveedores.FindByID(ctx, id)
	if err != nil {
		return noEncontrado("proveedor no encontrado", err)
	}
	if err := s.store.Proveedores.SoftDelete(ctx, p.ID); err != nil {
		return err
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Proveedor desactivado: " + p.RazonSocial, Severidad: notificacion.Info, Modulo: acceso.ModuloProveedores, RegistroID: p.ID})
	return nil
}

func (s *proveedorService) Reactivar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloProveedores, acceso.OpActualizar); err != nil {
		return err
	}
	if _, err := s.store.Proveedores.FindByID(ctx, id); err != nil {
		return noEncontrado("proveedor no encontrado", err)
	}
	return s.store.Proveedores.Reactivar(ctx, id)
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:          p.ID,
		RazonSocial: p.RazonSocial,
		NIT:         p.NIT,
		Contacto:    p.Contacto,
		Telefono:    p.Telefono,
		Email:       p.Email,
		Direccion:   p.Direccion,
		Activo:      p.Activo,
	}
}
