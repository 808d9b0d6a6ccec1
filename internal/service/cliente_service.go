package service

import (
	"context"
	"strings"

	"barberia/internal/acceso"
	"barberia/internal/busqueda"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
)

type ClienteService interface {
	Crear(ctx context.Context, actor acceso.Actor, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, q string) ([]dto.ClienteResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.ClienteResponse, error)
	Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, actor acceso.Actor, id uint) error
}

type clienteService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
}

func NewClienteService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink) ClienteService {
	return &clienteService{store: store, reg: reg, sink: sink}
}

func (s *clienteService) validarUnicos(ctx context.Context, documento, email *string, excluirID uint) error {
	if documento != nil {
		if existe, err := s.store.Clientes.ExisteDocumento(ctx, *documento, excluirID); err != nil {
			return err
		} else if existe {
			return invalido("documento", "ya existe un cliente con ese documento")
		}
	}
	if email != nil {
		if existe, err := s.store.Clientes.ExisteEmail(ctx, *email, excluirID); err != nil {
			return err
		} else if existe {
			return invalido("email", "ya existe un cliente con ese correo")
		}
	}
	return nil
}

func aplicarCliente(c *model.Cliente, req dto.ClienteRequest) {
	c.Nombre = recortar(req.Nombre)
	c.Apellido = recortar(req.Apellido)
	c.Documento = recortarPtr(req.Documento)
	c.Email = emailPtr(req.Email)
	c.Telefono = recortarPtr(req.Telefono)
	c.Direccion = recortarPtr(req.Direccion)
}

func emailPtr(s *string) *string {
	v := recortarPtr(s)
	if v == nil {
		return nil
	}
	lower := strings.ToLower(*v)
	return &lower
}

func (s *clienteService) Crear(ctx context.Context, actor acceso.Actor, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloClientes, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	c := &model.Cliente{Activo: true}
	aplicarCliente(c, req)
	if err := s.validarUnicos(ctx, c.Documento, c.Email, 0); err != nil {
		return nil, err
	}
	if err := s.store.Clientes.Create(ctx, c); err != nil {
		return nil, duplicado(err, "el cliente ya existe")
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Cliente creado: " + c.NombreCompleto(), Severidad: notificacion.Exito, Modulo: acceso.ModuloClientes, RegistroID: c.ID})
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, actor acceso.Actor, q string) ([]dto.ClienteResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloClientes, acceso.OpLeer); err != nil {
		return nil, err
	}
	clientes, err := s.store.Clientes.List(ctx)
	if err != nil {
		return nil, err
	}
	clientes = busqueda.Filtrar(q, clientes, func(c model.Cliente) []string {
		return []string{c.NombreCompleto(), deref(c.Documento), deref(c.Email), deref(c.Telefono)}
	})
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = *clienteToResponse(&clientes[i])
	}
	return resp, nil
}

func (s *clienteService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.ClienteResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloClientes, acceso.OpLeer); err != nil {
		return nil, err
	}
	c, err := s.store.Clientes.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("cliente no encontrado", err)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloClientes, acceso.OpActualizar); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	c, err := s.store.Clientes.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("cliente no encontrado", err)
	}
	aplicarCliente(c, req)
	if err := s.validarUnicos(ctx, c.Documento, c.Email, c.ID); err != nil {
		return nil, err
	}
	if err := s.store.Clientes.Update(ctx, c); err != nil {
		return nil, duplicado(err, "el cliente ya existe")
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Cliente actualizado: " + c.NombreCompleto(), Severidad: notificacion.Exito, Modulo: acceso.ModuloClientes, RegistroID: c.ID})
	return clienteToResponse(c), nil
}

func (s *clienteService) Eliminar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloClientes, acceso.OpEliminar); err != nil {
		return err
	}
	c, err := s.store.Clientes.FindByID(ctx, id)
	if err != nil {
		return noEncontrado("cliente no encontrado", err)
	}
	n, err := s.store.Clientes.ContarCitas(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflicto("el cliente tiene %d citas registradas", n)
	}
	if err := s.store.Clientes.Delete(ctx, c.ID); err != nil {
		return err
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Cliente eliminado: " + c.NombreCompleto(), Severidad: notificacion.Info, Modulo: acceso.ModuloClientes, RegistroID: c.ID})
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:        c.ID,
		Nombre:    c.Nombre,
		Apellido:  c.Apellido,
		Documento: c.Documento,
		Email:     c.Email,
		Telefono:  c.Telefono,
		Direccion: c.Direccion,
		Activo:    c.Activo,
	}
}
