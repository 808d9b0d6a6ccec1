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

type EmpleadoService interface {
	Crear(ctx context.Context, actor acceso.Actor, req dto.EmpleadoRequest) (*dto.EmpleadoResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, q string, incluirInactivos bool) ([]dto.EmpleadoResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.EmpleadoResponse, error)
	Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.EmpleadoRequest) (*dto.EmpleadoResponse, error)
	// Desactivar is rejected while the employee holds pending or confirmed appointments.
	Desactivar(ctx context.Context, actor acceso.Actor, id uint) error
	Reactivar(ctx context.Context, actor acceso.Actor, id uint) error
}

type empleadoService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
}

func NewEmpleadoService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink) EmpleadoService {
	return &empleadoService{store: store, reg: reg, sink: sink}
}

func (s *empleadoService) validarUnicos(ctx context.Context, e *model.Empleado) error {
	if existe, err := s.store.Empleados.ExisteDocumento(ctx, e.Documento, e.ID); err != nil {
		return err
	} else if existe {
		return invalido("documento", "ya existe un empleado con ese documento")
	}
	if e.Email != nil {
		if existe, err := s.store.Empleados.ExisteEmail(ctx, *e.Email, e.ID); err != nil {
			return err
		} else if existe {
			return invalido("email", "ya existe un empleado con ese correo")
		}
	}
	return nil
}

func aplicarEmpleado(e *model.Empleado, req dto.EmpleadoRequest) {
	e.Nombre = recortar(req.Nombre)
	e.Apellido = recortar(req.Apellido)
	e.Documento = recortar(req.Documento)
	e.Email = emailPtr(req.Email)
	e.Telefono = recortarPtr(req.Telefono)
	e.Especialidad = recortarPtr(req.Especialidad)
}

func (s *empleadoService) Crear(ctx context.Context, actor acceso.Actor, req dto.EmpleadoRequest) (*dto.EmpleadoResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloEmpleados, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	e := &model.Empleado{Activo: true}
	aplicarEmpleado(e, req)
	if err := s.validarUnicos(ctx, e); err != nil {
		return nil, err
	}
	if err := s.store.Empleados.Create(ctx, e); err != nil {
		return nil, duplicado(err, "el empleado ya existe")
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Empleado creado: " + e.NombreCompleto(), Severidad: notificacion.Exito, Modulo: acceso.ModuloEmpleados, RegistroID: e.ID})
	return empleadoToResponse(e), nil
}

func (s *empleadoService) Listar(ctx context.Context, actor acceso.Actor, q string, incluirInactivos bool) ([]dto.EmpleadoResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloEmpleados, acceso.OpLeer); err != nil {
		return nil, err
	}
	empleados, err := s.store.Empleados.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	empleados = busqueda.Filtrar(q, empleados, func(e model.Empleado) []string {
		return []string{e.NombreCompleto(), e.Documento, deref(e.Email), deref(e.Especialidad)}
	})
	resp := make([]dto.EmpleadoResponse, len(empleados))
	for i := range empleados {
		resp[i] = *empleadoToResponse(&empleados[i])
	}
	return resp, nil
}

func (s *empleadoService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.EmpleadoResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloEmpleados, acceso.OpLeer); err != nil {
		return nil, err
	}
	e, err := s.store.Empleados.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("empleado no encontrado", err)
	}
	return empleadoToResponse(e), nil
}

func (s *empleadoService) Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.EmpleadoRequest) (*dto.EmpleadoResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloEmpleados, acceso.OpActualizar); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	e, err := s.store.Empleados.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("empleado no encontrado", err)
	}
	aplicarEmpleado(e, req)
	if err := s.validarUnicos(ctx, e); err != nil {
		return nil, err
	}
	if err := s.store.Empleados.Update(ctx, e); err != nil {
		return nil, duplicado(err, "el empleado ya existe")
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Empleado actualizado: " + e.NombreCompleto(), Severidad: notificacion.Exito, Modulo: acceso.ModuloEmpleados, RegistroID: e.ID})
	return empleadoToResponse(e), nil
}

func (s *empleadoService) Desactivar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloEmpleados, acceso.OpEliminar); err != nil {
		return err
	}
	e, err := s.store.Empleados.FindByID(ctx, id)
	if err != nil {
		return noEncontrado("empleado no encontrado", err)
	}
	activas, err := s.store.Citas.ContarActivasPorEmpleado(ctx, e.ID)
	if err != nil {
		return err
	}
	if activas > 0 {
		return conflicto("%s tiene %d citas pendientes o confirmadas", e.NombreCompleto(), activas)
	}
	if err := s.store.Empleados.SetActivo(ctx, e.ID, false); err != nil {
		return err
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Empleado desactivado: " + e.NombreCompleto(), Severidad: notificacion.Info, Modulo: acceso.ModuloEmpleados, RegistroID: e.ID})
	return nil
}

func (s *empleadoService) Reactivar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloEmpleados, acceso.OpActualizar); err != nil {
		return err
	}
	if _, err := s.store.Empleados.FindByID(ctx, id); err != nil {
		return noEncontrado("empleado no encontrado", err)
	}
	return s.store.Empleados.SetActivo(ctx, id, true)
}

func empleadoToResponse(e *model.Empleado) *dto.EmpleadoResponse {
	return &dto.EmpleadoResponse{
		ID:           e.ID,
		Nombre:       e.Nombre,
		Apellido:     e.Apellido,
		Documento:    e.Documento,
		Email:        e.Email,
		Telefono:     e.Telefono,
		Especialidad: e.Especialidad,
		Activo:       e.Activo,
	}
}
