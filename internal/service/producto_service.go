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

type ProductoService interface {
	Crear(ctx context.Context, actor acceso.Actor, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, actor acceso.Actor, id uint) error
	Reactivar(ctx context.Context, actor acceso.Actor, id uint) error
}

type productoService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
}

func NewProductoService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink) ProductoService {
	return &productoService{store: store, reg: reg, sink: sink}
}

// prepararProducto validates the request beyond its tags: unique name, sale
// price not below cost, and an active supplier when one is given.
func (s *productoService) prepararProducto(ctx context.Context, p *model.Producto, req dto.ProductoRequest) error {
	if err := validar(req); err != nil {
		return err
	}
	if req.PrecioVenta.LessThan(req.PrecioCosto) {
		return invalido("precio_venta", "no puede ser menor al precio de costo")
	}
	nombre := recortar(req.Nombre)
	if existe, err := s.store.Productos.ExisteNombre(ctx, nombre, p.ID); err != nil {
		return err
	} else if existe {
		return invalido("nombre", "ya existe un producto con ese nombre")
	}
	if req.ProveedorID != nil {
		prov, err := s.store.Proveedores.FindByID(ctx, *req.ProveedorID)
		if esNoEncontrado(err) || (err == nil && !prov.Activo) {
			return invalido("proveedor_id", "el proveedor no existe o esta inactivo")
		}
		if err != nil {
			return err
		}
	}
	p.Nombre = nombre
	p.Descripcion = recortarPtr(req.Descripcion)
	p.PrecioCosto = req.PrecioCosto.Round(2)
	p.PrecioVenta = req.PrecioVenta.Round(2)
	p.StockMinimo = req.StockMinimo
	p.ProveedorID = req.ProveedorID
	return nil
}

func (s *productoService) Crear(ctx context.Context, actor acceso.Actor, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloProductos, acceso.OpCrear); err != nil {
		return nil, err
	}
	p := &model.Producto{Activo: true}
	if err := s.prepararProducto(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.store.Productos.Create(ctx, p); err != nil {
		return nil, duplicado(err, "el producto ya existe")
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Producto creado: " + p.Nombre, Severidad: notificacion.Exito, Modulo: acceso.ModuloProductos, RegistroID: p.ID})
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, actor acceso.Actor, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloProductos, acceso.OpLeer); err != nil {
		return nil, err
	}
	productos, err := s.store.Productos.List(ctx, filter.Todos)
	if err != nil {
		return nil, err
	}
	productos = busqueda.Filtrar(filter.Q, productos, func(p model.Producto) []string {
		return []string{p.Nombre, deref(p.Descripcion)}
	})
	resp := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		if filter.BajoStock && !bajoStock(&productos[i]) {
			continue
		}
		resp = append(resp, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

func (s *productoService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.ProductoResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloProductos, acceso.OpLeer); err != nil {
		return nil, err
	}
	p, err := s.store.Productos.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("producto no encontrado", err)
	}
	return productoToResponse(p), nil
}

func (s *productoService) Actualizar(ctx context.Context, actor acceso.Actor, id uint, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloProductos, acceso.OpActualizar); err != nil {
		return nil, err
	}
	p, err := s.store.Productos.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("producto no encontrado", err)
	}
	if err := s.prepararProducto(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.store.Productos.Update(ctx, p); err != nil {
		return nil, duplicado(err, "el producto ya existe")
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Producto actualizado: " + p.Nombre, Severidad: notificacion.Exito, Modulo: acceso.ModuloProductos, RegistroID: p.ID})
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloProductos, acceso.OpEliminar); err != nil {
		return err
	}
	p, err := s.store.Productos.FindByID(ctx, id)
	if err != nil {
		return noEncontrado("producto no encontrado", err)
	}
	if err := s.store.Productos.SoftDelete(ctx, p.ID); err != nil {
		return err
	}
	publicar(s.sink, notificacion.Mensaje{Mensaje: "Producto desactivado: " + p.Nombre, Severidad: notificacion.Info, Modulo: acceso.ModuloProductos, RegistroID: p.ID})
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloProductos, acceso.OpActualizar); err != nil {
		return err
	}
	if _, err := s.store.Productos.FindByID(ctx, id); err != nil {
		return noEncontrado("producto no encontrado", err)
	}
	return s.store.Productos.Reactivar(ctx, id)
}

func bajoStock(p *model.Producto) bool {
	return p.StockMinimo > 0 && p.Stock <= p.StockMinimo
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		PrecioCosto: p.PrecioCosto,
		PrecioVenta: p.PrecioVenta,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
		BajoStock:   bajoStock(p),
		ProveedorID: p.ProveedorID,
		Activo:      p.Activo,
	}
}
