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

	"github.com/shopspring/decimal"
)

type DevolucionService interface {
	// Registrar returns units of a product sale line to stock. The total
	// returned for a line never exceeds what was sold.
	Registrar(ctx context.Context, actor acceso.Actor, req dto.CrearDevolucionRequest) (*dto.DevolucionResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, q string) ([]dto.DevolucionResponse, error)
}

type devolucionService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
}

func NewDevolucionService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink) DevolucionService {
	return &devolucionService{store: store, reg: reg, sink: sink}
}

func (s *devolucionService) Registrar(ctx context.Context, actor acceso.Actor, req dto.CrearDevolucionRequest) (*dto.DevolucionResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloDevoluciones, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}

	var dev model.Devolucion
	err := s.store.EnTransaccion(ctx, func(tx *repository.Store) error {
		v, err := tx.Ventas.FindByID(ctx, req.VentaID)
		if err != nil {
			return noEncontrado("venta no encontrada", err)
		}
		if v.Estado == model.VentaAnulada {
			return conflicto("la venta #%d esta anulada", v.ID)
		}
		item, err := tx.Ventas.FindItem(ctx, v.ID, req.VentaItemID)
		if err != nil {
			return noEncontrado("la linea no pertenece a la venta", err)
		}
		if item.ProductoID == nil {
			return invalido("venta_item_id", "solo se pueden devolver productos")
		}
		devuelto, err := tx.Devoluciones.CantidadDevuelta(ctx, item.ID)
		if err != nil {
			return err
		}
		if disponible := item.Cantidad - devuelto; req.Cantidad > disponible {
			return invalido("cantidad", fmt.Sprintf("solo quedan %d unidades por devolver", disponible))
		}

		dev = model.Devolucion{
			VentaID:     v.ID,
			VentaItemID: item.ID,
			ProductoID:  *item.ProductoID,
			UsuarioID:   actor.UsuarioID,
			Cantidad:    req.Cantidad,
			Monto:       item.PrecioUnitario.Mul(decimal.NewFromInt(int64(req.Cantidad))),
			Motivo:      recortar(req.Motivo),
		}
		if err := tx.Devoluciones.Create(ctx, &dev); err != nil {
			return err
		}
		return moverStock(ctx, tx, dev.ProductoID, dev.Cantidad, fmt.Sprintf("devolucion #%d", dev.ID))
	})
	if err != nil {
		return nil, err
	}

	publicar(s.sink, notificacion.Mensaje{
		Mensaje:    fmt.Sprintf("Devolucion registrada: %d unidades de la venta #%d", dev.Cantidad, dev.VentaID),
		Severidad:  notificacion.Exito,
		Modulo:     acceso.ModuloDevoluciones,
		RegistroID: dev.ID,
	})
	if p, err := s.store.Productos.FindByID(ctx, dev.ProductoID); err == nil {
		dev.Producto = p
	}
	return devolucionToResponse(&dev), nil
}

func (s *devolucionService) Listar(ctx context.Context, actor acceso.Actor, q string) ([]dto.DevolucionResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloDevoluciones, acceso.OpLeer); err != nil {
		return nil, err
	}
	devs, err := s.store.Devoluciones.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DevolucionResponse, len(devs))
	for i := range devs {
		resp[i] = *devolucionToResponse(&devs[i])
	}
	return busqueda.Filtrar(q, resp, func(d dto.DevolucionResponse) []string {
		campos := []string{fmt.Sprint(d.VentaID), d.Producto, d.Motivo}
		return append(campos, busqueda.VariantesFecha(d.CreatedAt.Format("2006-01-02"))...)
	}), nil
}

func devolucionToResponse(d *model.Devolucion) *dto.DevolucionResponse {
	resp := &dto.DevolucionResponse{
		ID:          d.ID,
		VentaID:     d.VentaID,
		VentaItemID: d.VentaItemID,
		ProductoID:  d.ProductoID,
		Cantidad:    d.Cantidad,
		Monto:       d.Monto,
		Motivo:      d.Motivo,
		CreatedAt:   d.CreatedAt,
	}
	if d.Producto != nil {
		resp.Producto = d.Producto.Nombre
	}
	return resp
}
