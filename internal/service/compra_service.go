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
	"github.com/shopspring/decimal"
)

type CompraService interface {
	// Registrar stores the purchase and adds every line to product stock in
	// one transaction.
	Registrar(ctx context.Context, actor acceso.Actor, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, q string) ([]dto.CompraResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.CompraResponse, error)
	// Anular reverses the stock movement. Fails when some product no longer
	// has the units the purchase added.
	Anular(ctx context.Context, actor acceso.Actor, id uint) error
}

type compraService struct {
	store *repository.Store
	reg   *acceso.Registro
	sink  notificacion.Sink
}

func NewCompraService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink) CompraService {
	return &compraService{store: store, reg: reg, sink: sink}
}

func (s *compraService) Registrar(ctx context.Context, actor acceso.Actor, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloCompras, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}

	var compra model.Compra
	err := s.store.EnTransaccion(ctx, func(tx *repository.Store) error {
		prov, err := tx.Proveedores.FindByID(ctx, req.ProveedorID)
		if esNoEncontrado(err) || (err == nil && !prov.Activo) {
			return invalido("proveedor_id", "el proveedor no existe o esta inactivo")
		}
		if err != nil {
			return err
		}

		compra = model.Compra{
			ProveedorID: prov.ID,
			UsuarioID:   actor.UsuarioID,
			Fecha:       req.Fecha,
			Estado:      model.CompraRegistrada,
			Observacion: recortarPtr(req.Observacion),
		}
		total := decimal.Zero
		for i, it := range req.Items {
			p, err := tx.Productos.FindByID(ctx, it.ProductoID)
			if esNoEncontrado(err) {
				return invalido(fmt.Sprintf("items[%d].producto_id", i), "el producto no existe")
			}
			if err != nil {
				return err
			}
			costo := it.CostoUnitario.Round(2)
			subtotal := costo.Mul(decimal.NewFromInt(int64(it.Cantidad)))
			total = total.Add(subtotal)
			compra.Items = append(compra.Items, model.CompraItem{
				ProductoID:    p.ID,
				Cantidad:      it.Cantidad,
				CostoUnitario: costo,
				Subtotal:      subtotal,
			})
		}
		compra.Total = total

		if err := tx.Compras.Create(ctx, &compra); err != nil {
			return err
		}
		for _, it := range compra.Items {
			if err := moverStock(ctx, tx, it.ProductoID, it.Cantidad, fmt.Sprintf("compra #%d", compra.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("compra_id", compra.ID).Str("total", compra.Total.StringFixed(2)).Msg("compra registrada")
	publicar(s.sink, notificacion.Mensaje{
		Mensaje:    fmt.Sprintf("Compra #%d registrada por %s", compra.ID, compra.Total.StringFixed(2)),
		Severidad:  notificacion.Exito,
		Modulo:     acceso.ModuloCompras,
		RegistroID: compra.ID,
	})

	full, err := s.store.Compras.FindByID(ctx, compra.ID)
	if err != nil {
		return nil, err
	}
	return compraToResponse(full), nil
}

func (s *compraService) Listar(ctx context.Context, actor acceso.Actor, q string) ([]dto.CompraResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloCompras, acceso.OpLeer); err != nil {
		return nil, err
	}
	compras, err := s.store.Compras.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CompraResponse, len(compras))
	for i := range compras {
		resp[i] = *compraToResponse(&compras[i])
	}
	return busqueda.Filtrar(q, resp, func(c dto.CompraResponse) []string {
		campos := []string{fmt.Sprint(c.ID), c.Proveedor, c.Estado, c.Total.StringFixed(2)}
		return append(campos, busqueda.VariantesFecha(c.Fecha)...)
	}), nil
}

func (s *compraService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.CompraResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloCompras, acceso.OpLeer); err != nil {
		return nil, err
	}
	c, err := s.store.Compras.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("compra no encontrada", err)
	}
	return compraToResponse(c), nil
}

func (s *compraService) Anular(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloCompras, acceso.OpEliminar); err != nil {
		return err
	}
	err := s.store.EnTransaccion(ctx, func(tx *repository.Store) error {
		c, err := tx.Compras.FindByID(ctx, id)
		if err != nil {
			return noEncontrado("compra no encontrada", err)
		}
		if c.Estado == model.CompraAnulada {
			return conflicto("la compra #%d ya esta anulada", c.ID)
		}
		for _, it := range c.Items {
			if err := moverStock(ctx, tx, it.ProductoID, -it.Cantidad, fmt.Sprintf("anulacion compra #%d", c.ID)); err != nil {
				return err
			}
		}
		return tx.Compras.UpdateEstado(ctx, c.ID, model.CompraAnulada)
	})
	if err != nil {
		return err
	}
	publicar(s.sink, notificacion.Mensaje{
		Mensaje:    fmt.Sprintf("Compra #%d anulada", id),
		Severidad:  notificacion.Info,
		Modulo:     acceso.ModuloCompras,
		RegistroID: id,
	})
	return nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	resp := &dto.CompraResponse{
		ID:          c.ID,
		ProveedorID: c.ProveedorID,
		Fecha:       c.Fecha,
		Total:       c.Total,
		Estado:      string(c.Estado),
		Observacion: c.Observacion,
		Items:       make([]dto.CompraItemResponse, len(c.Items)),
		CreatedAt:   c.CreatedAt,
	}
	if c.Proveedor != nil {
		resp.Proveedor = c.Proveedor.RazonSocial
	}
	for i, it := range c.Items {
		item := dto.CompraItemResponse{
			ProductoID:    it.ProductoID,
			Cantidad:      it.Cantidad,
			CostoUnitario: it.CostoUnitario,
			Subtotal:      it.Subtotal,
		}
		if it.Producto != nil {
			item.Producto = it.Producto.Nombre
		}
		resp.Items[i] = item
	}
	return resp
}
