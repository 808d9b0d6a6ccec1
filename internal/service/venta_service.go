package service

import (
	"context"
	"fmt"
	"io"

	"barberia/internal/acceso"
	"barberia/internal/busqueda"
	"barberia/internal/dto"
	"barberia/internal/infra"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type VentaService interface {
	Registrar(ctx context.Context, actor acceso.Actor, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	Listar(ctx context.Context, actor acceso.Actor, filter dto.VentaFilter) ([]dto.VentaResponse, error)
	Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.VentaResponse, error)
	// Anular restores the stock still held by the sale (sold minus returned).
	Anular(ctx context.Context, actor acceso.Actor, id uint) error
	// Comprobante writes the sale receipt as PDF to w.
	Comprobante(ctx context.Context, actor acceso.Actor, id uint, w io.Writer) error
}

type ventaService struct {
	store   *repository.Store
	reg     *acceso.Registro
	sink    notificacion.Sink
	cola    worker.EmailQueue
	negocio string
	pdfDir  string
}

func NewVentaService(store *repository.Store, reg *acceso.Registro, sink notificacion.Sink, cola worker.EmailQueue, negocio, pdfDir string) VentaService {
	return &ventaService{store: store, reg: reg, sink: sink, cola: cola, negocio: negocio, pdfDir: pdfDir}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
//   1. Validate client, employee and appointment references
//   2. Resolve each line's price from the product or service
//   3. BEGIN TX: create venta+items, descontar stock
//   4. COMMIT
//   5. (async) receipt e-mail with the PDF when the client has an address

func (s *ventaService) Registrar(ctx context.Context, actor acceso.Actor, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloVentas, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}

	var venta model.Venta
	err := s.store.EnTransaccion(ctx, func(tx *repository.Store) error {
		if err := s.validarReferencias(ctx, tx, req); err != nil {
			return err
		}
		venta = model.Venta{
			ClienteID:  req.ClienteID,
			EmpleadoID: req.EmpleadoID,
			CitaID:     req.CitaID,
			UsuarioID:  actor.UsuarioID,
			Estado:     model.VentaCompletada,
			MetodoPago: req.MetodoPago,
		}
		total := decimal.Zero
		for i, it := range req.Items {
			item, err := resolverItem(ctx, tx, i, it)
			if err != nil {
				return err
			}
			total = total.Add(item.Subtotal)
			venta.Items = append(venta.Items, item)
		}
		venta.Total = total

		if err := tx.Ventas.Create(ctx, &venta); err != nil {
			return err
		}
		for _, it := range venta.Items {
			if it.ProductoID == nil {
				continue
			}
			if err := moverStock(ctx, tx, *it.ProductoID, -it.Cantidad, fmt.Sprintf("venta #%d", venta.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.store.Ventas.FindByID(ctx, venta.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("venta_id", full.ID).Str("total", full.Total.StringFixed(2)).Str("metodo", full.MetodoPago).Msg("venta registrada")
	publicar(s.sink, notificacion.Mensaje{
		Mensaje:    fmt.Sprintf("Venta #%d registrada por %s", full.ID, full.Total.StringFixed(2)),
		Severidad:  notificacion.Exito,
		Modulo:     acceso.ModuloVentas,
		RegistroID: full.ID,
	})
	avisarBajoStock(ctx, s.store, s.sink, productosDe(full.Items))
	s.enviarComprobante(ctx, full)
	return ventaToResponse(full), nil
}

func (s *ventaService) validarReferencias(ctx context.Context, tx *repository.Store, req dto.CrearVentaRequest) error {
	if req.ClienteID != nil {
		c, err := tx.Clientes.FindByID(ctx, *req.ClienteID)
		if esNoEncontrado(err) || (err == nil && !c.Activo) {
			return invalido("cliente_id", "el cliente no existe o esta inactivo")
		}
		if err != nil {
			return err
		}
	}
	if req.EmpleadoID != nil {
		e, err := tx.Empleados.FindByID(ctx, *req.EmpleadoID)
		if esNoEncontrado(err) || (err == nil && !e.Activo) {
			return invalido("empleado_id", "el empleado no existe o esta inactivo")
		}
		if err != nil {
			return err
		}
	}
	if req.CitaID != nil {
		c, err := tx.Citas.FindByID(ctx, *req.CitaID)
		if esNoEncontrado(err) {
			return invalido("cita_id", "la cita no existe")
		}
		if err != nil {
			return err
		}
		if c.Estado == model.CitaCancelada {
			return conflicto("la cita #%d esta cancelada", c.ID)
		}
	}
	return nil
}

// resolverItem prices one sale line from the catalog. Each line sells either a
// product or a service.
func resolverItem(ctx context.Context, tx *repository.Store, i int, it dto.VentaItemRequest) (model.VentaItem, error) {
	campo := fmt.Sprintf("items[%d]", i)
	if (it.ProductoID == nil) == (it.ServicioID == nil) {
		return model.VentaItem{}, invalido(campo, "debe indicar un producto o un servicio")
	}
	item := model.VentaItem{Cantidad: it.Cantidad, ProductoID: it.ProductoID, ServicioID: it.ServicioID}
	if it.ProductoID != nil {
		p, err := tx.Productos.FindByID(ctx, *it.ProductoID)
		if esNoEncontrado(err) || (err == nil && !p.Activo) {
			return item, invalido(campo+".producto_id", "el producto no existe o esta inactivo")
		}
		if err != nil {
			return item, err
		}
		item.Descripcion, item.PrecioUnitario = p.Nombre, p.PrecioVenta
	} else {
		sv, err := tx.Servicios.FindByID(ctx, *it.ServicioID)
		if esNoEncontrado(err) || (err == nil && sv.Estado != model.ServicioActivo) {
			return item, invalido(campo+".servicio_id", "el servicio no existe o esta inactivo")
		}
		if err != nil {
			return item, err
		}
		item.Descripcion, item.PrecioUnitario = sv.Nombre, sv.Precio
	}
	item.Subtotal = item.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad)))
	return item, nil
}

func productosDe(items []model.VentaItem) []uint {
	var ids []uint
	for _, it := range items {
		if it.ProductoID != nil {
			ids = append(ids, *it.ProductoID)
		}
	}
	return ids
}

// enviarComprobante stores the PDF and queues it to the client's address.
// Failures are logged; the sale is already committed.
func (s *ventaService) enviarComprobante(ctx context.Context, v *model.Venta) {
	if s.cola == nil || v.Cliente == nil || v.Cliente.Email == nil {
		return
	}
	path, err := infra.GuardarComprobanteVenta(v, s.pdfDir, s.negocio)
	if err != nil {
		log.Error().Err(err).Uint("venta_id", v.ID).Msg("no se pudo generar el comprobante")
		return
	}
	encolarEmail(ctx, s.cola, worker.EmailJobPayload{
		ToEmail: *v.Cliente.Email,
		Subject: fmt.Sprintf("%s: comprobante de venta #%d", s.negocio, v.ID),
		Body: fmt.Sprintf("Hola %s,\n\nAdjuntamos el comprobante de su compra por %s.\n\nGracias por visitarnos.\n%s",
			v.Cliente.NombreCompleto(), v.Total.StringFixed(2), s.negocio),
		PDFPath: path,
	})
}

func (s *ventaService) Listar(ctx context.Context, actor acceso.Actor, filter dto.VentaFilter) ([]dto.VentaResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloVentas, acceso.OpLeer); err != nil {
		return nil, err
	}
	ventas, err := s.store.Ventas.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		resp[i] = *ventaToResponse(&ventas[i])
	}
	return busqueda.Filtrar(filter.Q, resp, func(v dto.VentaResponse) []string {
		campos := []string{fmt.Sprint(v.ID), v.Cliente, v.Empleado, v.Estado, v.MetodoPago, v.Total.StringFixed(2)}
		return append(campos, busqueda.VariantesFecha(v.CreatedAt.Format("2006-01-02"))...)
	}), nil
}

func (s *ventaService) Obtener(ctx context.Context, actor acceso.Actor, id uint) (*dto.VentaResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloVentas, acceso.OpLeer); err != nil {
		return nil, err
	}
	v, err := s.store.Ventas.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("venta no encontrada", err)
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) Anular(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloVentas, acceso.OpEliminar); err != nil {
		return err
	}
	err := s.store.EnTransaccion(ctx, func(tx *repository.Store) error {
		v, err := tx.Ventas.FindByID(ctx, id)
		if err != nil {
			return noEncontrado("venta no encontrada", err)
		}
		if v.Estado == model.VentaAnulada {
			return conflicto("la venta #%d ya esta anulada", v.ID)
		}
		for _, it := range v.Items {
			if it.ProductoID == nil {
				continue
			}
			devuelto, err := tx.Devoluciones.CantidadDevuelta(ctx, it.ID)
			if err != nil {
				return err
			}
			if pendiente := it.Cantidad - devuelto; pendiente > 0 {
				if err := moverStock(ctx, tx, *it.ProductoID, pendiente, fmt.Sprintf("anulacion venta #%d", v.ID)); err != nil {
					return err
				}
			}
		}
		return tx.Ventas.UpdateEstado(ctx, v.ID, model.VentaAnulada)
	})
	if err != nil {
		return err
	}
	publicar(s.sink, notificacion.Mensaje{
		Mensaje:    fmt.Sprintf("Venta #%d anulada", id),
		Severidad:  notificacion.Info,
		Modulo:     acceso.ModuloVentas,
		RegistroID: id,
	})
	return nil
}

func (s *ventaService) Comprobante(ctx context.Context, actor acceso.Actor, id uint, w io.Writer) error {
	if err := autorizar(s.reg, actor, acceso.ModuloVentas, acceso.OpLeer); err != nil {
		return err
	}
	v, err := s.store.Ventas.FindByID(ctx, id)
	if err != nil {
		return noEncontrado("venta no encontrada", err)
	}
	return infra.EscribirComprobanteVenta(w, v, s.negocio)
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:         v.ID,
		ClienteID:  v.ClienteID,
		EmpleadoID: v.EmpleadoID,
		CitaID:     v.CitaID,
		Total:      v.Total,
		Estado:     string(v.Estado),
		MetodoPago: v.MetodoPago,
		Items:      make([]dto.VentaItemResponse, len(v.Items)),
		CreatedAt:  v.CreatedAt,
	}
	if v.Cliente != nil {
		resp.Cliente = v.Cliente.NombreCompleto()
	}
	if v.Empleado != nil {
		resp.Empleado = v.Empleado.NombreCompleto()
	}
	for i, it := range v.Items {
		resp.Items[i] = dto.VentaItemResponse{
			ID:             it.ID,
			ProductoID:     it.ProductoID,
			ServicioID:     it.ServicioID,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
		}
	}
	return resp
}
