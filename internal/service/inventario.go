package service

import (
	"context"
	"fmt"

	"barberia/internal/acceso"
	"barberia/internal/notificacion"
	"barberia/internal/repository"

	"github.com/rs/zerolog/log"
)

// moverStock applies delta to a product's stock inside tx. A decrement that
// would leave the stock negative fails with a conflict naming the product.
func moverStock(ctx context.Context, tx *repository.Store, productoID uint, delta int, motivo string) error {
	ok, err := tx.Productos.AjustarStock(ctx, productoID, delta)
	if err != nil {
		return err
	}
	if !ok {
		p, ferr := tx.Productos.FindByID(ctx, productoID)
		if ferr != nil {
			return noEncontrado("producto no encontrado", ferr)
		}
		return conflicto("stock insuficiente de %s (disponible %d, requerido %d)", p.Nombre, p.Stock, -delta)
	}
	log.Debug().Uint("producto_id", productoID).Int("delta", delta).Str("motivo", motivo).Msg("stock ajustado")
	return nil
}

// avisarBajoStock publishes a warning for each product whose stock fell to or
// below its minimum.
func avisarBajoStock(ctx context.Context, store *repository.Store, sink notificacion.Sink, ids []uint) {
	for _, id := range ids {
		p, err := store.Productos.FindByID(ctx, id)
		if err != nil || !bajoStock(p) {
			continue
		}
		publicar(sink, notificacion.Mensaje{
			Mensaje:    fmt.Sprintf("Stock bajo: %s (%d unidades)", p.Nombre, p.Stock),
			Severidad:  notificacion.Info,
			Modulo:     acceso.ModuloProductos,
			RegistroID: p.ID,
		})
	}
}
