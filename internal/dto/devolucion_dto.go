package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CrearDevolucionRequest struct {
	VentaID     uint   `json:"venta_id"      validate:"required"`
	VentaItemID uint   `json:"venta_item_id" validate:"required"`
	Cantidad    int    `json:"cantidad"      validate:"min=1"`
	Motivo      string `json:"motivo"        validate:"required,min=3,max=255"`
}

type DevolucionResponse struct {
	ID          uint            `json:"id"`
	VentaID     uint            `json:"venta_id"`
	VentaItemID uint            `json:"venta_item_id"`
	ProductoID  uint            `json:"producto_id"`
	Producto    string          `json:"producto"`
	Cantidad    int             `json:"cantidad"`
	Monto       decimal.Decimal `json:"monto"`
	Motivo      string          `json:"motivo"`
	CreatedAt   time.Time       `json:"created_at"`
}
