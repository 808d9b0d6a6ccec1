package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CompraItemRequest struct {
	ProductoID    uint            `json:"producto_id"    validate:"required"`
	Cantidad      int             `json:"cantidad"       validate:"min=1"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"gt=0"`
}

type CrearCompraRequest struct {
	ProveedorID uint                `json:"proveedor_id" validate:"required"`
	Fecha       string              `json:"fecha"        validate:"required,fecha"`
	Observacion *string             `json:"observacion"  validate:"omitempty,max=500"`
	Items       []CompraItemRequest `json:"items"        validate:"required,min=1,dive"`
}

type CompraItemResponse struct {
	ProductoID    uint            `json:"producto_id"`
	Producto      string          `json:"producto"`
	Cantidad      int             `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID          uint                 `json:"id"`
	ProveedorID uint                 `json:"proveedor_id"`
	Proveedor   string               `json:"proveedor"`
	Fecha       string               `json:"fecha"`
	Total       decimal.Decimal      `json:"total"`
	Estado      string               `json:"estado"`
	Observacion *string              `json:"observacion"`
	Items       []CompraItemResponse `json:"items"`
	CreatedAt   time.Time            `json:"created_at"`
}
