package dto

import "github.com/shopspring/decimal"

type ProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=100"`
	Descripcion *string         `json:"descripcion"  validate:"omitempty,max=500"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"gte=0"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"gt=0"`
	StockMinimo int             `json:"stock_minimo" validate:"min=0"`
	ProveedorID *uint           `json:"proveedor_id"`
}

type ProductoFilter struct {
	Q         string `form:"q"`
	Todos     bool   `form:"todos"` // include inactive
	BajoStock bool   `form:"bajo_stock"`
}

type ProductoResponse struct {
	ID          uint            `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Stock       int             `json:"stock"`
	StockMinimo int             `json:"stock_minimo"`
	BajoStock   bool            `json:"bajo_stock"`
	ProveedorID *uint           `json:"proveedor_id"`
	Activo      bool            `json:"activo"`
}
