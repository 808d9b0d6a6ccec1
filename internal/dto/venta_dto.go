package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VentaItemRequest sells either a product or a service.
type VentaItemRequest struct {
	ProductoID *uint `json:"producto_id"`
	ServicioID *uint `json:"servicio_id"`
	Cantidad   int   `json:"cantidad" validate:"min=1"`
}

type CrearVentaRequest struct {
	ClienteID  *uint              `json:"cliente_id"`
	EmpleadoID *uint              `json:"empleado_id"`
	CitaID     *uint              `json:"cita_id"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	Items      []VentaItemRequest `json:"items"       validate:"required,min=1,dive"`
}

type VentaFilter struct {
	Q string `form:"q"`
}

type VentaItemResponse struct {
	ID             uint            `json:"id"`
	ProductoID     *uint           `json:"producto_id"`
	ServicioID     *uint           `json:"servicio_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID         uint                `json:"id"`
	ClienteID  *uint               `json:"cliente_id"`
	Cliente    string              `json:"cliente"`
	EmpleadoID *uint               `json:"empleado_id"`
	Empleado   string              `json:"empleado"`
	CitaID     *uint               `json:"cita_id"`
	Total      decimal.Decimal     `json:"total"`
	Estado     string              `json:"estado"`
	MetodoPago string              `json:"metodo_pago"`
	Items      []VentaItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
}
