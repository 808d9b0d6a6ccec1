package dto

import "github.com/shopspring/decimal"

// ServicioRequest is used for both create and full update.
type ServicioRequest struct {
	Nombre          string          `json:"nombre"           validate:"required,min=3,max=100"`
	Descripcion     *string         `json:"descripcion"      validate:"omitempty,max=500"`
	Precio          decimal.Decimal `json:"precio"           validate:"gte=0.01,lte=10000"`
	DuracionMinutos int             `json:"duracion_minutos" validate:"gte=5,lte=480"`
	Estado          string          `json:"estado"           validate:"omitempty,oneof=activo inactivo"`
}

type ServicioFilter struct {
	Q      string `form:"q"`
	Estado string `form:"estado"`
}

type ServicioResponse struct {
	ID              uint            `json:"id"`
	Nombre          string          `json:"nombre"`
	Descripcion     *string         `json:"descripcion"`
	Precio          decimal.Decimal `json:"precio"`
	DuracionMinutos int             `json:"duracion_minutos"`
	Estado          string          `json:"estado"`
}
