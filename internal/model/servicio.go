package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EstadoServicio string

const (
	ServicioActivo   EstadoServicio = "activo"
	ServicioInactivo EstadoServicio = "inactivo"
)

// Servicio is a bookable service of the shop (haircut, beard trim, ...).
type Servicio struct {
	ID              uint            `gorm:"primaryKey"`
	Nombre          string          `gorm:"type:varchar(100);not null;index"`
	Descripcion     *string         `gorm:"type:varchar(500)"`
	Precio          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DuracionMinutos int             `gorm:"not null"`
	Estado          EstadoServicio  `gorm:"type:varchar(20);not null;default:'activo'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Servicio) TableName() string { return "servicios" }
