package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EstadoVenta string

const (
	VentaCompletada EstadoVenta = "completada"
	VentaAnulada    EstadoVenta = "anulada"
)

// Venta is a counter sale of products and/or services.
type Venta struct {
	ID         uint            `gorm:"primaryKey"`
	ClienteID  *uint           `gorm:"index"`
	EmpleadoID *uint           `gorm:"index"`
	UsuarioID  uint            `gorm:"not null"`
	CitaID     *uint           `gorm:"index"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado     EstadoVenta     `gorm:"type:varchar(20);not null;default:'completada'"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Cliente  *Cliente    `gorm:"foreignKey:ClienteID"`
	Empleado *Empleado   `gorm:"foreignKey:EmpleadoID"`
	Items    []VentaItem `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaItem is one sale line: either a product or a service, never both.
type VentaItem struct {
	ID             uint            `gorm:"primaryKey"`
	VentaID        uint            `gorm:"not null;index"`
	ProductoID     *uint           `gorm:"index"`
	ServicioID     *uint           `gorm:"index"`
	Descripcion    string          `gorm:"type:varchar(120);not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (VentaItem) TableName() string { return "venta_items" }
