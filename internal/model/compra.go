package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EstadoCompra string

const (
	CompraRegistrada EstadoCompra = "registrada"
	CompraAnulada    EstadoCompra = "anulada"
)

// Compra is a purchase of products from a supplier.
type Compra struct {
	ID          uint            `gorm:"primaryKey"`
	ProveedorID uint            `gorm:"not null;index"`
	UsuarioID   uint            `gorm:"not null"`
	Fecha       string          `gorm:"type:varchar(10);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado      EstadoCompra    `gorm:"type:varchar(20);not null;default:'registrada'"`
	Observacion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Proveedor *Proveedor  `gorm:"foreignKey:ProveedorID"`
	Items     []CompraItem `gorm:"foreignKey:CompraID"`
}

func (Compra) TableName() string { return "compras" }

type CompraItem struct {
	ID            uint            `gorm:"primaryKey"`
	CompraID      uint            `gorm:"not null;index"`
	ProductoID    uint            `gorm:"not null;index"`
	Cantidad      int             `gorm:"not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CompraItem) TableName() string { return "compra_items" }
