package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a retail item sold at the counter (pomade, shampoo, ...).
type Producto struct {
	ID          uint            `gorm:"primaryKey"`
	Nombre      string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	Descripcion *string         `gorm:"type:varchar(500)"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	StockMinimo int             `gorm:"not null;default:0"`
	ProveedorID *uint           `gorm:"index"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }
