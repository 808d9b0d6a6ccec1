package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Devolucion records products returned against a sale line.
type Devolucion struct {
	ID          uint            `gorm:"primaryKey"`
	VentaID     uint            `gorm:"not null;index"`
	VentaItemID uint            `gorm:"not null;index"`
	ProductoID  uint            `gorm:"not null;index"`
	UsuarioID   uint            `gorm:"not null"`
	Cantidad    int             `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo      string          `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Devolucion) TableName() string { return "devoluciones" }
