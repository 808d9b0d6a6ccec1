package model

import "time"

// Proveedor represents a supplier of retail products.
type Proveedor struct {
	ID          uint    `gorm:"primaryKey"`
	RazonSocial string  `gorm:"type:varchar(120);not null"`
	NIT         string  `gorm:"column:nit;type:varchar(20);uniqueIndex;not null"`
	Contacto    *string `gorm:"type:varchar(120)"`
	Telefono    *string `gorm:"type:varchar(20)"`
	Email       *string `gorm:"type:varchar(120)"`
	Direccion   *string `gorm:"type:varchar(200)"`
	Activo      bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
