package model

import (
	"time"

	"barberia/internal/acceso"
)

// Rol is a named permission bundle. Permisos is stored as a JSON column.
type Rol struct {
	ID          uint            `gorm:"primaryKey"`
	Nombre      string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	Descripcion *string         `gorm:"type:varchar(255)"`
	Permisos    acceso.Permisos `gorm:"serializer:json;type:text"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Rol) TableName() string { return "roles" }

// Definicion converts the stored role into the registry's view.
func (r Rol) Definicion() acceso.DefinicionRol {
	return acceso.DefinicionRol{Nombre: r.Nombre, Permisos: r.Permisos, Activo: r.Activo}
}
