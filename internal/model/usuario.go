package model

import "time"

// Usuario is a login account. Client accounts carry ClienteID pointing at their
// client record; staff accounts may carry EmpleadoID.
type Usuario struct {
	ID           uint   `gorm:"primaryKey"`
	Nombre       string `gorm:"type:varchar(120);not null"`
	Email        string `gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	RolID        uint   `gorm:"not null;index"`
	ClienteID    *uint  `gorm:"index"`
	EmpleadoID   *uint  `gorm:"index"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Rol *Rol `gorm:"foreignKey:RolID"`
}

func (Usuario) TableName() string { return "usuarios" }

// NombreRol returns the role name when the association is loaded.
func (u Usuario) NombreRol() string {
	if u.Rol == nil {
		return ""
	}
	return u.Rol.Nombre
}
