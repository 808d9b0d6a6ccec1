package model

import (
	"strings"
	"time"
)

// Empleado is a barber or front-desk employee.
type Empleado struct {
	ID           uint    `gorm:"primaryKey"`
	Nombre       string  `gorm:"type:varchar(60);not null"`
	Apellido     string  `gorm:"type:varchar(60);not null"`
	Documento    string  `gorm:"type:varchar(20);uniqueIndex;not null"`
	Email        *string `gorm:"type:varchar(120);uniqueIndex"`
	Telefono     *string `gorm:"type:varchar(20)"`
	Especialidad *string `gorm:"type:varchar(100)"`
	Activo       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Empleado) TableName() string { return "empleados" }

func (e Empleado) NombreCompleto() string {
	return strings.TrimSpace(e.Nombre + " " + e.Apellido)
}
