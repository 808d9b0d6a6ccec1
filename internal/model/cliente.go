package model

import (
	"strings"
	"time"
)

// Cliente is a permanent client record.
type Cliente struct {
	ID        uint    `gorm:"primaryKey"`
	Nombre    string  `gorm:"type:varchar(60);not null"`
	Apellido  string  `gorm:"type:varchar(60)"`
	Documento *string `gorm:"type:varchar(20);uniqueIndex"`
	Email     *string `gorm:"type:varchar(120);uniqueIndex"`
	Telefono  *string `gorm:"type:varchar(20)"`
	Direccion *string `gorm:"type:varchar(200)"`
	Activo    bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

func (c Cliente) NombreCompleto() string {
	return strings.TrimSpace(c.Nombre + " " + c.Apellido)
}

// EstadoTemporal is the lifecycle of a walk-in client.
type EstadoTemporal string

const (
	TemporalPendiente  EstadoTemporal = "pendiente"
	TemporalRegistrado EstadoTemporal = "registrado"
)

// ClienteTemporal is captured by the public booking flow when no client
// account exists for the given e-mail.
type ClienteTemporal struct {
	ID            uint           `gorm:"primaryKey"`
	Nombre        string         `gorm:"type:varchar(120);not null"`
	Email         string         `gorm:"type:varchar(120);not null;index"`
	Telefono      *string        `gorm:"type:varchar(20)"`
	FechaRegistro time.Time      `gorm:"not null"`
	Estado        EstadoTemporal `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// ClienteID is set once the walk-in is promoted.
	ClienteID *uint `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ClienteTemporal) TableName() string { return "clientes_temporales" }

// DividirNombre splits a full name into first token and remainder.
func DividirNombre(completo string) (nombre, apellido string) {
	partes := strings.Fields(completo)
	if len(partes) == 0 {
		return "", ""
	}
	return partes[0], strings.Join(partes[1:], " ")
}
