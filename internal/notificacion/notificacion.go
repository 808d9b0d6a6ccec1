// Package notificacion delivers short user-facing messages about completed
// operations. Delivery is fire-and-forget: publishers never see a result.
package notificacion

import (
	"time"

	"barberia/internal/acceso"
)

type Severidad string

const (
	Exito Severidad = "exito"
	Error Severidad = "error"
	Info  Severidad = "info"
)

// Mensaje is one notification. ClienteID, when set, also lets the owning
// client's consoles receive it.
type Mensaje struct {
	Mensaje    string        `json:"mensaje"`
	Severidad  Severidad     `json:"severidad"`
	Modulo     acceso.Modulo `json:"modulo"`
	RegistroID uint          `json:"registro_id,omitempty"`
	ClienteID  *uint         `json:"-"`
	Fecha      time.Time     `json:"fecha"`
}

// Sink accepts notifications.
type Sink interface {
	Publicar(m Mensaje)
}

// Nop discards every message.
type Nop struct{}

func (Nop) Publicar(Mensaje) {}

// Memoria keeps every published message; used by tests.
type Memoria struct {
	Mensajes []Mensaje
}

func (m *Memoria) Publicar(msg Mensaje) { m.Mensajes = append(m.Mensajes, msg) }
