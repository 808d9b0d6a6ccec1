package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTransicionInvalida is returned when an action is not allowed from the
	// appointment's current status.
	ErrTransicionInvalida = errors.New("transicion de estado invalida")
	// ErrReferenciaCliente is returned when an appointment references both or
	// neither of a registered and a temporary client.
	ErrReferenciaCliente = errors.New("la cita debe referenciar exactamente un cliente o un cliente temporal")
)

// EstadoCita: pendiente → confirmada → completada, pendiente|confirmada → cancelada.
type EstadoCita string

const (
	CitaPendiente  EstadoCita = "pendiente"
	CitaConfirmada EstadoCita = "confirmada"
	CitaCompletada EstadoCita = "completada"
	CitaCancelada  EstadoCita = "cancelada"
)

// AccionCita is a state-machine action.
type AccionCita string

const (
	AccionConfirmar AccionCita = "confirmar"
	AccionCompletar AccionCita = "completar"
	AccionCancelar  AccionCita = "cancelar"
)

var transicionesCita = map[EstadoCita]map[AccionCita]EstadoCita{
	CitaPendiente: {
		AccionConfirmar: CitaConfirmada,
		AccionCancelar:  CitaCancelada,
	},
	CitaConfirmada: {
		AccionCompletar: CitaCompletada,
		AccionCancelar:  CitaCancelada,
	},
}

// Valido reports whether e is one of the four known states.
func (e EstadoCita) Valido() bool {
	switch e {
	case CitaPendiente, CitaConfirmada, CitaCompletada, CitaCancelada:
		return true
	}
	return false
}

// EsTerminal reports whether no action can leave e.
func (e EstadoCita) EsTerminal() bool {
	return e == CitaCompletada || e == CitaCancelada
}

// Activa reports whether e still occupies a slot (pendiente or confirmada).
func (e EstadoCita) Activa() bool {
	return e == CitaPendiente || e == CitaConfirmada
}

// Aplicar returns the state reached by applying a to e.
func (e EstadoCita) Aplicar(a AccionCita) (EstadoCita, error) {
	if siguiente, ok := transicionesCita[e][a]; ok {
		return siguiente, nil
	}
	return e, fmt.Errorf("%w: no se puede %s una cita %s", ErrTransicionInvalida, a, e)
}

// AccionHacia returns the action that moves e to destino, if there is one.
func (e EstadoCita) AccionHacia(destino EstadoCita) (AccionCita, bool) {
	for a, s := range transicionesCita[e] {
		if s == destino {
			return a, true
		}
	}
	return "", false
}

// ClienteRef points an appointment at either a registered client or a
// temporary (walk-in) client, never both. The zero value references nothing.
type ClienteRef struct {
	id       uint
	temporal bool
}

func RefCliente(id uint) ClienteRef  { return ClienteRef{id: id} }
func RefTemporal(id uint) ClienteRef { return ClienteRef{id: id, temporal: true} }

func (r ClienteRef) IsZero() bool { return r.id == 0 }

// ClienteID returns the registered client id, if r points at one.
func (r ClienteRef) ClienteID() (uint, bool) {
	return r.id, r.id != 0 && !r.temporal
}

// TemporalID returns the temporary client id, if r points at one.
func (r ClienteRef) TemporalID() (uint, bool) {
	return r.id, r.id != 0 && r.temporal
}

func (r ClienteRef) String() string {
	if r.temporal {
		return fmt.Sprintf("temporal:%d", r.id)
	}
	return fmt.Sprintf("cliente:%d", r.id)
}

// Cita is a booked appointment.
type Cita struct {
	ID                uint       `gorm:"primaryKey"`
	ClienteID         *uint      `gorm:"index"`
	ClienteTemporalID *uint      `gorm:"index"`
	ServicioID        uint       `gorm:"not null;index"`
	EmpleadoID        *uint      `gorm:"index"`
	Fecha             string     `gorm:"type:varchar(10);not null;index"` // YYYY-MM-DD
	Hora              string     `gorm:"type:varchar(5);not null"`        // HH:MM
	Estado            EstadoCita `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Notas             *string
	MotivoCancelacion *string
	ConfirmadaEn      *time.Time
	CompletadaEn      *time.Time
	CanceladaEn       *time.Time
	RecordatorioEn    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Cliente         *Cliente         `gorm:"foreignKey:ClienteID"`
	ClienteTemporal *ClienteTemporal `gorm:"foreignKey:ClienteTemporalID"`
	Servicio        *Servicio        `gorm:"foreignKey:ServicioID"`
	Empleado        *Empleado        `gorm:"foreignKey:EmpleadoID"`
}

func (Cita) TableName() string { return "citas" }

// AsignarCliente points the appointment at exactly the client ref describes.
func (c *Cita) AsignarCliente(ref ClienteRef) {
	c.ClienteID, c.ClienteTemporalID = nil, nil
	if id, ok := ref.ClienteID(); ok {
		c.ClienteID = &id
	}
	if id, ok := ref.TemporalID(); ok {
		c.ClienteTemporalID = &id
	}
}

// Ref returns the appointment's client reference.
func (c Cita) Ref() (ClienteRef, error) {
	switch {
	case c.ClienteID != nil && c.ClienteTemporalID == nil && *c.ClienteID != 0:
		return RefCliente(*c.ClienteID), nil
	case c.ClienteTemporalID != nil && c.ClienteID == nil && *c.ClienteTemporalID != 0:
		return RefTemporal(*c.ClienteTemporalID), nil
	}
	return ClienteRef{}, ErrReferenciaCliente
}

// Transicionar applies a to the appointment and stamps the matching timestamp.
func (c *Cita) Transicionar(a AccionCita, ahora time.Time) error {
	siguiente, err := c.Estado.Aplicar(a)
	if err != nil {
		return err
	}
	c.Estado = siguiente
	switch siguiente {
	case CitaConfirmada:
		c.ConfirmadaEn = &ahora
	case CitaCompletada:
		c.CompletadaEn = &ahora
	case CitaCancelada:
		c.CanceladaEn = &ahora
	}
	return nil
}

// Contacto returns the name and e-mail of whoever the appointment belongs to,
// read from the preloaded association. Either may be empty.
func (c Cita) Contacto() (nombre, email string) {
	switch {
	case c.Cliente != nil:
		nombre = c.Cliente.NombreCompleto()
		if c.Cliente.Email != nil {
			email = *c.Cliente.Email
		}
	case c.ClienteTemporal != nil:
		nombre, email = c.ClienteTemporal.Nombre, c.ClienteTemporal.Email
	}
	return nombre, email
}
