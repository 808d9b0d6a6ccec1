package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearCitaRequest books an appointment. Staff set exactly one of ClienteID or
// ClienteTemporalID; a client actor leaves both empty (or sets their own id).
type CrearCitaRequest struct {
	ClienteID         *uint   `json:"cliente_id"`
	ClienteTemporalID *uint   `json:"cliente_temporal_id"`
	ServicioID        uint    `json:"servicio_id" validate:"required"`
	EmpleadoID        *uint   `json:"empleado_id"`
	Fecha             string  `json:"fecha"       validate:"required,fecha"`
	Hora              string  `json:"hora"        validate:"required,hora"`
	Notas             *string `json:"notas"       validate:"omitempty,max=500"`
}

// ActualizarCitaRequest edits a non-terminal appointment. Estado, when set,
// must be reachable through a single legal transition. SinEmpleado unassigns
// the employee and cannot be combined with EmpleadoID.
type ActualizarCitaRequest struct {
	ServicioID  *uint   `json:"servicio_id"`
	EmpleadoID  *uint   `json:"empleado_id"`
	SinEmpleado bool    `json:"sin_empleado"`
	Fecha       *string `json:"fecha"  validate:"omitempty,fecha"`
	Hora        *string `json:"hora"   validate:"omitempty,hora"`
	Notas       *string `json:"notas"  validate:"omitempty,max=500"`
	Estado      *string `json:"estado" validate:"omitempty,oneof=pendiente confirmada completada cancelada"`
}

type ConfirmarCitaRequest struct {
	EmpleadoID *uint `json:"empleado_id"`
}

type CancelarCitaRequest struct {
	Motivo string `json:"motivo" validate:"max=255"`
}

type CitaFilter struct {
	Q      string `form:"q"`
	Estado string `form:"estado"`
	Fecha  string `form:"fecha"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CitaResponse struct {
	ID                uint     `json:"id"`
	ClienteID         *uint    `json:"cliente_id"`
	ClienteTemporalID *uint    `json:"cliente_temporal_id"`
	Cliente           string   `json:"cliente"`
	ServicioID        uint     `json:"servicio_id"`
	Servicio          string   `json:"servicio"`
	EmpleadoID        *uint    `json:"empleado_id"`
	Empleado          string   `json:"empleado"`
	Fecha             string   `json:"fecha"`
	Hora              string   `json:"hora"`
	Estado            string   `json:"estado"`
	Notas             *string  `json:"notas"`
	MotivoCancelacion *string  `json:"motivo_cancelacion"`
	Acciones          []string `json:"acciones"` // actions the caller may perform now
}
