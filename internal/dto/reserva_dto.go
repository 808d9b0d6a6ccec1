package dto

// ReservaRequest is submitted by the public booking widget.
type ReservaRequest struct {
	Nombre     string  `json:"nombre"      validate:"required,nombre_persona"`
	Email      string  `json:"email"       validate:"required,email"`
	Telefono   *string `json:"telefono"    validate:"omitempty,telefono"`
	ServicioID uint    `json:"servicio_id" validate:"required"`
	EmpleadoID *uint   `json:"empleado_id"`
	Fecha      string  `json:"fecha"       validate:"required,fecha"`
	Hora       string  `json:"hora"        validate:"required,hora"`
	Notas      *string `json:"notas"       validate:"omitempty,max=500"`
}

type ReservaResponse struct {
	CitaID   uint   `json:"cita_id"`
	Estado   string `json:"estado"`
	Servicio string `json:"servicio"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
	// Temporal is true when the booking was attached to a walk-in record.
	Temporal bool `json:"temporal"`
}
