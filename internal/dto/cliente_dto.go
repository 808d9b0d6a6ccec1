package dto

import "time"

type ClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,nombre_persona"`
	Apellido  string  `json:"apellido"  validate:"omitempty,nombre_persona"`
	Documento *string `json:"documento" validate:"omitempty,min=5,max=20,alphanum"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  *string `json:"telefono"  validate:"omitempty,telefono"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
}

type ClienteResponse struct {
	ID        uint    `json:"id"`
	Nombre    string  `json:"nombre"`
	Apellido  string  `json:"apellido"`
	Documento *string `json:"documento"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	Activo    bool    `json:"activo"`
}

type ClienteTemporalResponse struct {
	ID            uint      `json:"id"`
	Nombre        string    `json:"nombre"`
	Email         string    `json:"email"`
	Telefono      *string   `json:"telefono"`
	FechaRegistro time.Time `json:"fecha_registro"`
	Estado        string    `json:"estado"`
	ClienteID     *uint     `json:"cliente_id"`
	CitasActivas  int64     `json:"citas_activas"`
}

// PromoverRequest turns a walk-in into a client with a login account. Apellido
// overrides the surname otherwise taken from the walk-in's full name.
type PromoverRequest struct {
	Apellido  *string `json:"apellido"  validate:"omitempty,nombre_persona"`
	Documento *string `json:"documento" validate:"omitempty,min=5,max=20,alphanum"`
	Password  string  `json:"password"  validate:"required,min=8"`
}

type PromocionResponse struct {
	Cliente          ClienteResponse `json:"cliente"`
	Usuario          UsuarioResponse `json:"usuario"`
	CitasReasignadas int64           `json:"citas_reasignadas"`
}
