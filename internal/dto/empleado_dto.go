package dto

type EmpleadoRequest struct {
	Nombre       string  `json:"nombre"       validate:"required,nombre_persona"`
	Apellido     string  `json:"apellido"     validate:"required,nombre_persona"`
	Documento    string  `json:"documento"    validate:"required,min=5,max=20,alphanum"`
	Email        *string `json:"email"        validate:"omitempty,email"`
	Telefono     *string `json:"telefono"     validate:"omitempty,telefono"`
	Especialidad *string `json:"especialidad" validate:"omitempty,max=100"`
}

type EmpleadoResponse struct {
	ID           uint    `json:"id"`
	Nombre       string  `json:"nombre"`
	Apellido     string  `json:"apellido"`
	Documento    string  `json:"documento"`
	Email        *string `json:"email"`
	Telefono     *string `json:"telefono"`
	Especialidad *string `json:"especialidad"`
	Activo       bool    `json:"activo"`
}
