package dto

type ProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2,max=120"`
	NIT         string  `json:"nit"          validate:"required,min=5,max=20"`
	Contacto    *string `json:"contacto"     validate:"omitempty,nombre_persona"`
	Telefono    *string `json:"telefono"     validate:"omitempty,telefono"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"    validate:"omitempty,max=200"`
}

type ProveedorResponse struct {
	ID          uint    `json:"id"`
	RazonSocial string  `json:"razon_social"`
	NIT         string  `json:"nit"`
	Contacto    *string `json:"contacto"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"`
	Direccion   *string `json:"direccion"`
	Activo      bool    `json:"activo"`
}
