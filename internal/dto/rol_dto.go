package dto

import "barberia/internal/acceso"

type CrearRolRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=3,max=50"`
	Descripcion *string         `json:"descripcion" validate:"omitempty,max=255"`
	Permisos    acceso.Permisos `json:"permisos"`
}

// ActualizarRolRequest leaves nil fields unchanged.
type ActualizarRolRequest struct {
	Nombre      *string         `json:"nombre"      validate:"omitempty,min=3,max=50"`
	Descripcion *string         `json:"descripcion" validate:"omitempty,max=255"`
	Permisos    acceso.Permisos `json:"permisos"`
}

type CambiarEstadoRequest struct {
	Activo *bool `json:"activo" validate:"required"`
}

type RolResponse struct {
	ID          uint            `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Permisos    acceso.Permisos `json:"permisos"`
	Activo      bool            `json:"activo"`
	Protegido   bool            `json:"protegido"`
}
