package dto

import "barberia/internal/acceso"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Nombre     string `json:"nombre"      validate:"required,min=2,max=120"`
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required,min=8"`
	RolID      uint   `json:"rol_id"      validate:"required"`
	ClienteID  *uint  `json:"cliente_id"`
	EmpleadoID *uint  `json:"empleado_id"`
}

type ActualizarUsuarioRequest struct {
	Nombre     *string `json:"nombre"      validate:"omitempty,min=2,max=120"`
	Email      *string `json:"email"       validate:"omitempty,email"`
	Password   *string `json:"password"    validate:"omitempty,min=8"`
	RolID      *uint   `json:"rol_id"`
	ClienteID  *uint   `json:"cliente_id"`
	EmpleadoID *uint   `json:"empleado_id"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID         uint   `json:"id"`
	Nombre     string `json:"nombre"`
	Email      string `json:"email"`
	RolID      uint   `json:"rol_id"`
	Rol        string `json:"rol"`
	ClienteID  *uint  `json:"cliente_id"`
	EmpleadoID *uint  `json:"empleado_id"`
	Activo     bool   `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

// SesionResponse describes what the authenticated actor can see: the menu in
// display order and the raw permission table of their role.
type SesionResponse struct {
	Usuario  UsuarioResponse `json:"usuario"`
	Menu     []acceso.Modulo `json:"menu"`
	Permisos acceso.Permisos `json:"permisos"`
}
