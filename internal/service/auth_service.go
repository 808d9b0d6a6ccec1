package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"barberia/internal/acceso"
	"barberia/internal/config"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenAcceso   = "access"
	TokenRefresco = "refresh"

	bcryptCost = 12
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// Sesion describes the menu and permissions of the authenticated actor.
	Sesion(ctx context.Context, actor acceso.Actor) (*dto.SesionResponse, error)
	CrearUsuario(ctx context.Context, actor acceso.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, actor acceso.Actor, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, actor acceso.Actor, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, actor acceso.Actor, id uint) error
	ReactivarUsuario(ctx context.Context, actor acceso.Actor, id uint) error
}

type authService struct {
	store *repository.Store
	reg   *acceso.Registro
	cfg   *config.Config
}

func NewAuthService(store *repository.Store, reg *acceso.Registro, cfg *config.Config) AuthService {
	return &authService{store: store, reg: reg, cfg: cfg}
}

// HashPassword returns the bcrypt hash stored in Usuario.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SembrarAdministrador creates the bootstrap administrator account, or resets
// its password when an active account with that e-mail already exists.
// Roles must be seeded first. creado reports whether a new account was inserted.
func SembrarAdministrador(ctx context.Context, store *repository.Store, nombre, email, password string) (creado bool, err error) {
	if len(password) < 8 {
		return false, invalido("password", "debe tener al menos 8 caracteres")
	}
	rol, err := store.Roles.FindByNombre(ctx, acceso.RolAdministrador)
	if err != nil {
		return false, noEncontrado("el rol Administrador no existe; ejecute las migraciones", err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := store.Usuarios.FindByEmail(ctx, email)
	switch {
	case esNoEncontrado(err):
		user = &model.Usuario{Nombre: recortar(nombre), Email: email, PasswordHash: hash, RolID: rol.ID, Activo: true}
		if err := store.Usuarios.Create(ctx, user); err != nil {
			return false, duplicado(err, "la cuenta existe pero esta desactivada")
		}
		return true, nil
	case err != nil:
		return false, err
	}
	user.PasswordHash, user.RolID = hash, rol.ID
	user.Rol = nil
	return false, store.Usuarios.Update(ctx, user)
}

// ── Sesion ────────────────────────────────────────────────────────────────────

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.store.Usuarios.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if esNoEncontrado(err) {
			return nil, ErrCredenciales
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	log.Info().Uint("usuario_id", user.ID).Str("rol", user.NombreRol()).Msg("login")
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := ParseToken(s.cfg.JWTSecret, refreshToken)
	if err != nil || claims.Tipo != TokenRefresco {
		return nil, errNegocio{base: ErrCredenciales, msg: "refresh token invalido o expirado"}
	}
	user, err := s.store.Usuarios.FindByID(ctx, claims.UserID)
	if err != nil || !user.Activo {
		return nil, errNegocio{base: ErrCredenciales, msg: "usuario no encontrado o inactivo"}
	}
	return s.emitirTokens(user)
}

func (s *authService) Sesion(ctx context.Context, actor acceso.Actor) (*dto.SesionResponse, error) {
	user, err := s.store.Usuarios.FindByID(ctx, actor.UsuarioID)
	if err != nil {
		return nil, noEncontrado("usuario no encontrado", err)
	}
	permisos := acceso.Permisos{}
	switch {
	case acceso.EsRolProtegido(user.NombreRol()):
		permisos = acceso.PermisosCompletos()
	case user.Rol != nil && user.Rol.Activo && user.Rol.Permisos != nil:
		permisos = user.Rol.Permisos
	}
	return &dto.SesionResponse{
		Usuario:  usuarioToResponse(user),
		Menu:     s.reg.Menu(user.NombreRol()),
		Permisos: permisos,
	}, nil
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresco, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

// Claims are the custom claims embedded in every token.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Rol       string `json:"rol"`
	ClienteID *uint  `json:"cliente_id,omitempty"`
	Tipo      string `json:"typ"`
	jwt.RegisteredClaims
}

// Actor returns the identity carried by the token.
func (c *Claims) Actor() acceso.Actor {
	return acceso.Actor{UsuarioID: c.UserID, Email: c.Email, Rol: c.Rol, ClienteID: c.ClienteID}
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Rol:       user.NombreRol(),
		ClienteID: user.ClienteID,
		Tipo:      tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ParseToken validates an HS256 token signed with secret.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token invalido")
	}
	return claims, nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func (s *authService) validarVinculos(ctx context.Context, rolID uint, clienteID, empleadoID *uint) (*model.Rol, error) {
	rol, err := s.store.Roles.FindByID(ctx, rolID)
	if err != nil {
		if esNoEncontrado(err) {
			return nil, invalido("rol_id", "el rol no existe")
		}
		return nil, err
	}
	if clienteID != nil {
		if _, err := s.store.Clientes.FindByID(ctx, *clienteID); err != nil {
			if esNoEncontrado(err) {
				return nil, invalido("cliente_id", "el cliente no existe")
			}
			return nil, err
		}
	}
	if empleadoID != nil {
		if _, err := s.store.Empleados.FindByID(ctx, *empleadoID); err != nil {
			if esNoEncontrado(err) {
				return nil, invalido("empleado_id", "el empleado no existe")
			}
			return nil, err
		}
	}
	return rol, nil
}

func (s *authService) CrearUsuario(ctx context.Context, actor acceso.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloUsuarios, acceso.OpCrear); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existe, err := s.store.Usuarios.ExisteEmail(ctx, email, 0); err != nil {
		return nil, err
	} else if existe {
		return nil, invalido("email", "ya existe una cuenta con ese correo")
	}
	rol, err := s.validarVinculos(ctx, req.RolID, req.ClienteID, req.EmpleadoID)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		Nombre:       recortar(req.Nombre),
		Email:        email,
		PasswordHash: hash,
		RolID:        rol.ID,
		ClienteID:    req.ClienteID,
		EmpleadoID:   req.EmpleadoID,
		Activo:       true,
		Rol:          rol,
	}
	if err := s.store.Usuarios.Create(ctx, user); err != nil {
		return nil, duplicado(err, "ya existe una cuenta con ese correo")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, actor acceso.Actor, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloUsuarios, acceso.OpLeer); err != nil {
		return nil, err
	}
	var users []model.Usuario
	var err error
	if incluirInactivos {
		users, err = s.store.Usuarios.ListAll(ctx)
	} else {
		users, err = s.store.Usuarios.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, actor acceso.Actor, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := autorizar(s.reg, actor, acceso.ModuloUsuarios, acceso.OpActualizar); err != nil {
		return nil, err
	}
	if err := validar(req); err != nil {
		return nil, err
	}
	user, err := s.store.Usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado("usuario no encontrado", err)
	}

	if req.Nombre != nil {
		user.Nombre = recortar(*req.Nombre)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if existe, err := s.store.Usuarios.ExisteEmail(ctx, email, user.ID); err != nil {
			return nil, err
		} else if existe {
			return nil, invalido("email", "ya existe una cuenta con ese correo")
		}
		user.Email = email
	}
	rolID := user.RolID
	if req.RolID != nil {
		rolID = *req.RolID
	}
	if req.ClienteID != nil {
		user.ClienteID = req.ClienteID
	}
	if req.EmpleadoID != nil {
		user.EmpleadoID = req.EmpleadoID
	}
	rol, err := s.validarVinculos(ctx, rolID, req.ClienteID, req.EmpleadoID)
	if err != nil {
		return nil, err
	}
	user.RolID, user.Rol = rol.ID, rol
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.store.Usuarios.Update(ctx, user); err != nil {
		return nil, duplicado(err, "ya existe una cuenta con ese correo")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloUsuarios, acceso.OpEliminar); err != nil {
		return err
	}
	if id == actor.UsuarioID {
		return conflicto("no puede desactivar su propia cuenta")
	}
	if _, err := s.store.Usuarios.FindByID(ctx, id); err != nil {
		return noEncontrado("usuario no encontrado", err)
	}
	return s.store.Usuarios.SoftDelete(ctx, id)
}

func (s *authService) ReactivarUsuario(ctx context.Context, actor acceso.Actor, id uint) error {
	if err := autorizar(s.reg, actor, acceso.ModuloUsuarios, acceso.OpActualizar); err != nil {
		return err
	}
	if _, err := s.store.Usuarios.FindByID(ctx, id); err != nil {
		return noEncontrado("usuario no encontrado", err)
	}
	return s.store.Usuarios.Reactivar(ctx, id)
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:         u.ID,
		Nombre:     u.Nombre,
		Email:      u.Email,
		RolID:      u.RolID,
		Rol:        u.NombreRol(),
		ClienteID:  u.ClienteID,
		EmpleadoID: u.EmpleadoID,
		Activo:     u.Activo,
	}
}
