package service_test

import (
	"testing"

	"barberia/internal/acceso"
	"barberia/internal/config"
	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func crearUsuario(t *testing.T, e *entorno, svc service.AuthService, email, rol string, clienteID *uint) *dto.UsuarioResponse {
	t.Helper()
	u, err := svc.CrearUsuario(e.ctx, admin, dto.CrearUsuarioRequest{
		Nombre:    "Usuario Test",
		Email:     email,
		Password:  "secreto123",
		RolID:     rolPorNombre(t, e, rol).ID,
		ClienteID: clienteID,
	})
	require.NoError(t, err)
	return u
}

func TestLogin_CredencialesValidas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	u := crearUsuario(t, e, svc, "Pedro@Barberia.test", acceso.RolBarbero, nil)
	assert.Equal(t, "pedro@barberia.test", u.Email)

	resp, err := svc.Login(e.ctx, dto.LoginRequest{Email: "PEDRO@barberia.test", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)

	claims, err := service.ParseToken(testSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, service.TokenAcceso, claims.Tipo)
	assert.Equal(t, acceso.RolBarbero, claims.Actor().Rol)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	crearUsuario(t, e, svc, "pedro@barberia.test", acceso.RolBarbero, nil)

	_, err := svc.Login(e.ctx, dto.LoginRequest{Email: "pedro@barberia.test", Password: "otra-clave"})
	assert.ErrorIs(t, err, service.ErrCredenciales)

	_, err = svc.Login(e.ctx, dto.LoginRequest{Email: "nadie@barberia.test", Password: "secreto123"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestLogin_UsuarioDesactivado(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	u := crearUsuario(t, e, svc, "pedro@barberia.test", acceso.RolBarbero, nil)

	require.NoError(t, svc.DesactivarUsuario(e.ctx, admin, u.ID))
	_, err := svc.Login(e.ctx, dto.LoginRequest{Email: "pedro@barberia.test", Password: "secreto123"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestRefresh_SoloConRefreshToken(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	crearUsuario(t, e, svc, "pedro@barberia.test", acceso.RolBarbero, nil)
	login, err := svc.Login(e.ctx, dto.LoginRequest{Email: "pedro@barberia.test", Password: "secreto123"})
	require.NoError(t, err)

	_, err = svc.Refresh(e.ctx, login.AccessToken)
	assert.ErrorIs(t, err, service.ErrCredenciales)

	nuevo, err := svc.Refresh(e.ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, nuevo.AccessToken)

	_, err = svc.Refresh(e.ctx, "basura")
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestParseToken_FirmaIncorrecta(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	crearUsuario(t, e, svc, "pedro@barberia.test", acceso.RolBarbero, nil)
	login, err := svc.Login(e.ctx, dto.LoginRequest{Email: "pedro@barberia.test", Password: "secreto123"})
	require.NoError(t, err)

	_, err = service.ParseToken("otro-secreto-de-32-caracteres!!!!", login.AccessToken)
	assert.Error(t, err)
}

func TestSesion_MenuDelCliente(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	ana := e.cliente(t, "Ana", "ana@mail.test")
	u := crearUsuario(t, e, svc, "ana@mail.test", acceso.RolCliente, uintPtr(ana.ID))

	login, err := svc.Login(e.ctx, dto.LoginRequest{Email: "ana@mail.test", Password: "secreto123"})
	require.NoError(t, err)
	claims, err := service.ParseToken(testSecret, login.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, claims.ClienteID)
	assert.Equal(t, ana.ID, *claims.ClienteID)

	sesion, err := svc.Sesion(e.ctx, claims.Actor())
	require.NoError(t, err)
	assert.Equal(t, u.ID, sesion.Usuario.ID)
	assert.Equal(t, []acceso.Modulo{acceso.ModuloCitas, acceso.ModuloServicios}, sesion.Menu)
	assert.False(t, sesion.Permisos.Tiene(acceso.ModuloCitas, acceso.OpEliminar))
}

func TestSesion_AdministradorVeTodo(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	u := crearUsuario(t, e, svc, "root@barberia.test", acceso.RolAdministrador, nil)

	sesion, err := svc.Sesion(e.ctx, acceso.Actor{UsuarioID: u.ID, Rol: acceso.RolAdministrador})
	require.NoError(t, err)
	assert.Equal(t, acceso.Modulos, sesion.Menu)
	assert.True(t, sesion.Permisos.Tiene(acceso.ModuloRoles, acceso.OpEliminar))
}

func TestUsuarios_NoSeDesactivaASiMismo(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	u := crearUsuario(t, e, svc, "root@barberia.test", acceso.RolAdministrador, nil)

	yo := acceso.Actor{UsuarioID: u.ID, Rol: acceso.RolAdministrador}
	assert.ErrorIs(t, svc.DesactivarUsuario(e.ctx, yo, u.ID), service.ErrConflicto)
}

func TestUsuarios_EmailDuplicado(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())
	crearUsuario(t, e, svc, "pedro@barberia.test", acceso.RolBarbero, nil)

	_, err := svc.CrearUsuario(e.ctx, admin, dto.CrearUsuarioRequest{
		Nombre: "Otro", Email: "PEDRO@barberia.test", Password: "secreto123", RolID: rolPorNombre(t, e, acceso.RolBarbero).ID,
	})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "email")

	_, err = svc.CrearUsuario(e.ctx, barbero, dto.CrearUsuarioRequest{
		Nombre: "Otro", Email: "otro@barberia.test", Password: "secreto123", RolID: 1,
	})
	assert.ErrorIs(t, err, service.ErrAccesoDenegado)
}

func TestSembrarAdministrador_Idempotente(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewAuthService(e.store, e.reg, newTestCfg())

	creado, err := service.SembrarAdministrador(e.ctx, e.store, "Dueño", " Admin@Barberia.test ", "primera123")
	require.NoError(t, err)
	assert.True(t, creado)

	creado, err = service.SembrarAdministrador(e.ctx, e.store, "Dueño", "admin@barberia.test", "segunda123")
	require.NoError(t, err)
	assert.False(t, creado)

	_, err = svc.Login(e.ctx, dto.LoginRequest{Email: "admin@barberia.test", Password: "primera123"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
	resp, err := svc.Login(e.ctx, dto.LoginRequest{Email: "admin@barberia.test", Password: "segunda123"})
	require.NoError(t, err)
	assert.Equal(t, acceso.RolAdministrador, resp.User.Rol)

	_, err = service.SembrarAdministrador(e.ctx, e.store, "Dueño", "x@barberia.test", "corta")
	var verr *service.ValidacionError
	assert.ErrorAs(t, err, &verr)
}
