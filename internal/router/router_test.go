package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"barberia/internal/acceso"
	"barberia/internal/config"
	"barberia/internal/dto"
	"barberia/internal/infra"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/router"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "test_jwt_secret_32_chars_minimum!"
	adminEmail    = "admin@barberia.test"
	adminPassword = "admin1234"
)

type app struct {
	engine *gin.Engine
	sink   *notificacion.Memoria
	token  string // admin access token
}

func nuevaApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := infra.NewDatabase("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ctx := context.Background()
	store := repository.NewStore(db)
	require.NoError(t, service.SembrarRoles(ctx, store))
	reg := acceso.NuevoRegistro(nil)
	require.NoError(t, service.CargarRegistro(ctx, store, reg))
	_, err = service.SembrarAdministrador(ctx, store, "Admin", adminEmail, adminPassword)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		PDFStoragePath:     t.TempDir(),
		BusinessName:       "Barberia Test",
	}
	sink := &notificacion.Memoria{}
	a := &app{
		engine: router.New(router.Deps{Config: cfg, DB: db, Registro: reg, Sink: sink}),
		sink:   sink,
	}
	a.token = a.login(t, adminEmail, adminPassword).AccessToken
	return a
}

func (a *app) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *app) login(t *testing.T, email, password string) dto.LoginResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *app) rol(t *testing.T, nombre string) dto.RolResponse {
	t.Helper()
	w := a.do(t, http.MethodGet, "/v1/roles", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	for _, r := range decode[[]dto.RolResponse](t, w) {
		if r.Nombre == nombre {
			return r
		}
	}
	t.Fatalf("rol %s no encontrado", nombre)
	return dto.RolResponse{}
}

func (a *app) servicio(t *testing.T, nombre string) dto.ServicioResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/v1/servicios", map[string]any{
		"nombre": nombre, "precio": 25, "duracion_minutos": 30,
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.ServicioResponse](t, w)
}

func (a *app) cliente(t *testing.T, nombre, email string) dto.ClienteResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/v1/clientes", map[string]any{
		"nombre": nombre, "apellido": "Prueba", "email": email,
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.ClienteResponse](t, w)
}

// ── Infra endpoints ──────────────────────────────────────────────────────────

func TestHealth_SinRedis(t *testing.T) {
	a := nuevaApp(t)

	w := a.do(t, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	body := decode[map[string]any](t, w)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
	assert.Equal(t, "disabled", body["smtp"])
}

func TestRequestID_SeRespeta(t *testing.T) {
	a := nuevaApp(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestMetrics_Expuestas(t *testing.T) {
	a := nuevaApp(t)
	a.do(t, http.MethodGet, "/health", nil, "")

	w := a.do(t, http.MethodGet, "/metrics", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestRutasProtegidas_SinToken(t *testing.T) {
	a := nuevaApp(t)

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/v1/citas", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/v1/citas", nil, "no.es.jwt").Code)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	a := nuevaApp(t)

	w := a.do(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{Email: adminEmail, Password: "otra-clave"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/v1/auth/login", map[string]string{"email": "no-es-email", "password": "x"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[map[string]any](t, w)["fields"], "email")
}

func TestRefreshToken_NoSirveComoAcceso(t *testing.T) {
	a := nuevaApp(t)
	tokens := a.login(t, adminEmail, adminPassword)

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/v1/auth/sesion", nil, tokens.RefreshToken).Code)

	w := a.do(t, http.MethodPost, "/v1/auth/refresh", dto.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	require.Equal(t, http.StatusOK, w.Code)
	nuevo := decode[dto.LoginResponse](t, w)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/v1/auth/sesion", nil, nuevo.AccessToken).Code)
}

func TestSesion_MenuDelAdministrador(t *testing.T) {
	a := nuevaApp(t)

	w := a.do(t, http.MethodGet, "/v1/auth/sesion", nil, a.token)

	require.Equal(t, http.StatusOK, w.Code)
	sesion := decode[dto.SesionResponse](t, w)
	assert.Equal(t, acceso.Modulos, sesion.Menu)
	assert.Equal(t, adminEmail, sesion.Usuario.Email)
}

// ── Roles ────────────────────────────────────────────────────────────────────

func TestRoles_CambioDePermisosAplicaAlInstante(t *testing.T) {
	a := nuevaApp(t)
	barbero := a.rol(t, acceso.RolBarbero)
	w := a.do(t, http.MethodPost, "/v1/usuarios", dto.CrearUsuarioRequest{
		Nombre: "Pedro", Email: "pedro@barberia.test", Password: "pedro1234", RolID: barbero.ID,
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tokenBarbero := a.login(t, "pedro@barberia.test", "pedro1234").AccessToken

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/v1/compras", nil, tokenBarbero).Code)

	w = a.do(t, http.MethodPut, fmt.Sprintf("/v1/roles/%d", barbero.ID), dto.ActualizarRolRequest{
		Permisos: acceso.Permisos{acceso.ModuloCompras: {acceso.OpLeer}},
	}, a.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Same token: permissions are read from the registry, not the JWT.
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/v1/compras", nil, tokenBarbero).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/v1/citas", nil, tokenBarbero).Code)
}

func TestRoles_AdministradorInmutable(t *testing.T) {
	a := nuevaApp(t)
	adminRol := a.rol(t, acceso.RolAdministrador)
	assert.True(t, adminRol.Protegido)

	w := a.do(t, http.MethodPut, fmt.Sprintf("/v1/roles/%d", adminRol.ID), dto.ActualizarRolRequest{
		Permisos: acceso.Permisos{acceso.ModuloCitas: {acceso.OpLeer}},
	}, a.token)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodDelete, fmt.Sprintf("/v1/roles/%d", adminRol.ID), nil, a.token).Code)
}

// ── Citas ────────────────────────────────────────────────────────────────────

func TestCitas_CicloCompleto(t *testing.T) {
	a := nuevaApp(t)
	srv := a.servicio(t, "Corte clasico")
	ana := a.cliente(t, "Ana", "ana@mail.test")

	w := a.do(t, http.MethodPost, "/v1/citas", dto.CrearCitaRequest{
		ClienteID: &ana.ID, ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00",
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cita := decode[dto.CitaResponse](t, w)
	assert.Equal(t, "pendiente", cita.Estado)

	// Same slot while the first one is active.
	w = a.do(t, http.MethodPost, "/v1/citas", dto.CrearCitaRequest{
		ClienteID: &ana.ID, ServicioID: srv.ID, Fecha: "2025-11-10", Hora: "10:00",
	}, a.token)
	assert.Equal(t, http.StatusConflict, w.Code)

	base := fmt.Sprintf("/v1/citas/%d", cita.ID)
	w = a.do(t, http.MethodPost, base+"/completar", nil, a.token)
	assert.Equal(t, http.StatusConflict, w.Code, "pendiente no se completa")

	w = a.do(t, http.MethodPost, base+"/confirmar", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmada", decode[dto.CitaResponse](t, w).Estado)

	w = a.do(t, http.MethodPost, base+"/completar", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completada", decode[dto.CitaResponse](t, w).Estado)

	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, base+"/cancelar", dto.CancelarCitaRequest{Motivo: "tarde"}, a.token).Code)
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodDelete, base, nil, a.token).Code)
	assert.Len(t, a.sink.Mensajes, 5, "servicio, cliente y tres de la cita")
}

func TestCitas_ErroresDeRuta(t *testing.T) {
	a := nuevaApp(t)

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/v1/citas/abc", nil, a.token).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/v1/citas/999", nil, a.token).Code)

	w := a.do(t, http.MethodPost, "/v1/citas", map[string]any{"servicio_id": 1, "fecha": "10/11/2025", "hora": "25:00"}, a.token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	campos := decode[map[string]any](t, w)["fields"].(map[string]any)
	assert.Contains(t, campos, "fecha")
	assert.Contains(t, campos, "hora")
}

// ── Publico ──────────────────────────────────────────────────────────────────

func TestPublico_CatalogoYReserva(t *testing.T) {
	a := nuevaApp(t)
	srv := a.servicio(t, "Afeitado")

	w := a.do(t, http.MethodGet, "/v1/publico/servicios", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.ServicioResponse](t, w), 1)

	w = a.do(t, http.MethodPost, "/v1/publico/reservas", dto.ReservaRequest{
		Nombre: "Walter Paseo", Email: "walter@mail.test", ServicioID: srv.ID, Fecha: "2025-11-12", Hora: "11:30",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reserva := decode[dto.ReservaResponse](t, w)
	assert.True(t, reserva.Temporal)
	assert.Equal(t, "pendiente", reserva.Estado)

	w = a.do(t, http.MethodGet, "/v1/clientes-temporales", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.ClienteTemporalResponse](t, w), 1)
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func TestVentas_ComprobantePDF(t *testing.T) {
	a := nuevaApp(t)
	srv := a.servicio(t, "Corte y barba")

	w := a.do(t, http.MethodPost, "/v1/ventas", dto.CrearVentaRequest{
		MetodoPago: "efectivo",
		Items:      []dto.VentaItemRequest{{ServicioID: &srv.ID, Cantidad: 2}},
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	venta := decode[dto.VentaResponse](t, w)
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(50)), venta.Total.String())

	w = a.do(t, http.MethodGet, fmt.Sprintf("/v1/ventas/%d/comprobante", venta.ID), nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/v1/ventas/999/comprobante", nil, a.token).Code)
}
