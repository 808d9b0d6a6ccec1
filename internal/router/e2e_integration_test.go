//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"barberia/internal/acceso"
	"barberia/internal/config"
	"barberia/internal/dto"
	"barberia/internal/infra"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/router"
	"barberia/internal/service"
	"barberia/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func nuevaAppPostgres(t *testing.T) (*app, *redis.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("barberia_test"),
		tcPostgres.WithUsername("barberia"),
		tcPostgres.WithPassword("barberia"),
		tcPostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgC)
	require.NoError(t, err)
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, rdC)
	require.NoError(t, err)
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase("postgres", pgURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

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
		DBDriver:           "postgres",
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		PDFStoragePath:     t.TempDir(),
		BusinessName:       "Barberia E2E",
	}
	sink := &notificacion.Memoria{}
	a := &app{
		engine: router.New(router.Deps{
			Config:   cfg,
			DB:       db,
			Redis:    rdb,
			Registro: reg,
			Sink:     sink,
			Cola:     worker.NewDispatcher(rdb),
		}),
		sink: sink,
	}
	a.token = a.login(t, adminEmail, adminPassword).AccessToken
	return a, rdb
}

// Walk-in books publicly, staff promotes them, and the new account only sees
// its own appointments.
func TestE2E_ReservaPromocionYVisibilidad(t *testing.T) {
	a, rdb := nuevaAppPostgres(t)
	ctx := context.Background()
	srv := a.servicio(t, "Corte clasico")
	otro := a.cliente(t, "Beatriz", "beatriz@mail.test")

	w := a.do(t, http.MethodPost, "/v1/citas", dto.CrearCitaRequest{
		ClienteID: &otro.ID, ServicioID: srv.ID, Fecha: "2025-12-01", Hora: "09:00",
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/v1/publico/reservas", dto.ReservaRequest{
		Nombre: "Marta Gomez", Email: "marta@mail.test", ServicioID: srv.ID, Fecha: "2025-12-01", Hora: "10:00",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Both bookings queued a confirmation e-mail.
	encolados, err := rdb.LLen(ctx, worker.QueueEmail).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), encolados)

	w = a.do(t, http.MethodGet, "/v1/clientes-temporales?q=marta", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	temporales := decode[[]dto.ClienteTemporalResponse](t, w)
	require.Len(t, temporales, 1)

	w = a.do(t, http.MethodPost, fmt.Sprintf("/v1/clientes-temporales/%d/promover", temporales[0].ID), dto.PromoverRequest{
		Password: "marta1234",
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	promo := decode[dto.PromocionResponse](t, w)
	assert.Equal(t, int64(1), promo.CitasReasignadas)
	assert.Equal(t, "Gomez", promo.Cliente.Apellido)

	tokenMarta := a.login(t, "marta@mail.test", "marta1234").AccessToken
	w = a.do(t, http.MethodGet, "/v1/citas", nil, tokenMarta)
	require.Equal(t, http.StatusOK, w.Code)
	citas := decode[[]dto.CitaResponse](t, w)
	require.Len(t, citas, 1)
	assert.Equal(t, "10:00", citas[0].Hora)
	assert.Empty(t, citas[0].Acciones)

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/v1/clientes", nil, tokenMarta).Code)
}

// The public catalog is served from Redis after the first read and dropped
// when a service changes.
func TestE2E_CatalogoCacheado(t *testing.T) {
	a, rdb := nuevaAppPostgres(t)
	ctx := context.Background()
	srv := a.servicio(t, "Afeitado")

	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/v1/publico/servicios", nil, "").Code)
	claves, err := rdb.Keys(ctx, "*").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, claves)

	w := a.do(t, http.MethodPut, fmt.Sprintf("/v1/servicios/%d", srv.ID), map[string]any{
		"nombre": "Afeitado", "precio": 18, "duracion_minutos": 20, "estado": "inactivo",
	}, a.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, "/v1/publico/servicios", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]dto.ServicioResponse](t, w))
}
