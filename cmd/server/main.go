package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberia/internal/acceso"
	"barberia/internal/config"
	"barberia/internal/infra"
	"barberia/internal/metrics"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/router"
	"barberia/internal/service"
	"barberia/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if err := cfg.Validar(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := infra.InitTracing(ctx, cfg.OTELEndpoint, "barberia-api", cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init tracing")
	}

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Roles are seeded on first boot and the registry is loaded from them.
	store := repository.NewStore(db)
	if err := service.SembrarRoles(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("failed to seed roles")
	}
	reg := acceso.NuevoRegistro(nil)
	if err := service.CargarRegistro(ctx, store, reg); err != nil {
		log.Fatal().Err(err).Msg("failed to load role registry")
	}

	// Redis is optional: without it there is no catalog cache, no e-mail
	// queue and no reminders.
	var (
		rdb  redis.Cmdable
		cola worker.EmailQueue
	)
	if client, err := infra.NewRedis(cfg.RedisURL); err != nil {
		log.Warn().Err(err).Msg("redis unavailable: e-mail and cache disabled")
	} else {
		rdb = client
		defer client.Close()
	}

	mailCB := infra.NewBreaker(infra.ConfigBreaker{
		Nombre:           "smtp",
		FallosParaAbrir:  cfg.SMTPBreakerFallos,
		ExitosParaCerrar: 2,
		Espera:           cfg.SMTPBreakerEspera,
		AlCambiar: func(nombre string, _, hacia infra.EstadoBreaker) {
			metrics.SetBreakerOpen(nombre, hacia == infra.BreakerAbierto)
		},
	})
	mailer := infra.NewMailer(cfg, mailCB)

	// Worker handlers are wired here (composition root) so the pool has
	// access to every infrastructure dependency.
	if rdb != nil {
		dispatcher := worker.NewDispatcher(rdb)
		cola = dispatcher

		pool := worker.NewPool(rdb, cfg.EmailMaxAttempts)
		pool.Handle(worker.QueueEmail, worker.JobEmail, worker.NewEmailWorker(mailer))
		pool.Start(ctx, cfg.WorkerPoolSize)

		worker.StartRecordatorioCron(ctx, worker.RecordatorioCronConfig{
			Citas:   store.Citas,
			Cola:    dispatcher,
			Negocio: cfg.BusinessName,
		})
	}
	if !mailer.Habilitado() {
		log.Warn().Msg("SMTP_HOST not set: e-mails will be dropped")
	}

	hub := notificacion.NuevoHub(reg, origenPermitido(cfg.Origins()))
	go hub.Run(ctx)

	r := router.New(router.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Registro: reg,
		Sink:     hub,
		Hub:      hub,
		Cola:     cola,
		MailCB:   mailCB,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      otelhttp.NewHandler(r, "barberia-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Barberia backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("tracing flush failed")
	}
	log.Info().Msg("server exited")
}

// origenPermitido accepts WebSocket upgrades from the configured CORS
// origins; with none configured every origin is accepted.
func origenPermitido(origins []string) func(r *http.Request) bool {
	permitidos := make(map[string]bool, len(origins))
	for _, o := range origins {
		permitidos[o] = true
	}
	return func(r *http.Request) bool {
		if len(permitidos) == 0 || permitidos["*"] {
			return true
		}
		return permitidos[r.Header.Get("Origin")]
	}
}
