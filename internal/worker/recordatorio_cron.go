package worker

// recordatorio_cron.go
// Background goroutine that periodically enqueues reminder e-mails for the
// confirmed appointments of the next day. Each appointment is reminded once;
// RecordatorioEn is stamped after the job is queued.

import (
	"context"
	"fmt"
	"time"

	"barberia/internal/model"
	"barberia/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	recordatorioTickInterval = 15 * time.Minute
	recordatorioBatchSize    = 50
)

// EmailQueue is the part of the Dispatcher the cron needs.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// RecordatorioCronConfig holds all dependencies for the reminder goroutine.
type RecordatorioCronConfig struct {
	Citas   repository.CitaRepository
	Cola    EmailQueue
	Negocio string
	Ahora   func() time.Time
}

// StartRecordatorioCron launches the reminder goroutine. It respects ctx for
// graceful shutdown.
func StartRecordatorioCron(ctx context.Context, cfg RecordatorioCronConfig) {
	if cfg.Ahora == nil {
		cfg.Ahora = time.Now
	}
	go func() {
		ticker := time.NewTicker(recordatorioTickInterval)
		defer ticker.Stop()

		log.Info().Msg("recordatorio_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("recordatorio_cron: shutting down")
				return
			case <-ticker.C:
				if _, err := EnviarRecordatorios(ctx, cfg); err != nil {
					log.Error().Err(err).Msg("recordatorio_cron: tick failed")
				}
			}
		}
	}()
}

// EnviarRecordatorios runs one tick and returns how many reminders were queued.
func EnviarRecordatorios(ctx context.Context, cfg RecordatorioCronConfig) (int, error) {
	if cfg.Ahora == nil {
		cfg.Ahora = time.Now
	}
	ahora := cfg.Ahora()
	manana := ahora.AddDate(0, 0, 1).Format("2006-01-02")

	citas, err := cfg.Citas.PendientesDeRecordatorio(ctx, manana, recordatorioBatchSize)
	if err != nil {
		return 0, err
	}

	enviados := 0
	for i := range citas {
		c := &citas[i]
		nombre, email := c.Contacto()
		if email != "" {
			if err := cfg.Cola.EnqueueEmail(ctx, mensajeRecordatorio(c, nombre, email, cfg.Negocio)); err != nil {
				log.Warn().Err(err).Uint("cita_id", c.ID).Msg("recordatorio_cron: enqueue failed")
				continue
			}
			enviados++
		}
		// stamped even without an address so the row is not scanned again
		if err := cfg.Citas.MarcarRecordatorio(ctx, c.ID, ahora); err != nil {
			log.Error().Err(err).Uint("cita_id", c.ID).Msg("recordatorio_cron: mark failed")
		}
	}
	if enviados > 0 {
		log.Info().Int("count", enviados).Str("fecha", manana).Msg("recordatorio_cron: reminders queued")
	}
	return enviados, nil
}

func mensajeRecordatorio(c *model.Cita, nombre, email, negocio string) EmailJobPayload {
	servicio := "su servicio"
	if c.Servicio != nil {
		servicio = c.Servicio.Nombre
	}
	return EmailJobPayload{
		ToEmail: email,
		Subject: fmt.Sprintf("%s: recordatorio de su cita", negocio),
		Body: fmt.Sprintf("Hola %s,\n\nLe recordamos su cita de %s para mañana %s a las %s.\n\n%s",
			nombre, servicio, c.Fecha, c.Hora, negocio),
	}
}
