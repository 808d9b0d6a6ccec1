package worker

// email_worker.go
// Processes email jobs from QueueEmail: appointment notices, reminders and
// sale receipts (with the PDF attached).

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"barberia/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// Enviador delivers one message.
type Enviador interface {
	Enviar(c infra.Correo) error
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer Enviador
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer Enviador) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends the email. Malformed payloads and a disabled mailer are
// permanent failures; anything else (including an open circuit) is retried.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: payload invalido: %v", ErrPermanente, err)
	}
	if payload.ToEmail == "" {
		return fmt.Errorf("%w: to_email vacio", ErrPermanente)
	}

	err := w.mailer.Enviar(infra.Correo{
		Para:    payload.ToEmail,
		Asunto:  payload.Subject,
		Texto:   payload.Body,
		Adjunto: payload.PDFPath,
	})
	if errors.Is(err, infra.ErrMailerDeshabilitado) {
		return fmt.Errorf("%w: %v", ErrPermanente, err)
	}
	if err != nil {
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: email sent")
	return nil
}
