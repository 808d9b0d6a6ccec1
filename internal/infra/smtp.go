package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"barberia/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerDeshabilitado is returned when no SMTP host is configured.
var ErrMailerDeshabilitado = errors.New("mailer: SMTP no configurado")

// Correo is one outgoing message. Adjunto is an optional file path.
type Correo struct {
	Para    string
	Asunto  string
	Texto   string
	Adjunto string
}

// Mailer sends e-mail over SMTP through a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	cb       *Breaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config, cb *Breaker) *Mailer {
	from := cfg.SMTPUser
	if cfg.BusinessName != "" && cfg.SMTPUser != "" {
		from = fmt.Sprintf("%s <%s>", cfg.BusinessName, cfg.SMTPUser)
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     from,
		cb:       cb,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (m *Mailer) Habilitado() bool { return m.host != "" }

// Enviar delivers c. It fails fast with ErrBreakerAbierto while the relay is
// considered down.
func (m *Mailer) Enviar(c Correo) error {
	if !m.Habilitado() {
		return ErrMailerDeshabilitado
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{c.Para}
	e.Subject = c.Asunto
	e.Text = []byte(c.Texto)

	if c.Adjunto != "" {
		if _, err := e.AttachFile(c.Adjunto); err != nil {
			return fmt.Errorf("mailer: attach: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.cb.Ejecutar(func() error {
		return m.send(e, m.addr, auth)
	})
}
