package service

import (
	"context"
	"errors"
	"strings"

	"barberia/internal/acceso"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// autorizar re-checks the actor's role against the registry. Handlers check
// too, but services must hold the rule on their own.
func autorizar(reg *acceso.Registro, actor acceso.Actor, m acceso.Modulo, op acceso.Operacion) error {
	if !reg.Permite(actor.Rol, m, op) {
		return denegado("el rol %s no puede %s en %s", actor.Rol, op, m)
	}
	return nil
}

// resolverCliente finds the client record of a client actor: the account's
// ClienteID first, then a case-insensitive e-mail match. nil means the
// account has no client record.
func resolverCliente(ctx context.Context, store *repository.Store, actor acceso.Actor) (*uint, error) {
	if actor.ClienteID != nil {
		return actor.ClienteID, nil
	}
	if strings.TrimSpace(actor.Email) == "" {
		return nil, nil
	}
	c, err := store.Clientes.FindByEmail(ctx, actor.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c.ID, nil
}

// ActorConCliente fills ClienteID for client actors whose account predates
// the link and only matches a client by e-mail. Staff actors pass through.
func ActorConCliente(ctx context.Context, store *repository.Store, actor acceso.Actor) (acceso.Actor, error) {
	if !actor.EsCliente() || actor.ClienteID != nil {
		return actor, nil
	}
	id, err := resolverCliente(ctx, store, actor)
	if err != nil {
		return actor, err
	}
	actor.ClienteID = id
	return actor, nil
}

// publicar hands m to the sink. Nil sinks are allowed.
func publicar(sink notificacion.Sink, m notificacion.Mensaje) {
	if sink != nil {
		sink.Publicar(m)
	}
}

// encolarEmail queues a message; failures are logged and never surface.
func encolarEmail(ctx context.Context, cola worker.EmailQueue, p worker.EmailJobPayload) {
	if cola == nil || p.ToEmail == "" {
		return
	}
	if err := cola.EnqueueEmail(ctx, p); err != nil {
		log.Warn().Err(err).Str("to", p.ToEmail).Msg("no se pudo encolar el correo")
	}
}

func recortar(s string) string { return strings.TrimSpace(s) }

// recortarPtr trims *s and maps blank strings to nil.
func recortarPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
