package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Breaker guards the SMTP relay. After FallosParaAbrir consecutive failures
// every call fails fast with ErrBreakerAbierto until Espera has passed; then
// calls go through as probes and ExitosParaCerrar successes close it again.
// A failed probe reopens it.
type Breaker struct {
	cfg ConfigBreaker

	mu           sync.Mutex
	estado       EstadoBreaker
	fallos       int
	exitos       int
	abiertoHasta time.Time
	ahora        func() time.Time
}

type EstadoBreaker int

const (
	BreakerCerrado EstadoBreaker = iota
	BreakerAbierto
	BreakerSondeando
)

func (e EstadoBreaker) String() string {
	switch e {
	case BreakerCerrado:
		return "closed"
	case BreakerAbierto:
		return "open"
	case BreakerSondeando:
		return "half-open"
	}
	return "unknown"
}

var ErrBreakerAbierto = errors.New("servicio no disponible: circuito abierto")

type ConfigBreaker struct {
	Nombre           string
	FallosParaAbrir  int
	ExitosParaCerrar int
	Espera           time.Duration
	// AlCambiar runs outside the lock after every state change.
	AlCambiar func(nombre string, desde, hacia EstadoBreaker)
}

func NewBreaker(cfg ConfigBreaker) *Breaker {
	if cfg.FallosParaAbrir <= 0 {
		cfg.FallosParaAbrir = 5
	}
	if cfg.ExitosParaCerrar <= 0 {
		cfg.ExitosParaCerrar = 2
	}
	if cfg.Espera <= 0 {
		cfg.Espera = time.Minute
	}
	return &Breaker{cfg: cfg, ahora: time.Now}
}

// Estado reports the current state, moving from open to probing once the
// wait is over.
func (b *Breaker) Estado() EstadoBreaker {
	b.mu.Lock()
	desde := b.estado
	if b.estado == BreakerAbierto && !b.ahora().Before(b.abiertoHasta) {
		b.pasarA(BreakerSondeando)
	}
	hacia := b.estado
	b.mu.Unlock()

	b.avisar(desde, hacia)
	return hacia
}

// Ejecutar runs fn unless the breaker is open and records its outcome.
func (b *Breaker) Ejecutar(fn func() error) error {
	if b.Estado() == BreakerAbierto {
		return ErrBreakerAbierto
	}
	err := fn()

	b.mu.Lock()
	desde := b.estado
	b.registrar(err)
	hacia := b.estado
	b.mu.Unlock()

	b.avisar(desde, hacia)
	return err
}

// registrar must be called with mu held.
func (b *Breaker) registrar(err error) {
	if err == nil {
		b.fallos = 0
		if b.estado == BreakerSondeando {
			b.exitos++
			if b.exitos >= b.cfg.ExitosParaCerrar {
				b.pasarA(BreakerCerrado)
			}
		}
		return
	}
	b.fallos++
	if b.estado == BreakerSondeando || b.fallos >= b.cfg.FallosParaAbrir {
		b.pasarA(BreakerAbierto)
	}
}

// pasarA must be called with mu held.
func (b *Breaker) pasarA(e EstadoBreaker) {
	b.estado = e
	b.fallos, b.exitos = 0, 0
	if e == BreakerAbierto {
		b.abiertoHasta = b.ahora().Add(b.cfg.Espera)
	}
}

func (b *Breaker) avisar(desde, hacia EstadoBreaker) {
	if desde == hacia {
		return
	}
	log.Warn().Str("breaker", b.cfg.Nombre).Str("desde", desde.String()).Str("hacia", hacia.String()).Msg("cambio de estado del circuito")
	if b.cfg.AlCambiar != nil {
		b.cfg.AlCambiar(b.cfg.Nombre, desde, hacia)
	}
}
