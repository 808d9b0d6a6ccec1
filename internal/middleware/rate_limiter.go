package middleware

import (
	"net/http"
	"sync"
	"time"

	"barberia/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana tracks requests per IP within a fixed window.
type ventana struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// limitador is a per-IP fixed-window counter. Every limitador registers
// itself for the purge goroutine.
type limitador struct {
	nombre string
	limit  int
	window time.Duration
	msg    string

	mu  sync.Mutex
	ips map[string]*ventana
}

var (
	limitadores   []*limitador
	limitadoresMu sync.Mutex
)

func nuevoLimitador(nombre string, limit int, window time.Duration, msg string) *limitador {
	l := &limitador{nombre: nombre, limit: limit, window: window, msg: msg, ips: make(map[string]*ventana)}
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	return l
}

// permitir counts one request from ip and reports whether it is allowed,
// plus the end of the current window.
func (l *limitador) permitir(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	v, exists := l.ips[ip]
	if !exists {
		v = &ventana{}
		l.ips[ip] = v
	}
	l.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	if now.After(v.windowEnd) {
		v.count = 0
		v.windowEnd = now.Add(l.window)
	}
	v.count++
	return v.count <= l.limit, v.windowEnd
}

func (l *limitador) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := l.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

func (l *limitador) purgar(now time.Time) (purgadas, restantes int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.ips {
		v.mu.Lock()
		if now.After(v.windowEnd) {
			delete(l.ips, ip)
			purgadas++
		}
		v.mu.Unlock()
	}
	return purgadas, len(l.ips)
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return nuevoLimitador("login", 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// ReservaRateLimiter limits anonymous bookings to 10 per hour per IP.
func ReservaRateLimiter() gin.HandlerFunc {
	return nuevoLimitador("reservas", 10, time.Hour, "Demasiadas reservas desde esta conexion. Intente mas tarde.").handler()
}

// RateLimiter returns a general-purpose fixed-window rate limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return nuevoLimitador("api", limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Drops expired windows so IPs that never return do not accumulate.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		limitadoresMu.Lock()
		activos := append([]*limitador(nil), limitadores...)
		limitadoresMu.Unlock()

		for _, l := range activos {
			if purgadas, restantes := l.purgar(now); purgadas > 0 {
				log.Debug().
					Str("limitador", l.nombre).
					Int("purged", purgadas).
					Int("remaining", restantes).
					Msg("rate limiter map purged")
			}
		}
	}
}
