package notificacion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"barberia/internal/acceso"
	"barberia/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Conexion is one connected console.
type Conexion struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	actor acceso.Actor
}

// Hub maintains the set of active consoles and fans notifications out to the
// ones whose role can see the message's module.
type Hub struct {
	registro   *acceso.Registro
	conexiones map[*Conexion]struct{}
	publicar   chan Mensaje
	register   chan *Conexion
	unregister chan *Conexion
	done       chan struct{}
	upgrader   websocket.Upgrader
}

// ErrHubDetenido is returned by Servir once Run has returned.
var ErrHubDetenido = errors.New("notificacion: hub detenido")

func NuevoHub(reg *acceso.Registro, checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		registro:   reg,
		conexiones: make(map[*Conexion]struct{}),
		publicar:   make(chan Mensaje, 64),
		register:   make(chan *Conexion),
		unregister: make(chan *Conexion),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Publicar queues m for delivery. When the queue is full the message is
// dropped and logged.
func (h *Hub) Publicar(m Mensaje) {
	if m.Fecha.IsZero() {
		m.Fecha = time.Now()
	}
	select {
	case h.publicar <- m:
	default:
		log.Warn().Str("modulo", string(m.Modulo)).Msg("notificacion: cola llena, mensaje descartado")
	}
}

// Destinatario reports whether a console opened by actor receives m.
func (h *Hub) Destinatario(actor acceso.Actor, m Mensaje) bool {
	if !h.registro.PuedeVer(actor.Rol, m.Modulo) {
		return false
	}
	if actor.EsCliente() {
		return m.ClienteID != nil && actor.ClienteID != nil && *m.ClienteID == *actor.ClienteID
	}
	return true
}

// Run is the dispatch loop. It returns when ctx is cancelled, closing every
// connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.conexiones {
				h.quitar(c)
			}
			return
		case c := <-h.register:
			h.conexiones[c] = struct{}{}
			metrics.IncrementWS()
			log.Debug().Uint("usuario_id", c.actor.UsuarioID).Msg("ws: consola conectada")
		case c := <-h.unregister:
			h.quitar(c)
		case m := <-h.publicar:
			data, err := json.Marshal(m)
			if err != nil {
				log.Error().Err(err).Msg("ws: marshal notificacion")
				continue
			}
			for c := range h.conexiones {
				if !h.Destinatario(c.actor, m) {
					continue
				}
				select {
				case c.send <- data:
				default:
					h.quitar(c)
				}
			}
		}
	}
}

func (h *Hub) quitar(c *Conexion) {
	if _, ok := h.conexiones[c]; !ok {
		return
	}
	delete(h.conexiones, c)
	close(c.send)
	metrics.DecrementWS()
	log.Debug().Uint("usuario_id", c.actor.UsuarioID).Msg("ws: consola desconectada")
}

// Servir upgrades the request and attaches the connection to the hub on
// behalf of actor.
func (h *Hub) Servir(w http.ResponseWriter, r *http.Request, actor acceso.Actor) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Conexion{hub: h, conn: conn, send: make(chan []byte, 32), actor: actor}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return ErrHubDetenido
	}

	go c.writePump()
	go c.readPump()
	return nil
}

func (c *Conexion) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; consoles never send data.
func (c *Conexion) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("ws: cierre inesperado")
			}
			return
		}
	}
}
