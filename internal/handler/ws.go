package handler

import (
	"net/http"

	"barberia/internal/apierror"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NotificacionesHandler upgrades consoles to the notification WebSocket.
// Browsers cannot set headers on the upgrade, so the access token travels in
// the ?token= query parameter.
type NotificacionesHandler struct {
	hub    *notificacion.Hub
	store  *repository.Store
	secret string
}

func NewNotificacionesHandler(hub *notificacion.Hub, store *repository.Store, secret string) *NotificacionesHandler {
	return &NotificacionesHandler{hub: hub, store: store, secret: secret}
}

// Conectar godoc
// @Summary WebSocket de notificaciones de la consola
// @Tags notificaciones
// @Param token query string true "Access token"
// @Success 101
// @Failure 401 {object} apierror.APIError
// @Router /v1/ws [get]
func (h *NotificacionesHandler) Conectar(c *gin.Context) {
	claims, err := service.ParseToken(h.secret, c.Query("token"))
	if err != nil || claims.Tipo != service.TokenAcceso {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
		return
	}
	// Client consoles only get their own appointments, so the client record
	// is resolved once here instead of per message.
	actor, err := service.ActorConCliente(c.Request.Context(), h.store, claims.Actor())
	if err != nil {
		responderError(c, err)
		return
	}
	if err := h.hub.Servir(c.Writer, c.Request, actor); err != nil {
		// The upgrader already wrote the HTTP error.
		log.Warn().Err(err).Uint("usuario_id", claims.UserID).Msg("ws: no se pudo conectar")
	}
}
