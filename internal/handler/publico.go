package handler

import (
	"net/http"

	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicoHandler serves the unauthenticated booking page: the catalog of
// active services and the booking form.
type PublicoHandler struct {
	servicios service.ServicioService
	reservas  service.ReservaService
}

func NewPublicoHandler(servicios service.ServicioService, reservas service.ReservaService) *PublicoHandler {
	return &PublicoHandler{servicios: servicios, reservas: reservas}
}

// Catalogo godoc
// @Summary Servicios activos (sin autenticacion)
// @Tags publico
// @Produce json
// @Success 200 {array} dto.ServicioResponse
// @Router /v1/publico/servicios [get]
func (h *PublicoHandler) Catalogo(c *gin.Context) {
	resp, err := h.servicios.Publicos(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, resp)
}

// Reservar godoc
// @Summary Reservar una cita sin cuenta
// @Description Si el email pertenece a un cliente registrado la cita queda a su nombre; si no, a un cliente temporal.
// @Tags publico
// @Accept json
// @Produce json
// @Param body body dto.ReservaRequest true "Reserva"
// @Success 201 {object} dto.ReservaResponse
// @Failure 409 {object} apierror.APIError "Horario ocupado"
// @Failure 422 {object} apierror.ValidationError
// @Failure 429 {object} apierror.APIError
// @Router /v1/publico/reservas [post]
func (h *PublicoHandler) Reservar(c *gin.Context) {
	var req dto.ReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.reservas.Reservar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
