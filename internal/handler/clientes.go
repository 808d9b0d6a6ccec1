package handler

import (
	"net/http"

	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Crear godoc
// @Summary Crear cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ClienteRequest true "Cliente"
// @Success 201 {object} dto.ClienteResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar clientes
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busqueda libre"
// @Success 200 {array} dto.ClienteResponse
// @Router /v1/clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), actorDe(c), c.Query("q"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), actorDe(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar cliente sin citas
// @Tags clientes
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/clientes/{id} [delete]
func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), actorDe(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Clientes temporales ──────────────────────────────────────────────────────

type TemporalesHandler struct{ svc service.ClienteTemporalService }

func NewTemporalesHandler(svc service.ClienteTemporalService) *TemporalesHandler {
	return &TemporalesHandler{svc: svc}
}

// Listar godoc
// @Summary Listar clientes temporales (reservas sin cuenta)
// @Tags clientes-temporales
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busqueda libre"
// @Success 200 {array} dto.ClienteTemporalResponse
// @Router /v1/clientes-temporales [get]
func (h *TemporalesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), actorDe(c), c.Query("q"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar cliente temporal sin citas activas
// @Tags clientes-temporales
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/clientes-temporales/{id} [delete]
func (h *TemporalesHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), actorDe(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Promover godoc
// @Summary Convertir un cliente temporal en cliente registrado con cuenta
// @Tags clientes-temporales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body dto.PromoverRequest true "Datos de la cuenta"
// @Success 201 {object} dto.PromocionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/clientes-temporales/{id}/promover [post]
func (h *TemporalesHandler) Promover(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.PromoverRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Promover(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
