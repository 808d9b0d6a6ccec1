package handler

import (
	"net/http"

	"barberia/internal/apierror"
	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

type ServiciosHandler struct{ svc service.ServicioService }

func NewServiciosHandler(svc service.ServicioService) *ServiciosHandler {
	return &ServiciosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear servicio
// @Tags servicios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ServicioRequest true "Servicio"
// @Success 201 {object} dto.ServicioResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/servicios [post]
func (h *ServiciosHandler) Crear(c *gin.Context) {
	var req dto.ServicioRequest
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
// @Summary Listar servicios (los clientes solo ven los activos)
// @Tags servicios
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busqueda libre"
// @Param estado query string false "activo | inactivo"
// @Success 200 {array} dto.ServicioResponse
// @Router /v1/servicios [get]
func (h *ServiciosHandler) Listar(c *gin.Context) {
	var filter dto.ServicioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), actorDe(c), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) Obtener(c *gin.Context) {
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

// Actualizar godoc
// @Summary Actualizar servicio
// @Tags servicios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body dto.ServicioRequest true "Servicio"
// @Success 200 {object} dto.ServicioResponse
// @Router /v1/servicios/{id} [put]
func (h *ServiciosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ServicioRequest
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
// @Summary Eliminar servicio sin citas
// @Tags servicios
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/servicios/{id} [delete]
func (h *ServiciosHandler) Eliminar(c *gin.Context) {
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
