package handler

import (
	"net/http"

	"barberia/internal/apierror"
	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

type CitasHandler struct{ svc service.CitaService }

func NewCitasHandler(svc service.CitaService) *CitasHandler { return &CitasHandler{svc: svc} }

// Crear godoc
// @Summary Agendar cita
// @Description Un cliente solo puede agendar para si mismo; el personal indica cliente_id o cliente_temporal_id.
// @Tags citas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCitaRequest true "Cita"
// @Success 201 {object} dto.CitaResponse
// @Failure 409 {object} apierror.APIError "Horario ocupado"
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/citas [post]
func (h *CitasHandler) Crear(c *gin.Context) {
	var req dto.CrearCitaRequest
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
// @Summary Listar citas visibles para el usuario
// @Tags citas
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busqueda libre"
// @Param estado query string false "pendiente | confirmada | completada | cancelada"
// @Param fecha query string false "YYYY-MM-DD"
// @Success 200 {array} dto.CitaResponse
// @Router /v1/citas [get]
func (h *CitasHandler) Listar(c *gin.Context) {
	var filter dto.CitaFilter
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

// Obtener godoc
// @Summary Detalle de una cita
// @Tags citas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} dto.CitaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/citas/{id} [get]
func (h *CitasHandler) Obtener(c *gin.Context) {
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
// @Summary Editar cita no terminal
// @Tags citas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body dto.ActualizarCitaRequest true "Cambios"
// @Success 200 {object} dto.CitaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/citas/{id} [put]
func (h *CitasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarCitaRequest
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

// Confirmar godoc
// @Summary Confirmar cita pendiente
// @Tags citas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body dto.ConfirmarCitaRequest false "Empleado asignado"
// @Success 200 {object} dto.CitaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/citas/{id}/confirmar [post]
func (h *CitasHandler) Confirmar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ConfirmarCitaRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Confirmar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Completar godoc
// @Summary Completar cita confirmada
// @Tags citas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} dto.CitaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/citas/{id}/completar [post]
func (h *CitasHandler) Completar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Completar(c.Request.Context(), actorDe(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar godoc
// @Summary Cancelar cita pendiente o confirmada
// @Tags citas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body dto.CancelarCitaRequest false "Motivo"
// @Success 200 {object} dto.CitaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/citas/{id}/cancelar [post]
func (h *CitasHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CancelarCitaRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar cita no terminal
// @Tags citas
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Router /v1/citas/{id} [delete]
func (h *CitasHandler) Eliminar(c *gin.Context) {
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
