package handler

import (
	"net/http"

	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

type EmpleadosHandler struct{ svc service.EmpleadoService }

func NewEmpleadosHandler(svc service.EmpleadoService) *EmpleadosHandler {
	return &EmpleadosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear empleado
// @Tags empleados
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EmpleadoRequest true "Empleado"
// @Success 201 {object} dto.EmpleadoResponse
// @Router /v1/empleados [post]
func (h *EmpleadosHandler) Crear(c *gin.Context) {
	var req dto.EmpleadoRequest
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
// @Summary Listar empleados
// @Tags empleados
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busqueda libre"
// @Param todos query bool false "Incluir inactivos"
// @Success 200 {array} dto.EmpleadoResponse
// @Router /v1/empleados [get]
func (h *EmpleadosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), actorDe(c), c.Query("q"), incluirInactivos(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpleadosHandler) Obtener(c *gin.Context) {
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

func (h *EmpleadosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.EmpleadoRequest
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

// Desactivar godoc
// @Summary Desactivar empleado sin citas activas
// @Tags empleados
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/empleados/{id} [delete]
func (h *EmpleadosHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), actorDe(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmpleadosHandler) Reactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), actorDe(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
