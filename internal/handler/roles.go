package handler

import (
	"net/http"

	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

type RolesHandler struct{ svc service.RolService }

func NewRolesHandler(svc service.RolService) *RolesHandler { return &RolesHandler{svc: svc} }

// Crear godoc
// @Summary Crear rol
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearRolRequest true "Rol"
// @Success 201 {object} dto.RolResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/roles [post]
func (h *RolesHandler) Crear(c *gin.Context) {
	var req dto.CrearRolRequest
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
// @Summary Listar roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RolResponse
// @Router /v1/roles [get]
func (h *RolesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), actorDe(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RolesHandler) Obtener(c *gin.Context) {
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
// @Summary Actualizar rol (el Administrador solo admite cambios de descripcion)
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body dto.ActualizarRolRequest true "Cambios"
// @Success 200 {object} dto.RolResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/roles/{id} [put]
func (h *RolesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarRolRequest
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

// CambiarEstado godoc
// @Summary Activar o desactivar un rol
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body dto.CambiarEstadoRequest true "Estado"
// @Success 200 {object} dto.RolResponse
// @Router /v1/roles/{id}/estado [patch]
func (h *RolesHandler) CambiarEstado(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), actorDe(c), id, *req.Activo)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar rol sin usuarios asignados
// @Tags roles
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/roles/{id} [delete]
func (h *RolesHandler) Eliminar(c *gin.Context) {
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
