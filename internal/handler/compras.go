package handler

import (
	"net/http"

	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler { return &ComprasHandler{svc: svc} }

// Registrar godoc
// @Summary Registrar compra a proveedor (suma stock)
// @Tags compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCompraRequest true "Compra"
// @Success 201 {object} dto.CompraResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/compras [post]
func (h *ComprasHandler) Registrar(c *gin.Context) {
	var req dto.CrearCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar compras
// @Tags compras
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busqueda libre"
// @Success 200 {array} dto.CompraResponse
// @Router /v1/compras [get]
func (h *ComprasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), actorDe(c), c.Query("q"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) Obtener(c *gin.Context) {
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

// Anular godoc
// @Summary Anular compra (descuenta el stock ingresado)
// @Tags compras
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 409 {object} apierror.APIError "Stock insuficiente o compra ya anulada"
// @Router /v1/compras/{id}/anular [post]
func (h *ComprasHandler) Anular(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Anular(c.Request.Context(), actorDe(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
