package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"barberia/internal/apierror"
	"barberia/internal/dto"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Registrar godoc
// @Summary Registrar venta de productos y servicios
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearVentaRequest true "Venta"
// @Success 201 {object} dto.VentaResponse
// @Failure 409 {object} apierror.APIError "Stock insuficiente"
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/ventas [post]
func (h *VentasHandler) Registrar(c *gin.Context) {
	var req dto.CrearVentaRequest
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
// @Summary Listar ventas
// @Tags ventas
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busqueda libre"
// @Success 200 {array} dto.VentaResponse
// @Router /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
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

func (h *VentasHandler) Obtener(c *gin.Context) {
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
// @Summary Anular venta (repone el stock no devuelto)
// @Tags ventas
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/ventas/{id}/anular [post]
func (h *VentasHandler) Anular(c *gin.Context) {
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

// Comprobante godoc
// @Summary Comprobante PDF de la venta
// @Tags ventas
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventas/{id}/comprobante [get]
func (h *VentasHandler) Comprobante(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	// Rendered into memory first so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := h.svc.Comprobante(c.Request.Context(), actorDe(c), id, &buf); err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="venta-%06d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ── Devoluciones ─────────────────────────────────────────────────────────────

type DevolucionesHandler struct{ svc service.DevolucionService }

func NewDevolucionesHandler(svc service.DevolucionService) *DevolucionesHandler {
	return &DevolucionesHandler{svc: svc}
}

// Registrar godoc
// @Summary Registrar devolucion de un item de venta (repone stock)
// @Tags devoluciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearDevolucionRequest true "Devolucion"
// @Success 201 {object} dto.DevolucionResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/devoluciones [post]
func (h *DevolucionesHandler) Registrar(c *gin.Context) {
	var req dto.CrearDevolucionRequest
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

func (h *DevolucionesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), actorDe(c), c.Query("q"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
