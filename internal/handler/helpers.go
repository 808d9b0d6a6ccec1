package handler

import (
	"errors"
	"net/http"
	"strconv"

	"barberia/internal/acceso"
	"barberia/internal/apierror"
	"barberia/internal/middleware"
	"barberia/internal/model"
	"barberia/internal/service"
	"barberia/internal/validacion"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// bindAndValidate binds the JSON body and runs the validator tags. Returns
// false after writing the error response; the caller must return.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validacion.Struct(req); err != nil {
		if fields := validacion.Campos(err); fields != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
			return false
		}
		responderError(c, err)
		return false
	}
	return true
}

// parseID reads the :id path parameter. Writes 400 and returns false when it
// is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return 0, false
	}
	return uint(id), true
}

// actorDe returns the actor set by JWTAuth. Routes using it are always
// mounted behind that middleware.
func actorDe(c *gin.Context) acceso.Actor {
	actor, _ := middleware.GetActor(c)
	return actor
}

// responderError maps the service error taxonomy to a status code. Anything
// unknown is a 500 whose cause is only logged.
func responderError(c *gin.Context, err error) {
	var verr *service.ValidacionError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(verr.Campos))
	case errors.Is(err, service.ErrCredenciales):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrAccesoDenegado):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrClienteNoEncontrado):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflicto), errors.Is(err, model.ErrTransicionInvalida):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, apierror.New("El registro ya existe"))
	default:
		requestID := c.GetString(middleware.RequestIDKey)
		log.Error().
			Str("request_id", requestID).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err).
			Msg("error interno")
		c.JSON(http.StatusInternalServerError, apierror.Internal(requestID))
	}
}

// incluirInactivos reads the ?todos=true flag used by listings that hide
// deactivated records by default.
func incluirInactivos(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("todos"))
	return v
}
