package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"barberia/internal/apierror"
	"barberia/internal/middleware"
	"barberia/internal/model"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func responder(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { responderError(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestResponderError_Mapeo(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validacion", &service.ValidacionError{Campos: map[string]string{"hora": "formato invalido"}}, http.StatusUnprocessableEntity},
		{"credenciales", service.ErrCredenciales, http.StatusUnauthorized},
		{"acceso", fmt.Errorf("citas: %w", service.ErrAccesoDenegado), http.StatusForbidden},
		{"cliente sin ficha", service.ErrClienteNoEncontrado, http.StatusUnprocessableEntity},
		{"no encontrado", service.ErrNoEncontrado, http.StatusNotFound},
		{"conflicto", service.ErrRolProtegido, http.StatusConflict},
		{"transicion", fmt.Errorf("%w: no se puede completar", model.ErrTransicionInvalida), http.StatusConflict},
		{"duplicado", gorm.ErrDuplicatedKey, http.StatusConflict},
		{"desconocido", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, responder(tc.err).Code)
		})
	}
}

func TestResponderError_InternoNoFiltraCausa(t *testing.T) {
	w := responder(errors.New("pq: password authentication failed"))

	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error interno del servidor", body.Detail)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), body.RequestID)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestResponderError_ValidacionListaCampos(t *testing.T) {
	w := responder(&service.ValidacionError{Campos: map[string]string{"fecha": "requerido"}})

	var body apierror.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "requerido", body.Fields["fecha"])
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		if id, ok := parseID(c); ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})
	for path, want := range map[string]int{"/x/12": http.StatusOK, "/x/0": http.StatusBadRequest, "/x/abc": http.StatusBadRequest, "/x/-3": http.StatusBadRequest} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
