package middleware

import (
	"net/http"
	"strings"

	"barberia/internal/acceso"
	"barberia/internal/apierror"
	"barberia/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ActorKey = "actor"
)

// JWTAuth validates the Bearer access token on every protected route and
// stores the resulting actor in the context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		claims, err := service.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.Tipo != service.TokenAcceso {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(ActorKey, claims.Actor())
		c.Next()
	}
}

// RequireModulo rejects requests whose role may not perform op on m. The
// registry is read on every request so role edits apply immediately.
func RequireModulo(reg *acceso.Registro, m acceso.Modulo, op acceso.Operacion) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !reg.Permite(actor.Rol, m, op) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetActor retrieves the authenticated actor from the Gin context.
func GetActor(c *gin.Context) (acceso.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return acceso.Actor{}, false
	}
	actor, ok := v.(acceso.Actor)
	return actor, ok
}
