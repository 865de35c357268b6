package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-user-api/internal/core/auth"
	resp "go-user-api/internal/transport/http/response"
)

const (
	KeyUserID    = "uid"
	KeySuperuser = "superuser"
)

// AuthJWT validates the bearer token and stashes uid/superuser in the
// context. With requireSuperuser set, plain users get 403.
func AuthJWT(j *auth.JWTer, requireSuperuser bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireSuperuser && !claims.Superuser {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeySuperuser, claims.Superuser)
		c.Next()
	}
}
