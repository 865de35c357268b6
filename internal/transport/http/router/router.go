package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-user-api/internal/core/auth"
	"go-user-api/internal/core/limiter"
	"go-user-api/internal/repo"
	mdw "go-user-api/internal/transport/http/middleware"
)

// NewAPIEngine assembles the full engine: protective middleware, health and
// metrics endpoints, the user CRUD module and the auth actions.
func NewAPIEngine(l *zap.Logger, users *repo.UserRepo, jwter *auth.JWTer, throttle *limiter.Login) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		cors.Default(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	(&Users{Repo: users}).MountAPI(api)
	// extension seam: modules registered elsewhere mount after the core ones
	MountAllAPI(api)

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, false))

	mountAuthActions(api, authed, users, jwter, throttle)

	return r
}
