package api

import (
	"log"
	stdhttp "net/http"

	intconfig "haulhub/internal/config"
	h "haulhub/internal/http/handlers"
	"haulhub/internal/http/middleware"
	"haulhub/internal/repositories"
	"haulhub/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	tripRepo := repositories.TripRepository{}
	auditRepo := repositories.AuditRepository{}

	trips := h.TripHandlers{
		Trips:    services.TripService{Trips: tripRepo, Audit: auditRepo},
		Workflow: services.WorkflowService{Trips: tripRepo, Write: tripRepo, Audit: auditRepo},
		Query:    services.TripQueryService{Store: tripRepo},
	}
	auth := h.AuthHandlers{Secret: []byte(env.JWTSecret)}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		api.POST("/auth/login", auth.Login)

		authed := api.Group("", middleware.Auth([]byte(env.JWTSecret)))
		{
			authed.GET("/trips", trips.List)
			authed.POST("/trips", trips.Create)
			authed.GET("/trips/:id", trips.Get)
			authed.PUT("/trips/:id", trips.Update)
			authed.POST("/trips/:id/status", trips.Transition)
			authed.GET("/trips/:id/audit", trips.Audit)
		}
	}

	return r
}
