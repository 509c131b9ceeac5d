package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/doctypes"
	"tender-backend/internal/documents"
	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/metrics"
	"tender-backend/internal/shared/server/middleware"
	"tender-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config           config.Config
	DocumentsHandler *documents.Handler
	DocTypesHandler  *doctypes.Handler
}

// Uploads are the expensive path; everything else rides the default group.
var rateLimitRules = map[string]middleware.RateLimitRule{
	"UPLOAD":  {Rate: 0.5, Burst: 5},
	"DEFAULT": {Rate: 10, Burst: 30},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: rateLimitRules,
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/documents" {
					return "UPLOAD"
				}
				return "DEFAULT"
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"ok": true})
	})
	deps.DocumentsHandler.RegisterRoutes(api)
	deps.DocTypesHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
