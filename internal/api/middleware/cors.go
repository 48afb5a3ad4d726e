// Package middleware holds the HTTP surface's cross-cutting handlers.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS admits requests from the rendering shell's origins. An empty list
// allows any origin without credentials, which covers local development
// where the shell runs on an ad-hoc port.
func CORS(shellOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Content-Length",
			"Accept",
			"Origin",
			"Cache-Control",
			"X-Requested-With",
			RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}
	if len(shellOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = shellOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
