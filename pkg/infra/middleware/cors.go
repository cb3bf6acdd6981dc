package middleware

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	mwopts "github.com/kart-io/docvault/pkg/options/middleware"
)

// CORS builds a gin-contrib/cors handler from the configured options.
func CORS(opts *mwopts.CORSOptions) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     opts.AllowMethods,
		AllowHeaders:     opts.AllowHeaders,
		ExposeHeaders:    opts.ExposeHeaders,
		AllowCredentials: opts.AllowCredentials,
		MaxAge:           opts.MaxAge,
	}
	if slices.Contains(opts.AllowOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = opts.AllowOrigins
	}
	return cors.New(cfg)
}
