// Package middleware provides the gin middleware installed by the HTTP server.
package middleware

import (
	"github.com/gin-gonic/gin"

	ctxlog "github.com/kart-io/docvault/pkg/infra/logger"
	"github.com/kart-io/docvault/pkg/infra/middleware/common"
	mwopts "github.com/kart-io/docvault/pkg/options/middleware"
)

// RequestID reuses the incoming request ID header or generates one, echoes
// it in the response and stores it in the request context and its log
// fields.
func RequestID(opts *mwopts.RequestIDOptions) gin.HandlerFunc {
	header := opts.Header
	if header == "" {
		header = common.HeaderXRequestID
	}
	generate := common.NewULID
	if opts.GeneratorType == "hex" {
		generate = common.NewHexID
	}

	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" || len(id) > 128 {
			id = generate()
		}
		c.Header(header, id)
		ctx := common.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctxlog.WithRequestID(ctx, id))
		c.Next()
	}
}
