package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mwopts "github.com/kart-io/docvault/pkg/options/middleware"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

// BodyLimit rejects bodies whose declared length exceeds MaxSize and caps
// the bytes actually read. Paths in SkipPaths enforce their own limits.
func BodyLimit(opts *mwopts.BodyLimitOptions) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		if c.Request.ContentLength > opts.MaxSize {
			response.Fail(c, errors.ErrRequestTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, opts.MaxSize)
		c.Next()
	}
}
