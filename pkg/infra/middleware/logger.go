package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	ctxlog "github.com/kart-io/docvault/pkg/infra/logger"
	mwopts "github.com/kart-io/docvault/pkg/options/middleware"
)

var fieldsPool = sync.Pool{
	New: func() interface{} {
		s := make([]interface{}, 0, 16)
		return &s
	},
}

// Logger writes one structured access log line per request, carrying the
// request log fields (request id, user id, trace id).
func Logger(opts *mwopts.LoggerOptions) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := fieldsPool.Get().(*[]interface{})
		defer func() {
			*fields = (*fields)[:0]
			fieldsPool.Put(fields)
		}()

		*fields = append(*fields,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"client_ip", c.ClientIP(),
			"latency_ms", latency.Milliseconds(),
			"bytes", c.Writer.Size(),
		)
		if route := c.FullPath(); route != "" {
			*fields = append(*fields, "route", route)
		}

		// handlers replace the request context, so read it after Next
		log := ctxlog.Get(c.Request.Context())
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Errorw("HTTP request", (*fields)...)
		case status >= 400:
			log.Warnw("HTTP request", (*fields)...)
		default:
			log.Infow("HTTP request", (*fields)...)
		}
	}
}
