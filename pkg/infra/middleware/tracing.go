package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	ctxlog "github.com/kart-io/docvault/pkg/infra/logger"
	"github.com/kart-io/docvault/pkg/infra/tracing"
)

// HeaderTraceID carries the trace id of a traced request back to the caller.
const HeaderTraceID = "X-Trace-ID"

// Tracing starts a server span per request using the global tracer provider
// and propagator. Health probes are not traced.
func Tracing(serviceName string, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			_, ok := skip[r.URL.Path]
			return !ok
		}),
	)
}

// TraceFields copies the trace and span ids of the server span into the
// request log fields and echoes the trace id. It must run after Tracing.
func TraceFields() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := tracing.TraceIDFromContext(ctx); id != "" {
			c.Header(HeaderTraceID, id)
		}
		c.Request = c.Request.WithContext(ctxlog.WithTrace(ctx))
		c.Next()
	}
}
