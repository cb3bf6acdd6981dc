package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/pkg/infra/middleware/common"
	mwopts "github.com/kart-io/docvault/pkg/options/middleware"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

// Recovery converts panics into ErrPanic responses. The stack is always
// logged; it is only returned to the client when EnableStackTrace is set.
func Recovery(opts *mwopts.RecoveryOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			logger.Errorw("panic recovered",
				"panic", fmt.Sprint(r),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", common.GetRequestID(c.Request.Context()),
				"stack", string(stack),
			)

			e := errors.ErrPanic
			if opts != nil && opts.EnableStackTrace {
				e = e.WithMessage(fmt.Sprintf("panic: %v\n%s", r, stack))
			}
			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Fail(c, e)
		}()
		c.Next()
	}
}
