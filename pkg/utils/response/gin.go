package response

import (
	"github.com/gin-gonic/gin"

	ctxlog "github.com/kart-io/docvault/pkg/infra/logger"
	"github.com/kart-io/docvault/pkg/infra/middleware/common"
	"github.com/kart-io/docvault/pkg/utils/errors"
)

// OK writes data in a success envelope.
func OK(c *gin.Context, data interface{}) {
	write(c, Success(data))
}

// Fail writes err in an error envelope and aborts the handler chain.
// Errors that are not *errors.Errno are reported as ErrInternal; the cause
// is logged but never returned to the client.
func Fail(c *gin.Context, err error) {
	e := errors.FromError(err)
	if errors.IsServerError(e.Code) {
		ctxlog.Get(c.Request.Context()).Errorw("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"code", e.Code,
			"error", err.Error(),
		)
	}
	c.Abort()
	write(c, Err(e))
}

// Write dispatches to Fail when err is non-nil and to OK otherwise.
func Write(c *gin.Context, err error, data interface{}) {
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, data)
}

func write(c *gin.Context, r *Response) {
	defer Release(r)
	r.WithRequestID(common.GetRequestID(c.Request.Context()))
	c.JSON(r.HTTPStatus(), r)
}
