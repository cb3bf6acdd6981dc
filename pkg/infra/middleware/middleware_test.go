package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	ctxlog "github.com/kart-io/docvault/pkg/infra/logger"
	"github.com/kart-io/docvault/pkg/infra/middleware/common"
	mwopts "github.com/kart-io/docvault/pkg/options/middleware"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/json"
	"github.com/kart-io/docvault/pkg/utils/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var r response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(mwopts.NewRequestIDOptions()))
	var seen string
	var fields []interface{}
	r.GET("/x", func(c *gin.Context) {
		seen = common.GetRequestID(c.Request.Context())
		fields = ctxlog.Fields(c.Request.Context())
		response.OK(c, nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	id := w.Header().Get(common.HeaderXRequestID)
	assert.Len(t, id, 26)
	assert.Equal(t, id, seen)
	assert.Equal(t, []interface{}{"request_id", id}, fields)
	assert.Equal(t, id, decode(t, w).RequestID)
}

func TestRequestIDReusesIncoming(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(&mwopts.RequestIDOptions{Header: "X-Request-ID", GeneratorType: "hex"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 32)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(mwopts.NewRequestIDOptions()), Recovery(mwopts.NewRecoveryOptions()))
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, errors.ErrPanic.Code, body.Code)
	assert.NotContains(t, body.Message, "kaboom")
	assert.NotEmpty(t, body.RequestID)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(&mwopts.BodyLimitOptions{MaxSize: 8, SkipPaths: []string{"/upload"}}))
	handler := func(c *gin.Context) {
		b, err := c.GetRawData()
		if err != nil {
			response.Fail(c, errors.ErrRequestTooLarge)
			return
		}
		response.OK(c, len(b))
	}
	r.POST("/small", handler)
	r.POST("/upload", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/small", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS(mwopts.NewCORSOptions()))
	r.POST("/api/v1/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTraceFields(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "req")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}, TraceFields())
	var fields []interface{}
	r.GET("/x", func(c *gin.Context) {
		fields = ctxlog.Fields(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	id := w.Header().Get(HeaderTraceID)
	assert.Len(t, id, 32)
	require.Len(t, fields, 4)
	assert.Equal(t, []interface{}{"trace_id", id}, fields[:2])

	r = gin.New()
	r.Use(TraceFields())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Empty(t, w.Header().Get(HeaderTraceID))
}
