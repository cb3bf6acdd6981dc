// Package logger carries structured log fields in a context so code far
// from the HTTP layer logs with the request and trace identifiers.
package logger

import (
	"context"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
	"go.opentelemetry.io/otel/trace"
)

type fieldsKey struct{}

// fields is copied on every write so contexts never share a map.
type fields struct {
	keys   []string
	values map[string]interface{}
}

func fromContext(ctx context.Context) *fields {
	if f, ok := ctx.Value(fieldsKey{}).(*fields); ok {
		return f
	}
	return nil
}

func (f *fields) clone() *fields {
	out := &fields{values: make(map[string]interface{})}
	if f == nil {
		return out
	}
	out.keys = append(out.keys, f.keys...)
	for k, v := range f.values {
		out.values[k] = v
	}
	return out
}

func (f *fields) set(key string, value interface{}) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// WithFields adds key/value pairs to the context. A trailing key without a
// value and non-string keys are dropped.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	if len(keysAndValues) < 2 {
		return ctx
	}
	f := fromContext(ctx).clone()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			f.set(key, keysAndValues[i+1])
		}
	}
	return context.WithValue(ctx, fieldsKey{}, f)
}

// WithRequestID adds request_id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return WithFields(ctx, "request_id", requestID)
}

// WithUserID adds user_id.
func WithUserID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return WithFields(ctx, "user_id", userID)
}

// WithTrace adds trace_id and span_id of the recording span, if any.
func WithTrace(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ctx
	}
	return WithFields(ctx, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

// Fields returns the context fields in insertion order.
func Fields(ctx context.Context) []interface{} {
	f := fromContext(ctx)
	if f == nil || len(f.keys) == 0 {
		return nil
	}
	out := make([]interface{}, 0, len(f.keys)*2)
	for _, k := range f.keys {
		out = append(out, k, f.values[k])
	}
	return out
}

// Get returns the global logger carrying the context fields.
func Get(ctx context.Context) core.Logger {
	base := logger.Global()
	if kv := Fields(ctx); len(kv) > 0 {
		return base.With(kv...)
	}
	return base
}
