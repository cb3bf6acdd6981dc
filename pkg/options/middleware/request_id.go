package middleware

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/pkg/options"
)

// RequestIDOptions defines request ID middleware options.
type RequestIDOptions struct {
	Header string `json:"header" mapstructure:"header"`
	// GeneratorType is "ulid" (26 chars, sortable) or "hex" (32 random hex chars).
	GeneratorType string `json:"generator-type" mapstructure:"generator-type"`
}

// NewRequestIDOptions creates default request ID middleware options.
func NewRequestIDOptions() *RequestIDOptions {
	return &RequestIDOptions{
		Header:        "X-Request-ID",
		GeneratorType: "ulid",
	}
}

// AddFlags adds flags for request ID options to the specified FlagSet.
func (o *RequestIDOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "middleware.request-id."
	fs.StringVar(&o.Header, p+"header", o.Header, "Request ID header name.")
	fs.StringVar(&o.GeneratorType, p+"generator", o.GeneratorType, "Request ID generator: ulid or hex.")
}

// Validate validates the request ID options.
func (o *RequestIDOptions) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.Header == "" {
		errs = append(errs, errors.New("request-id: header name is required"))
	}
	switch o.GeneratorType {
	case "", "ulid", "hex":
	default:
		errs = append(errs, errors.New("request-id: generator must be 'ulid' or 'hex'"))
	}
	return errs
}
