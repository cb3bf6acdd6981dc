package middleware

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/pkg/options"
)

// BodyLimitOptions caps request body size for JSON endpoints. Upload routes
// are listed in SkipPaths because they enforce their own limit.
type BodyLimitOptions struct {
	MaxSize   int64    `json:"max-size" mapstructure:"max-size"`
	SkipPaths []string `json:"skip-paths" mapstructure:"skip-paths"`
}

// NewBodyLimitOptions creates default body limit options (1MB).
func NewBodyLimitOptions() *BodyLimitOptions {
	return &BodyLimitOptions{
		MaxSize:   1 << 20,
		SkipPaths: []string{"/api/v1/documents"},
	}
}

// AddFlags adds flags for body limit options to the specified FlagSet.
func (o *BodyLimitOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "middleware.body-limit."
	fs.Int64Var(&o.MaxSize, p+"max-size", o.MaxSize, "Maximum request body size in bytes.")
	fs.StringSliceVar(&o.SkipPaths, p+"skip-paths", o.SkipPaths, "Paths exempt from the body limit.")
}

// Validate validates the body limit options.
func (o *BodyLimitOptions) Validate() []error {
	if o == nil {
		return nil
	}
	if o.MaxSize <= 0 {
		return []error{errors.New("body-limit: max-size must be greater than 0")}
	}
	return nil
}
