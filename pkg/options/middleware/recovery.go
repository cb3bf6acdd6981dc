package middleware

import (
	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/pkg/options"
)

// RecoveryOptions defines recovery middleware options.
type RecoveryOptions struct {
	// EnableStackTrace returns the stack in the error body. Development only.
	EnableStackTrace bool `json:"enable-stack-trace" mapstructure:"enable-stack-trace"`
}

func NewRecoveryOptions() *RecoveryOptions {
	return &RecoveryOptions{}
}

func (o *RecoveryOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.EnableStackTrace, options.Join(prefixes...)+"middleware.recovery.enable-stack-trace", o.EnableStackTrace, "Include panic stack traces in error responses.")
}
