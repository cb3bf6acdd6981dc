// Package authz provides authorization (casbin) options.
package authz

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options configures the casbin enforcer.
type Options struct {
	// ModelPath points to a casbin model file. Empty uses the built-in RBAC model.
	ModelPath string `json:"model-path" mapstructure:"model-path"`
	// SeedPolicies installs the built-in role policies on startup.
	SeedPolicies bool `json:"seed-policies" mapstructure:"seed-policies"`
}

// NewOptions creates default authz options.
func NewOptions() *Options {
	return &Options{SeedPolicies: true}
}

// AddFlags adds flags for authz options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "authz."
	fs.StringVar(&o.ModelPath, p+"model-path", o.ModelPath, "Casbin model file; empty uses the built-in model.")
	fs.BoolVar(&o.SeedPolicies, p+"seed-policies", o.SeedPolicies, "Install the built-in role policies on startup.")
}

// Validate validates the authz options.
func (o *Options) Validate() []error {
	if o == nil || o.ModelPath == "" {
		return nil
	}
	if _, err := os.Stat(o.ModelPath); err != nil {
		return []error{fmt.Errorf("authz: model-path: %w", err)}
	}
	return nil
}
