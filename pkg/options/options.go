// Package options holds what every option group of the service shares.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// IOptions is implemented by every option group.
type IOptions interface {
	// Validate reports every invalid field, not only the first one.
	Validate() []error

	// AddFlags registers the group's flags, optionally under prefixes.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// Join turns prefixes into a flag name prefix: ("a", "b") -> "a.b.".
// No prefixes yield "".
func Join(prefixes ...string) string {
	if len(prefixes) == 0 {
		return ""
	}
	return strings.Join(prefixes, ".") + "."
}

// ValidateAll collects the errors of every group.
func ValidateAll(groups ...IOptions) []error {
	var errs []error
	for _, g := range groups {
		errs = append(errs, g.Validate()...)
	}
	return errs
}
