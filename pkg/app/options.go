// Package app holds the contracts shared by command line applications.
package app

import "github.com/kart-io/docvault/pkg/app/cliflag"

// CliOptions is implemented by the option aggregate of a command.
type CliOptions interface {
	// Flags returns the flags grouped by section.
	Flags() cliflag.NamedFlagSets
	// Complete fills derived defaults after config loading.
	Complete() error
	// Validate validates the options.
	Validate() error
}
