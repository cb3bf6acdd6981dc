// Package storage provides options for the upload file store.
package storage

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options configures where uploaded files are kept.
type Options struct {
	// Root is the directory uploaded files are written to.
	Root string `json:"root" mapstructure:"root"`
	// MaxUploadSize bounds an uploaded file in bytes.
	MaxUploadSize int64 `json:"max-upload-size" mapstructure:"max-upload-size"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Root:          "uploads",
		MaxUploadSize: 50 << 20,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.Root, p+"storage.root", o.Root, "Directory uploaded files are stored in.")
	fs.Int64Var(&o.MaxUploadSize, p+"storage.max-upload-size", o.MaxUploadSize, "Maximum upload size in bytes.")
}

// Validate checks the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.Root == "" {
		errs = append(errs, fmt.Errorf("storage.root cannot be empty"))
	}
	if o.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("storage.max-upload-size must be positive"))
	}
	return errs
}
