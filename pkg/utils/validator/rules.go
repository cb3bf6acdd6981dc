package validator

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Custom validation tags
const (
	TagNotBlank     = "notblank"     // not empty after trimming whitespace
	TagNoWhitespace = "nowhitespace" // no whitespace characters
	TagPDFName      = "pdfname"      // file name with a .pdf extension
)

func (v *Validator) registerCustomRules() {
	_ = v.validate.RegisterValidation(TagNotBlank, validators.NotBlank)
	_ = v.validate.RegisterValidation(TagNoWhitespace, validateNoWhitespace)
	_ = v.validate.RegisterValidation(TagPDFName, validatePDFName)
}

func validateNoWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func validatePDFName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // let 'required' handle empty values
	}
	return IsPDFName(value)
}

// IsPDFName reports whether name carries a .pdf extension, case-insensitively.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
