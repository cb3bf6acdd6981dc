package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

func (v *Validator) registerCustomTranslations() {
	translations := map[string]string{
		TagNotBlank:     "{0} must not be blank",
		TagNoWhitespace: "{0} must not contain whitespace characters",
		TagPDFName:      "{0} must be a PDF file",
	}
	for tag, message := range translations {
		registerTranslation(v.validate, v.trans, tag, message)
	}
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, message string) {
	_ = validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}
