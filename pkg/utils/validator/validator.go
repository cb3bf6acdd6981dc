// Package validator wraps go-playground/validator with English messages and
// the custom tags used by request payloads. It also serves as gin's binding
// validator so `binding:"..."` tags report translated messages.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// LangEN is the only translation registered by default.
const LangEN = "en"

// FieldError is a single translated validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors collects the failures of one validation run.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator validates structs and single values.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	global     *Validator
	globalOnce sync.Once
)

// Global returns the process wide validator.
func Global() *Validator {
	globalOnce.Do(func() { global = New() })
	return global
}

// New creates a Validator reading the `binding` struct tag.
func New() *Validator {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator(LangEN)
	_ = entranslations.RegisterDefaultTranslations(v, trans)

	val := &Validator{validate: v, trans: trans}
	val.registerCustomRules()
	val.registerCustomTranslations()
	return val
}

// Struct validates s and returns *ValidationErrors on failure.
func (v *Validator) Struct(s interface{}) error {
	return v.translate(v.validate.Struct(s))
}

// ValidateVar validates a single value against tag.
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.translate(v.validate.Var(field, tag))
}

// ValidateStruct implements gin's binding.StructValidator.
func (v *Validator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	switch val.Kind() {
	case reflect.Struct:
		return v.Struct(val.Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			if err := v.ValidateStruct(val.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Engine implements gin's binding.StructValidator.
func (v *Validator) Engine() interface{} {
	return v.validate
}

func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationErrors{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fe.Translate(v.trans),
		})
	}
	return out
}
