// Package validation wraps go-playground/validator with the rules shared by configuration
// and request payloads.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/feral-file/habitat-tracker/internal/domain"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Get returns the shared validator with custom rules registered
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(tagName)
		_ = v.RegisterValidation("address", validateAddress)
		instance = v
	})
	return instance
}

// Struct validates s with struct tags
func Struct(s any) error {
	return Get().Struct(s)
}

// Register adds the custom rules to another validator, such as gin's binding engine
func Register(v *validator.Validate) error {
	return v.RegisterValidation("address", validateAddress)
}

// tagName reports fields by their config or json key
func tagName(fld reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// validateAddress accepts empty values (left to "required") and base58 32-byte keys
func validateAddress(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := domain.ParseKey(s)
	return err == nil
}

// Describe flattens validation errors into "field: reason" messages
func Describe(err error) []string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}

		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+": is required")
		case "address":
			msgs = append(msgs, field+": is not a valid base58 address")
		case "url":
			msgs = append(msgs, field+": is not a valid url")
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", field, e.Param()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at most %s", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s]", field, e.Param()))
		default:
			msgs = append(msgs, field+": is invalid")
		}
	}
	return msgs
}
