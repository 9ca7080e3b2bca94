// Package validation wraps a shared go-playground validator instance and turns
// its errors into short, user-facing "Field: message" strings.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match what the editor sends.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("finite", isFinite); err != nil {
		panic(fmt.Sprintf("validation: registering 'finite': %v", err))
	}
}

// isFinite rejects NaN and infinities on float fields.
func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// Struct validates v using its struct tags. The first failing field is
// reported; nil means v is valid.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Var validates a single value against a tag expression, naming it field in
// the returned error.
func Var(field string, v any, tag string) error {
	if err := validate.Var(v, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(field, verrs[0])
		}
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		return describe(e.Field(), e)
	}
	return err
}

func describe(field string, e validator.FieldError) error {
	param := e.Param()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "min":
		return fmt.Errorf("%s: must be at least %s", field, param)
	case "max":
		return fmt.Errorf("%s: must not exceed %s", field, param)
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", field, param)
	case "gte":
		return fmt.Errorf("%s: must be greater than or equal to %s", field, param)
	case "ltefield":
		return fmt.Errorf("%s: must not be greater than %s", field, lowerFirst(param))
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s]", field, param)
	case "finite":
		return fmt.Errorf("%s: must be a finite number", field)
	case "dive":
		return fmt.Errorf("%s: invalid element in array", field)
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
