package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(field.Name)
		}
		return name
	})

	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		digits := NormalizePhone(fl.Field().String())
		return len(digits) >= 7 && len(digits) <= 15
	})

	return v
}

// ValidateStruct runs the struct tags and reports the first failing field as a ValidationError.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return NewValidationError("", "%v", err)
	}

	fieldError := fieldErrors[0]
	field := fieldError.Field()

	switch fieldError.Tag() {
	case "required":
		return NewValidationError(field, "%s is required", field)
	case "email":
		return NewValidationError(field, "%s is not a valid email address", field)
	case "phone":
		return NewValidationError(field, "%s must contain 7 to 15 digits", field)
	case "oneof":
		return NewValidationError(field, "%s must be one of: %s", field, fieldError.Param())
	case "gte", "lte":
		return NewValidationError(field, "%s must be between 18 and 120", field)
	default:
		return NewValidationError(field, "%s is invalid", field)
	}
}
