package validation

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// FormatFieldError converts a validator.FieldError to a human-readable message
func FormatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "datetime":
		return fmt.Sprintf("must be a date in the format %s", fe.Param())
	case "money":
		return "must be a positive amount with at most 2 decimal places"
	case "nonnegative_money":
		return "must be zero or a positive amount with at most 2 decimal places"
	case "kind":
		return "must be income or expense"
	case "number":
		return "must be a whole number"
	case "period":
		return "must be none, weekly or monthly"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}

// FieldErrors maps each failing field to its message. Errors that are not
// validation errors yield nil.
func FieldErrors(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = FormatFieldError(fe)
	}
	return out
}
