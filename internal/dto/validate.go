package dto

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// namePattern restricts store names, product names and categories.
var namePattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} .,'&()_-]*$`)

// NameValidationMessage is reported for values that fail namePattern.
const NameValidationMessage = "must start with a letter or digit and contain only letters, digits, spaces and .,'&()_-"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so clients see the field they sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	must(v.RegisterValidation("name", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("dgte", func(fl validator.FieldLevel) bool {
		value, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		min, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return value.GreaterThanOrEqual(min)
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating one DTO.
type ValidationResult struct {
	OK     bool         `json:"ok"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Error lets a failed result travel as an error value.
func (r ValidationResult) Error() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Field+" "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil for a successful result and the result itself otherwise.
func (r ValidationResult) Err() error {
	if r.OK {
		return nil
	}
	return r
}

func validateStruct(s interface{}) ValidationResult {
	err := validate.Struct(s)
	if err == nil {
		return ValidationResult{OK: true}
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationResult{Errors: []FieldError{{Field: "body", Message: err.Error()}}}
	}

	result := ValidationResult{Errors: make([]FieldError, 0, len(validationErrors))}
	for _, e := range validationErrors {
		result.Errors = append(result.Errors, FieldError{Field: e.Field(), Message: messageFor(e)})
	}
	return result
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "name":
		return NameValidationMessage
	case "dgte", "gte", "min":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "max":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}
