package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps JSON field names to a list of validation error messages.
type FieldErrors map[string][]string

// ValidationError implements a DomainProblem (from internal/httpx) without
// importing it directly, by providing the required method set. This avoids
// cycles and lets httpx.ToProblem format it.
type ValidationError struct {
	summary string
	fields  FieldErrors
}

// NewValidationError builds a business-rule validation error outside of tag
// validation, e.g. "user with this email does not exist" on reset requests.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		summary: fmt.Sprintf("%s %s", field, message),
		fields:  FieldErrors{field: {message}},
	}
}

func (e *ValidationError) Error() string { return e.summary }

// Domain-problem methods (structural typing against httpx.DomainProblem)

func (e *ValidationError) ProblemCode() string    { return "ErrValidation" }
func (e *ValidationError) ProblemStatus() int     { return 400 }
func (e *ValidationError) ProblemTitle() string   { return "Validation error" }
func (e *ValidationError) ProblemDetail() string  { return e.summary }
func (e *ValidationError) ProblemTypeURI() string { return "urn:problem:validation-error" }
func (e *ValidationError) ProblemContext() any    { return map[string]any{"fields": e.fields} }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names instead of struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		jsonTag := fld.Tag.Get("json")
		name := strings.Split(jsonTag, ",")[0]
		if name == "" || name == "-" {
			return lowerFirst(fld.Name)
		}
		return name
	})
	return v
}

// ValidateStruct validates a struct instance according to `validate` tags.
// On success it returns nil. On failure it returns a *ValidationError with a
// short summary and a map of JSON field name to messages.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &ValidationError{summary: "validation failed", fields: FieldErrors{}}
		}

		fields := make(FieldErrors)
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], messageForTag(fe))
		}
		return &ValidationError{summary: summarize(fields), fields: fields}
	}
	return nil
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", lowerFirst(fe.Param()))
	case "numeric":
		return "must contain only digits"
	default:
		return "is invalid"
	}
}

func summarize(fields FieldErrors) string {
	firstField, firstMsg := "", ""
	total := 0
	for k, list := range fields {
		if firstField == "" && len(list) > 0 {
			firstField, firstMsg = k, list[0]
		}
		total += len(list)
	}
	if firstField == "" {
		return "validation failed"
	}
	if others := total - 1; others > 0 {
		plural := ""
		if others > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%s %s, and %d other error%s", firstField, firstMsg, others, plural)
	}
	return fmt.Sprintf("%s %s", firstField, firstMsg)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}
