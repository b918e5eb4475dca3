package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
)

// tagMessages holds fmt templates keyed by validator tag. A template without
// a verb ignores the tag parameter.
var tagMessages = map[string]string{ //nolint:gochecknoglobals // read-only lookup
	"required":    "This field is required",
	"required_if": "This field is required when %s",
	"gte":         "Must be greater than or equal to %s",
	"lte":         "Must be less than or equal to %s",
	"gt":          "Must be greater than %s",
	"lt":          "Must be less than %s",
	"startswith":  "Must start with: %s",
	"identifier":  "Must be a camelCase identifier",
	"url":         "Must be a valid URL",
	"hostname":    "Must be a valid hostname",
	"jwt":         "Must be a valid JWT token",
}

// ValidateSchema runs the struct validator over schema. Field failures are
// reported as a single VALIDATION_FAILED error whose fields map each json,
// yaml, query or params name to a readable message.
func ValidateSchema(schema any) error {
	err := validate.Struct(schema)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errx.New(
			"validation could not run: "+err.Error(),
			errx.WithCode(CodeValidationFailed),
			errx.WithType(errx.T_Validation),
		)
	}

	fields := make(errx.M, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = describe(fe)
	}
	return errx.New(
		"Validation failed. See fields for details.",
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
		errx.WithFields(fields),
	)
}

func describe(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()

	switch tag {
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "min", "max":
		bound := "least"
		if tag == "max" {
			bound = "most"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at %s %s characters", bound, param)
		}
		return fmt.Sprintf("Must be at %s %s", bound, param)
	}

	tmpl, ok := tagMessages[tag]
	if !ok {
		return "Failed validation: " + tag
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, param)
	}
	return tmpl
}
