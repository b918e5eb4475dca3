package val

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// IsIdentifier reports whether s is a plain camelCase identifier such as an
// endpoint or field name.
func IsIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	})
}
