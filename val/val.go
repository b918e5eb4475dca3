// Package val validates transport inputs and configuration structs.
package val

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(getTagName)
	registerCustomValidations(v)
	return v
}

// getTagName returns the name of a struct field based on its struct tags.
// It checks 'json', 'yaml', 'query' and 'params' tags in that order, and falls
// back to the field name.
func getTagName(fld reflect.StructField) string {
	for _, tagName := range []string{"json", "yaml", "query", "params"} {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}
