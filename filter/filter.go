// Package filter validates and evaluates field/operator/value predicates
// against objects that expose their attributes by name.
package filter

import (
	"fmt"
	"strings"

	"github.com/code19m/errx"
)

// Operator is a normalized filter operator.
type Operator string

const (
	OpGT       Operator = "gt"
	OpLT       Operator = "lt"
	OpGE       Operator = "ge"
	OpLE       Operator = "le"
	OpEQ       Operator = "eq"
	OpNE       Operator = "ne"
	OpContains Operator = "contains"
	OpIn       Operator = "in"
)

//nolint:gochecknoglobals // static operator alias table
var operatorAliases = map[string]Operator{
	">":        OpGT,
	"gt":       OpGT,
	"<":        OpLT,
	"lt":       OpLT,
	">=":       OpGE,
	"ge":       OpGE,
	"<=":       OpLE,
	"le":       OpLE,
	"eq":       OpEQ,
	"=":        OpEQ,
	"==":       OpEQ,
	"!=":       OpNE,
	"ne":       OpNE,
	"contains": OpContains,
	"in":       OpIn,
}

// Raw is a filter as it arrives in a request body. A nil Value or Values
// means the key was absent.
type Raw struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
	Values   []any  `json:"values,omitempty"`
}

// Filter is a validated predicate.
type Filter struct {
	Field    string
	Operator Operator
	Value    any
	Values   map[any]struct{}
}

// Mapper resolves attribute names on an object.
type Mapper interface {
	// Field returns the named attribute and whether the name is known.
	Field(name string) (any, bool)
	// FieldNames lists every known attribute name.
	FieldNames() []string
}

// Validate checks the shape of every raw filter before any object is scanned.
func Validate(raws []Raw) ([]Filter, error) {
	filters := make([]Filter, 0, len(raws))

	for i, raw := range raws {
		f, err := validateOne(raw)
		if err != nil {
			return nil, errx.Wrap(err, errx.WithDetails(errx.D{"filter_index": i}))
		}
		filters = append(filters, f)
	}

	return filters, nil
}

func validateOne(raw Raw) (Filter, error) {
	if raw.Field == "" || raw.Operator == "" {
		return Filter{}, badRequest("Please specify field and/or operator in your filters.")
	}

	hasValue := raw.Value != nil
	hasValues := raw.Values != nil

	op, known := operatorAliases[strings.ToLower(raw.Operator)]

	switch {
	case hasValue && hasValues:
		return Filter{}, badRequest("You can only specify one of value or values in one filter.")
	case known && op == OpIn && !hasValues:
		return Filter{}, badRequest(
			"You can only use the in operator when you supply a list of values in your filter.",
		)
	case hasValues && (!known || op != OpIn):
		return Filter{}, badRequest("If you specify a list of values in your filter, the operator has to be in.")
	case !hasValue && !hasValues:
		return Filter{}, badRequest("You need to specify one of value or values in one filter.")
	case !known:
		return Filter{}, badRequest(fmt.Sprintf("Unsupported filter operator: %s.", raw.Operator))
	}

	f := Filter{
		Field:    raw.Field,
		Operator: op,
		Value:    raw.Value,
	}

	if hasValues {
		set := make(map[any]struct{}, len(raw.Values))
		for _, v := range raw.Values {
			key, ok := setKey(v)
			if !ok {
				return Filter{}, badRequest("Values in a list filter must be strings, numbers or booleans.")
			}
			set[key] = struct{}{}
		}
		f.Values = set
	}

	return f, nil
}

// Matches reports whether obj satisfies every filter. Evaluation stops at the
// first filter that does not hold. An attribute that resolves to nil never
// matches, whatever the operator.
func Matches(obj Mapper, filters []Filter) (bool, error) {
	for _, f := range filters {
		ok, err := matchOne(obj, f)
		if err != nil {
			return false, errx.Wrap(err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchOne(obj Mapper, f Filter) (bool, error) {
	got, ok := obj.Field(f.Field)
	if !ok {
		return false, fieldMiss(f.Field, obj.FieldNames())
	}

	if got == nil {
		return false, nil
	}

	if f.Operator == OpIn {
		return member(got, f.Values)
	}
	return compare(f.Operator, got, f.Value)
}

func fieldMiss(field string, known []string) error {
	if match, ok := ClosestMatch(field, known); ok {
		return errx.New(
			fmt.Sprintf("'%s' is not a valid field name. Did you mean '%s'?", field, match),
			errx.WithCode(CodeFieldNameSuggestion),
			errx.WithType(errx.T_Validation),
			errx.WithFields(errx.M{field: match}),
		)
	}
	return errx.New(
		fmt.Sprintf("'%s' is not a valid field name.", field),
		errx.WithCode(CodeUnknownField),
		errx.WithType(errx.T_Validation),
	)
}

func badRequest(msg string) error {
	return errx.New(msg, errx.WithCode(CodeBadRequest), errx.WithType(errx.T_Validation))
}
