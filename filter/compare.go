package filter

import (
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
)

type valueKind int

const (
	kindOther valueKind = iota
	kindNil
	kindNumber
	kindString
	kindBool
	kindList
)

func kindOf(v any) valueKind {
	switch v.(type) {
	case nil:
		return kindNil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return kindNumber
	case string:
		return kindString
	case bool:
		return kindBool
	case []string, []any:
		return kindList
	default:
		return kindOther
	}
}

// compare applies op to the attribute value got and the filter operand want.
func compare(op Operator, got, want any) (bool, error) {
	switch op {
	case OpEQ:
		return equal(got, want), nil
	case OpNE:
		return !equal(got, want), nil
	case OpContains:
		return contains(got, want)
	case OpGT, OpLT, OpGE, OpLE:
		c, err := order(got, want)
		if err != nil {
			return false, errx.Wrap(err)
		}
		switch op {
		case OpGT:
			return c > 0, nil
		case OpLT:
			return c < 0, nil
		case OpGE:
			return c >= 0, nil
		default:
			return c <= 0, nil
		}
	default:
		return false, badRequest(fmt.Sprintf("Unsupported filter operator: %s.", op))
	}
}

func equal(a, b any) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case kindNil:
		return true
	case kindNumber:
		return cast.ToFloat64(a) == cast.ToFloat64(b)
	case kindString:
		return a.(string) == b.(string) //nolint:errcheck // kind checked above
	case kindBool:
		return a.(bool) == b.(bool) //nolint:errcheck // kind checked above
	case kindList:
		la, lb := toList(a), toList(b)
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// order returns -1, 0 or 1 comparing a with b, or a bad-input-type error when
// the two values have no ordering between them.
func order(a, b any) (int, error) {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return 0, badInputType(a, b)
	}

	switch ka {
	case kindNumber:
		fa, fb := cast.ToFloat64(a), cast.ToFloat64(b)
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		default:
			return 0, nil
		}
	case kindString:
		return strings.Compare(a.(string), b.(string)), nil //nolint:errcheck // kind checked above
	case kindBool:
		return cast.ToInt(a) - cast.ToInt(b), nil
	default:
		return 0, badInputType(a, b)
	}
}

func contains(container, item any) (bool, error) {
	switch kindOf(container) {
	case kindString:
		s, ok := item.(string)
		if !ok {
			return false, badInputType(container, item)
		}
		return strings.Contains(container.(string), s), nil //nolint:errcheck // kind checked above
	case kindList:
		for _, el := range toList(container) {
			if equal(el, item) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, badInputType(container, item)
	}
}

func member(v any, set map[any]struct{}) (bool, error) {
	if kindOf(v) == kindList {
		return false, errx.New(
			"A list attribute cannot be matched with the in operator.",
			errx.WithCode(CodeBadInputType),
			errx.WithType(errx.T_Validation),
		)
	}

	key, ok := setKey(v)
	if !ok {
		return false, nil
	}
	_, found := set[key]
	return found, nil
}

// setKey normalizes scalars so that equal numbers of different Go types share
// one hash key.
func setKey(v any) (any, bool) {
	switch kindOf(v) {
	case kindNumber:
		return cast.ToFloat64(v), true
	case kindString, kindBool:
		return v, true
	default:
		return nil, false
	}
}

func toList(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

func badInputType(a, b any) error {
	return errx.New(
		fmt.Sprintf("Cannot compare values of type %T and %T.", a, b),
		errx.WithCode(CodeBadInputType),
		errx.WithType(errx.T_Validation),
	)
}
