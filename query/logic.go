package query

import (
	"encoding/json"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
)

const (
	logicID     = "id"
	logicNegate = "negate"
	logicAnd    = "and"
	logicOr     = "or"
)

// Node is a boolean expression over component results: Ref, And or Or.
type Node interface {
	node()
}

// Ref selects the join keys of one component, or their complement within
// the dataset's patients when Negate is set.
type Ref struct {
	ID     string
	Negate bool
}

// And intersects its children.
type And struct {
	Children []Node
}

// Or unions its children.
type Or struct {
	Children []Node
}

func (Ref) node() {}
func (And) node() {}
func (Or) node()  {}

// ParseLogic decodes a logic tree. Every node must have exactly one of the
// shapes {id}, {id, negate}, {and: [...]} or {or: [...]}.
func ParseLogic(data []byte) (Node, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, invalidLogic("Logic node must be an object")
	}

	switch len(obj) {
	case 1:
	case 2:
		if _, ok := obj[logicID]; !ok {
			return nil, invalidLogic("Invalid key combination")
		}
		if _, ok := obj[logicNegate]; !ok {
			return nil, invalidLogic("Invalid key combination")
		}
		return parseRef(obj)
	default:
		return nil, invalidLogic("Invalid number of keys")
	}

	for key, raw := range obj {
		switch key {
		case logicID:
			return parseRef(obj)
		case logicAnd, logicOr:
			children, err := parseChildren(raw)
			if err != nil {
				return nil, err
			}
			if key == logicAnd {
				return And{Children: children}, nil
			}
			return Or{Children: children}, nil
		}
	}
	return nil, invalidLogic("Invalid key used")
}

func parseRef(obj map[string]json.RawMessage) (Node, error) {
	var id string
	if err := json.Unmarshal(obj[logicID], &id); err != nil || id == "" {
		return nil, invalidLogic("Logic id must be a non-empty string")
	}

	ref := Ref{ID: id}
	if raw, ok := obj[logicNegate]; ok {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalidLogic("Logic negate must be a boolean")
		}
		negate, err := cast.ToBoolE(v)
		if err != nil {
			return nil, invalidLogic("Logic negate must be a boolean")
		}
		ref.Negate = negate
	}
	return ref, nil
}

func parseChildren(raw json.RawMessage) ([]Node, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, invalidLogic("Logic operands must be a list")
	}

	children := make([]Node, 0, len(items))
	for _, item := range items {
		child, err := ParseLogic(item)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func invalidLogic(msg string) error {
	return errx.New(msg, errx.WithCode(CodeInvalidLogic), errx.WithType(errx.T_Validation))
}
