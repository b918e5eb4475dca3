// Package compoundid implements the opaque external identifiers used for every
// catalog object.
//
// An identifier is an ordered list of local names (the dataset name, a
// differentiator constant, the object's own name) rendered as a small JSON
// array literal and then base64url encoded without padding. The encoding is
// reversible and carries the whole ancestor path, so parent identifiers can be
// derived by truncation.
package compoundid

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/code19m/errx"
)

const differentiatorField = "differentiator"

// Container names an ancestor identifier derivable from a prefix of the fields.
type Container struct {
	// Name is the attribute the ancestor id is exposed under, e.g. "datasetId".
	Name string
	// Index is the last field index (inclusive) of the ancestor's prefix.
	Index int
}

// Kind describes the shape of one identifier type.
type Kind struct {
	name           string
	fields         []string
	differentiator string
	containers     []Container

	// constants maps field index to the differentiator expected there,
	// including those inherited from ancestors.
	constants map[int]string
}

// NewRootKind creates a kind with no parent, e.g. a dataset.
func NewRootKind(name string, fields ...string) *Kind {
	return &Kind{
		name:   name,
		fields: fields,
	}
}

// NewKind creates a kind nested under parent. When differentiator is not empty
// it is stored between the parent's fields and the local fields, so kinds that
// share a parent never produce colliding identifiers.
func NewKind(name string, parent *Kind, differentiator string, fields ...string) *Kind {
	k := &Kind{
		name:           name,
		differentiator: differentiator,
		constants:      make(map[int]string, len(parent.constants)+1),
	}

	k.fields = append(k.fields, parent.fields...)
	for i, c := range parent.constants {
		k.constants[i] = c
	}
	if differentiator != "" {
		k.constants[len(k.fields)] = differentiator
		k.fields = append(k.fields, differentiatorField)
	}
	k.fields = append(k.fields, fields...)

	k.containers = append(k.containers, parent.containers...)
	k.containers = append(k.containers, Container{
		Name:  parent.name + "Id",
		Index: len(parent.fields) - 1,
	})

	return k
}

// Name returns the kind name.
func (k *Kind) Name() string {
	return k.name
}

// Fields returns the ordered field names, including the differentiator slot.
func (k *Kind) Fields() []string {
	return append([]string(nil), k.fields...)
}

// Containers returns the ancestor identifiers this kind exposes.
func (k *Kind) Containers() []Container {
	return append([]Container(nil), k.containers...)
}

// Root builds an identifier of a root kind from its local names.
func (k *Kind) Root(names ...string) ID {
	return k.build(nil, names)
}

// Of builds an identifier of kind k under parent, inheriting its values.
// It panics if the number of names does not fit the kind, which is a
// programming error in kind registration.
func (k *Kind) Of(parent ID, names ...string) ID {
	return k.build(parent.values, names)
}

func (k *Kind) build(parentValues, names []string) ID {
	values := make([]string, 0, len(k.fields))
	values = append(values, parentValues...)
	if k.differentiator != "" {
		values = append(values, k.differentiator)
	}
	values = append(values, names...)

	if len(values) != len(k.fields) {
		panic(fmt.Sprintf(
			"[compoundid]: kind %s expects %d fields, got %d", k.name, len(k.fields), len(values),
		))
	}

	return ID{kind: k, values: values}
}

// Parse decodes an externally supplied identifier string of kind k.
// Every failure is reported as not found: a malformed identifier is
// indistinguishable from one that never existed.
func (k *Kind) Parse(s string) (ID, error) {
	raw, ok := Decode(s)
	if !ok {
		return ID{}, notFound(k, s)
	}

	values, ok := Split(raw)
	if !ok || len(values) != len(k.fields) {
		return ID{}, notFound(k, s)
	}

	for i, c := range k.constants {
		if values[i] != c {
			return ID{}, notFound(k, s)
		}
	}

	return ID{kind: k, values: values}, nil
}

// ID is an immutable compound identifier.
type ID struct {
	kind   *Kind
	values []string
}

// Kind returns the kind of the identifier.
func (id ID) Kind() *Kind {
	return id.kind
}

// IsZero reports whether id was never built.
func (id ID) IsZero() bool {
	return id.kind == nil
}

// Value returns the value stored under the named field.
func (id ID) Value(field string) string {
	if id.kind == nil {
		return ""
	}
	for i, f := range id.kind.fields {
		if f == field {
			return id.values[i]
		}
	}
	return ""
}

// Values returns a copy of all field values in order.
func (id ID) Values() []string {
	return append([]string(nil), id.values...)
}

// Container returns the encoded ancestor identifier exposed under name.
func (id ID) Container(name string) (string, bool) {
	if id.kind == nil {
		return "", false
	}
	for _, c := range id.kind.containers {
		if c.Name == name {
			return Encode(Join(id.values[:c.Index+1])), true
		}
	}
	return "", false
}

// String returns the opaque external form.
func (id ID) String() string {
	if id.kind == nil {
		return ""
	}
	return Encode(Join(id.values))
}

// Join renders values as a JSON array literal of strings.
func Join(values []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(escape(v))
		b.WriteByte('"')
	}
	b.WriteByte(']')
	return b.String()
}

// Split parses an array literal produced by Join.
func Split(s string) ([]string, bool) {
	if !utf8.ValidString(s) {
		return nil, false
	}

	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, false
	}
	return values, true
}

// Encode applies base64url without padding.
func Encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// Decode reverses Encode. Missing padding is restored from the length of s.
func Decode(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	padded := s + "A=="[(len(s)-1)%4:]

	raw, err := base64.URLEncoding.DecodeString(padded)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func notFound(k *Kind, s string) error {
	return errx.New(
		fmt.Sprintf("No object of this type exists with id '%s'", s),
		errx.WithCode(CodeObjectNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"kind": k.name}),
	)
}
