// Package catalog holds the in-memory entity collections the query engine
// reads from.
//
// Every entity type is described by a Schema: its identifier kind, its plural
// name (which doubles as the search endpoint and the response envelope key),
// and a registry of typed field accessors. Records are immutable once a
// Repository has been built, so concurrent readers need no locking.
package catalog

import (
	"slices"

	"github.com/rise-and-shine/catalog/compoundid"
)

// FieldType is the value type stored for an attribute.
type FieldType int

const (
	String FieldType = iota
	Number
	Bool
	StringList
)

// Accessor reads one field of a record.
type Accessor func(r *Record) (any, bool)

// FieldDef declares one attribute of a schema.
type FieldDef struct {
	Name string
	Type FieldType

	// Derived fields are computed from the identifier and are always
	// visible, with no tier annotation.
	Derived bool
	// FromName derives the field from the record's local name instead of
	// an ancestor identifier.
	FromName bool
}

// Schema describes one entity type.
type Schema struct {
	// Plural is the endpoint and envelope name, e.g. "patients".
	Plural string
	// Kind is the identifier shape of the entity.
	Kind *compoundid.Kind
	// Parent is set when records are nested under another entity type
	// rather than directly under a dataset.
	Parent *Schema

	fields    []FieldDef
	accessors map[string]Accessor
}

func newSchema(plural string, kind *compoundid.Kind, fields ...FieldDef) *Schema {
	s := &Schema{
		Plural:    plural,
		Kind:      kind,
		fields:    fields,
		accessors: make(map[string]Accessor, len(fields)),
	}

	for _, f := range fields {
		switch {
		case f.Derived && f.FromName:
			s.accessors[f.Name] = nameAccessor
			continue
		case f.Derived:
			s.accessors[f.Name] = containerAccessor(f.Name)
			continue
		}
		s.accessors[f.Name] = valueAccessor(f.Name)
	}

	return s
}

func valueAccessor(name string) Accessor {
	return func(r *Record) (any, bool) {
		return r.values[name], true
	}
}

func nameAccessor(r *Record) (any, bool) {
	return r.name, true
}

func containerAccessor(name string) Accessor {
	return func(r *Record) (any, bool) {
		v, ok := r.id.Container(name)
		if !ok {
			return nil, true
		}
		return v, true
	}
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []FieldDef {
	return slices.Clone(s.fields)
}

// FieldNames returns the declared field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.Name)
	}
	return names
}

// Field returns the definition of the named field.
func (s *Schema) Field(name string) (FieldDef, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// HasField reports whether name is a declared field.
func (s *Schema) HasField(name string) bool {
	_, ok := s.accessors[name]
	return ok
}
