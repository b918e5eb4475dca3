package catalog

import (
	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/compoundid"
)

// Wire form keys present on every record.
const (
	IDKey        = "id"
	DatasetIDKey = "datasetId"
	NameKey      = "name"
)

// Record is one entity. Attribute values are stored already coerced to the
// schema's field types, alongside the minimum tier of each attribute.
type Record struct {
	schema *Schema
	id     compoundid.ID
	idStr  string
	name   string
	values map[string]any
	tiers  map[string]int
}

// Schema returns the record's entity type.
func (r *Record) Schema() *Schema {
	return r.schema
}

// ID returns the external identifier.
func (r *Record) ID() string {
	return r.idStr
}

// CompoundID returns the structured identifier.
func (r *Record) CompoundID() compoundid.ID {
	return r.id
}

// Name returns the local name.
func (r *Record) Name() string {
	return r.name
}

// Field resolves a declared attribute. Unknown names report false.
func (r *Record) Field(name string) (any, bool) {
	acc, ok := r.schema.accessors[name]
	if !ok {
		return nil, false
	}
	return acc(r)
}

// FieldNames lists the attributes Field can resolve.
func (r *Record) FieldNames() []string {
	return r.schema.FieldNames()
}

// Tier returns the minimum tier annotated for an attribute.
func (r *Record) Tier(name string) (int, bool) {
	t, ok := r.tiers[name]
	return t, ok
}

// Wire converts the record to its response form at the given access tier.
// Attributes without a tier annotation, or annotated above tier, are left
// out, and so are the annotations themselves.
func (r *Record) Wire(tier int) map[string]any {
	datasetID, _ := r.id.Container(DatasetIDKey)

	out := map[string]any{
		IDKey:        r.idStr,
		DatasetIDKey: datasetID,
		NameKey:      r.name,
	}

	view := r.At(tier)
	for _, f := range r.schema.fields {
		if v, _ := view.Field(f.Name); v != nil {
			out[f.Name] = v
		}
	}

	return out
}

// TierView is a record as read at one access tier.
type TierView struct {
	rec  *Record
	tier int
}

// At returns r as seen at tier. Attributes the tier cannot read resolve to
// nil, the same as attributes the record does not carry.
func (r *Record) At(tier int) TierView {
	return TierView{rec: r, tier: tier}
}

// Field resolves a declared attribute. Derived fields are always readable.
func (v TierView) Field(name string) (any, bool) {
	val, ok := v.rec.Field(name)
	if !ok || val == nil {
		return val, ok
	}
	if def, _ := v.rec.schema.Field(name); def.Derived {
		return val, true
	}
	required, annotated := v.rec.tiers[name]
	if !access.Visible(v.tier, required, annotated) {
		return nil, true
	}
	return val, true
}

// FieldNames lists the attributes Field can resolve.
func (v TierView) FieldNames() []string {
	return v.rec.FieldNames()
}
