package catalog

import (
	"fmt"

	"github.com/code19m/errx"
	"github.com/spf13/cast"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/compoundid"
)

const (
	CodeObjectNotFound = compoundid.CodeObjectNotFound
	CodeBadSnapshot    = "BAD_SNAPSHOT"
)

type collection struct {
	records []*Record
	byID    map[string]*Record
	byName  map[string]*Record
}

// Dataset groups the entity collections of one dataset.
type Dataset struct {
	id          compoundid.ID
	idStr       string
	name        string
	description string

	collections map[string]*collection
}

// NewDataset creates an empty dataset.
func NewDataset(name, description string) *Dataset {
	id := DatasetKind.Root(name)
	return &Dataset{
		id:          id,
		idStr:       id.String(),
		name:        name,
		description: description,
		collections: make(map[string]*collection),
	}
}

// ID returns the external dataset identifier.
func (d *Dataset) ID() string {
	return d.idStr
}

// Name returns the dataset's local name, the key used in access maps.
func (d *Dataset) Name() string {
	return d.name
}

// Description returns the free-text description.
func (d *Dataset) Description() string {
	return d.description
}

// Wire returns the dataset's response form.
func (d *Dataset) Wire() map[string]any {
	return map[string]any{
		IDKey:         d.idStr,
		NameKey:       d.name,
		"description": d.description,
	}
}

// List returns the records of an entity type in load order.
func (d *Dataset) List(sc *Schema) []*Record {
	c, ok := d.collections[sc.Plural]
	if !ok {
		return nil
	}
	return c.records
}

// GetByID returns the record with the given external id.
func (d *Dataset) GetByID(sc *Schema, id string) (*Record, error) {
	if _, err := sc.Kind.Parse(id); err != nil {
		return nil, errx.Wrap(err)
	}

	if c, ok := d.collections[sc.Plural]; ok {
		if r, ok := c.byID[id]; ok {
			return r, nil
		}
	}
	return nil, notFound(sc.Plural, id)
}

// GetByName returns the first record with the given local name.
func (d *Dataset) GetByName(sc *Schema, name string) (*Record, error) {
	if c, ok := d.collections[sc.Plural]; ok {
		if r, ok := c.byName[name]; ok {
			return r, nil
		}
	}
	return nil, notFound(sc.Plural, name)
}

// Add appends a record. parent names the owning record for nested schemas.
// Attributes are coerced to their declared types; keys ending in Tier are
// read as tier annotations.
func (d *Dataset) Add(sc *Schema, name, parent string, attrs map[string]any) (*Record, error) {
	if name == "" {
		return nil, badSnapshot(sc.Plural, name, "record name is required")
	}

	var id compoundid.ID
	if sc.Parent != nil {
		owner, err := d.GetByName(sc.Parent, parent)
		if err != nil {
			return nil, badSnapshot(sc.Plural, name, fmt.Sprintf("parent %s %q not found", sc.Parent.Plural, parent))
		}
		id = sc.Kind.Of(owner.id, name)
	} else {
		id = sc.Kind.Of(d.id, name)
	}

	r := &Record{
		schema: sc,
		id:     id,
		idStr:  id.String(),
		name:   name,
		values: make(map[string]any),
		tiers:  make(map[string]int),
	}

	for key, raw := range attrs {
		if err := r.set(key, raw); err != nil {
			return nil, errx.Wrap(err)
		}
	}

	c, ok := d.collections[sc.Plural]
	if !ok {
		c = &collection{
			byID:   make(map[string]*Record),
			byName: make(map[string]*Record),
		}
		d.collections[sc.Plural] = c
	}
	if _, dup := c.byID[r.idStr]; dup {
		return nil, badSnapshot(sc.Plural, name, "duplicate record")
	}

	c.records = append(c.records, r)
	c.byID[r.idStr] = r
	if _, seen := c.byName[name]; !seen {
		c.byName[name] = r
	}

	return r, nil
}

func (r *Record) set(key string, raw any) error {
	if access.IsTierKey(key) {
		attr := key[:len(key)-len(access.TierSuffix)]
		if def, ok := r.schema.Field(attr); ok && !def.Derived {
			tier, err := cast.ToIntE(raw)
			if err != nil {
				return badSnapshot(r.schema.Plural, r.name, fmt.Sprintf("tier %s is not an integer", key))
			}
			r.tiers[attr] = tier
			return nil
		}
	}

	def, ok := r.schema.Field(key)
	if !ok || def.Derived {
		return badSnapshot(r.schema.Plural, r.name, fmt.Sprintf("unknown attribute %s", key))
	}

	v, err := coerce(def, raw)
	if err != nil {
		return badSnapshot(r.schema.Plural, r.name, fmt.Sprintf("attribute %s: %v", key, err))
	}
	r.values[key] = v
	return nil
}

func coerce(def FieldDef, raw any) (any, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent attribute
	}

	switch def.Type {
	case Number:
		return cast.ToFloat64E(raw)
	case Bool:
		return cast.ToBoolE(raw)
	case StringList:
		return cast.ToStringSliceE(raw)
	default:
		return cast.ToStringE(raw)
	}
}

func notFound(kind, id string) error {
	return errx.New(
		fmt.Sprintf("No object of this type exists with id '%s'", id),
		errx.WithCode(CodeObjectNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"kind": kind}),
	)
}

func badSnapshot(kind, name, reason string) error {
	return errx.New(
		fmt.Sprintf("invalid %s record %q: %s", kind, name, reason),
		errx.WithCode(CodeBadSnapshot),
		errx.WithType(errx.T_Validation),
	)
}
