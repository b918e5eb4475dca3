// Package mask flattens structs into ordered maps for logging, redacting
// fields tagged `mask:"true"`.
package mask

import (
	"fmt"
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const tagName = "mask"

// StructToOrdMap returns an ordered map of the exported fields of v. Nested
// structs are flattened into dotted keys. Field names come from the json tag,
// then the yaml tag, then the Go name. Fields tagged "-" are skipped.
func StructToOrdMap(v any) *orderedmap.OrderedMap[string, any] {
	if v == nil {
		return nil
	}
	om := orderedmap.New[string, any]()
	flatten(om, reflect.ValueOf(v), "")
	return om
}

func flatten(om *orderedmap.OrderedMap[string, any], val reflect.Value, prefix string) {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			om.Set(prefix, nil)
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		om.Set(prefix, val.Interface())
		return
	}

	typ := val.Type()
	for i := range val.NumField() {
		ft := typ.Field(i)
		if !ft.IsExported() {
			continue
		}
		name, skip := fieldName(ft)
		if skip {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		field := val.Field(i)
		switch {
		case strings.EqualFold(ft.Tag.Get(tagName), "true"):
			om.Set(name, redact(field))
		case isStruct(field):
			flatten(om, field, name)
		default:
			om.Set(name, field.Interface())
		}
	}
}

func isStruct(val reflect.Value) bool {
	if val.Kind() == reflect.Pointer {
		return !val.IsNil() && val.Elem().Kind() == reflect.Struct
	}
	return val.Kind() == reflect.Struct
}

// redact keeps nil and zero values visible and replaces anything else.
func redact(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // remaining kinds are never nil
	case reflect.Pointer:
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	case reflect.Slice, reflect.Map:
		if val.IsNil() {
			return nil
		}
	}
	if val.IsZero() {
		return val.Interface()
	}

	kind := val.Kind().String()
	switch val.Kind() { //nolint:exhaustive // grouped kinds only
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		kind = "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		kind = "uint"
	case reflect.Float32, reflect.Float64:
		kind = "float"
	case reflect.Array:
		kind = "slice"
	}
	return fmt.Sprintf("***masked-%s***", kind)
}

func fieldName(field reflect.StructField) (string, bool) {
	for _, tag := range []string{"json", "yaml"} {
		value, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if value == "-" {
			return "", true
		}
		if name, _, _ := strings.Cut(value, ","); name != "" {
			return name, false
		}
	}
	return field.Name, false
}
