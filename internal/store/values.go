package store

import (
	"reflect"
	"strings"
)

// ValuesOf converts a struct (or pointer to struct) into Values using its db
// tags. Nil pointers are skipped so partial-update payloads only touch the
// columns the caller supplied; fields tagged ",omitempty" are skipped when zero.
// Fields without a db tag, or tagged "-", are ignored.
func ValuesOf(v any) Values {
	out := Values{}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("db")
		if !ok || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)

		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			out[name] = fv.Elem().Interface()
			continue
		}
		if opts == "omitempty" && fv.IsZero() {
			continue
		}
		out[name] = fv.Interface()
	}
	return out
}

// Merge returns a new Values holding v overlaid with other.
func (v Values) Merge(other Values) Values {
	out := make(Values, len(v)+len(other))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range other {
		out[k] = val
	}
	return out
}
