// Package record exposes the JSON-named fields of plain structs so that
// serializers and the template renderer can treat entities as flat records.
package record

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var marshalerType = reflect.TypeFor[json.Marshaler]()

// Field is one named value of a record. Value is nil for null pointers.
type Field struct {
	Name  string
	Value any
}

// Scalars returns the scalar fields of v in declaration order. Slices, maps,
// structs and interfaces are nested data and are skipped. v must be a struct
// or a pointer to one; anything else has no fields.
func Scalars(v any) []Field {
	rv, ok := structValue(v)
	if !ok {
		return nil
	}

	rt := rv.Type()
	fields := make([]Field, 0, rt.NumField())

	for i := range rt.NumField() {
		sf := rt.Field(i)

		name, ok := jsonName(sf)
		if !ok || !isScalar(sf.Type) {
			continue
		}

		fields = append(fields, Field{Name: name, Value: scalarValue(rv.Field(i))})
	}

	return fields
}

// Lookup returns the value of the field whose JSON name is name. Nested data
// is returned as well; ok is false for unknown names.
func Lookup(v any, name string) (any, bool) {
	rv, ok := structValue(v)
	if !ok {
		return nil, false
	}

	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)

		n, ok := jsonName(sf)
		if !ok || n != name {
			continue
		}

		if isScalar(sf.Type) {
			return scalarValue(rv.Field(i)), true
		}

		return rv.Field(i).Interface(), true
	}

	return nil, false
}

// IsNumeric reports whether v is a number or a string holding a decimal
// number.
func IsNumeric(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case string:
		_, err := decimal.NewFromString(strings.TrimSpace(x))
		return strings.TrimSpace(x) != "" && err == nil
	}

	return false
}

// String formats a scalar the way it appears in a JSON document: numbers in
// shortest form, booleans as true/false, null as "".
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	}

	return ""
}

// Truthy mirrors how a loosely typed template treats a value: null, zero,
// false and the empty string are all "nothing".
func Truthy(v any) bool {
	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}

	return true
}

func structValue(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}

		rv = rv.Elem()
	}

	return rv, rv.Kind() == reflect.Struct
}

func jsonName(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", false
	}

	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}

	return name, true
}

func isScalar(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Interface, reflect.Func, reflect.Chan:
		return false
	}

	return true
}

// scalarValue dereferences pointers and converts named string types to
// string so callers only ever see builtin kinds.
func scalarValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil
		}

		fv = fv.Elem()
	}

	switch fv.Kind() {
	case reflect.String:
		s := fv.String()
		if s == "" && fv.Type().Implements(marshalerType) {
			// Types with their own JSON encoding (dates) use "" for null.
			return nil
		}

		return s
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fv.Uint()
	case reflect.Float32, reflect.Float64:
		return fv.Float()
	case reflect.Bool:
		return fv.Bool()
	}

	return fv.Interface()
}
