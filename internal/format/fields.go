package format

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// field is one labelled value of a record
type field struct {
	Key   string
	Value interface{}
}

var timeType = reflect.TypeOf(time.Time{})

// recordFields flattens a struct or string-keyed map into ordered fields.
// Nested structs are inlined with their key as prefix. ok is false for
// values that are not records.
func recordFields(data interface{}) (fields []field, ok bool) {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Struct && v.Type() != timeType:
		return structFields(v, ""), true
	case v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String:
		return mapFields(v), true
	default:
		return nil, false
	}
}

func structFields(v reflect.Value, prefix string) []field {
	t := v.Type()
	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := fieldKey(sf)
		if key == "" {
			continue
		}
		key = prefix + key

		fv := v.Field(i)
		inner := fv
		if inner.Kind() == reflect.Ptr && !inner.IsNil() {
			inner = inner.Elem()
		}
		if inner.Kind() == reflect.Struct && inner.Type() != timeType {
			fields = append(fields, structFields(inner, key+"_")...)
			continue
		}
		fields = append(fields, field{Key: key, Value: fv.Interface()})
	}
	return fields
}

func mapFields(v reflect.Value) []field {
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	fields := make([]field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, field{Key: k, Value: v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())).Interface()})
	}
	return fields
}

// fieldKey prefers the json tag name; "-" hides the field
func fieldKey(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return sf.Name
}

// listItems returns the elements of a slice or array
func listItems(data interface{}) ([]interface{}, bool) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}

	items := make([]interface{}, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}
	return items, true
}

// plainValue renders a scalar without color
func plainValue(value interface{}) string {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		return plainValue(v.Elem().Interface())
	}

	switch x := value.(type) {
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float32, float64:
		return fmt.Sprintf("%.2f", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
