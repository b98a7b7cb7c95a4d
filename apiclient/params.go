package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
)

// Params are the parameters of a call: the query string for GET and the
// JSON body for PATCH, POST and PUT. Nil values mean "absent" and are
// dropped; zero values such as 0, "" or false are sent.
type Params map[string]any

// Compact returns a copy without nil entries. Typed nil pointers, maps and
// slices count as nil.
func (p Params) Compact() Params {
	compacted := make(Params, len(p))

	for key, value := range p {
		if isNil(value) {
			continue
		}

		compacted[key] = value
	}

	return compacted
}

func (p Params) queryValues() url.Values {
	values := url.Values{}

	for key, value := range p {
		rv := reflect.Indirect(reflect.ValueOf(value))

		switch rv.Kind() { //nolint:exhaustive
		case reflect.Slice, reflect.Array:
			for i := range rv.Len() {
				elem := reflect.Indirect(rv.Index(i))
				if !elem.IsValid() {
					continue
				}

				values.Add(key, fmt.Sprint(elem.Interface()))
			}
		default:
			values.Set(key, fmt.Sprint(rv.Interface()))
		}
	}

	return values
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
