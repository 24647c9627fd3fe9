package moodle

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

// Params are the arguments of a web-service function.
//
// Moodle's REST server reads PHP-style form arrays, so sequences must be sent
// as indexed fields (courseids[0]=1&courseids[1]=2) and nested maps as
// bracketed keys (options[0][name]=x). Repeated or comma-joined fields are
// not understood by the server.
type Params map[string]any

// EncodeParams flattens p into form values following that convention.
func EncodeParams(p Params) url.Values {
	out := url.Values{}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		flatten(out, k, reflect.ValueOf(p[k]))
	}
	return out
}

func flatten(out url.Values, key string, v reflect.Value) {
	if !v.IsValid() {
		return
	}
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			out.Set(key, string(v.Bytes()))
			return
		}
		for i := 0; i < v.Len(); i++ {
			flatten(out, fmt.Sprintf("%s[%d]", key, i), v.Index(i))
		}
	case reflect.Map:
		mk := v.MapKeys()
		sort.Slice(mk, func(i, j int) bool { return fmt.Sprint(mk[i]) < fmt.Sprint(mk[j]) })
		for _, k := range mk {
			flatten(out, fmt.Sprintf("%s[%v]", key, k), v.MapIndex(k))
		}
	case reflect.Bool:
		if v.Bool() {
			out.Set(key, "1")
		} else {
			out.Set(key, "0")
		}
	case reflect.String:
		out.Set(key, v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.Set(key, strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.Set(key, strconv.FormatUint(v.Uint(), 10))
	default:
		out.Set(key, fmt.Sprint(v.Interface()))
	}
}
