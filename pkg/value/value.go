package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind enumerates the shapes a submitted configuration value can take.
type Kind int

const (
	// Absent marks a key that is missing from the value set.
	Absent Kind = iota
	// Null marks a key present with an explicit nil value.
	Null
	String
	Number
	Bool
	List
	Object
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case List:
		return "list"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the values an editing UI submits for a node.
// The zero Value is Absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	raw  any
}

// Of classifies an arbitrary Go value. Go integers, floats, and json.Number
// become Number; slices and arrays become List; maps and anything else become
// Object so no type-directed constraint applies to them.
func Of(v any) Value {
	switch typed := v.(type) {
	case nil:
		return Value{kind: Null}
	case Value:
		return typed
	case string:
		return Value{kind: String, str: typed, raw: typed}
	case []byte:
		return Value{kind: String, str: string(typed), raw: typed}
	case bool:
		return Value{kind: Bool, b: typed, raw: typed}
	case float64:
		return Value{kind: Number, num: typed, raw: typed}
	case float32:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case int:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case int8:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case int16:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case int32:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case int64:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case uint:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case uint8:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case uint16:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case uint32:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case uint64:
		return Value{kind: Number, num: float64(typed), raw: typed}
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return Value{kind: String, str: typed.String(), raw: typed}
		}
		return Value{kind: Number, num: f, raw: typed}
	case []any:
		if typed == nil {
			return Value{kind: Null}
		}
		return listOf(typed, len(typed), func(i int) any { return typed[i] })
	case []string:
		if typed == nil {
			return Value{kind: Null}
		}
		return listOf(typed, len(typed), func(i int) any { return typed[i] })
	case map[string]any:
		return Value{kind: Object, raw: typed}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{kind: Null}
		}
		return listOf(v, rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{kind: Null}
		}
		return Of(rv.Elem().Interface())
	}
	return Value{kind: Object, raw: v}
}

func listOf(raw any, n int, at func(int) any) Value {
	items := make([]Value, n)
	for i := 0; i < n; i++ {
		items[i] = Of(at(i))
	}
	return Value{kind: List, list: items, raw: raw}
}

// Lookup returns the value stored under key, or an Absent value when the key
// is missing.
func Lookup(values map[string]any, key string) Value {
	v, ok := values[key]
	if !ok {
		return Value{}
	}
	return Of(v)
}

// Kind reports the value's shape.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the value counts as "not provided": absent, null,
// or the empty string.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case Absent, Null:
		return true
	case String:
		return v.str == ""
	default:
		return false
	}
}

// Str returns the string payload; ok is false for non-string kinds.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == String
}

// Num returns the numeric payload; ok is false for non-number kinds.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == Number
}

// BoolValue returns the boolean payload; ok is false for non-bool kinds.
func (v Value) BoolValue() (bool, bool) {
	return v.b, v.kind == Bool
}

// Items returns the list elements; ok is false for non-list kinds.
func (v Value) Items() ([]Value, bool) {
	return v.list, v.kind == List
}

// Raw returns the Go value the Value was built from.
func (v Value) Raw() any { return v.raw }

// Truthy follows the usual loose rules: absent, null, empty strings, zero,
// false, and empty collections are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case Absent, Null:
		return false
	case String:
		return strings.TrimSpace(v.str) != ""
	case Number:
		return v.num != 0
	case Bool:
		return v.b
	case List:
		return len(v.list) > 0
	case Object:
		if m, ok := v.raw.(map[string]any); ok {
			return len(m) > 0
		}
		return true
	default:
		return false
	}
}

// AsString renders the value the way string comparisons see it. Absent and
// null render as the empty string.
func (v Value) AsString() string {
	switch v.kind {
	case Absent, Null:
		return ""
	case String:
		return v.str
	case Number:
		return FormatNumber(v.num)
	case Bool:
		return strconv.FormatBool(v.b)
	default:
		return fmt.Sprint(v.raw)
	}
}

// AsNumber coerces strings and booleans to numbers; ok is false when the value
// has no numeric reading.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case Number:
		return v.num, true
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		return f, err == nil
	case Bool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsBool coerces the value to a boolean. Strings that parse as booleans use
// the parsed value, other strings fall back to truthiness.
func (v Value) AsBool() bool {
	if v.kind == String {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v.str)); err == nil {
			return parsed
		}
	}
	return v.Truthy()
}

// FormatNumber renders n using the shortest decimal form that round-trips,
// so 1 renders as "1" and 2.5 as "2.5".
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
