package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged union over the data types a template or data record may carry.
// The zero Value is null.
type Value struct {
	kind Kind
	// text holds the string content or the exact decimal text of a number
	text string
	b    bool
	obj  map[string]Value
	arr  []Value
}

func Null() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, text: s} }

// Number keeps the decimal text as given so integers stay integers when re-encoded.
func Number(n json.Number) Value { return Value{kind: KindNumber, text: n.String()} }

func Int(i int64) Value { return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)} }

func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Object(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindObject, obj: m}
}

func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v can be embedded inside a larger string.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindNull, KindString, KindNumber, KindBool:
		return true
	default:
		return false
	}
}

func (v Value) AsString() (string, bool) {
	return v.text, v.kind == KindString
}

func (v Value) AsNumber() (json.Number, bool) {
	return json.Number(v.text), v.kind == KindNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsObject() (map[string]Value, bool) {
	return v.obj, v.kind == KindObject
}

func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// Text renders a scalar the way it appears when embedded in a string.
// Null renders empty. Objects and arrays render as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString, KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.text)
	}
	if v.kind == KindNull {
		return "null"
	}
	return v.Text()
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindObject:
		m := make(map[string]Value, len(v.obj))
		for k, item := range v.obj {
			m[k] = item.Clone()
		}
		return Object(m)
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Clone()
		}
		return Array(items...)
	default:
		return v
	}
}

// Equal reports deep equality. Numbers compare by numeric value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindString:
		return a.text == b.text
	case KindNumber:
		if a.text == b.text {
			return true
		}
		fa, errA := strconv.ParseFloat(a.text, 64)
		fb, errB := strconv.ParseFloat(b.text, 64)
		return errA == nil && errB == nil && fa == fb
	case KindBool:
		return a.b == b.b
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// FromAny converts decoder output (encoding/json, yaml.v2) and plain Go values into a Value.
func FromAny(in any) (Value, error) {
	switch v := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		return Number(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Value{kind: KindNumber, text: strconv.FormatUint(uint64(v), 10)}, nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return Value{kind: KindNumber, text: strconv.FormatUint(v, 10)}, nil
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case map[string]Value:
		return Object(v), nil
	case Record:
		return Object(map[string]Value(v)), nil
	case []Value:
		return Array(v...), nil
	case map[string]string:
		m := make(map[string]Value, len(v))
		for k, s := range v {
			m[k] = String(s)
		}
		return Object(m), nil
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			converted, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("key '%s': %w", k, err)
			}
			m[k] = converted
		}
		return Object(m), nil
	case map[any]any:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			key := fmt.Sprint(k)
			converted, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("key '%s': %w", key, err)
			}
			m[key] = converted
		}
		return Object(m), nil
	case []string:
		items := make([]Value, len(v))
		for i, s := range v {
			items[i] = String(s)
		}
		return Array(items...), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			converted, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = converted
		}
		return Array(items...), nil
	default:
		return Null(), fmt.Errorf("unsupported value type %T", in)
	}
}

func fromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null(), fmt.Errorf("number %v cannot be represented", f)
	}
	return Float(f), nil
}

// Any converts v back into plain Go values. Integral numbers become int64,
// others float64.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v.text, 64); err == nil {
			return f
		}
		return json.Number(v.text)
	case KindBool:
		return v.b
	case KindObject:
		m := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			m[k] = item.Any()
		}
		return m
	case KindArray:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Any()
		}
		return items
	default:
		return nil
	}
}
