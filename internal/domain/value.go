package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a JSON-compatible value. Objects and arrays are held by pointer,
// so copies of a Value share the same container.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents, or the literal text of a number
	obj  *Object
	arr  *Array
}

// Null returns the null value
func Null() Value { return Value{} }

// Bool wraps a boolean
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number wraps a float64
func Number(f float64) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'f', -1, 64)}
}

// NumberString wraps a number given as its JSON literal. The literal must be valid.
func NumberString(lit string) Value { return Value{kind: KindNumber, s: lit} }

// ObjectValue wraps an object container
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

// ArrayValue wraps an array container
func ArrayValue(a *Array) Value {
	if a == nil {
		return Null()
	}
	return Value{kind: KindArray, arr: a}
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Object returns the object container, or nil when v is not an object
func (v Value) Object() *Object { return v.obj }

// Array returns the array container, or nil when v is not an array
func (v Value) Array() *Array { return v.arr }

// Str returns the string contents and whether v is a string
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// BoolValue returns the boolean and whether v is a boolean
func (v Value) BoolValue() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Float returns the numeric value and whether v is a number. Literals beyond
// the float64 range come back as ±Inf.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// Truthy reports loose truthiness: null, false, 0 and "" are falsy,
// every object and array is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		f, ok := v.Float()
		return ok && f != 0
	case KindString:
		return v.s != ""
	case KindObject, KindArray:
		return true
	default:
		return false
	}
}

// Same reports whether a and b are the same scalar, or share the same container
func Same(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindObject:
		return a.obj == b.obj
	case KindArray:
		return a.arr == b.arr
	default:
		return a.b == b.b && a.s == b.s
	}
}

// Equal reports deep structural equality. Object key order is ignored.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindNumber:
		a, okA := v.Float()
		b, okB := other.Float()
		if okA && okB && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
			return a == b
		}
		return v.s == other.s
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		equal := true
		v.obj.Each(func(k string, item Value) {
			if !equal {
				return
			}
			ov, ok := other.obj.Get(k)
			equal = ok && item.Equal(ov)
		})
		return equal
	case KindArray:
		if v.arr.Len() != other.arr.Len() {
			return false
		}
		for i, item := range v.arr.items {
			if !item.Equal(other.arr.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v
func (v Value) Clone() Value {
	switch v.kind {
	case KindObject:
		o := NewObject()
		v.obj.Each(func(k string, item Value) {
			o.Set(k, item.Clone())
		})
		return ObjectValue(o)
	case KindArray:
		a := NewArray()
		for _, item := range v.arr.items {
			a.Append(item.Clone())
		}
		return ArrayValue(a)
	default:
		return v
	}
}

// Get looks up a key when v is an object
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// GetString returns obj[key] when it is a string
func (v Value) GetString(key string) (string, bool) {
	item, ok := v.Get(key)
	if !ok {
		return "", false
	}
	return item.Str()
}

// Interface converts v into plain Go values: nil, bool, json.Number, string,
// map[string]any and []any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindObject:
		m := make(map[string]any, v.obj.Len())
		v.obj.Each(func(k string, item Value) {
			m[k] = item.Interface()
		})
		return m
	case KindArray:
		s := make([]any, 0, v.arr.Len())
		for _, item := range v.arr.items {
			s = append(s, item.Interface())
		}
		return s
	default:
		return nil
	}
}

// FromAny converts plain Go values into a Value. Map keys are taken in
// sorted order since Go maps carry none.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return NumberString(t.String()), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return NumberString(strconv.Itoa(t)), nil
	case int64:
		return NumberString(strconv.FormatInt(t, 10)), nil
	case map[string]any:
		o := NewObject()
		for _, k := range sortedKeys(t) {
			item, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			o.Set(k, item)
		}
		return ObjectValue(o), nil
	case []any:
		a := NewArray()
		for i, raw := range t {
			item, err := FromAny(raw)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			a.Append(item)
		}
		return ArrayValue(a), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

// MustFromAny is FromAny for literals known to be convertible
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Value) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(data)
}
