package domain

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a string-keyed container that remembers key insertion order.
// The zero value is an empty object.
type Object struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewObject creates an empty object
func NewObject() *Object {
	return &Object{fields: orderedmap.New[string, Value]()}
}

// Len returns the number of keys
func (o *Object) Len() int {
	if o == nil || o.fields == nil {
		return 0
	}
	return o.fields.Len()
}

// Keys returns a snapshot of the keys in enumeration order
func (o *Object) Keys() []string {
	if o.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every entry in enumeration order. fn must not add or
// remove keys.
func (o *Object) Each(fn func(key string, v Value)) {
	if o.Len() == 0 {
		return
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Get returns the value stored under key
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.fields == nil {
		return Value{}, false
	}
	return o.fields.Get(key)
}

// Has reports whether key is present
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. New keys go to the end of the enumeration order.
func (o *Object) Set(key string, v Value) {
	if o.fields == nil {
		o.fields = orderedmap.New[string, Value]()
	}
	o.fields.Set(key, v)
}

// Delete removes key, reporting whether it was present
func (o *Object) Delete(key string) bool {
	if o == nil || o.fields == nil {
		return false
	}
	_, ok := o.fields.Delete(key)
	return ok
}

// Array is an ordered container
type Array struct {
	items []Value
}

// NewArray creates an array holding items
func NewArray(items ...Value) *Array {
	return &Array{items: append([]Value(nil), items...)}
}

// Len returns the number of elements
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// At returns the element at index i
func (a *Array) At(i int) (Value, bool) {
	if a == nil || i < 0 || i >= len(a.items) {
		return Value{}, false
	}
	return a.items[i], true
}

// SetAt overwrites the element at index i
func (a *Array) SetAt(i int, v Value) bool {
	if a == nil || i < 0 || i >= len(a.items) {
		return false
	}
	a.items[i] = v
	return true
}

// Splice removes the element at index i, shifting later elements down
func (a *Array) Splice(i int) bool {
	if a == nil || i < 0 || i >= len(a.items) {
		return false
	}
	a.items = append(a.items[:i], a.items[i+1:]...)
	return true
}

// Append adds elements to the end
func (a *Array) Append(items ...Value) {
	a.items = append(a.items, items...)
}

// Items returns a snapshot of the elements
func (a *Array) Items() []Value {
	if a == nil {
		return nil
	}
	items := make([]Value, len(a.items))
	copy(items, a.items)
	return items
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
