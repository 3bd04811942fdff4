// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package xmlvalue holds the generic value tree that conferencing server
// responses are decoded into.
package xmlvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Value is one of Null, Scalar, List or *Map.
type Value interface {
	isValue()
}

// Null marks a field that was explicitly cleared.
type Null struct{}

// Scalar is trimmed element text.
type Scalar string

// List is an ordered sequence of values.
type List []Value

func (Null) isValue()   {}
func (Scalar) isValue() {}
func (List) isValue()   {}
func (*Map) isValue()   {}

// Map is a string keyed map that remembers first insertion order.
// The zero value is ready to use.
type Map struct {
	keys    []string
	entries map[string]Value
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{entries: map[string]Value{}}
}

// MapOf builds a map from alternating key/value pairs.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("xmlvalue: MapOf requires key/value pairs")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("xmlvalue: MapOf key %v is not a string", kv[i]))
		}
		m.Set(key, valueOf(kv[i+1]))
	}
	return m
}

func valueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case string:
		return Scalar(t)
	default:
		panic(fmt.Sprintf("xmlvalue: unsupported value %T", v))
	}
}

// Set stores value under key. Replacing an existing key keeps its position.
func (m *Map) Set(key string, value Value) {
	if m.entries == nil {
		m.entries = map[string]Value{}
	}
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	if value == nil {
		value = Null{}
	}
	m.entries[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.entries[key]
	return v, ok
}

// Has reports whether key is present, even if its value is Null.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// GetString returns the scalar stored under key, or "" when it is absent,
// null or not a scalar.
func (m *Map) GetString(key string) string {
	v, _ := m.Get(key)
	if s, ok := v.(Scalar); ok {
		return string(s)
	}
	return ""
}

// GetList returns the list stored under key.
func (m *Map) GetList(key string) (List, bool) {
	v, _ := m.Get(key)
	l, ok := v.(List)
	return l, ok
}

// GetMap returns the nested map stored under key.
func (m *Map) GetMap(key string) (*Map, bool) {
	v, _ := m.Get(key)
	nested, ok := v.(*Map)
	return nested, ok
}

// Delete removes key.
func (m *Map) Delete(key string) {
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in key order.
func (m *Map) Values() List {
	if m == nil {
		return nil
	}
	out := make(List, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.entries[k])
	}
	return out
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Equal reports whether both maps hold the same keys in the same order with
// equal values.
func (m *Map) Equal(other *Map) bool {
	if m == nil || other == nil {
		return m.Len() == 0 && other.Len() == 0
	}
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k {
			return false
		}
		if !Equal(m.entries[k], other.entries[k]) {
			return false
		}
	}
	return true
}

// Equal compares two values structurally.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Scalar:
		bv, ok := b.(Scalar)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		return ok && av.Equal(bv)
	}
	return false
}

// ToAny converts v into plain Go values: nil, string, []any and
// map[string]any. Key order is lost.
func ToAny(v Value) any {
	switch t := v.(type) {
	case Scalar:
		return string(t)
	case List:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, ToAny(item))
		}
		return out
	case *Map:
		out := make(map[string]any, t.Len())
		for _, k := range t.keys {
			out[k] = ToAny(t.entries[k])
		}
		return out
	}
	return nil
}

// As decodes the map into target, a pointer to a struct, using mapstructure
// with the "xml" tag name. Scalars are converted to numbers and booleans as
// needed, and an empty element decodes to the zero value of a list or struct.
func (m *Map) As(target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "xml",
		WeaklyTypedInput: true,
		DecodeHook:       emptyElementHook,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(ToAny(m))
}

func emptyElementHook(from reflect.Kind, to reflect.Kind, data any) (any, error) {
	if from != reflect.String {
		return data, nil
	}
	switch to {
	case reflect.Slice, reflect.Struct, reflect.Map:
		if s, _ := data.(string); s == "" {
			return nil, nil
		}
	}
	return data, nil
}

// MarshalJSON writes the map as a JSON object in key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(m.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the list as a JSON array.
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		val, err := marshalValue(item)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON writes null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func marshalValue(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
