// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package serialize carries dynamically typed values across the wire. Every
// value declares its type by name and the receiver resolves the name from an
// explicit Registry, optionally restricted by a Filter.
package serialize

import (
	"encoding/json"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
)

// Built-in type names.
const (
	TypeNull            = "null"
	TypeString          = "string"
	TypeBool            = "bool"
	TypeInt             = "int"
	TypeInt64           = "int64"
	TypeFloat64         = "float64"
	TypeBytes           = "bytes"
	TypeTime            = "time"
	TypeDuration        = "duration"
	TypeStrings         = "strings"
	TypeMap             = "map"
	TypeList            = "list"
	TypeName            = "mgmt.Name"
	TypeAttributeChange = "mgmt.AttributeChange"
)

// Value is the wire form of a dynamically typed value.
type Value struct {
	Type string          `json:"t"`
	Data json.RawMessage `json:"v,omitempty"`
}

type codec struct {
	name   string
	goType reflect.Type
	encode func(r *Registry, v interface{}, depth int) (json.RawMessage, error)
	decode func(r *Registry, raw json.RawMessage, depth int) (interface{}, error)
}

type types struct {
	sync.RWMutex

	byName map[string]*codec
	byType map[reflect.Type]*codec
}

// Registry resolves type names to Go types and back. Registries are safe
// for concurrent use.
type Registry struct {
	types  *types
	filter *Filter
}

// NewRegistry returns a Registry holding the built-in types.
func NewRegistry() *Registry {
	r := &Registry{types: &types{
		byName: make(map[string]*codec),
		byType: make(map[reflect.Type]*codec),
	}}
	for _, c := range builtins() {
		r.add(c)
	}
	return r
}

// WithFilter returns a Registry that shares r's types and decodes under f.
func (r *Registry) WithFilter(f *Filter) *Registry {
	return &Registry{types: r.types, filter: f}
}

// Filter returns the filter values are decoded under.
func (r *Registry) Filter() *Filter {
	return r.filter
}

// Register adds a type, identified by the Go type of sample, under name.
// Values of the type are encoded with encoding/json.
func (r *Registry) Register(name string, sample interface{}) error {
	if name == "" || sample == nil {
		return mgmterrors.MalformedInputErrorf("registering a type requires a name and a sample value")
	}
	t := reflect.TypeOf(sample)

	r.types.Lock()
	defer r.types.Unlock()
	if _, ok := r.types.byName[name]; ok {
		return mgmterrors.AlreadyExistsErrorf("type name %q is already registered", name)
	}
	if c, ok := r.types.byType[t]; ok {
		return mgmterrors.AlreadyExistsErrorf("type %v is already registered as %q", t, c.name)
	}
	c := jsonCodec(name, sample)
	r.types.byName[name] = c
	r.types.byType[t] = c
	return nil
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.types.RLock()
	defer r.types.RUnlock()
	names := make([]string, 0, len(r.types.byName))
	for name := range r.types.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) add(c *codec) {
	r.types.byName[c.name] = c
	if c.goType != nil {
		r.types.byType[c.goType] = c
	}
}

// Encode returns the wire form of v.
func (r *Registry) Encode(v interface{}) (Value, error) {
	return r.encode(v, 1)
}

func (r *Registry) encode(v interface{}, depth int) (Value, error) {
	if v == nil {
		return Value{Type: TypeNull}, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return Value{Type: TypeNull}, nil
	}
	t := reflect.TypeOf(v)
	r.types.RLock()
	c, ok := r.types.byType[t]
	r.types.RUnlock()
	if !ok {
		return Value{}, mgmterrors.MalformedInputErrorf("type %v is not registered for serialization", t)
	}
	raw, err := c.encode(r, v, depth)
	if err != nil {
		return Value{}, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "cannot encode %q value", c.name)
	}
	return Value{Type: c.name, Data: raw}, nil
}

// Decode resolves the value's type and returns the Go value.
//
// Types the filter rejects fail with a security error; unknown types fail
// with a malformed-input error.
func (r *Registry) Decode(v Value) (interface{}, error) {
	return r.decode(v, 1)
}

func (r *Registry) decode(v Value, depth int) (interface{}, error) {
	if max := r.filter.MaxDepth(); max > 0 && depth > max {
		return nil, mgmterrors.SecurityErrorf("value nesting exceeds the serial filter limit of %d", max)
	}
	if !r.filter.Allowed(v.Type) {
		return nil, mgmterrors.SecurityErrorf("type %q rejected by serial filter", v.Type)
	}
	if v.Type == TypeNull {
		return nil, nil
	}
	r.types.RLock()
	c, ok := r.types.byName[v.Type]
	r.types.RUnlock()
	if !ok {
		return nil, mgmterrors.MalformedInputErrorf("unknown value type %q", v.Type)
	}
	out, err := c.decode(r, v.Data, depth)
	if err != nil {
		if mgmterrors.IsStatus(err) {
			return nil, err
		}
		return nil, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "cannot decode %q value", v.Type)
	}
	return out, nil
}

// EncodeAll encodes a list of values.
func (r *Registry) EncodeAll(vs []interface{}) ([]Value, error) {
	if vs == nil {
		return nil, nil
	}
	out := make([]Value, len(vs))
	for i, v := range vs {
		enc, err := r.Encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

// DecodeAll decodes a list of values.
func (r *Registry) DecodeAll(vs []Value) ([]interface{}, error) {
	if vs == nil {
		return nil, nil
	}
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		dec, err := r.Decode(v)
		if err != nil {
			return nil, err
		}
		out[i] = dec
	}
	return out, nil
}

func jsonCodec(name string, sample interface{}) *codec {
	t := reflect.TypeOf(sample)
	return &codec{
		name:   name,
		goType: t,
		encode: func(_ *Registry, v interface{}, _ int) (json.RawMessage, error) {
			return json.Marshal(v)
		},
		decode: func(_ *Registry, raw json.RawMessage, _ int) (interface{}, error) {
			ptr := reflect.New(t)
			if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
				return nil, err
			}
			return ptr.Elem().Interface(), nil
		},
	}
}

type attributeChange struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	OldValue Value  `json:"old"`
	NewValue Value  `json:"new"`
}

func builtins() []*codec {
	return []*codec{
		{name: TypeNull},
		jsonCodec(TypeString, ""),
		jsonCodec(TypeBool, false),
		jsonCodec(TypeInt, int(0)),
		jsonCodec(TypeInt64, int64(0)),
		jsonCodec(TypeFloat64, float64(0)),
		jsonCodec(TypeBytes, []byte(nil)),
		jsonCodec(TypeTime, time.Time{}),
		jsonCodec(TypeDuration, time.Duration(0)),
		jsonCodec(TypeStrings, []string(nil)),
		jsonCodec(TypeName, mgmt.Name("")),
		{
			name:   TypeMap,
			goType: reflect.TypeOf(map[string]interface{}(nil)),
			encode: func(r *Registry, v interface{}, depth int) (json.RawMessage, error) {
				m := v.(map[string]interface{})
				out := make(map[string]Value, len(m))
				for k, item := range m {
					enc, err := r.encode(item, depth+1)
					if err != nil {
						return nil, err
					}
					out[k] = enc
				}
				return json.Marshal(out)
			},
			decode: func(r *Registry, raw json.RawMessage, depth int) (interface{}, error) {
				var in map[string]Value
				if err := json.Unmarshal(raw, &in); err != nil {
					return nil, err
				}
				out := make(map[string]interface{}, len(in))
				for k, item := range in {
					dec, err := r.decode(item, depth+1)
					if err != nil {
						return nil, err
					}
					out[k] = dec
				}
				return out, nil
			},
		},
		{
			name:   TypeList,
			goType: reflect.TypeOf([]interface{}(nil)),
			encode: func(r *Registry, v interface{}, depth int) (json.RawMessage, error) {
				l := v.([]interface{})
				out := make([]Value, len(l))
				for i, item := range l {
					enc, err := r.encode(item, depth+1)
					if err != nil {
						return nil, err
					}
					out[i] = enc
				}
				return json.Marshal(out)
			},
			decode: func(r *Registry, raw json.RawMessage, depth int) (interface{}, error) {
				var in []Value
				if err := json.Unmarshal(raw, &in); err != nil {
					return nil, err
				}
				out := make([]interface{}, len(in))
				for i, item := range in {
					dec, err := r.decode(item, depth+1)
					if err != nil {
						return nil, err
					}
					out[i] = dec
				}
				return out, nil
			},
		},
		{
			name:   TypeAttributeChange,
			goType: reflect.TypeOf(&mgmt.AttributeChange{}),
			encode: func(r *Registry, v interface{}, depth int) (json.RawMessage, error) {
				ac := v.(*mgmt.AttributeChange)
				oldV, err := r.encode(ac.OldValue, depth+1)
				if err != nil {
					return nil, err
				}
				newV, err := r.encode(ac.NewValue, depth+1)
				if err != nil {
					return nil, err
				}
				return json.Marshal(attributeChange{Name: ac.Name, Type: ac.Type, OldValue: oldV, NewValue: newV})
			},
			decode: func(r *Registry, raw json.RawMessage, depth int) (interface{}, error) {
				var in attributeChange
				if err := json.Unmarshal(raw, &in); err != nil {
					return nil, err
				}
				oldV, err := r.decode(in.OldValue, depth+1)
				if err != nil {
					return nil, err
				}
				newV, err := r.decode(in.NewValue, depth+1)
				if err != nil {
					return nil, err
				}
				return &mgmt.AttributeChange{Name: in.Name, Type: in.Type, OldValue: oldV, NewValue: newV}, nil
			},
		},
	}
}
