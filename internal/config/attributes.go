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

package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/uber-go/mapdecode"
)

const _tagName = "config"

// AttributeMap is a convenience type on top of a map that gives us a cleaner
// interface to validate and decode the attributes a connector server or
// client is created with.
type AttributeMap map[string]interface{}

// DecodeInto will decode the src's data into the dst interface.
func DecodeInto(dst interface{}, src interface{}, opts ...mapdecode.Option) error {
	opts = append(opts, mapdecode.TagName(_tagName))
	return mapdecode.Decode(dst, src, opts...)
}

// PopString will pop a value from the attribute map and return the string
// it points to, or an error if it couldn't pop the value and decode.
func (m AttributeMap) PopString(name string) (s string, err error) {
	_, err = m.Pop(name, &s)
	return
}

// PopBool will pop a value from the attribute map and return the bool
// it points to, or an error if it couldn't pop the value and decode.
func (m AttributeMap) PopBool(name string) (b bool, err error) {
	_, err = m.Pop(name, &b)
	return
}

// PopDuration will pop a value from the attribute map and return the
// duration it points to. Strings are parsed with time.ParseDuration.
func (m AttributeMap) PopDuration(name string) (d time.Duration, err error) {
	_, err = m.Pop(name, &d)
	return
}

// Pop removes the named key from the AttributeMap and decodes the value into
// the dst interface.
func (m AttributeMap) Pop(name string, dst interface{}) (ok bool, err error) {
	ok, err = m.Get(name, dst)
	if ok {
		delete(m, name)
	}
	return
}

// Get grabs a value from the attribute map and decodes it into the dst
// interface.
func (m AttributeMap) Get(name string, dst interface{}) (ok bool, err error) {
	v, ok := m[name]
	if !ok {
		return ok, nil
	}

	err = DecodeInto(dst, v)
	if err != nil {
		err = fmt.Errorf("failed to read attribute %q: %v", name, v)
	}
	return true, err
}

// Has reports whether the attribute is present.
func (m AttributeMap) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Keys returns all the keys of the attribute map in sorted order.
func (m AttributeMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new AttributeMap holding m overlaid with override. Neither
// input is modified.
func (m AttributeMap) Merge(override AttributeMap) AttributeMap {
	out := make(AttributeMap, len(m)+len(override))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Decode attempts to decode the AttributeMap into the dst interface.
// Attributes that dst has no field for are ignored, so one map can carry the
// settings of several components.
func (m AttributeMap) Decode(dst interface{}, opts ...mapdecode.Option) error {
	opts = append(opts, mapdecode.IgnoreUnused(true))
	return DecodeInto(dst, map[string]interface{}(m), opts...)
}
