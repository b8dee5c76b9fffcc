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

package mgmt

import "reflect"

// Attribute is a named attribute value of a managed resource.
type Attribute struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// AttributeList is an ordered list of attributes.
type AttributeList []Attribute

// Get returns the value of the named attribute in the list.
func (l AttributeList) Get(name string) (interface{}, bool) {
	for _, a := range l {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Instance describes a registered resource.
type Instance struct {
	Name  Name   `json:"name"`
	Class string `json:"class"`
}

// ResourceInfo is the introspection metadata of a resource.
type ResourceInfo struct {
	Class         string             `json:"class"`
	Description   string             `json:"description,omitempty"`
	Attributes    []AttributeInfo    `json:"attributes,omitempty"`
	Operations    []OperationInfo    `json:"operations,omitempty"`
	Notifications []NotificationInfo `json:"notifications,omitempty"`
}

// AttributeInfo describes one attribute of a resource.
type AttributeInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Readable    bool   `json:"readable"`
	Writable    bool   `json:"writable"`
}

// OperationInfo describes one operation of a resource.
type OperationInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Params      []ParamInfo `json:"params,omitempty"`
	ReturnType  string      `json:"returnType,omitempty"`
}

// ParamInfo describes one operation parameter.
type ParamInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NotificationInfo describes notifications a resource may emit.
type NotificationInfo struct {
	Name        string   `json:"name"`
	Types       []string `json:"types"`
	Description string   `json:"description,omitempty"`
}

// Query selects resources by their attributes or class in addition to their
// name. A nil Query selects every resource.
type Query struct {
	// InstanceOf, when set, requires the resource to be of this class.
	InstanceOf string
	// Attribute and Equals, when Attribute is set, require the attribute
	// to hold a value equal to Equals.
	Attribute string
	Equals    interface{}
}

// Matches evaluates the query against a resource. Attribute lookups are
// delegated to get, which reports false when the attribute is unreadable.
func (q *Query) Matches(class string, get func(attribute string) (interface{}, bool)) bool {
	if q == nil {
		return true
	}
	if q.InstanceOf != "" && q.InstanceOf != class {
		return false
	}
	if q.Attribute != "" {
		v, ok := get(q.Attribute)
		if !ok || !reflect.DeepEqual(v, q.Equals) {
			return false
		}
	}
	return true
}
