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

import (
	"strings"
	"time"
)

// AttributeChangeType is the notification type emitted when an attribute
// value changes.
const AttributeChangeType = "mgmt.attribute.change"

// Resource registry notification types, emitted with the registry delegate
// name as their source.
const (
	RegisteredType   = "mgmt.resource.registered"
	UnregisteredType = "mgmt.resource.unregistered"
)

// RegistryDelegate is the name of the pseudo-resource that emits
// registration notifications.
const RegistryDelegate Name = "mgmt:type=RegistryDelegate"

// Notification is an event emitted by a managed resource.
type Notification struct {
	Type      string
	Source    Name
	Sequence  int64
	Timestamp time.Time
	Message   string
	UserData  interface{}

	// Attribute is set on notifications of AttributeChangeType.
	Attribute *AttributeChange
}

// AttributeChange describes an attribute value change.
type AttributeChange struct {
	Name     string
	Type     string
	OldValue interface{}
	NewValue interface{}
}

// Filter selects the notifications a listener wants. A nil Filter enables
// every notification.
type Filter struct {
	// Types enables notifications whose type starts with one of these
	// prefixes. Empty enables every type.
	Types []string `json:"types,omitempty"`

	// Attributes enables only attribute changes of the named attributes.
	// Empty enables every attribute; non-change notifications are not
	// affected.
	Attributes []string `json:"attributes,omitempty"`
}

// IsEnabled reports whether the notification passes the filter.
func (f *Filter) IsEnabled(n *Notification) bool {
	if f == nil {
		return true
	}
	if n == nil {
		return false
	}
	if len(f.Types) > 0 {
		enabled := false
		for _, prefix := range f.Types {
			if strings.HasPrefix(n.Type, prefix) {
				enabled = true
				break
			}
		}
		if !enabled {
			return false
		}
	}
	if len(f.Attributes) > 0 && n.Attribute != nil {
		for _, attr := range f.Attributes {
			if attr == n.Attribute.Name {
				return true
			}
		}
		return false
	}
	return true
}

// Listener receives notifications. Listeners are identified by equality, so
// implementations should be pointers or other comparable values.
type Listener interface {
	HandleNotification(n *Notification, handback interface{})
}

// ListenerFunc adapts a function to the Listener interface. Because
// functions are not comparable, wrap it in a pointer before registering:
//
//	l := &mgmt.ListenerFunc{F: func(n *mgmt.Notification, hb interface{}) { ... }}
type ListenerFunc struct {
	F func(n *Notification, handback interface{})
}

// HandleNotification calls l.F.
func (l *ListenerFunc) HandleNotification(n *Notification, handback interface{}) {
	l.F(n, handback)
}
