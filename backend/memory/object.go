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

package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
)

// Resource is a managed resource hosted by a Backend.
type Resource interface {
	Info() *mgmt.ResourceInfo
	GetAttribute(ctx context.Context, name string) (interface{}, error)
	SetAttribute(ctx context.Context, attr mgmt.Attribute) error
	Invoke(ctx context.Context, operation string, params []interface{}, signature []string) (interface{}, error)
}

// Emitter publishes notifications on behalf of a registered resource.
type Emitter func(n *mgmt.Notification)

// Registrant is implemented by resources that want to know the name they
// were registered under and emit notifications.
type Registrant interface {
	Registered(name mgmt.Name, emit Emitter)
	Unregistered()
}

// Guard is implemented by resources that may refuse to be unregistered.
// A resource whose PreUnregister fails stays registered.
type Guard interface {
	PreUnregister(ctx context.Context) error
}

// OperationFunc implements a resource operation.
type OperationFunc func(ctx context.Context, params []interface{}) (interface{}, error)

type attribute struct {
	info mgmt.AttributeInfo
	get  func() interface{}
	set  func(interface{}) error
}

type operation struct {
	info mgmt.OperationInfo
	fn   OperationFunc
}

// Object is a Resource assembled from attributes and operations.
//
//	cache := memory.NewObject("Cache", "user cache").
//		Var("Size", "int", 0, false).
//		Operation("Clear", "drops every entry", nil, "", clear)
type Object struct {
	mu            sync.RWMutex
	class         string
	description   string
	attrs         map[string]*attribute
	order         []string
	ops           map[string]*operation
	notifications []mgmt.NotificationInfo
	handler       func(*mgmt.Notification, interface{})

	name mgmt.Name
	emit Emitter
}

var (
	_ Resource      = (*Object)(nil)
	_ Registrant    = (*Object)(nil)
	_ mgmt.Listener = (*Object)(nil)
)

// NewObject builds an empty Object of the given class.
func NewObject(class, description string) *Object {
	return &Object{
		class:       class,
		description: description,
		attrs:       make(map[string]*attribute),
		ops:         make(map[string]*operation),
	}
}

// Attribute adds an attribute backed by get and set. A nil set makes it
// read-only.
func (o *Object) Attribute(name, typ, description string, get func() interface{}, set func(interface{}) error) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.attrs[name]; !ok {
		o.order = append(o.order, name)
	}
	o.attrs[name] = &attribute{
		info: mgmt.AttributeInfo{
			Name:        name,
			Type:        typ,
			Description: description,
			Readable:    get != nil,
			Writable:    set != nil,
		},
		get: get,
		set: set,
	}
	return o
}

// Var adds an attribute holding a value. Writable variables only accept
// values of the same Go type as initial, unless initial is nil.
func (o *Object) Var(name, typ string, initial interface{}, writable bool) *Object {
	var (
		mu    sync.Mutex
		value = initial
	)
	get := func() interface{} {
		mu.Lock()
		defer mu.Unlock()
		return value
	}
	var set func(interface{}) error
	if writable {
		want := reflect.TypeOf(initial)
		set = func(v interface{}) error {
			if want != nil && reflect.TypeOf(v) != want {
				return mgmterrors.InvalidValueErrorf("attribute %q requires a %v, got %T", name, want, v)
			}
			mu.Lock()
			defer mu.Unlock()
			value = v
			return nil
		}
	}
	return o.Attribute(name, typ, "", get, set)
}

// Operation adds an operation.
func (o *Object) Operation(name, description string, params []mgmt.ParamInfo, returns string, fn OperationFunc) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops[name] = &operation{
		info: mgmt.OperationInfo{Name: name, Description: description, Params: params, ReturnType: returns},
		fn:   fn,
	}
	return o
}

// Notifies declares notifications the object emits.
func (o *Object) Notifies(info mgmt.NotificationInfo) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notifications = append(o.notifications, info)
	return o
}

// OnNotification sets the function called when the object is registered as
// a listener of another resource.
func (o *Object) OnNotification(fn func(n *mgmt.Notification, handback interface{})) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handler = fn
	return o
}

// Info implements Resource.
func (o *Object) Info() *mgmt.ResourceInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()

	info := &mgmt.ResourceInfo{Class: o.class, Description: o.description}
	for _, name := range o.order {
		info.Attributes = append(info.Attributes, o.attrs[name].info)
	}
	for _, op := range o.ops {
		info.Operations = append(info.Operations, op.info)
	}
	sort.Slice(info.Operations, func(i, j int) bool {
		return info.Operations[i].Name < info.Operations[j].Name
	})
	info.Notifications = append(info.Notifications, o.notifications...)
	if o.hasWritable() {
		info.Notifications = append(info.Notifications, mgmt.NotificationInfo{
			Name:  "AttributeChange",
			Types: []string{mgmt.AttributeChangeType},
		})
	}
	return info
}

func (o *Object) hasWritable() bool {
	for _, a := range o.attrs {
		if a.set != nil {
			return true
		}
	}
	return false
}

// GetAttribute implements Resource.
func (o *Object) GetAttribute(_ context.Context, name string) (interface{}, error) {
	o.mu.RLock()
	a, ok := o.attrs[name]
	o.mu.RUnlock()
	if !ok || a.get == nil {
		return nil, mgmterrors.AttributeNotFoundErrorf("no readable attribute %q in %s", name, o.class)
	}
	return a.get(), nil
}

// SetAttribute implements Resource. A successful change emits an attribute
// change notification once the object is registered.
func (o *Object) SetAttribute(_ context.Context, attr mgmt.Attribute) error {
	o.mu.RLock()
	a, ok := o.attrs[attr.Name]
	emit := o.emit
	o.mu.RUnlock()
	if !ok || a.set == nil {
		return mgmterrors.AttributeNotFoundErrorf("no writable attribute %q in %s", attr.Name, o.class)
	}

	var old interface{}
	if a.get != nil {
		old = a.get()
	}
	if err := a.set(attr.Value); err != nil {
		if mgmterrors.IsDeclared(err) {
			return err
		}
		return mgmterrors.Wrapf(mgmterrors.CodeInvalidValue, err, "cannot set attribute %q", attr.Name)
	}
	if emit != nil {
		emit(&mgmt.Notification{
			Type:    mgmt.AttributeChangeType,
			Message: attr.Name + " changed",
			Attribute: &mgmt.AttributeChange{
				Name:     attr.Name,
				Type:     a.info.Type,
				OldValue: old,
				NewValue: attr.Value,
			},
		})
	}
	return nil
}

// Invoke implements Resource. When a signature is given it must match the
// declared parameter types of the operation.
func (o *Object) Invoke(ctx context.Context, name string, params []interface{}, signature []string) (interface{}, error) {
	o.mu.RLock()
	op, ok := o.ops[name]
	o.mu.RUnlock()
	if !ok {
		return nil, mgmterrors.ReflectionFailedErrorf("no operation %q in %s", name, o.class)
	}
	if signature != nil {
		if len(signature) != len(params) {
			return nil, mgmterrors.InvalidValueErrorf("operation %q got %d parameters and a signature of %d", name, len(params), len(signature))
		}
		if !signatureMatches(op.info.Params, signature) {
			return nil, mgmterrors.ReflectionFailedErrorf("no operation %q with signature %v in %s", name, signature, o.class)
		}
	}

	res, err := op.fn(ctx, params)
	if err != nil {
		if mgmterrors.IsDeclared(err) {
			return nil, err
		}
		return nil, mgmterrors.Wrapf(mgmterrors.CodeInvocationFailed, err, "operation %q failed", name)
	}
	return res, nil
}

func signatureMatches(params []mgmt.ParamInfo, signature []string) bool {
	if len(params) != len(signature) {
		return false
	}
	for i, p := range params {
		if p.Type != signature[i] {
			return false
		}
	}
	return true
}

// Emit publishes a notification from the object. It does nothing while the
// object is not registered.
func (o *Object) Emit(typ, message string, userData interface{}) {
	o.mu.RLock()
	emit := o.emit
	o.mu.RUnlock()
	if emit != nil {
		emit(&mgmt.Notification{Type: typ, Message: message, UserData: userData})
	}
}

// Name returns the name the object is registered under, if any.
func (o *Object) Name() mgmt.Name {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.name
}

// Registered implements Registrant.
func (o *Object) Registered(name mgmt.Name, emit Emitter) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.name = name
	o.emit = emit
}

// Unregistered implements Registrant.
func (o *Object) Unregistered() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.name = ""
	o.emit = nil
}

// HandleNotification implements mgmt.Listener.
func (o *Object) HandleNotification(n *mgmt.Notification, handback interface{}) {
	o.mu.RLock()
	fn := o.handler
	o.mu.RUnlock()
	if fn != nil {
		fn(n, handback)
	}
}
