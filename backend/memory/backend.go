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

// Package memory is an in-process management backend: a registry of
// resources keyed by name, with class factories, queries and notification
// broadcasting.
package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/juju/clock"
	"go.uber.org/atomic"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
)

// DefaultDomain is the default domain of a Backend built without the
// Domain option.
const DefaultDomain = "default"

// RegistryDelegateClass is the class of the resource registered under
// mgmt.RegistryDelegate.
const RegistryDelegateClass = "mgmt.RegistryDelegate"

// Factory builds a resource for CreateResource.
type Factory func(ctx context.Context, params []interface{}, signature []string) (Resource, error)

// Option configures a Backend.
type Option func(*options)

type options struct {
	domain string
	clock  clock.Clock
	logger *zap.Logger
}

// Domain sets the default domain.
func Domain(d string) Option {
	return func(o *options) { o.domain = d }
}

// Clock sets the clock notification timestamps are taken from.
func Clock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Logger sets the logger of the backend.
func Logger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

type registration struct {
	listener mgmt.Listener
	// resource is set for listeners that are themselves registered
	// resources, and listener is nil.
	resource mgmt.Name
	filter   *mgmt.Filter
	handback interface{}
}

func (r *registration) matches(filter *mgmt.Filter, handback interface{}) bool {
	return reflect.DeepEqual(r.filter, filter) && reflect.DeepEqual(r.handback, handback)
}

type entry struct {
	instance  mgmt.Instance
	resource  Resource
	listeners []*registration
}

// Backend is an in-memory mgmt.Backend.
type Backend struct {
	domain string
	clock  clock.Clock
	logger *zap.Logger
	seq    atomic.Int64

	mu        sync.RWMutex
	resources map[mgmt.Name]*entry
	factories map[string]Factory
}

var _ mgmt.Backend = (*Backend)(nil)

// New builds a Backend holding only the registry delegate.
func New(opts ...Option) *Backend {
	o := options{domain: DefaultDomain, clock: clock.WallClock, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	b := &Backend{
		domain:    o.domain,
		clock:     o.clock,
		logger:    o.logger,
		resources: make(map[mgmt.Name]*entry),
		factories: make(map[string]Factory),
	}

	delegate := NewObject(RegistryDelegateClass, "announces resource registration").
		Attribute("DefaultDomain", "string", "", func() interface{} { return b.domain }, nil).
		Attribute("ResourceCount", "int", "", func() interface{} {
			b.mu.RLock()
			defer b.mu.RUnlock()
			return len(b.resources)
		}, nil).
		Notifies(mgmt.NotificationInfo{
			Name:  "Registration",
			Types: []string{mgmt.RegisteredType, mgmt.UnregisteredType},
		})
	b.resources[mgmt.RegistryDelegate] = &entry{
		instance: mgmt.Instance{Name: mgmt.RegistryDelegate, Class: RegistryDelegateClass},
		resource: delegate,
	}
	delegate.Registered(mgmt.RegistryDelegate, b.emitter(mgmt.RegistryDelegate))
	return b
}

// RegisterClass makes class available to CreateResource.
func (b *Backend) RegisterClass(class string, f Factory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.factories[class] = f
}

// Register adds a resource under name.
func (b *Backend) Register(name mgmt.Name, res Resource) (mgmt.Instance, error) {
	if name == "" || res == nil {
		return mgmt.Instance{}, mgmterrors.MalformedInputErrorf("registering a resource requires a name and a resource")
	}
	if name.IsPattern() {
		return mgmt.Instance{}, mgmterrors.RegistrationFailedErrorf("cannot register a resource under the pattern %q", name)
	}
	info := res.Info()
	if info == nil || info.Class == "" {
		return mgmt.Instance{}, mgmterrors.NotCompliantErrorf("resource for %q does not describe its class", name)
	}

	inst := mgmt.Instance{Name: name, Class: info.Class}
	b.mu.Lock()
	if _, ok := b.resources[name]; ok {
		b.mu.Unlock()
		return mgmt.Instance{}, mgmterrors.AlreadyExistsErrorf("resource %q is already registered", name)
	}
	b.resources[name] = &entry{instance: inst, resource: res}
	b.mu.Unlock()

	if r, ok := res.(Registrant); ok {
		r.Registered(name, b.emitter(name))
	}
	b.logger.Debug("registered resource", zap.Stringer("name", name), zap.String("class", info.Class))
	b.emit(mgmt.RegistryDelegate, &mgmt.Notification{Type: mgmt.RegisteredType, Message: string(name), UserData: name})
	return inst, nil
}

// Emit publishes a notification from the named resource.
func (b *Backend) Emit(name mgmt.Name, n *mgmt.Notification) error {
	if n == nil {
		return mgmterrors.MalformedInputErrorf("notification is required")
	}
	b.mu.RLock()
	_, ok := b.resources[name]
	b.mu.RUnlock()
	if !ok {
		return mgmterrors.NotFoundErrorf("resource %q is not registered", name)
	}
	b.emit(name, n)
	return nil
}

func (b *Backend) emitter(name mgmt.Name) Emitter {
	return func(n *mgmt.Notification) { b.emit(name, n) }
}

// emit delivers n to the listeners of name. Listeners are called without
// holding the registry lock.
func (b *Backend) emit(name mgmt.Name, n *mgmt.Notification) {
	if n.Source == "" {
		n.Source = name
	}
	if n.Sequence == 0 {
		n.Sequence = b.seq.Inc()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = b.clock.Now()
	}

	b.mu.RLock()
	e, ok := b.resources[name]
	if !ok {
		b.mu.RUnlock()
		return
	}
	regs := append([]*registration(nil), e.listeners...)
	targets := make([]mgmt.Listener, len(regs))
	for i, r := range regs {
		targets[i] = r.listener
		if r.listener == nil {
			if le, ok := b.resources[r.resource]; ok {
				targets[i], _ = le.resource.(mgmt.Listener)
			}
		}
	}
	b.mu.RUnlock()

	for i, r := range regs {
		if targets[i] == nil || !r.filter.IsEnabled(n) {
			continue
		}
		targets[i].HandleNotification(n, r.handback)
	}
}

func (b *Backend) lookup(name mgmt.Name) (*entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.resources[name]
	if !ok {
		return nil, mgmterrors.NotFoundErrorf("resource %q is not registered", name)
	}
	return e, nil
}

// CreateResource builds a resource with the factory registered for class
// and registers it under name.
func (b *Backend) CreateResource(ctx context.Context, class string, name mgmt.Name, params []interface{}, signature []string) (mgmt.Instance, error) {
	b.mu.RLock()
	f, ok := b.factories[class]
	b.mu.RUnlock()
	if !ok {
		return mgmt.Instance{}, mgmterrors.ReflectionFailedErrorf("unknown resource class %q", class)
	}
	res, err := f(ctx, params, signature)
	if err != nil {
		if mgmterrors.IsDeclared(err) {
			return mgmt.Instance{}, err
		}
		return mgmt.Instance{}, mgmterrors.Wrapf(mgmterrors.CodeInvocationFailed, err, "cannot create %q", class)
	}
	return b.Register(name, res)
}

// UnregisterResource removes a resource and every listener registered on
// it.
func (b *Backend) UnregisterResource(ctx context.Context, name mgmt.Name) error {
	if name == mgmt.RegistryDelegate {
		return mgmterrors.RegistrationFailedErrorf("the registry delegate cannot be unregistered")
	}
	e, err := b.lookup(name)
	if err != nil {
		return err
	}
	if g, ok := e.resource.(Guard); ok {
		if err := g.PreUnregister(ctx); err != nil {
			return mgmterrors.Wrapf(mgmterrors.CodeRegistrationFailed, err, "resource %q refused to be unregistered", name)
		}
	}

	b.mu.Lock()
	if b.resources[name] != e {
		b.mu.Unlock()
		return mgmterrors.NotFoundErrorf("resource %q is not registered", name)
	}
	delete(b.resources, name)
	b.mu.Unlock()

	if r, ok := e.resource.(Registrant); ok {
		r.Unregistered()
	}
	b.logger.Debug("unregistered resource", zap.Stringer("name", name))
	b.emit(mgmt.RegistryDelegate, &mgmt.Notification{Type: mgmt.UnregisteredType, Message: string(name), UserData: name})
	return nil
}

// GetResourceInstance returns the instance registered under name.
func (b *Backend) GetResourceInstance(_ context.Context, name mgmt.Name) (mgmt.Instance, error) {
	e, err := b.lookup(name)
	if err != nil {
		return mgmt.Instance{}, err
	}
	return e.instance, nil
}

// QueryResources returns the instances whose names match pattern and which
// satisfy query, sorted by name. An empty pattern matches every name.
func (b *Backend) QueryResources(ctx context.Context, pattern mgmt.Name, query *mgmt.Query) ([]mgmt.Instance, error) {
	b.mu.RLock()
	var candidates []*entry
	for name, e := range b.resources {
		if pattern.Matches(name) {
			candidates = append(candidates, e)
		}
	}
	b.mu.RUnlock()

	out := make([]mgmt.Instance, 0, len(candidates))
	for _, e := range candidates {
		res := e.resource
		get := func(attr string) (interface{}, bool) {
			v, err := res.GetAttribute(ctx, attr)
			return v, err == nil
		}
		if query.Matches(e.instance.Class, get) {
			out = append(out, e.instance)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// QueryNames is QueryResources returning only names.
func (b *Backend) QueryNames(ctx context.Context, pattern mgmt.Name, query *mgmt.Query) ([]mgmt.Name, error) {
	insts, err := b.QueryResources(ctx, pattern, query)
	if err != nil {
		return nil, err
	}
	names := make([]mgmt.Name, len(insts))
	for i, inst := range insts {
		names[i] = inst.Name
	}
	return names, nil
}

// IsRegistered reports whether a resource is registered under name.
func (b *Backend) IsRegistered(_ context.Context, name mgmt.Name) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.resources[name]
	return ok, nil
}

// GetResourceCount returns the number of registered resources, including
// the registry delegate.
func (b *Backend) GetResourceCount(context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.resources), nil
}

// GetAttribute reads one attribute.
func (b *Backend) GetAttribute(ctx context.Context, name mgmt.Name, attribute string) (interface{}, error) {
	e, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.resource.GetAttribute(ctx, attribute)
}

// GetAttributes reads several attributes. Attributes that cannot be read
// are left out of the result.
func (b *Backend) GetAttributes(ctx context.Context, name mgmt.Name, attributes []string) (mgmt.AttributeList, error) {
	e, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	out := make(mgmt.AttributeList, 0, len(attributes))
	for _, attr := range attributes {
		v, err := e.resource.GetAttribute(ctx, attr)
		if err != nil {
			continue
		}
		out = append(out, mgmt.Attribute{Name: attr, Value: v})
	}
	return out, nil
}

// SetAttribute writes one attribute.
func (b *Backend) SetAttribute(ctx context.Context, name mgmt.Name, attribute mgmt.Attribute) error {
	e, err := b.lookup(name)
	if err != nil {
		return err
	}
	return e.resource.SetAttribute(ctx, attribute)
}

// SetAttributes writes several attributes and returns the ones that were
// set.
func (b *Backend) SetAttributes(ctx context.Context, name mgmt.Name, attributes mgmt.AttributeList) (mgmt.AttributeList, error) {
	e, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	out := make(mgmt.AttributeList, 0, len(attributes))
	for _, attr := range attributes {
		if err := e.resource.SetAttribute(ctx, attr); err != nil {
			b.logger.Debug("attribute not set", zap.Stringer("name", name), zap.String("attribute", attr.Name), zap.Error(err))
			continue
		}
		out = append(out, attr)
	}
	return out, nil
}

// Invoke calls an operation.
func (b *Backend) Invoke(ctx context.Context, name mgmt.Name, operation string, params []interface{}, signature []string) (interface{}, error) {
	e, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.resource.Invoke(ctx, operation, params, signature)
}

// GetDefaultDomain returns the default domain.
func (b *Backend) GetDefaultDomain(context.Context) (string, error) {
	return b.domain, nil
}

// GetDomains returns the domains of every registered name, sorted.
func (b *Backend) GetDomains(context.Context) ([]string, error) {
	b.mu.RLock()
	seen := make(map[string]struct{})
	for name := range b.resources {
		seen[name.Domain()] = struct{}{}
	}
	b.mu.RUnlock()

	domains := make([]string, 0, len(seen))
	for d := range seen {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains, nil
}

// GetResourceInfo returns the metadata of a resource.
func (b *Backend) GetResourceInfo(_ context.Context, name mgmt.Name) (*mgmt.ResourceInfo, error) {
	e, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.resource.Info(), nil
}

// IsInstanceOf reports whether the named resource is of class.
func (b *Backend) IsInstanceOf(_ context.Context, name mgmt.Name, class string) (bool, error) {
	e, err := b.lookup(name)
	if err != nil {
		return false, err
	}
	return e.instance.Class == class, nil
}

// AddNotificationListener registers listener on name.
func (b *Backend) AddNotificationListener(_ context.Context, name mgmt.Name, listener mgmt.Listener, filter *mgmt.Filter, handback interface{}) error {
	if listener == nil {
		return mgmterrors.MalformedInputErrorf("listener is required")
	}
	return b.addRegistration(name, &registration{listener: listener, filter: filter, handback: handback})
}

// AddResourceListener registers the resource listenerName on name.
func (b *Backend) AddResourceListener(_ context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}) error {
	le, err := b.lookup(listenerName)
	if err != nil {
		return err
	}
	if _, ok := le.resource.(mgmt.Listener); !ok {
		return mgmterrors.InvalidValueErrorf("resource %q is not a notification listener", listenerName)
	}
	return b.addRegistration(name, &registration{resource: listenerName, filter: filter, handback: handback})
}

func (b *Backend) addRegistration(name mgmt.Name, r *registration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.resources[name]
	if !ok {
		return mgmterrors.NotFoundErrorf("resource %q is not registered", name)
	}
	e.listeners = append(e.listeners, r)
	return nil
}

// RemoveNotificationListener removes every registration of listener.
func (b *Backend) RemoveNotificationListener(_ context.Context, name mgmt.Name, listener mgmt.Listener) error {
	return b.removeRegistrations(name, func(r *registration) bool {
		return r.listener != nil && r.listener == listener
	}, false)
}

// RemoveNotificationListenerMatching removes the registration of listener
// with this filter and handback.
func (b *Backend) RemoveNotificationListenerMatching(_ context.Context, name mgmt.Name, listener mgmt.Listener, filter *mgmt.Filter, handback interface{}) error {
	return b.removeRegistrations(name, func(r *registration) bool {
		return r.listener != nil && r.listener == listener && r.matches(filter, handback)
	}, true)
}

// RemoveResourceListener removes every registration of listenerName.
func (b *Backend) RemoveResourceListener(_ context.Context, name mgmt.Name, listenerName mgmt.Name) error {
	return b.removeRegistrations(name, func(r *registration) bool {
		return r.listener == nil && r.resource == listenerName
	}, false)
}

// RemoveResourceListenerMatching removes the registration of listenerName
// with this filter and handback.
func (b *Backend) RemoveResourceListenerMatching(_ context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}) error {
	return b.removeRegistrations(name, func(r *registration) bool {
		return r.listener == nil && r.resource == listenerName && r.matches(filter, handback)
	}, true)
}

func (b *Backend) removeRegistrations(name mgmt.Name, match func(*registration) bool, first bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.resources[name]
	if !ok {
		return mgmterrors.NotFoundErrorf("resource %q is not registered", name)
	}

	kept := e.listeners[:0:0]
	removed := 0
	for _, r := range e.listeners {
		if match(r) && (!first || removed == 0) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return mgmterrors.ListenerNotFoundErrorf("listener is not registered on %q", name)
	}
	e.listeners = kept
	return nil
}
