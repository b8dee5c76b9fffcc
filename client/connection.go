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

package client

import (
	"context"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
)

// _maxAddAttempts bounds how often a listener registration is made again
// because the session was replaced before it completed.
const _maxAddAttempts = 3

// Connection runs management calls through a Connector as one identity:
// the delegate it was obtained with, or the connection's own identity when
// that is nil.
//
// Every call that fails in transport is retried once after the Connector
// handled the failure, so a call may run twice on the server.
type Connection struct {
	c        *Connector
	delegate *auth.Subject
}

// ConnectionID returns the id of the Connector's current session.
func (cn *Connection) ConnectionID() (string, error) {
	return cn.c.ConnectionID()
}

func (cn *Connection) CreateResource(ctx context.Context, class string, name mgmt.Name, params []interface{}, signature []string) (inst mgmt.Instance, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		inst, err = s.CreateResource(ctx, class, name, params, signature, cn.delegate)
		return err
	})
	return inst, err
}

func (cn *Connection) UnregisterResource(ctx context.Context, name mgmt.Name) error {
	return cn.c.do(ctx, func(ctx context.Context, s connector.Session) error {
		return s.UnregisterResource(ctx, name, cn.delegate)
	})
}

func (cn *Connection) GetResourceInstance(ctx context.Context, name mgmt.Name) (inst mgmt.Instance, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		inst, err = s.GetResourceInstance(ctx, name, cn.delegate)
		return err
	})
	return inst, err
}

func (cn *Connection) QueryResources(ctx context.Context, pattern mgmt.Name, query *mgmt.Query) (insts []mgmt.Instance, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		insts, err = s.QueryResources(ctx, pattern, query, cn.delegate)
		return err
	})
	return insts, err
}

func (cn *Connection) QueryNames(ctx context.Context, pattern mgmt.Name, query *mgmt.Query) (names []mgmt.Name, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		names, err = s.QueryNames(ctx, pattern, query, cn.delegate)
		return err
	})
	return names, err
}

func (cn *Connection) IsRegistered(ctx context.Context, name mgmt.Name) (ok bool, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		ok, err = s.IsRegistered(ctx, name, cn.delegate)
		return err
	})
	return ok, err
}

func (cn *Connection) GetResourceCount(ctx context.Context) (n int, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		n, err = s.GetResourceCount(ctx, cn.delegate)
		return err
	})
	return n, err
}

func (cn *Connection) GetAttribute(ctx context.Context, name mgmt.Name, attribute string) (v interface{}, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		v, err = s.GetAttribute(ctx, name, attribute, cn.delegate)
		return err
	})
	return v, err
}

func (cn *Connection) GetAttributes(ctx context.Context, name mgmt.Name, attributes []string) (attrs mgmt.AttributeList, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		attrs, err = s.GetAttributes(ctx, name, attributes, cn.delegate)
		return err
	})
	return attrs, err
}

func (cn *Connection) SetAttribute(ctx context.Context, name mgmt.Name, attribute mgmt.Attribute) error {
	return cn.c.do(ctx, func(ctx context.Context, s connector.Session) error {
		return s.SetAttribute(ctx, name, attribute, cn.delegate)
	})
}

func (cn *Connection) SetAttributes(ctx context.Context, name mgmt.Name, attributes mgmt.AttributeList) (set mgmt.AttributeList, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		set, err = s.SetAttributes(ctx, name, attributes, cn.delegate)
		return err
	})
	return set, err
}

func (cn *Connection) Invoke(ctx context.Context, name mgmt.Name, operation string, params []interface{}, signature []string) (v interface{}, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		v, err = s.Invoke(ctx, name, operation, params, signature, cn.delegate)
		return err
	})
	return v, err
}

func (cn *Connection) GetDefaultDomain(ctx context.Context) (domain string, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		domain, err = s.GetDefaultDomain(ctx, cn.delegate)
		return err
	})
	return domain, err
}

func (cn *Connection) GetDomains(ctx context.Context) (domains []string, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		domains, err = s.GetDomains(ctx, cn.delegate)
		return err
	})
	return domains, err
}

func (cn *Connection) GetResourceInfo(ctx context.Context, name mgmt.Name) (info *mgmt.ResourceInfo, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		info, err = s.GetResourceInfo(ctx, name, cn.delegate)
		return err
	})
	return info, err
}

func (cn *Connection) IsInstanceOf(ctx context.Context, name mgmt.Name, class string) (ok bool, err error) {
	err = cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
		ok, err = s.IsInstanceOf(ctx, name, class, cn.delegate)
		return err
	})
	return ok, err
}

// AddNotificationListener registers listener for the notifications of name
// that pass filter. The handback is kept by the client and passed back with
// every notification. Listeners survive reconnects.
func (cn *Connection) AddNotificationListener(ctx context.Context, name mgmt.Name, listener mgmt.Listener, filter *mgmt.Filter, handback interface{}) error {
	if listener == nil {
		return mgmterrors.MalformedInputErrorf("listener must not be nil")
	}
	r := &registration{
		name:     name,
		listener: listener,
		filter:   filter,
		handback: handback,
		delegate: cn.delegate,
	}

	t := cn.c.listeners
	t.beginAdd()
	defer t.endAdd()
	for attempt := 0; attempt < _maxAddAttempts; attempt++ {
		var (
			ids     []int64
			session connector.Session
		)
		err := cn.c.do(ctx, func(ctx context.Context, s connector.Session) (err error) {
			if !cn.c.isFetching() {
				if err := cn.c.prime(ctx, s); err != nil {
					return err
				}
			}
			session = s
			ids, err = s.AddNotificationListeners(ctx, []mgmt.Name{name}, []*mgmt.Filter{filter}, []*auth.Subject{cn.delegate})
			return err
		})
		if err != nil {
			return err
		}
		if len(ids) != 1 {
			return mgmterrors.CommunicationErrorf("expected one listener id, got %d", len(ids))
		}
		if epoch, ok := cn.c.epochOf(session); ok && t.add(epoch, ids[0], r, cn.c.dispatch) {
			cn.c.startFetcher()
			return nil
		}
		// The session was replaced before the id was recorded, so the
		// listener only exists on the old one.
	}
	return mgmterrors.CommunicationErrorf("session kept being replaced while registering a listener on %v", name)
}

// RemoveNotificationListener removes every registration of listener on
// name.
func (cn *Connection) RemoveNotificationListener(ctx context.Context, name mgmt.Name, listener mgmt.Listener) error {
	return cn.removeListeners(ctx, name, func(r *registration) bool {
		return r.matches(name, listener)
	}, false)
}

// RemoveNotificationListenerMatching removes the registration of listener
// on name with exactly this filter and handback.
func (cn *Connection) RemoveNotificationListenerMatching(ctx context.Context, name mgmt.Name, listener mgmt.Listener, filter *mgmt.Filter, handback interface{}) error {
	return cn.removeListeners(ctx, name, func(r *registration) bool {
		return r.matchesExactly(name, listener, filter, handback)
	}, true)
}

func (cn *Connection) removeListeners(ctx context.Context, name mgmt.Name, match func(*registration) bool, first bool) error {
	var (
		epoch uint64
		regs  []*registration
	)
	err := cn.c.do(ctx, func(ctx context.Context, s connector.Session) error {
		// Looked up on every attempt since a reconnect renumbers listeners.
		ep, ok := cn.c.epochOf(s)
		var ids []int64
		if ok {
			ids, regs, ok = cn.c.listeners.find(ep, match, first)
		}
		if !ok {
			return mgmterrors.CommunicationErrorf("session was replaced")
		}
		if len(ids) == 0 {
			return mgmterrors.ListenerNotFoundErrorf("listener is not registered on %v", name)
		}
		epoch = ep
		return s.RemoveNotificationListeners(ctx, name, ids, cn.delegate)
	})
	if err != nil {
		return err
	}
	if moved := cn.c.listeners.remove(epoch, regs); len(moved) > 0 {
		// Reinstated on a newer session meanwhile.
		err := cn.c.do(ctx, func(ctx context.Context, s connector.Session) error {
			return s.RemoveNotificationListeners(ctx, name, moved, cn.delegate)
		})
		if err != nil {
			cn.c.logger.Debug("failed to remove reinstated listeners", zap.Stringer("name", name), zap.Error(err))
		}
	}
	return nil
}

// AddResourceListener registers the resource listenerName for the
// notifications of name. The registration lives on the server and is not
// reinstated after a reconnect.
func (cn *Connection) AddResourceListener(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}) error {
	return cn.c.do(ctx, func(ctx context.Context, s connector.Session) error {
		return s.AddResourceListener(ctx, name, listenerName, filter, handback, cn.delegate)
	})
}

func (cn *Connection) RemoveResourceListener(ctx context.Context, name mgmt.Name, listenerName mgmt.Name) error {
	return cn.c.do(ctx, func(ctx context.Context, s connector.Session) error {
		return s.RemoveResourceListener(ctx, name, listenerName, cn.delegate)
	})
}

func (cn *Connection) RemoveResourceListenerMatching(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}) error {
	return cn.c.do(ctx, func(ctx context.Context, s connector.Session) error {
		return s.RemoveResourceListenerMatching(ctx, name, listenerName, filter, handback, cn.delegate)
	})
}
