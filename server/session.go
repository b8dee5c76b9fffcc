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

package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/mgmtrpc/notify"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// session is the server side of one client connection.
type session struct {
	srv      *Server
	id       string
	objectID string
	subject  *auth.Subject
	admin    *admin
	logger   *zap.Logger

	fwdMu sync.Mutex
	fwd   *notify.Forwarder
	// fwdClosed is set by close; forwarders created later start
	// terminated.
	fwdClosed bool

	closeOnce sync.Once
	closeErr  error
}

var _ connector.Session = (*session)(nil)

func newSession(srv *Server, id string, subject *auth.Subject) *session {
	ss := &session{
		srv:     srv,
		id:      id,
		subject: subject,
		logger:  srv.logger.With(zap.String("connectionID", id)),
	}
	ss.admin = newAdmin(srv.clock, srv.cfg.ConnectionTimeout, ss.idle)
	return ss
}

func (ss *session) idle() {
	ss.logger.Info("closing idle session", zap.Duration("timeout", ss.srv.cfg.ConnectionTimeout))
	if err := ss.Close(context.Background()); err != nil {
		ss.logger.Warn("failed to close idle session", zap.Error(err))
	}
}

// securityContext resolves the identity a call runs under. Delegation is
// only honored on authenticated connections.
func (ss *session) securityContext(ctx context.Context, delegate *auth.Subject) (*auth.SecurityContext, error) {
	if delegate == nil {
		return &auth.SecurityContext{Authenticated: ss.subject}, nil
	}
	if ss.subject == nil {
		return nil, mgmterrors.SecurityErrorf("subject delegation requires an authenticated connection")
	}
	if ac := ss.srv.access; ac != nil {
		if err := ac.CheckDelegation(ctx, ss.subject, delegate); err != nil {
			if mgmterrors.IsSecurity(err) {
				return nil, err
			}
			return nil, mgmterrors.Wrapf(mgmterrors.CodeSecurity, err, "delegation to %v refused", delegate)
		}
	}
	return &auth.SecurityContext{Authenticated: ss.subject, Delegated: delegate}, nil
}

// run executes one management call: it registers the call with the admin,
// resolves the security context and translates the outcome.
func (ss *session) run(ctx context.Context, method string, delegate *auth.Subject, f func(ctx context.Context) error) (err error) {
	if err := ss.admin.enter(); err != nil {
		return err
	}
	defer ss.admin.exit()

	span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, ss.srv.tracer, "mgmtrpc.session."+method)
	span.SetTag("connectionID", ss.id)
	defer func() {
		if r := recover(); r != nil {
			ss.logger.Error("management call panicked",
				zap.String("method", method),
				zap.Error(fmt.Errorf("%v", r)),
				zap.Stack("stack"))
			ss.srv.metrics.serverFatal.Inc(1)
			err = mgmterrors.ServerFatalErrorf("%s failed: %v", method, r)
		}
		err = transport.UpdateSpanWithErr(span, ss.srv.translate(method, err))
		ss.srv.metrics.calls.Inc(1)
		if err != nil {
			ss.srv.metrics.callFailures.Inc(1)
		}
		span.Finish()
	}()

	sc, err := ss.securityContext(ctx, delegate)
	if err != nil {
		return err
	}
	return f(auth.WithSecurityContext(ctx, sc))
}

// translate passes declared errors through and reports everything else as a
// communication failure carrying the original error.
func (s *Server) translate(method string, err error) error {
	if err == nil {
		return nil
	}
	if mgmterrors.IsDeclared(err) || mgmterrors.IsServerFatal(err) || mgmterrors.IsClosed(err) {
		return err
	}
	s.logger.Debug("unexpected failure in management call", zap.String("method", method), zap.Error(err))
	return mgmterrors.Wrapf(mgmterrors.CodeCommunication, err, "%s failed unexpectedly", method)
}

func (ss *session) ConnectionID(context.Context) (string, error) {
	return ss.id, nil
}

func (ss *session) CreateResource(ctx context.Context, class string, name mgmt.Name, params []interface{}, signature []string, delegate *auth.Subject) (inst mgmt.Instance, err error) {
	err = ss.run(ctx, "createResource", delegate, func(ctx context.Context) (err error) {
		inst, err = ss.srv.backend.CreateResource(ctx, class, name, params, signature)
		return err
	})
	return inst, err
}

func (ss *session) UnregisterResource(ctx context.Context, name mgmt.Name, delegate *auth.Subject) error {
	return ss.run(ctx, "unregisterResource", delegate, func(ctx context.Context) error {
		return ss.srv.backend.UnregisterResource(ctx, name)
	})
}

func (ss *session) GetResourceInstance(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (inst mgmt.Instance, err error) {
	err = ss.run(ctx, "getResourceInstance", delegate, func(ctx context.Context) (err error) {
		inst, err = ss.srv.backend.GetResourceInstance(ctx, name)
		return err
	})
	return inst, err
}

func (ss *session) QueryResources(ctx context.Context, pattern mgmt.Name, query *mgmt.Query, delegate *auth.Subject) (insts []mgmt.Instance, err error) {
	err = ss.run(ctx, "queryResources", delegate, func(ctx context.Context) (err error) {
		insts, err = ss.srv.backend.QueryResources(ctx, pattern, query)
		return err
	})
	return insts, err
}

func (ss *session) QueryNames(ctx context.Context, pattern mgmt.Name, query *mgmt.Query, delegate *auth.Subject) (names []mgmt.Name, err error) {
	err = ss.run(ctx, "queryNames", delegate, func(ctx context.Context) (err error) {
		names, err = ss.srv.backend.QueryNames(ctx, pattern, query)
		return err
	})
	return names, err
}

func (ss *session) IsRegistered(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (ok bool, err error) {
	err = ss.run(ctx, "isRegistered", delegate, func(ctx context.Context) (err error) {
		ok, err = ss.srv.backend.IsRegistered(ctx, name)
		return err
	})
	return ok, err
}

func (ss *session) GetResourceCount(ctx context.Context, delegate *auth.Subject) (n int, err error) {
	err = ss.run(ctx, "getResourceCount", delegate, func(ctx context.Context) (err error) {
		n, err = ss.srv.backend.GetResourceCount(ctx)
		return err
	})
	return n, err
}

func (ss *session) GetAttribute(ctx context.Context, name mgmt.Name, attribute string, delegate *auth.Subject) (v interface{}, err error) {
	err = ss.run(ctx, "getAttribute", delegate, func(ctx context.Context) (err error) {
		v, err = ss.srv.backend.GetAttribute(ctx, name, attribute)
		return err
	})
	return v, err
}

func (ss *session) GetAttributes(ctx context.Context, name mgmt.Name, attributes []string, delegate *auth.Subject) (l mgmt.AttributeList, err error) {
	err = ss.run(ctx, "getAttributes", delegate, func(ctx context.Context) (err error) {
		l, err = ss.srv.backend.GetAttributes(ctx, name, attributes)
		return err
	})
	return l, err
}

func (ss *session) SetAttribute(ctx context.Context, name mgmt.Name, attribute mgmt.Attribute, delegate *auth.Subject) error {
	return ss.run(ctx, "setAttribute", delegate, func(ctx context.Context) error {
		return ss.srv.backend.SetAttribute(ctx, name, attribute)
	})
}

func (ss *session) SetAttributes(ctx context.Context, name mgmt.Name, attributes mgmt.AttributeList, delegate *auth.Subject) (l mgmt.AttributeList, err error) {
	err = ss.run(ctx, "setAttributes", delegate, func(ctx context.Context) (err error) {
		l, err = ss.srv.backend.SetAttributes(ctx, name, attributes)
		return err
	})
	return l, err
}

func (ss *session) Invoke(ctx context.Context, name mgmt.Name, operation string, params []interface{}, signature []string, delegate *auth.Subject) (v interface{}, err error) {
	err = ss.run(ctx, "invoke", delegate, func(ctx context.Context) (err error) {
		v, err = ss.srv.backend.Invoke(ctx, name, operation, params, signature)
		return err
	})
	return v, err
}

func (ss *session) GetDefaultDomain(ctx context.Context, delegate *auth.Subject) (d string, err error) {
	err = ss.run(ctx, "getDefaultDomain", delegate, func(ctx context.Context) (err error) {
		d, err = ss.srv.backend.GetDefaultDomain(ctx)
		return err
	})
	return d, err
}

func (ss *session) GetDomains(ctx context.Context, delegate *auth.Subject) (ds []string, err error) {
	err = ss.run(ctx, "getDomains", delegate, func(ctx context.Context) (err error) {
		ds, err = ss.srv.backend.GetDomains(ctx)
		return err
	})
	return ds, err
}

func (ss *session) GetResourceInfo(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (info *mgmt.ResourceInfo, err error) {
	err = ss.run(ctx, "getResourceInfo", delegate, func(ctx context.Context) (err error) {
		info, err = ss.srv.backend.GetResourceInfo(ctx, name)
		return err
	})
	return info, err
}

func (ss *session) IsInstanceOf(ctx context.Context, name mgmt.Name, class string, delegate *auth.Subject) (ok bool, err error) {
	err = ss.run(ctx, "isInstanceOf", delegate, func(ctx context.Context) (err error) {
		ok, err = ss.srv.backend.IsInstanceOf(ctx, name, class)
		return err
	})
	return ok, err
}

func (ss *session) AddResourceListener(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}, delegate *auth.Subject) error {
	return ss.run(ctx, "addResourceListener", delegate, func(ctx context.Context) error {
		return ss.srv.backend.AddResourceListener(ctx, name, listenerName, filter, handback)
	})
}

func (ss *session) RemoveResourceListener(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, delegate *auth.Subject) error {
	return ss.run(ctx, "removeResourceListener", delegate, func(ctx context.Context) error {
		return ss.srv.backend.RemoveResourceListener(ctx, name, listenerName)
	})
}

func (ss *session) RemoveResourceListenerMatching(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}, delegate *auth.Subject) error {
	return ss.run(ctx, "removeResourceListenerMatching", delegate, func(ctx context.Context) error {
		return ss.srv.backend.RemoveResourceListenerMatching(ctx, name, listenerName, filter, handback)
	})
}

// forwarder returns the session's forwarder, creating it and the server's
// notification buffer on first use.
func (ss *session) forwarder() *notify.Forwarder {
	ss.fwdMu.Lock()
	defer ss.fwdMu.Unlock()
	if ss.fwd == nil {
		ss.fwd = notify.NewForwarder(ss.srv.buffer())
		if ss.fwdClosed {
			ss.fwd.Terminate()
		}
	}
	return ss.fwd
}

func (ss *session) currentForwarder() *notify.Forwarder {
	ss.fwdMu.Lock()
	defer ss.fwdMu.Unlock()
	return ss.fwd
}

// AddNotificationListeners registers the listeners one at a time. When one
// fails, the ones already registered are removed again and the failure is
// returned; failures while removing them are only logged.
func (ss *session) AddNotificationListeners(ctx context.Context, names []mgmt.Name, filters []*mgmt.Filter, delegates []*auth.Subject) (ids []int64, err error) {
	if len(filters) != len(names) || len(delegates) != len(names) {
		return nil, mgmterrors.MalformedInputErrorf("got %d names, %d filters and %d delegates", len(names), len(filters), len(delegates))
	}
	err = ss.run(ctx, "addNotificationListeners", nil, func(ctx context.Context) error {
		fwd := ss.forwarder()
		ids = make([]int64, 0, len(names))
		for i, name := range names {
			sc, err := ss.securityContext(ctx, delegates[i])
			if err == nil {
				var id int64
				id, err = fwd.AddListener(auth.WithSecurityContext(ctx, sc), name, filters[i], sc.Effective())
				if err == nil {
					ids = append(ids, id)
					continue
				}
			}
			ss.unwind(ctx, names[:len(ids)], ids)
			ids = nil
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		ss.logger.Debug("added notification listener", zap.Int64("listenerID", id), zap.Stringer("name", names[i]))
	}
	return ids, nil
}

func (ss *session) unwind(ctx context.Context, names []mgmt.Name, ids []int64) {
	fwd := ss.currentForwarder()
	for i, id := range ids {
		if err := fwd.RemoveListeners(ctx, names[i], []int64{id}); err != nil {
			ss.logger.Warn("failed to remove listener while unwinding a batch",
				zap.Int64("listenerID", id), zap.Stringer("name", names[i]), zap.Error(err))
		}
	}
}

func (ss *session) RemoveNotificationListeners(ctx context.Context, name mgmt.Name, ids []int64, delegate *auth.Subject) error {
	return ss.run(ctx, "removeNotificationListeners", delegate, func(ctx context.Context) error {
		fwd := ss.currentForwarder()
		if fwd == nil {
			return mgmterrors.ListenerNotFoundErrorf("no listener on %q", name)
		}
		return fwd.RemoveListeners(ctx, name, ids)
	})
}

// FetchNotifications returns a nil result once the session is closing.
func (ss *session) FetchNotifications(ctx context.Context, fromSeq int64, maxCount int, timeout time.Duration) (*connector.NotificationResult, error) {
	var res *connector.NotificationResult
	err := ss.run(ctx, "fetchNotifications", nil, func(ctx context.Context) (err error) {
		res, err = ss.forwarder().Fetch(ctx, fromSeq, maxCount, timeout)
		return err
	})
	if mgmterrors.IsClosed(err) {
		return nil, nil
	}
	return res, err
}

// Close terminates the session: later calls fail, waiting fetches return,
// and once the active calls returned the notification subscriptions are
// released and the server forgets the session.
func (ss *session) Close(ctx context.Context) error {
	ss.closeOnce.Do(func() {
		ss.closeErr = ss.close(ctx)
	})
	return ss.closeErr
}

func (ss *session) close(ctx context.Context) error {
	ss.admin.terminate()
	ss.fwdMu.Lock()
	ss.fwdClosed = true
	fwd := ss.fwd
	ss.fwdMu.Unlock()
	if fwd != nil {
		fwd.Terminate()
	}

	err := ss.admin.wait(ctx)
	if fwd != nil {
		closeCtx := ctx
		if err != nil {
			// Calls still running cannot add listeners to a terminated
			// forwarder, so its subscriptions are released regardless.
			closeCtx = context.WithoutCancel(ctx)
		}
		err = multierr.Append(err, fwd.Close(closeCtx))
	}
	ss.srv.sessionClosed(ss)
	if err != nil {
		ss.logger.Warn("session closed with errors", zap.Error(err))
	}
	return err
}
