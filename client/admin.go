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
	"errors"
	"strconv"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
)

// transportFailure reports whether err means the call may not have reached
// a live session, as opposed to an error the session returned.
func transportFailure(err error) bool {
	return mgmterrors.IsCommunication(err) || mgmterrors.IsClosed(err)
}

// sessionGone reports whether err means the server no longer has the
// session.
func sessionGone(err error) bool {
	return mgmterrors.IsNoSuchObject(err) || mgmterrors.IsClosed(err)
}

// do runs f on the current session. When f fails in transport, the failure
// is handled once and f is retried once on the session that survived it.
func (c *Connector) do(ctx context.Context, f func(context.Context, connector.Session) error) error {
	session, epoch, err := c.current()
	if err != nil {
		return err
	}
	err = f(ctx, session)
	if err == nil || !transportFailure(err) {
		c.touch()
		return err
	}

	session, err = c.handleFailure(ctx, epoch, err, fromCall)
	if err != nil {
		return err
	}
	c.metrics.retries.Inc(1)
	if err = f(ctx, session); err == nil || !transportFailure(err) {
		c.touch()
	}
	return err
}

// failureSource says where a transport failure was observed.
type failureSource int

const (
	// fromCall is a failed user call.
	fromCall failureSource = iota
	// fromFetch is a failed fetch of the fetch loop.
	fromFetch
	// fromCheck is a failed check of the liveness checker.
	fromCheck
)

type recovery struct {
	session connector.Session
	failed  bool
}

// handleFailure handles a transport failure of the session of epoch and returns
// the session to retry on. A gone session is replaced. For other failures
// the session is checked unless the failure came from a check; a session
// that answers is kept, anything else fails the Connector. Background loops
// do not wait for themselves when the Connector closes.
//
// Concurrent callers that saw the same epoch share one recovery. The error
// returned is cause, stripped of a transport wrapper, unless the Connector
// closed meanwhile.
func (c *Connector) handleFailure(ctx context.Context, epoch uint64, cause error, from failureSource) (connector.Session, error) {
	v, err, _ := c.recovery.Do(strconv.FormatUint(epoch, 10), func() (interface{}, error) {
		return c.recoverOnce(ctx, epoch, cause, from == fromCheck)
	})
	if err != nil {
		return nil, err
	}
	r := v.(recovery)
	if r.failed {
		if closeErr := c.close(ctx, from == fromCall); closeErr != nil {
			c.logger.Debug("failed to close connector", zap.Error(closeErr))
		}
		return nil, unwrapTransport(cause)
	}
	if r.session == nil {
		return nil, unwrapTransport(cause)
	}
	return r.session, nil
}

func (c *Connector) recoverOnce(ctx context.Context, epoch uint64, cause error, checked bool) (recovery, error) {
	c.mu.Lock()
	if err := c.checkConnectedLocked(); err != nil {
		c.mu.Unlock()
		return recovery{}, err
	}
	if c.epoch != epoch {
		// Somebody else already reconnected.
		s := c.session
		c.mu.Unlock()
		return recovery{session: s}, nil
	}
	session, id := c.session, c.connID
	c.mu.Unlock()

	if sessionGone(cause) {
		return c.reconnect(ctx, epoch)
	}
	if !checked {
		_, perr := session.GetDefaultDomain(ctx, nil)
		if perr == nil {
			c.touch()
			return recovery{session: session}, nil
		}
		if sessionGone(perr) {
			return c.reconnect(ctx, epoch)
		}
		cause = perr
	}

	c.metrics.connectionFailures.Inc(1)
	c.logger.Warn("connection failed", zap.String("connectionID", id), zap.Error(cause))
	c.emit(connector.ConnectionEvent{
		Type:         connector.Failed,
		ConnectionID: id,
		Message:      "connection failed",
		Cause:        cause,
	})
	return recovery{failed: true}, nil
}

// reconnect replaces the session of epoch with a new one. The listeners
// are registered on the new session and the table of their new ids is
// installed together with it, so calls and deliveries that see the new
// session also see its ids. A failed reconnect leaves the old session in
// place.
func (c *Connector) reconnect(ctx context.Context, epoch uint64) (recovery, error) {
	cfg := c.config()
	session, err := c.open(ctx, cfg)
	if err != nil {
		c.metrics.reconnectFailures.Inc(1)
		c.logger.Warn("reconnect failed", zap.Error(err))
		return recovery{}, nil
	}
	id := c.sessionID(ctx, session)
	snapshot := c.listeners.snapshot()
	var (
		ids  []int64
		regs []*registration
	)
	if len(snapshot) > 0 {
		if err := c.prime(ctx, session); err != nil {
			c.logger.Debug("failed to read the notification sequence of the new session", zap.Error(err))
		}
		ids, regs = c.reinstate(ctx, session, snapshot)
	}

	c.mu.Lock()
	if c.state != connected || c.epoch != epoch {
		c.mu.Unlock()
		if err := session.Close(ctx); err != nil {
			c.logger.Debug("failed to close unused session", zap.Error(err))
		}
		return recovery{}, mgmterrors.ClosedErrorf("connector is closed")
	}
	c.session = session
	c.connID = id
	c.epoch++
	newEpoch := c.epoch
	late, stale := c.listeners.install(newEpoch, ids, regs, snapshot)
	c.mu.Unlock()

	c.settle(ctx, session, newEpoch, late, stale)
	c.touch()
	c.metrics.reconnects.Inc(1)
	c.logger.Info("reconnected", zap.String("connectionID", id))
	c.emit(connector.ConnectionEvent{Type: connector.Opened, ConnectionID: id, Message: "reconnected"})
	if c.listeners.len() > 0 {
		c.startFetcher()
	}
	return recovery{session: session}, nil
}

// reinstate registers regs on a new session, in one batch if possible and
// one at a time otherwise. It returns the new ids of the registrations that
// could be made; the others are dropped.
func (c *Connector) reinstate(ctx context.Context, session connector.Session, regs []*registration) ([]int64, []*registration) {
	names := make([]mgmt.Name, len(regs))
	filters := make([]*mgmt.Filter, len(regs))
	delegates := make([]*auth.Subject, len(regs))
	for i, r := range regs {
		names[i], filters[i], delegates[i] = r.name, r.filter, r.delegate
	}
	ids, err := session.AddNotificationListeners(ctx, names, filters, delegates)
	if err == nil && len(ids) == len(regs) {
		return ids, regs
	}
	c.logger.Debug("batch listener reinstatement failed, retrying one by one", zap.Error(err))

	var kept []*registration
	ids = nil
	for _, r := range regs {
		got, err := session.AddNotificationListeners(ctx,
			[]mgmt.Name{r.name}, []*mgmt.Filter{r.filter}, []*auth.Subject{r.delegate})
		switch {
		case err == nil && len(got) == 1:
			ids = append(ids, got[0])
			kept = append(kept, r)
		case mgmterrors.IsNotFound(err):
			c.logger.Info("dropping listener of unregistered resource", zap.Stringer("name", r.name))
		default:
			c.logger.Warn("failed to reinstate listener", zap.Stringer("name", r.name), zap.Error(err))
		}
	}
	return ids, kept
}

// settle applies to the session of epoch the listener changes made while it
// was being set up: late registrations are made on it and stale ones are
// removed from it.
func (c *Connector) settle(ctx context.Context, session connector.Session, epoch uint64, late []*registration, stale map[int64]*registration) {
	for id, r := range stale {
		if err := session.RemoveNotificationListeners(ctx, r.name, []int64{id}, r.delegate); err != nil {
			c.logger.Debug("failed to remove listener from new session", zap.Stringer("name", r.name), zap.Error(err))
		}
	}
	for _, r := range late {
		got, err := session.AddNotificationListeners(ctx,
			[]mgmt.Name{r.name}, []*mgmt.Filter{r.filter}, []*auth.Subject{r.delegate})
		if err != nil || len(got) != 1 {
			c.logger.Warn("failed to reinstate listener", zap.Stringer("name", r.name), zap.Error(err))
			continue
		}
		if !c.listeners.add(epoch, got[0], r, c.dispatch) {
			c.logger.Debug("session replaced while reinstating listeners")
			return
		}
	}
}

// unwrapTransport returns the declared or transport error a communication
// error wraps, or err itself.
func unwrapTransport(err error) error {
	if !mgmterrors.IsCommunication(err) || mgmterrors.IsNoSuchObject(err) {
		return err
	}
	cause := errors.Unwrap(err)
	if cause != nil && (mgmterrors.IsDeclared(cause) || mgmterrors.IsCommunication(cause)) {
		return cause
	}
	return err
}
