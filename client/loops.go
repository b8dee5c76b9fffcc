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
	"fmt"
	"time"

	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
)

func (c *Connector) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Connector) isFetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching
}

// prime records the sequence number the next notification of s will get.
// The fetch loop starts there when it moves to s, so notifications emitted
// between registering listeners and the first fetch are not skipped.
func (c *Connector) prime(ctx context.Context, s connector.Session) error {
	res, err := s.FetchNotifications(ctx, -1, 1, 0)
	if err != nil {
		return err
	}
	if res == nil {
		return mgmterrors.ClosedErrorf("session is closing")
	}
	c.mu.Lock()
	c.primed, c.primedSeq = s, res.NextSeq
	c.mu.Unlock()
	return nil
}

// startSeq returns the sequence number to start fetching from s at.
func (c *Connector) startSeq(s connector.Session) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.primed == s {
		return c.primedSeq
	}
	return -1
}

// startFetcher starts the fetch loop unless it runs already.
func (c *Connector) startFetcher() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetching || c.state != connected {
		return
	}
	c.fetching = true
	c.wg.Add(1)
	go c.fetchLoop()
}

// stopFetching marks the fetch loop stopped after the session of epoch
// ended it. It returns false if the session was replaced meanwhile, in which
// case the loop carries on with the new one.
func (c *Connector) stopFetching(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == connected && c.epoch != epoch {
		return false
	}
	c.fetching = false
	return true
}

// fetchLoop long-polls the session for notifications and hands them to the
// registered listeners. It ends when the Connector closes or the server
// answers a fetch with no result.
func (c *Connector) fetchLoop() {
	defer c.wg.Done()

	var (
		epoch    uint64
		fromSeq  int64
		attempts uint
	)
	for {
		session, ep, err := c.current()
		if err != nil {
			return
		}
		if ep != epoch {
			// Sequence numbers do not carry over to a new session.
			epoch, fromSeq = ep, c.startSeq(session)
		}

		cfg := c.config()
		res, err := session.FetchNotifications(c.ctx, fromSeq, cfg.FetchMax, cfg.FetchTimeout)
		if err != nil {
			if c.isClosed() {
				return
			}
			c.fetchLog.Warn("notification fetch failed", zap.Uint("attempt", attempts+1), zap.Error(err))
			if transportFailure(err) {
				if _, herr := c.handleFailure(c.ctx, ep, err, fromFetch); herr == nil {
					if _, now, _ := c.current(); now != ep {
						attempts = 0
						continue
					}
				}
			}
			attempts++
			select {
			case <-c.clock.After(c.backoff.Duration(attempts)):
			case <-c.done:
				return
			}
			continue
		}

		if attempts > 0 {
			c.fetchLog.Reset()
			attempts = 0
		}
		c.touch()
		if res == nil {
			if c.stopFetching(ep) {
				c.logger.Debug("server ended the notification fetch loop")
				return
			}
			continue
		}
		if res.Lost > 0 {
			c.lost(res.Lost)
		}
		fromSeq = res.NextSeq
		c.deliver(ep, res.Notifications)
	}
}

func (c *Connector) lost(n int64) {
	c.metrics.notificationsLost.Inc(n)
	id, _ := c.ConnectionID()
	c.logger.Warn("notifications lost", zap.String("connectionID", id), zap.Int64("lost", n))
	c.emit(connector.ConnectionEvent{
		Type:         connector.NotificationsLost,
		ConnectionID: id,
		Message:      fmt.Sprintf("%d notifications lost", n),
		Lost:         n,
	})
}

// deliver calls the listener of every notification fetched from the
// session of epoch. Listeners removed since the fetch are skipped.
func (c *Connector) deliver(epoch uint64, tns []connector.TargetedNotification) {
	for _, tn := range tns {
		if r, ok := c.listeners.route(epoch, tn.ListenerID, tn.Notification); ok {
			c.dispatch(r, tn.Notification)
		}
	}
}

func (c *Connector) dispatch(r *registration, n *mgmt.Notification) {
	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("notification listener panicked",
				zap.Stringer("name", r.name),
				zap.Any("panic", p))
		}
	}()
	r.listener.HandleNotification(n, r.handback)
}

// checkLoop checks the session whenever it was idle for period.
func (c *Connector) checkLoop(period time.Duration) {
	defer c.wg.Done()
	for {
		idle := c.clock.Now().Sub(time.Unix(0, c.lastActivity.Load()))
		if wait := period - idle; wait > 0 {
			select {
			case <-c.clock.After(wait):
				continue
			case <-c.done:
				return
			}
		}

		session, epoch, err := c.current()
		if err != nil {
			return
		}
		_, err = session.GetDefaultDomain(c.ctx, nil)
		if err != nil && transportFailure(err) {
			if c.isClosed() {
				return
			}
			c.logger.Info("connection check failed", zap.Error(err))
			if _, err := c.handleFailure(c.ctx, epoch, err, fromCheck); err != nil && c.isClosed() {
				return
			}
		}
		c.touch()
	}
}
