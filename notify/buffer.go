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

// Package notify relays notifications from a management backend to remote
// clients. A Buffer, shared by every session of a server, subscribes to the
// backend and keeps a bounded window of sequence-numbered notifications. Each
// session owns a Forwarder that tracks its relay listeners and answers its
// client's fetches from the Buffer.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
)

// DefaultBufferSize is the number of notifications a Buffer keeps when no
// size is configured.
const DefaultBufferSize = 1000

// Envelope is a buffered notification.
type Envelope struct {
	// Seq is the buffer sequence number, increasing across every source.
	Seq          int64
	Notification *mgmt.Notification
}

// BufferOption configures a Buffer.
type BufferOption func(*bufferOptions)

type bufferOptions struct {
	size   int
	clock  clock.Clock
	logger *zap.Logger
}

// Size bounds the number of buffered notifications.
func Size(n int) BufferOption {
	return func(o *bufferOptions) { o.size = n }
}

// Clock sets the clock fetch timeouts are measured with.
func Clock(c clock.Clock) BufferOption {
	return func(o *bufferOptions) { o.clock = c }
}

// Logger sets the logger of the buffer.
func Logger(l *zap.Logger) BufferOption {
	return func(o *bufferOptions) { o.logger = l }
}

// Buffer holds the most recent notifications of every resource some
// Forwarder listens to.
type Buffer struct {
	backend mgmt.Backend
	size    int
	clock   clock.Clock
	logger  *zap.Logger

	mu sync.Mutex
	// envelopes[0] has sequence number earliest; next is the sequence the
	// following notification gets.
	envelopes []Envelope
	earliest  int64
	next      int64
	// wake is closed and replaced whenever a notification is added.
	wake chan struct{}
	subs map[mgmt.Name]*subscription

	// watchMu serializes changes to the registry watch, which is
	// registered while the buffer has subscriptions.
	watchMu  sync.Mutex
	watch    *registryWatch
	watching bool
}

// NewBuffer builds a Buffer over backend.
func NewBuffer(backend mgmt.Backend, opts ...BufferOption) *Buffer {
	o := bufferOptions{size: DefaultBufferSize, clock: clock.WallClock, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.size <= 0 {
		o.size = DefaultBufferSize
	}
	b := &Buffer{
		backend: backend,
		size:    o.size,
		clock:   o.clock,
		logger:  o.logger,
		wake:    make(chan struct{}),
		subs:    make(map[mgmt.Name]*subscription),
	}
	b.watch = &registryWatch{b: b}
	return b
}

// subscription is the buffer's registration on one backend resource. It is
// shared by every relay listener on that resource.
type subscription struct {
	b    *Buffer
	name mgmt.Name
	refs int
	// gone is set when the resource was unregistered, which drops its
	// listeners in the backend.
	gone bool
}

// HandleNotification implements mgmt.Listener.
func (s *subscription) HandleNotification(n *mgmt.Notification, _ interface{}) {
	s.b.add(n)
}

var _unregistrations = &mgmt.Filter{Types: []string{mgmt.UnregisteredType}}

// registryWatch marks the subscriptions of unregistered resources gone.
type registryWatch struct {
	b *Buffer
}

// HandleNotification implements mgmt.Listener.
func (w *registryWatch) HandleNotification(n *mgmt.Notification, _ interface{}) {
	if n == nil || n.Type != mgmt.UnregisteredType {
		return
	}
	name, ok := n.UserData.(mgmt.Name)
	if !ok {
		name = mgmt.Name(n.Message)
	}
	w.b.mu.Lock()
	defer w.b.mu.Unlock()
	if sub, ok := w.b.subs[name]; ok {
		sub.gone = true
	}
}

// syncWatch registers the registry watch while the buffer has
// subscriptions and removes it once it has none. Backends without a
// registry delegate are not watched.
func (b *Buffer) syncWatch(ctx context.Context) {
	b.watchMu.Lock()
	defer b.watchMu.Unlock()
	b.mu.Lock()
	want := len(b.subs) > 0
	b.mu.Unlock()

	switch {
	case want && !b.watching:
		if err := b.backend.AddNotificationListener(ctx, mgmt.RegistryDelegate, b.watch, _unregistrations, nil); err != nil {
			b.logger.Debug("cannot watch resource unregistrations", zap.Error(err))
			return
		}
		b.watching = true
	case !want && b.watching:
		if err := b.backend.RemoveNotificationListener(ctx, mgmt.RegistryDelegate, b.watch); err != nil {
			b.logger.Debug("failed to stop watching resource unregistrations", zap.Error(err))
		}
		b.watching = false
	}
}

// subscribe takes a reference on the backend subscription for name,
// registering with the backend on first use and again after the resource
// was unregistered.
func (b *Buffer) subscribe(ctx context.Context, name mgmt.Name) error {
	b.mu.Lock()
	sub, ok := b.subs[name]
	if ok {
		sub.refs++
		gone := sub.gone
		sub.gone = false
		b.mu.Unlock()

		var err error
		if gone {
			if err = b.backend.AddNotificationListener(ctx, name, sub, nil, nil); err != nil {
				b.mu.Lock()
				sub.gone = true
				b.mu.Unlock()
			}
		} else {
			var registered bool
			registered, err = b.backend.IsRegistered(ctx, name)
			if err == nil && !registered {
				err = mgmterrors.NotFoundErrorf("resource %q is not registered", name)
			}
		}
		if err != nil {
			_ = b.unsubscribe(ctx, name)
		}
		return err
	}
	sub = &subscription{b: b, name: name, refs: 1}
	b.subs[name] = sub
	b.mu.Unlock()

	// Watch first so an unregistration right after the registration below
	// is not missed.
	b.syncWatch(ctx)
	if err := b.backend.AddNotificationListener(ctx, name, sub, nil, nil); err != nil {
		b.mu.Lock()
		if b.subs[name] == sub {
			delete(b.subs, name)
		}
		b.mu.Unlock()
		b.syncWatch(ctx)
		return err
	}
	return nil
}

// unsubscribe drops a reference on the subscription for name, removing the
// backend registration with the last one.
func (b *Buffer) unsubscribe(ctx context.Context, name mgmt.Name) error {
	b.mu.Lock()
	sub, ok := b.subs[name]
	if !ok {
		b.mu.Unlock()
		return nil
	}
	sub.refs--
	if sub.refs > 0 {
		b.mu.Unlock()
		return nil
	}
	delete(b.subs, name)
	gone := sub.gone
	b.mu.Unlock()
	defer b.syncWatch(ctx)

	if gone {
		return nil
	}
	err := b.backend.RemoveNotificationListener(ctx, name, sub)
	if mgmterrors.IsNotFound(err) || mgmterrors.IsListenerNotFound(err) {
		// The resource went away and took the registration with it.
		return nil
	}
	return err
}

// Subscriptions returns the number of resources the buffer is subscribed
// to.
func (b *Buffer) Subscriptions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Buffer) add(n *mgmt.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.envelopes = append(b.envelopes, Envelope{Seq: b.next, Notification: n})
	b.next++
	if over := len(b.envelopes) - b.size; over > 0 {
		b.logger.Debug("notification buffer full, dropping oldest",
			zap.Int("dropped", over), zap.Int64("earliestSeq", b.earliest+int64(over)))
		b.envelopes = append(b.envelopes[:0:0], b.envelopes[over:]...)
		b.earliest += int64(over)
	}

	close(b.wake)
	b.wake = make(chan struct{})
}

// NextSeq returns the sequence number the next notification will get.
func (b *Buffer) NextSeq() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.next
}

// FetchResult is the outcome of Buffer.Fetch.
type FetchResult struct {
	EarliestSeq int64
	NextSeq     int64
	Lost        int64
	Envelopes   []Envelope
}

// Fetch returns up to maxCount envelopes with a sequence number of at least
// fromSeq that match, waiting up to timeout for one to arrive. A negative
// fromSeq starts at the next notification, a zero timeout never waits and a
// negative timeout waits until done is closed or ctx ends. Fetch returns
// early with no envelopes when done is closed.
//
// NextSeq of the result is greater than the sequence of every envelope it
// holds and never skips an envelope that was not examined.
func (b *Buffer) Fetch(ctx context.Context, fromSeq int64, maxCount int, timeout time.Duration, match func(Envelope) bool, done <-chan struct{}) (*FetchResult, error) {
	if maxCount <= 0 {
		return nil, mgmterrors.MalformedInputErrorf("fetch count must be positive, got %d", maxCount)
	}

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := b.clock.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.Chan()
	}

	b.mu.Lock()
	if fromSeq < 0 || fromSeq > b.next {
		fromSeq = b.next
	}
	b.mu.Unlock()

	var lost int64
	for {
		b.mu.Lock()
		res := &FetchResult{EarliestSeq: b.earliest}
		if fromSeq < b.earliest {
			lost += b.earliest - fromSeq
			fromSeq = b.earliest
		}
		for i := int(fromSeq - b.earliest); i < len(b.envelopes); i++ {
			env := b.envelopes[i]
			fromSeq = env.Seq + 1
			if match == nil || match(env) {
				res.Envelopes = append(res.Envelopes, env)
				if len(res.Envelopes) == maxCount {
					break
				}
			}
		}
		wake := b.wake
		b.mu.Unlock()

		res.NextSeq = fromSeq
		res.Lost = lost
		if len(res.Envelopes) > 0 || timeout == 0 {
			return res, nil
		}

		select {
		case <-wake:
		case <-deadline:
			return res, nil
		case <-done:
			return res, nil
		case <-ctx.Done():
			return res, nil
		}
	}
}
