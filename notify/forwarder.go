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

package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/multierr"
)

type relayListener struct {
	name    mgmt.Name
	filter  *mgmt.Filter
	subject *auth.Subject
}

// Forwarder holds the relay listeners of one session.
type Forwarder struct {
	buf    *Buffer
	nextID atomic.Int64

	mu         sync.Mutex
	listeners  map[int64]*relayListener
	terminated bool
	done       chan struct{}
}

// NewForwarder builds a Forwarder fetching from buf.
func NewForwarder(buf *Buffer) *Forwarder {
	return &Forwarder{
		buf:       buf,
		listeners: make(map[int64]*relayListener),
		done:      make(chan struct{}),
	}
}

// AddListener registers a relay listener for notifications from name and
// returns its id. Ids are unique within the forwarder.
func (f *Forwarder) AddListener(ctx context.Context, name mgmt.Name, filter *mgmt.Filter, subject *auth.Subject) (int64, error) {
	if name == "" {
		return 0, mgmterrors.MalformedInputErrorf("listener resource name is required")
	}
	if name.IsPattern() {
		return 0, mgmterrors.MalformedInputErrorf("cannot listen to the name pattern %q", name)
	}
	if f.isTerminated() {
		return 0, mgmterrors.ClosedErrorf("notification forwarder is closed")
	}

	if err := f.buf.subscribe(ctx, name); err != nil {
		return 0, err
	}

	id := f.nextID.Inc()
	f.mu.Lock()
	terminated := f.terminated
	if !terminated {
		f.listeners[id] = &relayListener{name: name, filter: filter, subject: subject}
	}
	f.mu.Unlock()

	if terminated {
		// Close already released the listeners it saw.
		_ = f.buf.unsubscribe(ctx, name)
		return 0, mgmterrors.ClosedErrorf("notification forwarder is closed")
	}
	return id, nil
}

// RemoveListeners removes the listeners with the given ids from name. It
// fails without removing anything if one of the ids is not a listener on
// name.
func (f *Forwarder) RemoveListeners(ctx context.Context, name mgmt.Name, ids []int64) error {
	f.mu.Lock()
	for _, id := range ids {
		l, ok := f.listeners[id]
		if !ok || l.name != name {
			f.mu.Unlock()
			return mgmterrors.ListenerNotFoundErrorf("no listener %d on %q", id, name)
		}
	}
	for _, id := range ids {
		delete(f.listeners, id)
	}
	f.mu.Unlock()

	var err error
	for range ids {
		err = multierr.Append(err, f.buf.unsubscribe(ctx, name))
	}
	return err
}

// Listeners returns the ids of the registered listeners, sorted.
func (f *Forwarder) Listeners() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.listeners))
	for id := range f.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Fetch returns the notifications for this forwarder's listeners with
// sequence numbers of at least fromSeq. One notification appears once per
// matching listener, so a result may hold more than maxCount entries while
// covering at most maxCount notifications.
//
// A terminated forwarder returns a nil result, also to fetches that were
// waiting when it terminated.
func (f *Forwarder) Fetch(ctx context.Context, fromSeq int64, maxCount int, timeout time.Duration) (*connector.NotificationResult, error) {
	if f.isTerminated() {
		return nil, nil
	}

	var targets map[int64][]int64
	match := func(env Envelope) bool {
		ids := f.matching(env.Notification)
		if len(ids) == 0 {
			return false
		}
		if targets == nil {
			targets = make(map[int64][]int64)
		}
		targets[env.Seq] = ids
		return true
	}

	res, err := f.buf.Fetch(ctx, fromSeq, maxCount, timeout, match, f.done)
	if err != nil {
		return nil, err
	}
	if f.isTerminated() {
		return nil, nil
	}

	out := &connector.NotificationResult{
		EarliestSeq: res.EarliestSeq,
		NextSeq:     res.NextSeq,
		Lost:        res.Lost,
	}
	for _, env := range res.Envelopes {
		for _, id := range targets[env.Seq] {
			out.Notifications = append(out.Notifications, connector.TargetedNotification{
				ListenerID:   id,
				Notification: env.Notification,
			})
		}
	}
	return out, nil
}

func (f *Forwarder) matching(n *mgmt.Notification) []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id, l := range f.listeners {
		if l.name == n.Source && l.filter.IsEnabled(n) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *Forwarder) isTerminated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminated
}

// Terminate wakes every waiting fetch and makes later ones return a nil
// result. It is idempotent.
func (f *Forwarder) Terminate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.terminated {
		f.terminated = true
		close(f.done)
	}
}

// Close terminates the forwarder and releases the buffer subscriptions of
// all its listeners.
func (f *Forwarder) Close(ctx context.Context) error {
	f.Terminate()

	f.mu.Lock()
	listeners := f.listeners
	f.listeners = make(map[int64]*relayListener)
	f.mu.Unlock()

	var err error
	for _, l := range listeners {
		err = multierr.Append(err, f.buf.unsubscribe(ctx, l.name))
	}
	return err
}
