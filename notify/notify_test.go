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
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/api/mgmt/mgmttest"
	"go.uber.org/mgmtrpc/backend/memory"
	"go.uber.org/mgmtrpc/mgmterrors"
)

const (
	_cache mgmt.Name = "app:type=Cache"
	_queue mgmt.Name = "app:type=Queue"
)

// listeners captures the listeners the buffer registers on the backend.
type listeners map[mgmt.Name]mgmt.Listener

func (ls listeners) emit(name mgmt.Name, typ string) {
	ls[name].HandleNotification(&mgmt.Notification{Type: typ, Source: name}, nil)
}

func expectSubscribe(backend *mgmttest.MockBackend, ls listeners, name mgmt.Name) {
	backend.EXPECT().
		AddNotificationListener(gomock.Any(), name, gomock.Any(), nil, nil).
		Do(func(_ context.Context, n mgmt.Name, l mgmt.Listener, _ *mgmt.Filter, _ interface{}) {
			ls[n] = l
		})
}

// newMockBackend returns a backend that accepts the buffer's registry
// watch.
func newMockBackend(ctrl *gomock.Controller) *mgmttest.MockBackend {
	backend := mgmttest.NewMockBackend(ctrl)
	backend.EXPECT().
		AddNotificationListener(gomock.Any(), mgmt.RegistryDelegate, gomock.Any(), gomock.Any(), nil).
		AnyTimes()
	backend.EXPECT().
		RemoveNotificationListener(gomock.Any(), mgmt.RegistryDelegate, gomock.Any()).
		AnyTimes()
	return backend
}

func TestBufferFetchImmediate(t *testing.T) {
	b := NewBuffer(mgmttest.NewMockBackend(gomock.NewController(t)))

	start := time.Now()
	res, err := b.Fetch(context.Background(), 0, 10, 0, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Envelopes)
	assert.Equal(t, int64(0), res.NextSeq)
	assert.Less(t, time.Since(start), time.Second, "a zero timeout must not block")

	_, err = b.Fetch(context.Background(), 0, 0, 0, nil, nil)
	assert.True(t, mgmterrors.IsMalformedInput(err), "got %v", err)
}

func TestBufferSequencesAndLoss(t *testing.T) {
	b := NewBuffer(nil, Size(3))
	for i := 0; i < 5; i++ {
		b.add(&mgmt.Notification{Type: "t", Source: _cache})
	}
	assert.Equal(t, int64(5), b.NextSeq())

	tests := []struct {
		desc     string
		fromSeq  int64
		max      int
		wantSeqs []int64
		wantNext int64
		wantLost int64
	}{
		{desc: "from lost envelopes", fromSeq: 0, max: 10, wantSeqs: []int64{2, 3, 4}, wantNext: 5, wantLost: 2},
		{desc: "bounded by count", fromSeq: 2, max: 2, wantSeqs: []int64{2, 3}, wantNext: 4},
		{desc: "from middle", fromSeq: 4, max: 10, wantSeqs: []int64{4}, wantNext: 5},
		{desc: "from now", fromSeq: -1, max: 10, wantNext: 5},
		{desc: "beyond next", fromSeq: 9, max: 10, wantNext: 5},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			res, err := b.Fetch(context.Background(), tt.fromSeq, tt.max, 0, nil, nil)
			require.NoError(t, err)
			var seqs []int64
			for _, env := range res.Envelopes {
				seqs = append(seqs, env.Seq)
				assert.Less(t, env.Seq, res.NextSeq)
			}
			assert.Equal(t, tt.wantSeqs, seqs)
			assert.Equal(t, tt.wantNext, res.NextSeq)
			assert.Equal(t, tt.wantLost, res.Lost)
			assert.Equal(t, int64(2), res.EarliestSeq)
		})
	}
}

func TestBufferFetchSkipsUnmatched(t *testing.T) {
	b := NewBuffer(nil)
	b.add(&mgmt.Notification{Type: "a", Source: _cache})
	b.add(&mgmt.Notification{Type: "b", Source: _cache})

	onlyB := func(env Envelope) bool { return env.Notification.Type == "b" }
	res, err := b.Fetch(context.Background(), 0, 10, 0, onlyB, nil)
	require.NoError(t, err)
	require.Len(t, res.Envelopes, 1)
	assert.Equal(t, int64(1), res.Envelopes[0].Seq)
	assert.Equal(t, int64(2), res.NextSeq, "unmatched envelopes are consumed")
}

func TestBufferFetchTimesOut(t *testing.T) {
	defer goleak.VerifyNone(t)

	clk := testclock.NewClock(time.Now())
	b := NewBuffer(nil, Clock(clk))

	results := make(chan *FetchResult, 1)
	go func() {
		res, _ := b.Fetch(context.Background(), 0, 10, time.Minute, nil, nil)
		results <- res
	}()

	require.NoError(t, clk.WaitAdvance(time.Minute, 5*time.Second, 1))
	res := <-results
	assert.Empty(t, res.Envelopes)
}

func TestBufferFetchWakesOnNotification(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewBuffer(nil)
	results := make(chan *FetchResult, 1)
	go func() {
		res, _ := b.Fetch(context.Background(), 0, 10, connector.WaitForever, nil, nil)
		results <- res
	}()

	// Until the fetch returns, keep emitting so it cannot miss the wake up.
	var res *FetchResult
	for res == nil {
		b.add(&mgmt.Notification{Type: "t", Source: _cache})
		select {
		case res = <-results:
		case <-time.After(10 * time.Millisecond):
		}
	}
	assert.NotEmpty(t, res.Envelopes)
	assert.Equal(t, int64(0), res.Envelopes[0].Seq)
}

func TestBufferSubscriptionsAreShared(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := newMockBackend(ctrl)
	ls := listeners{}
	b := NewBuffer(backend)
	ctx := context.Background()

	expectSubscribe(backend, ls, _cache)
	require.NoError(t, b.subscribe(ctx, _cache))

	backend.EXPECT().IsRegistered(gomock.Any(), _cache).Return(true, nil)
	require.NoError(t, b.subscribe(ctx, _cache))
	assert.Equal(t, 1, b.Subscriptions())

	require.NoError(t, b.unsubscribe(ctx, _cache))
	backend.EXPECT().RemoveNotificationListener(gomock.Any(), _cache, ls[_cache]).Return(nil)
	require.NoError(t, b.unsubscribe(ctx, _cache))
	assert.Equal(t, 0, b.Subscriptions())
}

func TestBufferSubscribeErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := newMockBackend(ctrl)
	ls := listeners{}
	b := NewBuffer(backend)
	ctx := context.Background()

	backend.EXPECT().
		AddNotificationListener(gomock.Any(), _queue, gomock.Any(), nil, nil).
		Return(mgmterrors.NotFoundErrorf("no such resource"))
	err := b.subscribe(ctx, _queue)
	assert.True(t, mgmterrors.IsNotFound(err), "got %v", err)
	assert.Equal(t, 0, b.Subscriptions())

	// A shared subscription still checks the resource exists.
	expectSubscribe(backend, ls, _cache)
	require.NoError(t, b.subscribe(ctx, _cache))
	backend.EXPECT().IsRegistered(gomock.Any(), _cache).Return(false, nil)
	err = b.subscribe(ctx, _cache)
	assert.True(t, mgmterrors.IsNotFound(err), "got %v", err)
	assert.Equal(t, 1, b.Subscriptions())
}

func TestForwarderTargetsListeners(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := newMockBackend(ctrl)
	ls := listeners{}
	b := NewBuffer(backend)
	f := NewForwarder(b)
	ctx := context.Background()

	expectSubscribe(backend, ls, _cache)
	all, err := f.AddListener(ctx, _cache, nil, nil)
	require.NoError(t, err)

	backend.EXPECT().IsRegistered(gomock.Any(), _cache).Return(true, nil)
	evictions, err := f.AddListener(ctx, _cache, &mgmt.Filter{Types: []string{"app.evicted"}}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, all, evictions)

	expectSubscribe(backend, ls, _queue)
	queue, err := f.AddListener(ctx, _queue, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{all, evictions, queue}, f.Listeners())

	ls.emit(_cache, "app.evicted")
	ls.emit(_cache, "app.loaded")
	ls.emit(_queue, "app.pushed")

	res, err := f.Fetch(ctx, 0, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.NextSeq)
	require.Len(t, res.Notifications, 3, "one entry per matching listener")
	assert.Equal(t, all, res.Notifications[0].ListenerID)
	assert.Equal(t, evictions, res.Notifications[1].ListenerID)
	assert.Equal(t, "app.evicted", res.Notifications[1].Notification.Type)
	assert.Equal(t, "app.loaded", res.Notifications[2].Notification.Type)

	res, err = f.Fetch(ctx, res.NextSeq, 10, 0)
	require.NoError(t, err)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, queue, res.Notifications[0].ListenerID)
	assert.Equal(t, int64(3), res.NextSeq)
}

func TestForwarderRemoveListeners(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := newMockBackend(ctrl)
	ls := listeners{}
	f := NewForwarder(NewBuffer(backend))
	ctx := context.Background()

	expectSubscribe(backend, ls, _cache)
	id, err := f.AddListener(ctx, _cache, nil, nil)
	require.NoError(t, err)

	tests := []struct {
		desc string
		name mgmt.Name
		ids  []int64
	}{
		{desc: "unknown id", name: _cache, ids: []int64{id, id + 100}},
		{desc: "wrong name", name: _queue, ids: []int64{id}},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := f.RemoveListeners(ctx, tt.name, tt.ids)
			assert.True(t, mgmterrors.IsListenerNotFound(err), "got %v", err)
			assert.Equal(t, []int64{id}, f.Listeners(), "nothing is removed on failure")
		})
	}

	backend.EXPECT().RemoveNotificationListener(gomock.Any(), _cache, ls[_cache]).Return(nil)
	require.NoError(t, f.RemoveListeners(ctx, _cache, []int64{id}))
	assert.Empty(t, f.Listeners())
}

func TestForwarderAddListenerErrors(t *testing.T) {
	f := NewForwarder(NewBuffer(nil))
	ctx := context.Background()

	_, err := f.AddListener(ctx, "", nil, nil)
	assert.True(t, mgmterrors.IsMalformedInput(err), "got %v", err)
	_, err = f.AddListener(ctx, "app:*", nil, nil)
	assert.True(t, mgmterrors.IsMalformedInput(err), "got %v", err)

	f.Terminate()
	_, err = f.AddListener(ctx, _cache, nil, nil)
	assert.True(t, mgmterrors.IsClosed(err), "got %v", err)
}

func TestForwarderTerminateWakesFetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := NewForwarder(NewBuffer(nil))
	results := make(chan *connector.NotificationResult, 1)
	entered := make(chan struct{})
	go func() {
		close(entered)
		res, _ := f.Fetch(context.Background(), -1, 10, connector.WaitForever)
		results <- res
	}()

	<-entered
	f.Terminate()
	f.Terminate()
	assert.Nil(t, <-results)

	res, err := f.Fetch(context.Background(), 0, 10, 0)
	assert.NoError(t, err)
	assert.Nil(t, res, "a terminated forwarder returns nil")
}

func TestForwarderCloseReleasesSubscriptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := newMockBackend(ctrl)
	ls := listeners{}
	b := NewBuffer(backend)
	f := NewForwarder(b)
	ctx := context.Background()

	expectSubscribe(backend, ls, _cache)
	_, err := f.AddListener(ctx, _cache, nil, nil)
	require.NoError(t, err)
	backend.EXPECT().IsRegistered(gomock.Any(), _cache).Return(true, nil)
	_, err = f.AddListener(ctx, _cache, nil, nil)
	require.NoError(t, err)

	backend.EXPECT().RemoveNotificationListener(gomock.Any(), _cache, ls[_cache]).Return(mgmterrors.NotFoundErrorf("gone"))
	require.NoError(t, f.Close(ctx), "a resource that went away is not an error")
	assert.Equal(t, 0, b.Subscriptions())
	assert.Empty(t, f.Listeners())
}

func TestBufferResubscribesAfterReregistration(t *testing.T) {
	backend := memory.New(memory.Domain("app"))
	_, err := backend.Register(_cache, memory.NewObject("Cache", ""))
	require.NoError(t, err)
	b := NewBuffer(backend)
	first, second := NewForwarder(b), NewForwarder(b)
	ctx := context.Background()

	_, err = first.AddListener(ctx, _cache, nil, nil)
	require.NoError(t, err)

	require.NoError(t, backend.UnregisterResource(ctx, _cache))
	_, err = second.AddListener(ctx, _cache, nil, nil)
	assert.True(t, mgmterrors.IsNotFound(err), "got %v", err)

	_, err = backend.Register(_cache, memory.NewObject("Cache", ""))
	require.NoError(t, err)
	id, err := second.AddListener(ctx, _cache, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Subscriptions())

	from := b.NextSeq()
	require.NoError(t, backend.Emit(_cache, &mgmt.Notification{Type: "app.evicted"}))
	res, err := second.Fetch(ctx, from, 10, 0)
	require.NoError(t, err)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, id, res.Notifications[0].ListenerID)
	assert.Equal(t, "app.evicted", res.Notifications[0].Notification.Type)

	require.NoError(t, first.Close(ctx))
	require.NoError(t, second.Close(ctx))
	assert.Equal(t, 0, b.Subscriptions())
}
