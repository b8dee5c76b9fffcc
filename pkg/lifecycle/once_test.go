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

package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/mgmtrpc/mgmterrors"
)

func TestOnceTransitions(t *testing.T) {
	tests := []struct {
		desc      string
		run       func(*testing.T, *Once)
		wantState State
	}{
		{
			desc:      "created",
			run:       func(*testing.T, *Once) {},
			wantState: Created,
		},
		{
			desc: "start",
			run: func(t *testing.T, o *Once) {
				require.NoError(t, o.Start(nil))
				assert.True(t, o.IsRunning())
			},
			wantState: Started,
		},
		{
			desc: "start is idempotent while started",
			run: func(t *testing.T, o *Once) {
				require.NoError(t, o.Start(nil))
				require.NoError(t, o.Start(func() error { return errors.New("not called") }))
			},
			wantState: Started,
		},
		{
			desc: "start then stop",
			run: func(t *testing.T, o *Once) {
				require.NoError(t, o.Start(nil))
				require.NoError(t, o.Stop(nil))
				require.NoError(t, o.Stop(nil))
			},
			wantState: Stopped,
		},
		{
			desc: "stop before start",
			run: func(t *testing.T, o *Once) {
				require.NoError(t, o.Stop(func() error { return errors.New("not called") }))
			},
			wantState: Stopped,
		},
		{
			desc: "start after stop",
			run: func(t *testing.T, o *Once) {
				require.NoError(t, o.Start(nil))
				require.NoError(t, o.Stop(nil))
				err := o.Start(nil)
				assert.True(t, mgmterrors.IsIllegalState(err), "got %v", err)
			},
			wantState: Stopped,
		},
		{
			desc: "start fails",
			run: func(t *testing.T, o *Once) {
				assert.EqualError(t, o.Start(func() error { return errors.New("abort") }), "abort")
				assert.EqualError(t, o.Start(nil), "abort")
				assert.EqualError(t, o.Stop(nil), "abort")
			},
			wantState: Errored,
		},
		{
			desc: "stop fails",
			run: func(t *testing.T, o *Once) {
				require.NoError(t, o.Start(nil))
				assert.EqualError(t, o.Stop(func() error { return errors.New("abort") }), "abort")
				assert.EqualError(t, o.Stop(nil), "abort")
			},
			wantState: Errored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			o := NewOnce()
			tt.run(t, o)
			assert.Equal(t, tt.wantState, o.State())
		})
	}
}

func TestOnceConcurrentStartRunsOnce(t *testing.T) {
	o := NewOnce()
	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, o.Start(func() error {
				calls.Inc()
				time.Sleep(time.Millisecond)
				return nil
			}))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
	<-o.Started()
}

func TestOnceWaitUntilStarted(t *testing.T) {
	o := NewOnce()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- o.WaitUntilStarted(ctx) }()
	require.NoError(t, o.Start(nil))
	assert.NoError(t, <-done)

	require.NoError(t, o.Stop(nil))
	<-o.Stopping()
	<-o.Stopped()
	assert.True(t, mgmterrors.IsIllegalState(o.WaitUntilStarted(ctx)))
}

func TestOnceWaitUntilStartedContextDone(t *testing.T) {
	o := NewOnce()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, mgmterrors.IsIllegalState(o.WaitUntilStarted(ctx)))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "started", Started.String())
	assert.Equal(t, "unknown", State(42).String())
}
