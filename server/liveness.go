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
	"sync"
	"time"

	"github.com/juju/clock"
	"go.uber.org/mgmtrpc/mgmterrors"
)

// admin tracks the calls active on a session. A session with no active call
// for longer than the idle timeout is handed to onIdle, and once terminated
// the admin rejects new calls and reports when the active ones drained.
type admin struct {
	clock   clock.Clock
	timeout time.Duration
	onIdle  func()

	mu         sync.Mutex
	active     int
	terminated bool
	timer      clock.Timer
	// gen invalidates idle timers that fired after a call entered.
	gen     uint64
	drained chan struct{}
}

func newAdmin(clk clock.Clock, timeout time.Duration, onIdle func()) *admin {
	a := &admin{
		clock:   clk,
		timeout: timeout,
		onIdle:  onIdle,
		drained: make(chan struct{}),
	}
	a.mu.Lock()
	a.armLocked()
	a.mu.Unlock()
	return a
}

func (a *admin) armLocked() {
	if a.timeout <= 0 {
		return
	}
	a.gen++
	gen := a.gen
	a.timer = a.clock.AfterFunc(a.timeout, func() { a.expire(gen) })
}

func (a *admin) disarmLocked() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *admin) expire(gen uint64) {
	a.mu.Lock()
	idle := gen == a.gen && a.active == 0 && !a.terminated
	a.mu.Unlock()
	if idle {
		// onIdle closes the session, which stops this timer.
		go a.onIdle()
	}
}

// enter records the start of a call. It fails once the admin terminated.
func (a *admin) enter() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.terminated {
		return mgmterrors.ClosedErrorf("session is closed")
	}
	a.active++
	a.disarmLocked()
	return nil
}

// exit records the end of a call started with enter.
func (a *admin) exit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active--
	if a.active > 0 {
		return
	}
	if a.terminated {
		close(a.drained)
		return
	}
	a.armLocked()
}

// terminate makes later calls fail. It returns false if the admin was
// already terminated.
func (a *admin) terminate() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.terminated {
		return false
	}
	a.terminated = true
	a.disarmLocked()
	if a.active == 0 {
		close(a.drained)
	}
	return true
}

// wait blocks until every active call of a terminated admin returned.
func (a *admin) wait(ctx context.Context) error {
	select {
	case <-a.drained:
		return nil
	case <-ctx.Done():
		return mgmterrors.Wrapf(mgmterrors.CodeCommunication, ctx.Err(), "active calls did not finish")
	}
}

func (a *admin) isTerminated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.terminated
}
