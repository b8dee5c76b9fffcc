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
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mgmtrpc/mgmterrors"
)

func TestAdminIdleTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	clk := testclock.NewClock(time.Now())
	idle := make(chan struct{}, 1)
	a := newAdmin(clk, time.Minute, func() { idle <- struct{}{} })

	// An active call keeps the admin busy however long it takes.
	require.NoError(t, a.enter())
	clk.Advance(time.Hour)
	select {
	case <-idle:
		t.Fatal("idle while a call was active")
	default:
	}

	a.exit()
	require.NoError(t, clk.WaitAdvance(time.Minute, 5*time.Second, 1))
	select {
	case <-idle:
	case <-time.After(5 * time.Second):
		t.Fatal("admin never reported idle")
	}
}

func TestAdminTerminate(t *testing.T) {
	a := newAdmin(testclock.NewClock(time.Now()), 0, func() { t.Fatal("idle timer is disabled") })

	require.NoError(t, a.enter())
	assert.True(t, a.terminate())
	assert.False(t, a.terminate())
	assert.True(t, a.isTerminated())

	err := a.enter()
	assert.True(t, mgmterrors.IsClosed(err), "got %v", err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = a.wait(ctx)
	assert.True(t, mgmterrors.IsCommunication(err), "got %v", err)

	a.exit()
	assert.NoError(t, a.wait(context.Background()))
}
