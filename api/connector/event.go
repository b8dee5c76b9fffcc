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

package connector

import "fmt"

// ConnectionEventType identifies what happened to a connection.
type ConnectionEventType int

const (
	// Opened is emitted when a session is established, including after a
	// transparent reconnect.
	Opened ConnectionEventType = iota + 1
	// Closed is emitted once when a session or client is closed.
	Closed
	// Failed is emitted when a client gives up on its connection.
	Failed
	// NotificationsLost is emitted when the server dropped notifications
	// before the client fetched them.
	NotificationsLost
)

var _eventTypeToString = map[ConnectionEventType]string{
	Opened:            "opened",
	Closed:            "closed",
	Failed:            "failed",
	NotificationsLost: "notifs-lost",
}

func (t ConnectionEventType) String() string {
	if s, ok := _eventTypeToString[t]; ok {
		return s
	}
	return fmt.Sprintf("ConnectionEventType(%d)", int(t))
}

// ConnectionEvent describes a change in a connection.
type ConnectionEvent struct {
	Type         ConnectionEventType
	ConnectionID string
	Message      string
	// Sequence is the client event sequence number.
	Sequence int64
	// Cause is set on Failed events.
	Cause error
	// Lost is set on NotificationsLost events.
	Lost int64
}

// ConnectionObserver receives connection events synchronously, in
// registration order, on the goroutine that detected the condition.
type ConnectionObserver interface {
	ConnectionEvent(ev ConnectionEvent)
}

// ConnectionObserverFunc adapts a function to ConnectionObserver.
type ConnectionObserverFunc func(ConnectionEvent)

// ConnectionEvent calls f(ev).
func (f ConnectionObserverFunc) ConnectionEvent(ev ConnectionEvent) {
	f(ev)
}
