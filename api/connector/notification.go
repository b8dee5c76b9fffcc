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

import "go.uber.org/mgmtrpc/api/mgmt"

// NotificationResult is one batch returned by Session.FetchNotifications.
type NotificationResult struct {
	// EarliestSeq is the oldest sequence number still buffered.
	EarliestSeq int64
	// NextSeq is the sequence number to pass to the next fetch. It is
	// greater than every sequence number in Notifications.
	NextSeq int64
	// Lost is the number of notifications that were dropped from the buffer
	// before the caller could fetch them.
	Lost int64
	// Notifications holds one entry per matching listener registration, so
	// one notification may appear several times.
	Notifications []TargetedNotification
}

// TargetedNotification is a notification addressed to one relay listener.
type TargetedNotification struct {
	ListenerID   int64
	Notification *mgmt.Notification
}
