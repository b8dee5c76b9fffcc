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
	"sync"
	"time"

	"go.uber.org/mgmtrpc"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
)

// fakeHandle opens fakeSessions. Sessions are set up through the hook
// before they are handed out.
type fakeHandle struct {
	mu       sync.Mutex
	sessions []*fakeSession
	newErr   error
	setup    func(n int, s *fakeSession)
}

var _ connector.RemoteHandle = (*fakeHandle)(nil)

func (h *fakeHandle) Version(context.Context) (string, error) {
	return mgmtrpc.Version, nil
}

func (h *fakeHandle) NewClient(context.Context, *auth.Credentials) (connector.Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.newErr != nil {
		return nil, h.newErr
	}
	n := len(h.sessions) + 1
	s := &fakeSession{id: fmt.Sprintf("fake-%d", n)}
	if h.setup != nil {
		h.setup(n, s)
	}
	h.sessions = append(h.sessions, s)
	return s, nil
}

func (h *fakeHandle) failNewClient(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.newErr = err
}

func (h *fakeHandle) opened() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *fakeHandle) session(i int) *fakeSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[i]
}

// fakeSession implements the calls the connector makes on its own and
// GetAttribute. Other methods are not implemented.
type fakeSession struct {
	connector.Session

	id string

	mu          sync.Mutex
	attrErrs    []error
	domainErr   error
	domainCalls int
	closed      bool
}

func (s *fakeSession) ConnectionID(context.Context) (string, error) {
	return s.id, nil
}

// failAttributes makes the next GetAttribute calls fail with errs, in order.
func (s *fakeSession) failAttributes(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrErrs = append(s.attrErrs, errs...)
}

func (s *fakeSession) failChecks(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domainErr = err
}

func (s *fakeSession) checks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domainCalls
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSession) GetAttribute(_ context.Context, _ mgmt.Name, attribute string, _ *auth.Subject) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.attrErrs) > 0 {
		err := s.attrErrs[0]
		s.attrErrs = s.attrErrs[1:]
		return nil, err
	}
	return s.id + "/" + attribute, nil
}

func (s *fakeSession) GetDefaultDomain(context.Context, *auth.Subject) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domainCalls++
	return "fake", s.domainErr
}

func (s *fakeSession) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// recorder collects connection events.
type recorder struct {
	mu  sync.Mutex
	got []connector.ConnectionEvent
	ch  chan connector.ConnectionEvent
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan connector.ConnectionEvent, 64)}
}

func (r *recorder) ConnectionEvent(ev connector.ConnectionEvent) {
	r.mu.Lock()
	r.got = append(r.got, ev)
	r.mu.Unlock()
	r.ch <- ev
}

func (r *recorder) events() []connector.ConnectionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]connector.ConnectionEvent(nil), r.got...)
}

func (r *recorder) types() []connector.ConnectionEventType {
	var types []connector.ConnectionEventType
	for _, ev := range r.events() {
		types = append(types, ev.Type)
	}
	return types
}

// waitFor returns the next event of type typ, skipping others.
func (r *recorder) waitFor(typ connector.ConnectionEventType) (connector.ConnectionEvent, bool) {
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-r.ch:
			if ev.Type == typ {
				return ev, true
			}
		case <-timeout:
			return connector.ConnectionEvent{}, false
		}
	}
}

// notifications is a listener that passes what it receives to a channel.
type notifications struct {
	ch chan received
}

type received struct {
	n        *mgmt.Notification
	handback interface{}
}

func newNotifications() *notifications {
	return &notifications{ch: make(chan received, 64)}
}

func (l *notifications) HandleNotification(n *mgmt.Notification, handback interface{}) {
	l.ch <- received{n: n, handback: handback}
}

func (l *notifications) next() (received, bool) {
	select {
	case r := <-l.ch:
		return r, true
	case <-time.After(5 * time.Second):
		return received{}, false
	}
}
