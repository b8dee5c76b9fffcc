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
	"reflect"
	"sort"
	"sync"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/mgmt"
)

// registration is a listener registered through the Connector. The server
// knows it by the id it assigned; the handback never leaves the client.
type registration struct {
	name     mgmt.Name
	listener mgmt.Listener
	filter   *mgmt.Filter
	handback interface{}
	delegate *auth.Subject
}

func (r *registration) matches(name mgmt.Name, l mgmt.Listener) bool {
	return r.name == name && r.listener == l
}

func (r *registration) matchesExactly(name mgmt.Name, l mgmt.Listener, filter *mgmt.Filter, handback interface{}) bool {
	return r.matches(name, l) && reflect.DeepEqual(r.filter, filter) && reflect.DeepEqual(r.handback, handback)
}

// listenerTable maps the listener ids of one session to registrations.
// Ids are only meaningful for the session they were assigned by, so the
// table carries the epoch of that session and ignores lookups made for
// another one.
//
// Notifications can reach the client before the registration that asked
// for them is recorded. While registrations are in flight, notifications
// for unknown ids are parked and handed over once the id is added.
type listenerTable struct {
	mu    sync.Mutex
	epoch uint64
	byID  map[int64]*registration

	adding   int
	parked   map[int64][]*mgmt.Notification
	flushing map[int64]bool
}

func newListenerTable() *listenerTable {
	return &listenerTable{
		byID:     make(map[int64]*registration),
		parked:   make(map[int64][]*mgmt.Notification),
		flushing: make(map[int64]bool),
	}
}

// reset empties the table and binds it to epoch.
func (t *listenerTable) reset(epoch uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.epoch = epoch
	t.byID = make(map[int64]*registration)
	t.parked = make(map[int64][]*mgmt.Notification)
	t.flushing = make(map[int64]bool)
}

// beginAdd marks a registration in flight. It must be paired with endAdd.
func (t *listenerTable) beginAdd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.adding++
}

func (t *listenerTable) endAdd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.adding--
	if t.adding > 0 {
		return
	}
	for id := range t.parked {
		if !t.flushing[id] {
			delete(t.parked, id)
		}
	}
}

// add records the registration the session of epoch assigned id to. It
// returns false if the table moved on to another session, in which case
// the registration must be made again. Notifications parked for id are
// delivered through deliver before add returns.
func (t *listenerTable) add(epoch uint64, id int64, r *registration, deliver func(*registration, *mgmt.Notification)) bool {
	t.mu.Lock()
	if t.epoch != epoch {
		t.mu.Unlock()
		return false
	}
	t.byID[id] = r
	flush := len(t.parked[id]) > 0
	if flush {
		t.flushing[id] = true
	}
	t.mu.Unlock()

	if flush {
		t.flush(epoch, id, deliver)
	}
	return true
}

// flush delivers the notifications parked for id until none are left.
// Deliveries for id that arrive meanwhile are queued behind them, so the
// listener sees notifications in order.
func (t *listenerTable) flush(epoch uint64, id int64, deliver func(*registration, *mgmt.Notification)) {
	for {
		t.mu.Lock()
		if t.epoch != epoch {
			t.mu.Unlock()
			return
		}
		ns := t.parked[id]
		r, ok := t.byID[id]
		if len(ns) == 0 || !ok {
			delete(t.parked, id)
			delete(t.flushing, id)
			t.mu.Unlock()
			return
		}
		delete(t.parked, id)
		t.mu.Unlock()

		for _, n := range ns {
			deliver(r, n)
		}
	}
}

// route returns the registration a notification fetched from the session
// of epoch is for. Notifications for other sessions are dropped.
func (t *listenerTable) route(epoch uint64, id int64, n *mgmt.Notification) (*registration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.epoch != epoch {
		return nil, false
	}
	if t.flushing[id] {
		t.parked[id] = append(t.parked[id], n)
		return nil, false
	}
	if r, ok := t.byID[id]; ok {
		return r, true
	}
	if t.adding > 0 {
		t.parked[id] = append(t.parked[id], n)
	}
	return nil, false
}

func (t *listenerTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byID)
}

// find returns the ids of the registrations match accepts, sorted, along
// with the registrations. With first set it returns at most one. Nothing is
// found if the table does not belong to the session of epoch.
func (t *listenerTable) find(epoch uint64, match func(*registration) bool, first bool) ([]int64, []*registration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.epoch != epoch {
		return nil, nil, false
	}
	var ids []int64
	for id, r := range t.byID {
		if match(r) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if first && len(ids) > 1 {
		ids = ids[:1]
	}
	regs := make([]*registration, len(ids))
	for i, id := range ids {
		regs[i] = t.byID[id]
	}
	return ids, regs, true
}

// remove drops regs, which were removed from the session of epoch. If the
// table moved on to a newer session meanwhile, regs were registered there
// too; their ids on that session are returned so they can be removed from
// it as well.
func (t *listenerTable) remove(epoch uint64, regs []*registration) (moved []int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	drop := make(map[*registration]bool, len(regs))
	for _, r := range regs {
		drop[r] = true
	}
	for id, r := range t.byID {
		if drop[r] {
			delete(t.byID, id)
			if t.epoch != epoch {
				moved = append(moved, id)
			}
		}
	}
	sort.Slice(moved, func(i, j int) bool { return moved[i] < moved[j] })
	return moved
}

// snapshot returns the registrations ordered by id.
func (t *listenerTable) snapshot() []*registration {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := sortedIDs(t.byID)
	regs := make([]*registration, len(ids))
	for i, id := range ids {
		regs[i] = t.byID[id]
	}
	return regs
}

// install moves the table to the session of epoch, where regs were
// registered under ids from snapshot, a copy of the table taken earlier.
// Registrations made since the snapshot are returned as late: they exist
// only on the old session. Registrations of snapshot that were removed since
// are left out and returned as stale, keyed by their id on the new session.
func (t *listenerTable) install(epoch uint64, ids []int64, regs, snapshot []*registration) (late []*registration, stale map[int64]*registration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := make(map[*registration]bool, len(t.byID))
	for _, r := range t.byID {
		current[r] = true
	}
	seen := make(map[*registration]bool, len(snapshot))
	for _, r := range snapshot {
		seen[r] = true
	}
	for _, id := range sortedIDs(t.byID) {
		if r := t.byID[id]; !seen[r] {
			late = append(late, r)
		}
	}

	byID := make(map[int64]*registration, len(ids))
	for i, id := range ids {
		if !current[regs[i]] {
			if stale == nil {
				stale = make(map[int64]*registration)
			}
			stale[id] = regs[i]
			continue
		}
		byID[id] = regs[i]
	}
	t.epoch = epoch
	t.byID = byID
	t.parked = make(map[int64][]*mgmt.Notification)
	t.flushing = make(map[int64]bool)
	return late, stale
}

func sortedIDs(m map[int64]*registration) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
