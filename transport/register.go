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

// Package transport holds the object table remote objects are exported on.
package transport

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/mgmterrors"
)

var _ transport.Router = (*ObjectTable)(nil)

// ObjectTable is a transport.Router that maintains the objects exported
// behind an inbound, keyed by object id.
type ObjectTable struct {
	mu      sync.RWMutex
	objects map[string]transport.UnaryHandler
}

// NewObjectTable builds an empty ObjectTable.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{objects: make(map[string]transport.UnaryHandler)}
}

// Export exports h under a new unguessable id and returns the id.
func (t *ObjectTable) Export(h transport.UnaryHandler) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.objects[id] = h
	t.mu.Unlock()
	return id
}

// ExportAs exports h under a well-known id. It fails if the id is taken.
func (t *ObjectTable) ExportAs(id string, h transport.UnaryHandler) error {
	if id == "" {
		return mgmterrors.MalformedInputErrorf("cannot export an object under an empty id")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.objects[id]; ok {
		return mgmterrors.AlreadyExistsErrorf("an object is already exported as %q", id)
	}
	t.objects[id] = h
	return nil
}

// Unexport removes the object with the given id. It reports whether the
// object was exported.
func (t *ObjectTable) Unexport(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.objects[id]
	delete(t.objects, id)
	return ok
}

// Objects returns the ids of the exported objects, sorted.
func (t *ObjectTable) Objects() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.objects))
	for id := range t.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Choose returns the handler of the object the request addresses, or a
// no-such-object error.
func (t *ObjectTable) Choose(ctx context.Context, req *transport.Request) (transport.UnaryHandler, error) {
	t.mu.RLock()
	h, ok := t.objects[req.Object]
	t.mu.RUnlock()
	if !ok {
		return nil, mgmterrors.NoSuchObjectErrorf("no object exported as %q", req.Object)
	}
	return h, nil
}
