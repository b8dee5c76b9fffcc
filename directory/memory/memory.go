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

// Package memory provides an in-process directory.
package memory

import (
	"context"
	"sync"

	"go.uber.org/mgmtrpc/api/directory"
	"go.uber.org/mgmtrpc/mgmterrors"
)

var _ directory.Directory = (*Directory)(nil)

// Directory is a directory.Directory backed by a map. It is safe for
// concurrent use.
type Directory struct {
	mu       sync.RWMutex
	bindings map[string]string
}

// New returns an empty Directory.
func New() *Directory {
	return &Directory{bindings: make(map[string]string)}
}

// Bind implements directory.Directory.
func (d *Directory) Bind(ctx context.Context, name string, ref string, rebind bool) error {
	if name == "" {
		return mgmterrors.MalformedInputErrorf("cannot bind an empty name")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.bindings[name]; ok && !rebind {
		return mgmterrors.AlreadyExistsErrorf("name %q is already bound", name)
	}
	d.bindings[name] = ref
	return nil
}

// Lookup implements directory.Directory.
func (d *Directory) Lookup(ctx context.Context, name string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ref, ok := d.bindings[name]
	if !ok {
		return "", mgmterrors.NotFoundErrorf("name %q is not bound", name)
	}
	return ref, nil
}

// Unbind implements directory.Directory.
func (d *Directory) Unbind(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.bindings[name]; !ok {
		return mgmterrors.NotFoundErrorf("name %q is not bound", name)
	}
	delete(d.bindings, name)
	return nil
}
