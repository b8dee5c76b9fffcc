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

// Package directory defines the naming service a connector server binds its
// handle reference in and a client looks it up from.
package directory

import "context"

// Directory binds names to encoded handle references.
type Directory interface {
	// Bind stores ref under name. When rebind is false and the name is
	// already bound, Bind fails with an already-exists error.
	Bind(ctx context.Context, name string, ref string, rebind bool) error

	// Lookup returns the reference bound to name, or a not-found error.
	Lookup(ctx context.Context, name string) (string, error)

	// Unbind removes the binding. Unbinding an unknown name is a not-found
	// error.
	Unbind(ctx context.Context, name string) error
}
