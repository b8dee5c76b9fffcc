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

package transport

import (
	"context"

	"go.uber.org/mgmtrpc/mgmterrors"
)

// Request is the low level request representation: one remote method call on
// one exported object.
type Request struct {
	// Address of the peer that made the request. Filled in by inbounds.
	Caller string

	// Identifier of the exported object the call is addressed to.
	Object string

	// Name of the method being called.
	Method string

	// Headers for the request.
	Headers Headers

	// Request payload.
	Body []byte
}

// Response is the low level response representation.
type Response struct {
	Headers Headers
	Body    []byte
}

// ValidateRequest validates the given request. An error is returned if the
// request is invalid.
func ValidateRequest(req *Request) error {
	if req == nil {
		return mgmterrors.MalformedInputErrorf("missing request")
	}
	if req.Object == "" {
		return mgmterrors.MalformedInputErrorf("missing object id in request")
	}
	if req.Method == "" {
		return mgmterrors.MalformedInputErrorf("missing method in request for object %q", req.Object)
	}
	return nil
}

// UnaryHandler handles a single remote method call.
type UnaryHandler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// UnaryHandlerFunc adapts a function into a UnaryHandler.
type UnaryHandlerFunc func(context.Context, *Request) (*Response, error)

// Handle calls f(ctx, req).
func (f UnaryHandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Router maps an inbound request to the handler of the object it addresses.
type Router interface {
	// Choose returns the handler for the request's object, or a
	// no-such-object error when nothing is exported under that id.
	Choose(ctx context.Context, req *Request) (UnaryHandler, error)
}
