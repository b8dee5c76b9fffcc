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

package json

import (
	"context"

	"go.uber.org/mgmtrpc/api/transport"
)

type callKey struct{}

// Call provides information about the current request inside handlers.
//
//	func (h *handle) newClient(ctx context.Context, req *NewClientRequest) (*NewClientResponse, error) {
//		call := json.CallFromContext(ctx)
//		fmt.Println("Received request from", call.Caller())
//		...
//	}
type Call struct {
	req *transport.Request
}

// CallFromContext retrieves information about the current incoming request
// from the given context. Returns nil if the context is not a request
// context.
func CallFromContext(ctx context.Context) *Call {
	c, _ := ctx.Value(callKey{}).(*Call)
	return c
}

// ContextWithCall returns a context carrying the call information of req.
// Handlers receive such a context; tests may build one with it.
func ContextWithCall(ctx context.Context, req *transport.Request) context.Context {
	return context.WithValue(ctx, callKey{}, &Call{req: req})
}

// Caller returns the address of the peer making this request.
func (c *Call) Caller() string {
	if c == nil {
		return ""
	}
	return c.req.Caller
}

// Object returns the id of the object the request is addressed to.
func (c *Call) Object() string {
	if c == nil {
		return ""
	}
	return c.req.Object
}

// Method returns the name of the method being called.
func (c *Call) Method() string {
	if c == nil {
		return ""
	}
	return c.req.Method
}

// Header returns the value of the given request header.
func (c *Call) Header(k string) string {
	if c == nil {
		return ""
	}
	v, _ := c.req.Headers.Get(k)
	return v
}
