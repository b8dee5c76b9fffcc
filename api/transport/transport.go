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

import "context"

// Lifecycle objects are started and stopped exactly once.
type Lifecycle interface {
	// Start the lifecycle object, returning an error if it cannot be started.
	//
	// Start MUST be idempotent.
	Start() error

	// Stop the lifecycle object, returning an error if it cannot be stopped.
	//
	// Stop MUST be idempotent.
	Stop() error

	// IsRunning returns whether the object is currently running.
	IsRunning() bool
}

// Inbound is a transport that knows how to receive remote method calls.
type Inbound interface {
	Lifecycle

	// SetRouter configures the inbound to dispatch requests through the
	// router. It MUST be called before Start.
	SetRouter(Router)

	// Address returns the address the inbound accepts connections on, in a
	// form an Outbound of the same transport can dial. It is only meaningful
	// after Start.
	Address() string
}

// Outbound is a transport that knows how to send remote method calls.
type Outbound interface {
	Lifecycle

	// Call sends the given request through this transport and returns its
	// response.
	//
	// Errors that prevent the request from reaching the peer, or the response
	// from coming back, are communication errors. Errors returned by the
	// remote handler are passed through with their code intact.
	//
	// This MUST be safe to call concurrently.
	Call(ctx context.Context, req *Request) (*Response, error)

	// Address returns the peer address this outbound dials.
	Address() string
}
