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

// Package mgmtrpc is a remote management connector: it lets a client
// manage the resources of a remote process over an RPC transport.
//
// A connector server (package server) wraps a management backend
// (api/mgmt.Backend, for example backend/memory) and exports a handle. A
// client (package client) resolves the handle from a service URL, opens a
// session, and forwards management calls to it:
//
//	srv := server.New(backend, server.Inbound(inbound))
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer srv.Stop()
//
//	c, err := client.New(srv.Address())
//	...
//	if err := c.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//	size, err := c.Connection(nil).GetAttribute(ctx, name, "Size")
//
// Sessions authenticate their clients, can execute calls as a delegated
// identity, and relay backend notifications to client listeners. Clients
// reconnect transparently when the transport fails and reinstate their
// listeners on the new session.
//
// Values crossing the wire declare their type, which the receiver resolves
// from an explicit registry (package serialize) under an optional filter.
package mgmtrpc
