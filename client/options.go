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
	"github.com/juju/clock"
	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/directory"
	"go.uber.org/mgmtrpc/serialize"
	"go.uber.org/mgmtrpc/transport/websocket"
	"go.uber.org/zap"
)

// Option customizes a Connector.
type Option func(*clientOptions)

type clientOptions struct {
	attrs      map[string]interface{}
	creds      *auth.Credentials
	directory  directory.Directory
	logger     *zap.Logger
	scope      tally.Scope
	tracer     opentracing.Tracer
	clock      clock.Clock
	registry   *serialize.Registry
	expectKind string
	transport  *websocket.Transport
}

func newClientOptions(opts []Option) clientOptions {
	o := clientOptions{
		logger:     zap.NewNop(),
		scope:      tally.NoopScope,
		clock:      clock.WallClock,
		expectKind: connector.HandleKind,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = opentracing.GlobalTracer()
	}
	if o.registry == nil {
		o.registry = serialize.NewRegistry()
	}
	if o.transport == nil {
		o.transport = websocket.NewTransport(websocket.Logger(o.logger), websocket.Tracer(o.tracer))
	}
	return o
}

// Attributes sets the attributes every connection is made with. See the
// Attr constants for the recognized keys. ConnectWith overlays its own
// attributes on these.
func Attributes(attrs map[string]interface{}) Option {
	return func(o *clientOptions) {
		o.attrs = attrs
	}
}

// Credentials sets the credentials presented to the server. They take
// precedence over the credentials attribute.
func Credentials(creds *auth.Credentials) Option {
	return func(o *clientOptions) {
		o.creds = creds
	}
}

// Directory sets the directory "/directory/<name>" service URLs are looked
// up in. Without one the client builds a redis directory from the
// directory.properties attribute.
func Directory(d directory.Directory) Option {
	return func(o *clientOptions) {
		o.directory = d
	}
}

// Logger sets the logger of the client and of the default transport.
func Logger(logger *zap.Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Tally sets the scope client metrics are reported to.
func Tally(scope tally.Scope) Option {
	return func(o *clientOptions) {
		if scope != nil {
			o.scope = scope
		}
	}
}

// Tracer sets the tracer of the default transport.
func Tracer(tracer opentracing.Tracer) Option {
	return func(o *clientOptions) {
		o.tracer = tracer
	}
}

// Clock sets the clock driving the liveness checker and fetch backoff.
func Clock(c clock.Clock) Option {
	return func(o *clientOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// Registry sets the registry values received from the server are resolved
// from. The serial.filter attribute restricts it further.
func Registry(r *serialize.Registry) Option {
	return func(o *clientOptions) {
		o.registry = r
	}
}

// ExpectHandleKind sets the handle kind client.check.stub verifies.
func ExpectHandleKind(kind string) Option {
	return func(o *clientOptions) {
		o.expectKind = kind
	}
}

// Transport sets the websocket transport outbounds are created from.
func Transport(t *websocket.Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}
