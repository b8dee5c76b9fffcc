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

package server

import (
	"github.com/juju/clock"
	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/directory"
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/serialize"
	"go.uber.org/zap"
)

// Option customizes a Server.
type Option func(*serverOptions)

type serverOptions struct {
	attrs     map[string]interface{}
	authn     auth.Authenticator
	access    auth.AccessController
	inbound   transport.Inbound
	directory directory.Directory
	logger    *zap.Logger
	scope     tally.Scope
	tracer    opentracing.Tracer
	clock     clock.Clock
	registry  *serialize.Registry
}

func newServerOptions(opts []Option) serverOptions {
	o := serverOptions{
		logger: zap.NewNop(),
		scope:  tally.NoopScope,
		clock:  clock.WallClock,
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
	return o
}

// Attributes sets the attributes the server is configured with. See the
// Attr constants for the recognized keys.
func Attributes(attrs map[string]interface{}) Option {
	return func(o *serverOptions) {
		o.attrs = attrs
	}
}

// Authenticator sets the authenticator NewClient verifies credentials
// with. Without one, and without a password file, clients connect
// anonymously.
func Authenticator(a auth.Authenticator) Option {
	return func(o *serverOptions) {
		o.authn = a
	}
}

// AccessController decides which identities a connection may delegate to.
// Without one, any authenticated connection may delegate.
func AccessController(ac auth.AccessController) Option {
	return func(o *serverOptions) {
		o.access = ac
	}
}

// Inbound exposes the server remotely. The server sets the inbound's router
// and starts and stops it with itself.
func Inbound(i transport.Inbound) Option {
	return func(o *serverOptions) {
		o.inbound = i
	}
}

// Directory sets the directory the handle reference is bound in when the
// directory.name attribute is set.
func Directory(d directory.Directory) Option {
	return func(o *serverOptions) {
		o.directory = d
	}
}

// Logger sets a logger to use for internal logging.
//
// The default is to not write any logs.
func Logger(logger *zap.Logger) Option {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// Tally sets the metrics scope of the server.
func Tally(scope tally.Scope) Option {
	return func(o *serverOptions) {
		o.scope = scope
	}
}

// Tracer configures a tracer for session calls.
func Tracer(tracer opentracing.Tracer) Option {
	return func(o *serverOptions) {
		o.tracer = tracer
	}
}

// Clock sets the clock idle timeouts are measured with.
func Clock(c clock.Clock) Option {
	return func(o *serverOptions) {
		o.clock = c
	}
}

// Registry sets the registry values received from remote clients are
// resolved from.
func Registry(r *serialize.Registry) Option {
	return func(o *serverOptions) {
		o.registry = r
	}
}
