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

// Package websocket implements the connector transport over websockets.
//
// Every call is one JSON text message in each direction. A connection
// multiplexes any number of concurrent calls; responses are matched to
// requests by id.
package websocket

import (
	"net"
	"time"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/mgmtrpc/pkg/lifecycle"
	"go.uber.org/zap"
)

const transportName = "websocket"

type transportOptions struct {
	logger           *zap.Logger
	tracer           opentracing.Tracer
	handshakeTimeout time.Duration
	readLimit        int64
}

func newTransportOptions() transportOptions {
	return transportOptions{
		handshakeTimeout: 10 * time.Second,
		readLimit:        16 << 20,
	}
}

// TransportOption customizes the behavior of a websocket Transport.
type TransportOption func(*transportOptions)

// Logger sets a logger to use for internal logging.
//
// The default is to not write any logs.
func Logger(logger *zap.Logger) TransportOption {
	return func(options *transportOptions) {
		options.logger = logger
	}
}

// Tracer configures a tracer for the transport and all its inbounds and
// outbounds.
//
// The default is the global opentracing tracer.
func Tracer(tracer opentracing.Tracer) TransportOption {
	return func(options *transportOptions) {
		options.tracer = tracer
	}
}

// HandshakeTimeout bounds the websocket opening handshake of outbounds.
//
// The default is 10 seconds.
func HandshakeTimeout(d time.Duration) TransportOption {
	return func(options *transportOptions) {
		options.handshakeTimeout = d
	}
}

// ReadLimit bounds the size of a single message.
//
// The default is 16 MiB.
func ReadLimit(n int64) TransportOption {
	return func(options *transportOptions) {
		options.readLimit = n
	}
}

// Transport is the websocket transport. It holds the options shared by its
// inbounds and outbounds.
type Transport struct {
	once             *lifecycle.Once
	logger           *zap.Logger
	tracer           opentracing.Tracer
	handshakeTimeout time.Duration
	readLimit        int64
}

// NewTransport returns a new Transport.
func NewTransport(opts ...TransportOption) *Transport {
	options := newTransportOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}
	if options.tracer == nil {
		options.tracer = opentracing.GlobalTracer()
	}
	return &Transport{
		once:             lifecycle.NewOnce(),
		logger:           options.logger,
		tracer:           options.tracer,
		handshakeTimeout: options.handshakeTimeout,
		readLimit:        options.readLimit,
	}
}

// Start implements transport.Lifecycle#Start.
func (t *Transport) Start() error {
	return t.once.Start(nil)
}

// Stop implements transport.Lifecycle#Stop.
func (t *Transport) Stop() error {
	return t.once.Stop(nil)
}

// IsRunning implements transport.Lifecycle#IsRunning.
func (t *Transport) IsRunning() bool {
	return t.once.IsRunning()
}

// NewInbound returns a new Inbound for the given listener.
func (t *Transport) NewInbound(listener net.Listener) *Inbound {
	return newInbound(t, listener)
}

// NewOutbound returns a new Outbound for the given address, in the form
// ws://host:port/mgmtrpc.
func (t *Transport) NewOutbound(address string) *Outbound {
	return newOutbound(t, address)
}
