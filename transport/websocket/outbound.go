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

package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/mgmtrpc/pkg/lifecycle"
	"go.uber.org/zap"
)

var _ transport.Outbound = (*Outbound)(nil)

// Outbound makes calls over a single websocket connection to one address.
//
// The connection is dialed by the first call and redialed by the first call
// after it breaks. Calls pending on a connection when it breaks fail with a
// communication error.
type Outbound struct {
	once    *lifecycle.Once
	t       *Transport
	address string
	dialer  websocket.Dialer

	lock sync.Mutex
	conn *clientConn

	wg sync.WaitGroup
}

func newOutbound(t *Transport, address string) *Outbound {
	return &Outbound{
		once:    lifecycle.NewOnce(),
		t:       t,
		address: address,
		dialer:  websocket.Dialer{HandshakeTimeout: t.handshakeTimeout},
	}
}

// Start implements transport.Lifecycle#Start.
func (o *Outbound) Start() error {
	return o.once.Start(nil)
}

// Stop implements transport.Lifecycle#Stop.
func (o *Outbound) Stop() error {
	return o.once.Stop(o.stop)
}

// IsRunning implements transport.Lifecycle#IsRunning.
func (o *Outbound) IsRunning() bool {
	return o.once.IsRunning()
}

// Address implements transport.Outbound#Address.
func (o *Outbound) Address() string {
	return o.address
}

func (o *Outbound) stop() error {
	o.lock.Lock()
	c := o.conn
	o.conn = nil
	o.lock.Unlock()

	var err error
	if c != nil {
		err = c.close(mgmterrors.ClosedErrorf("outbound to %q stopped", o.address))
	}
	o.wg.Wait()
	return err
}

// Call implements transport.Outbound#Call.
func (o *Outbound) Call(ctx context.Context, treq *transport.Request) (*transport.Response, error) {
	if !o.IsRunning() {
		return nil, mgmterrors.IllegalStateErrorf("outbound to %q is not running", o.address)
	}
	if err := transport.ValidateRequest(treq); err != nil {
		return nil, err
	}

	create := transport.CreateOpenTracingSpan{
		Tracer:        o.t.tracer,
		TransportName: transportName,
		StartTime:     time.Now(),
	}
	ctx, span := create.Do(ctx, treq)
	defer span.Finish()

	c, err := o.getConn(ctx)
	if err != nil {
		return nil, transport.UpdateSpanWithErr(span, err)
	}
	res, err := c.call(ctx, treq)
	return res, transport.UpdateSpanWithErr(span, err)
}

// getConn returns the live connection, dialing a new one if there is none.
func (o *Outbound) getConn(ctx context.Context) (*clientConn, error) {
	o.lock.Lock()
	defer o.lock.Unlock()

	if o.conn != nil && !o.conn.broken() {
		return o.conn, nil
	}

	ws, _, err := o.dialer.DialContext(ctx, o.address, nil)
	if err != nil {
		return nil, mgmterrors.Wrapf(mgmterrors.CodeCommunication, err, "cannot connect to %q", o.address)
	}
	ws.SetReadLimit(o.t.readLimit)

	c := &clientConn{
		o:       o,
		ws:      ws,
		pending: make(map[uint64]chan *frame),
		done:    make(chan struct{}),
	}
	o.conn = c
	o.wg.Add(1)
	go c.readLoop()
	o.t.logger.Debug("websocket outbound connected", zap.String("address", o.address))
	return c, nil
}

// clientConn is one dialed connection.
type clientConn struct {
	o  *Outbound
	ws *websocket.Conn

	nextID  atomic.Uint64
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint64]chan *frame
	err     error
	done    chan struct{}
}

func (c *clientConn) broken() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// close marks the connection broken with the given reason. Only the first
// call has an effect.
func (c *clientConn) close(reason error) error {
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return nil
	}
	c.err = reason
	c.pending = nil
	close(c.done)
	c.mu.Unlock()
	return c.ws.Close()
}

func (c *clientConn) readLoop() {
	defer c.o.wg.Done()
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			_ = c.close(mgmterrors.Wrapf(mgmterrors.CodeCommunication, err, "connection to %q broke", c.o.address))
			return
		}

		f := new(frame)
		if err := json.Unmarshal(msg, f); err != nil || f.isRequest() {
			c.o.t.logger.Warn("dropping malformed websocket frame",
				zap.String("address", c.o.address), zap.Error(err))
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[f.ID]
		delete(c.pending, f.ID)
		c.mu.Unlock()
		if ok {
			ch <- f
		}
	}
}

func (c *clientConn) register() (uint64, chan *frame, error) {
	id := c.nextID.Inc()
	ch := make(chan *frame, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, nil, c.err
	}
	c.pending[id] = ch
	return id, ch, nil
}

func (c *clientConn) forget(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		delete(c.pending, id)
	}
}

func (c *clientConn) call(ctx context.Context, treq *transport.Request) (*transport.Response, error) {
	id, ch, err := c.register()
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(&frame{
		ID:      id,
		Object:  treq.Object,
		Method:  treq.Method,
		Headers: treq.Headers.Items(),
		Body:    treq.Body,
	})
	if err != nil {
		c.forget(id)
		return nil, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "cannot encode request for %q", treq.Method)
	}

	c.writeMu.Lock()
	err = c.ws.WriteMessage(websocket.TextMessage, b)
	c.writeMu.Unlock()
	if err != nil {
		wrapped := mgmterrors.Wrapf(mgmterrors.CodeCommunication, err, "cannot send request to %q", c.o.address)
		_ = c.close(wrapped)
		return nil, wrapped
	}

	select {
	case f := <-ch:
		if f.Err != nil {
			return nil, f.Err.Decode()
		}
		return &transport.Response{
			Headers: transport.HeadersFromMap(f.Headers),
			Body:    f.Body,
		}, nil
	case <-c.done:
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		if mgmterrors.IsClosed(err) {
			return nil, err
		}
		return nil, mgmterrors.Wrapf(mgmterrors.CodeCommunication, err, "call %q to %q failed", treq.Method, c.o.address)
	case <-ctx.Done():
		c.forget(id)
		return nil, mgmterrors.Wrapf(mgmterrors.CodeCommunication, ctx.Err(), "call %q to %q did not complete", treq.Method, c.o.address)
	}
}
