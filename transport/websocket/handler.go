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
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/internal/wire"
	"go.uber.org/zap"
)

type handler struct {
	i *Inbound
}

func newHandler(i *Inbound) *handler {
	return &handler{i: i}
}

func (h *handler) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.i.t.logger.Debug("websocket upgrade failed",
			zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	conn.SetReadLimit(h.i.t.readLimit)

	ctx, cancel := context.WithCancel(h.i.ctx)
	c := &serverConn{
		i:      h.i,
		ws:     conn,
		caller: r.RemoteAddr,
		ctx:    ctx,
		cancel: cancel,
	}
	if !h.i.addConn(c) {
		cancel()
		_ = conn.Close()
		return
	}
	go c.readLoop()
}

// serverConn is one accepted connection.
type serverConn struct {
	i      *Inbound
	ws     *websocket.Conn
	caller string

	ctx    context.Context
	cancel context.CancelFunc

	writeMu sync.Mutex
	once    sync.Once
}

func (c *serverConn) close() error {
	var err error
	c.once.Do(func() {
		c.cancel()
		err = c.ws.Close()
	})
	return err
}

func (c *serverConn) readLoop() {
	defer c.i.wg.Done()
	defer c.i.removeConn(c)
	defer c.close()

	logger := c.i.t.logger.With(zap.String("caller", c.caller))
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket connection broke", zap.Error(err))
			}
			return
		}

		var f frame
		if err := json.Unmarshal(msg, &f); err != nil || !f.isRequest() {
			logger.Warn("dropping malformed websocket frame", zap.Error(err))
			continue
		}

		c.i.wg.Add(1)
		go func() {
			defer c.i.wg.Done()
			c.dispatch(&f)
		}()
	}
}

func (c *serverConn) dispatch(f *frame) {
	start := time.Now()
	treq := &transport.Request{
		Caller:  c.caller,
		Object:  f.Object,
		Method:  f.Method,
		Headers: transport.HeadersFromMap(f.Headers),
		Body:    f.Body,
	}

	extract := transport.ExtractOpenTracingSpan{
		Tracer:        c.i.t.tracer,
		TransportName: transportName,
		StartTime:     start,
	}
	ctx, span := extract.Do(c.ctx, treq)
	res, err := c.handle(ctx, treq)
	_ = transport.UpdateSpanWithErr(span, err)
	span.Finish()

	out := frame{ID: f.ID, Err: wire.EncodeError(err)}
	if err == nil && res != nil {
		out.Headers = res.Headers.Items()
		out.Body = res.Body
	}
	if err := c.write(&out); err != nil && c.ctx.Err() == nil {
		c.i.t.logger.Warn("failed to write websocket response",
			zap.String("object", treq.Object),
			zap.String("method", treq.Method),
			zap.Error(err))
	}
}

func (c *serverConn) handle(ctx context.Context, treq *transport.Request) (*transport.Response, error) {
	if err := transport.ValidateRequest(treq); err != nil {
		return nil, err
	}
	h, err := c.i.getRouter().Choose(ctx, treq)
	if err != nil {
		return nil, err
	}
	return transport.InvokeUnaryHandler(transport.UnaryInvokeRequest{
		Context: ctx,
		Request: treq,
		Handler: h,
		Logger:  c.i.t.logger,
	})
}

func (c *serverConn) write(f *frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, b)
}
