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
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/mgmtrpc/pkg/lifecycle"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var _ transport.Inbound = (*Inbound)(nil)

// Inbound accepts websocket connections on a listener and dispatches the
// calls they carry to its router.
type Inbound struct {
	once     *lifecycle.Once
	lock     sync.Mutex
	t        *Transport
	router   transport.Router
	listener net.Listener
	server   *http.Server
	upgrader websocket.Upgrader

	// ctx is cancelled when the inbound stops, ending every call in flight.
	ctx    context.Context
	cancel context.CancelFunc

	connsMu sync.Mutex
	conns   map[*serverConn]struct{}
	wg      sync.WaitGroup
}

func newInbound(t *Transport, listener net.Listener) *Inbound {
	ctx, cancel := context.WithCancel(context.Background())
	return &Inbound{
		once:     lifecycle.NewOnce(),
		t:        t,
		listener: listener,
		ctx:      ctx,
		cancel:   cancel,
		conns:    make(map[*serverConn]struct{}),
	}
}

// Start implements transport.Lifecycle#Start.
func (i *Inbound) Start() error {
	return i.once.Start(i.start)
}

// Stop implements transport.Lifecycle#Stop.
func (i *Inbound) Stop() error {
	return i.once.Stop(i.stop)
}

// IsRunning implements transport.Lifecycle#IsRunning.
func (i *Inbound) IsRunning() bool {
	return i.once.IsRunning()
}

// SetRouter implements transport.Inbound#SetRouter.
func (i *Inbound) SetRouter(router transport.Router) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.router = router
}

// Address returns the address outbounds dial to reach this inbound.
func (i *Inbound) Address() string {
	return "ws://" + i.listener.Addr().String() + connector.EndpointPath
}

func (i *Inbound) getRouter() transport.Router {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.router
}

func (i *Inbound) start() error {
	if i.getRouter() == nil {
		return mgmterrors.IllegalStateErrorf("router not set on websocket inbound %v", i.listener.Addr())
	}

	mux := http.NewServeMux()
	mux.HandleFunc(connector.EndpointPath, newHandler(i).handle)
	i.server = &http.Server{Handler: mux}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		if err := i.server.Serve(i.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			i.t.logger.Error("websocket inbound stopped serving", zap.Error(err))
		}
	}()
	i.t.logger.Info("websocket inbound started", zap.String("address", i.Address()))
	return nil
}

func (i *Inbound) stop() error {
	var err error
	if i.server != nil {
		err = i.server.Close()
	} else {
		err = i.listener.Close()
	}
	i.cancel()
	err = multierr.Append(err, i.closeConns())
	i.wg.Wait()
	return err
}

func (i *Inbound) addConn(c *serverConn) bool {
	i.connsMu.Lock()
	defer i.connsMu.Unlock()
	if i.ctx.Err() != nil {
		return false
	}
	i.conns[c] = struct{}{}
	// Added under the lock so that stop cannot miss the read loop.
	i.wg.Add(1)
	return true
}

func (i *Inbound) removeConn(c *serverConn) {
	i.connsMu.Lock()
	delete(i.conns, c)
	i.connsMu.Unlock()
}

// closeConns closes every accepted connection. Calls in flight on them are
// cancelled and their responses dropped.
func (i *Inbound) closeConns() error {
	i.connsMu.Lock()
	conns := make([]*serverConn, 0, len(i.conns))
	for c := range i.conns {
		conns = append(conns, c)
	}
	i.connsMu.Unlock()

	var err error
	for _, c := range conns {
		err = multierr.Append(err, c.close())
	}
	return err
}
