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

// Package client implements a connector client: it resolves the handle of a
// connector server and opens a session through it. The session is checked
// when idle and replaced when lost; notifications for its listeners are
// relayed by a fetch loop.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/backoff"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/directory"
	"go.uber.org/mgmtrpc/api/transport"
	ibackoff "go.uber.org/mgmtrpc/internal/backoff"
	"go.uber.org/mgmtrpc/internal/config"
	"go.uber.org/mgmtrpc/internal/sampledlogger"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/mgmtrpc/serialize"
	"go.uber.org/mgmtrpc/transport/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type state int

const (
	notConnected state = iota
	connected
	terminated
)

type clientMetrics struct {
	connects           tally.Counter
	reconnects         tally.Counter
	reconnectFailures  tally.Counter
	retries            tally.Counter
	notificationsLost  tally.Counter
	connectionFailures tally.Counter
}

func newClientMetrics(scope tally.Scope) *clientMetrics {
	return &clientMetrics{
		connects:           scope.Counter("connects"),
		reconnects:         scope.Counter("reconnects"),
		reconnectFailures:  scope.Counter("reconnect_failures"),
		retries:            scope.Counter("retries"),
		notificationsLost:  scope.Counter("notifications_lost"),
		connectionFailures: scope.Counter("connection_failures"),
	}
}

// Connector is a client of one connector server.
type Connector struct {
	url    string
	handle connector.RemoteHandle

	attrs      config.AttributeMap
	creds      *auth.Credentials
	dir        directory.Directory
	logger     *zap.Logger
	fetchLog   *sampledlogger.Logger
	metrics    *clientMetrics
	clock      clock.Clock
	registry   *serialize.Registry
	expectKind string
	transport  *websocket.Transport
	backoff    backoff.Backoff

	// ctx is cancelled by Close to abort the calls of the background loops.
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup

	lastActivity atomic.Int64
	eventSeq     atomic.Int64
	recovery     singleflight.Group
	listeners    *listenerTable

	outMu    sync.Mutex
	outbound transport.Outbound

	mu       sync.Mutex
	state    state
	cfg      Config
	session  connector.Session
	connID   string
	epoch    uint64
	fetching bool
	// primed is the session a starting sequence number was taken from.
	primed       connector.Session
	primedSeq    int64
	observers    []observer
	nextObserver uint64
}

type observer struct {
	id uint64
	o  connector.ConnectionObserver
}

// New builds a Connector for the server at the given service URL. The URL
// is resolved by Connect.
func New(url string, opts ...Option) *Connector {
	return newConnector(url, nil, opts)
}

// NewWithHandle builds a Connector that opens its sessions through h.
func NewWithHandle(h connector.RemoteHandle, opts ...Option) *Connector {
	return newConnector("", h, opts)
}

func newConnector(url string, h connector.RemoteHandle, opts []Option) *Connector {
	o := newClientOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	// The default exponential options are always valid.
	exp, _ := ibackoff.NewExponential()
	return &Connector{
		url:        url,
		handle:     h,
		attrs:      config.AttributeMap(o.attrs),
		creds:      o.creds,
		dir:        o.directory,
		logger:     o.logger,
		fetchLog:   sampledlogger.New(o.logger, o.clock, time.Minute),
		metrics:    newClientMetrics(o.scope),
		clock:      o.clock,
		registry:   o.registry,
		expectKind: o.expectKind,
		transport:  o.transport,
		backoff:    exp.Backoff(),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		listeners:  newListenerTable(),
	}
}

// Connect opens a session with the attributes the Connector was built
// with. It does nothing if the Connector is connected and fails with a
// closed error once it was closed.
func (c *Connector) Connect(ctx context.Context) error {
	return c.ConnectWith(ctx, nil)
}

// ConnectWith is Connect with attrs overlaid on the Connector's attributes.
// Reconnects reuse them.
func (c *Connector) ConnectWith(ctx context.Context, attrs map[string]interface{}) error {
	c.mu.Lock()
	if done, err := c.connectedLocked(); done {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	cfg, err := NewConfig(c.attrs.Merge(config.AttributeMap(attrs)))
	if err != nil {
		return err
	}
	session, err := c.open(ctx, cfg)
	if err != nil {
		return err
	}
	id := c.sessionID(ctx, session)

	c.mu.Lock()
	if done, err := c.connectedLocked(); done {
		// Connected or closed while the session was being opened.
		c.mu.Unlock()
		if cerr := session.Close(ctx); cerr != nil {
			c.logger.Debug("failed to close unused session", zap.Error(cerr))
		}
		return err
	}
	c.cfg = cfg
	c.session = session
	c.connID = id
	c.state = connected
	c.epoch++
	c.listeners.reset(c.epoch)
	c.mu.Unlock()

	c.touch()
	if cfg.CheckPeriod > 0 {
		c.wg.Add(1)
		go c.checkLoop(cfg.CheckPeriod)
	}
	c.metrics.connects.Inc(1)
	c.logger.Info("connected", zap.String("connectionID", id))
	c.emit(connector.ConnectionEvent{Type: connector.Opened, ConnectionID: id, Message: "connected"})
	return nil
}

// connectedLocked reports whether Connect has nothing left to do, and what
// it returns then.
func (c *Connector) connectedLocked() (bool, error) {
	switch c.state {
	case connected:
		return true, nil
	case terminated:
		return true, mgmterrors.ClosedErrorf("connector is closed")
	}
	return false, nil
}

// Address returns the service URL the Connector was built with, or an
// empty string if it was built with a handle.
func (c *Connector) Address() string {
	return c.url
}

func (c *Connector) String() string {
	if c.url == "" {
		return fmt.Sprintf("client.Connector: handle=%T", c.handle)
	}
	return "client.Connector: url=" + c.url
}

// open resolves the handle and opens a session through it.
func (c *Connector) open(ctx context.Context, cfg Config) (connector.Session, error) {
	h, err := c.resolve(ctx, cfg)
	if err != nil {
		return nil, err
	}
	creds := c.creds
	if creds == nil {
		creds = cfg.Credentials
	}
	return h.NewClient(ctx, creds)
}

func (c *Connector) sessionID(ctx context.Context, s connector.Session) string {
	id, err := s.ConnectionID(ctx)
	if err != nil {
		c.logger.Warn("failed to get connection id", zap.Error(err))
	}
	return id
}

// Close closes the session and stops the background loops. Later calls
// fail with a closed error. Close is idempotent.
func (c *Connector) Close(ctx context.Context) error {
	return c.close(ctx, true)
}

// close terminates the Connector. The background loops call it with wait
// unset since they exit on their own once it returns.
func (c *Connector) close(ctx context.Context, wait bool) error {
	c.mu.Lock()
	if c.state == terminated {
		c.mu.Unlock()
		return nil
	}
	wasConnected := c.state == connected
	c.state = terminated
	session, id := c.session, c.connID
	c.session = nil
	c.mu.Unlock()

	c.cancel()
	close(c.done)

	if session != nil {
		if err := session.Close(ctx); err != nil {
			c.logger.Warn("failed to close session", zap.String("connectionID", id), zap.Error(err))
		}
	}
	if wait {
		c.wg.Wait()
	}

	var err error
	c.outMu.Lock()
	if c.outbound != nil {
		err = multierr.Append(err, c.outbound.Stop())
		c.outbound = nil
	}
	c.outMu.Unlock()

	if wasConnected {
		c.logger.Info("connection closed", zap.String("connectionID", id))
		c.emit(connector.ConnectionEvent{Type: connector.Closed, ConnectionID: id, Message: "closed"})
	}
	return err
}

// ConnectionID returns the id the server assigned to the current session.
func (c *Connector) ConnectionID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkConnectedLocked(); err != nil {
		return "", err
	}
	return c.connID, nil
}

// Connection returns a view of the Connector whose calls run as delegate,
// or as the connection's own identity if delegate is nil.
func (c *Connector) Connection(delegate *auth.Subject) *Connection {
	return &Connection{c: c, delegate: delegate}
}

// Subscribe registers an observer of connection events. The returned
// function removes it again.
func (c *Connector) Subscribe(o connector.ConnectionObserver) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextObserver++
	id := c.nextObserver
	c.observers = append(c.observers, observer{id: id, o: o})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, ob := range c.observers {
			if ob.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Connector) emit(ev connector.ConnectionEvent) {
	ev.Sequence = c.eventSeq.Inc()
	c.mu.Lock()
	observers := append([]observer(nil), c.observers...)
	c.mu.Unlock()
	for _, ob := range observers {
		ob.o.ConnectionEvent(ev)
	}
}

func (c *Connector) checkConnectedLocked() error {
	switch c.state {
	case terminated:
		return mgmterrors.ClosedErrorf("connector is closed")
	case notConnected:
		return mgmterrors.IllegalStateErrorf("connector is not connected")
	}
	return nil
}

// current returns the session calls should use and the epoch it belongs
// to. The epoch changes with every reconnect.
func (c *Connector) current() (connector.Session, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkConnectedLocked(); err != nil {
		return nil, 0, err
	}
	return c.session, c.epoch, nil
}

// epochOf returns the epoch of s if it is the current session.
func (c *Connector) epochOf(s connector.Session) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != connected || c.session != s {
		return 0, false
	}
	return c.epoch, true
}

func (c *Connector) config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *Connector) touch() {
	c.lastActivity.Store(c.clock.Now().UnixNano())
}
