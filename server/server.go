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

// Package server implements a connector server: it authenticates clients,
// opens a session per connection and exposes the management backend through
// those sessions, in-process and over a transport inbound.
package server

import (
	"context"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/juju/clock"
	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/mgmtrpc"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/directory"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/api/transport"
	authfile "go.uber.org/mgmtrpc/auth"
	"go.uber.org/mgmtrpc/directory/redis"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/mgmtrpc/notify"
	"go.uber.org/mgmtrpc/pkg/lifecycle"
	"go.uber.org/mgmtrpc/serialize"
	objects "go.uber.org/mgmtrpc/transport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type serverMetrics struct {
	sessionsOpened  tally.Counter
	sessionsClosed  tally.Counter
	sessionsRefused tally.Counter
	authFailures    tally.Counter
	calls           tally.Counter
	callFailures    tally.Counter
	serverFatal     tally.Counter
}

func newServerMetrics(scope tally.Scope) *serverMetrics {
	return &serverMetrics{
		sessionsOpened:  scope.Counter("sessions_opened"),
		sessionsClosed:  scope.Counter("sessions_closed"),
		sessionsRefused: scope.Counter("sessions_refused"),
		authFailures:    scope.Counter("auth_failures"),
		calls:           scope.Counter("calls"),
		callFailures:    scope.Counter("call_failures"),
		serverFatal:     scope.Counter("server_fatal"),
	}
}

// Server is a connector server over a management backend.
type Server struct {
	once    *lifecycle.Once
	backend mgmt.Backend
	cfg     Config
	cfgErr  error

	authn     auth.Authenticator
	access    auth.AccessController
	inbound   transport.Inbound
	directory directory.Directory
	logger    *zap.Logger
	tracer    opentracing.Tracer
	clock     clock.Clock
	registry  *serialize.Registry
	metrics   *serverMetrics

	objects  *objects.ObjectTable
	handle   *handle
	handleID string
	bound    bool

	// counter numbers connection ids.
	counter  atomic.Int64
	eventSeq atomic.Int64

	bufMu sync.Mutex
	buf   *notify.Buffer

	mu        sync.Mutex
	sessions  map[string]*session
	observers []connector.ConnectionObserver
	stopped   bool
}

// New builds a Server over backend. Configuration problems are reported by
// Start.
func New(backend mgmt.Backend, opts ...Option) *Server {
	o := newServerOptions(opts)
	cfg, err := NewConfig(o.attrs)
	s := &Server{
		once:      lifecycle.NewOnce(),
		backend:   backend,
		cfg:       cfg,
		cfgErr:    err,
		authn:     o.authn,
		access:    o.access,
		inbound:   o.inbound,
		directory: o.directory,
		logger:    o.logger,
		tracer:    o.tracer,
		clock:     o.clock,
		registry:  o.registry.WithFilter(cfg.filter),
		metrics:   newServerMetrics(o.scope),
		objects:   objects.NewObjectTable(),
		sessions:  make(map[string]*session),
	}
	s.handle = &handle{s: s}
	return s
}

// Config returns the decoded server configuration.
func (s *Server) Config() Config {
	return s.cfg
}

// Start exports the handle, starts the inbound and binds the handle
// reference in the directory when configured to. Start is idempotent while
// started and fails once the server stopped.
func (s *Server) Start() error {
	return s.once.Start(s.start)
}

func (s *Server) start() error {
	if s.cfgErr != nil {
		return s.cfgErr
	}
	if s.backend == nil {
		return mgmterrors.IllegalStateErrorf("connector server has no management backend")
	}
	if err := s.setupAuthenticator(); err != nil {
		return err
	}

	obj := newHandleObject(s.handle)
	if err := s.objects.ExportAs(connector.HandleObjectID, obj); err != nil {
		return err
	}
	s.handleID = s.objects.Export(obj)

	if s.inbound != nil {
		s.inbound.SetRouter(s.objects)
		if err := s.inbound.Start(); err != nil {
			s.unexportHandle()
			return err
		}
	}

	if s.cfg.DirectoryName != "" {
		if err := s.bind(context.Background()); err != nil {
			var stopErr error
			if s.inbound != nil {
				stopErr = s.inbound.Stop()
			}
			s.unexportHandle()
			return multierr.Append(err, stopErr)
		}
	}

	s.logger.Info("connector server started",
		zap.String("address", s.Address()),
		zap.String("handle", s.handleID))
	return nil
}

func (s *Server) setupAuthenticator() error {
	if s.authn != nil {
		return nil
	}
	if s.cfg.PasswordFile != "" {
		a, err := authfile.NewFileAuthenticator(s.cfg.PasswordFile)
		if err != nil {
			return err
		}
		s.authn = a
		return nil
	}
	if s.cfg.LoginConfig != "" {
		// Login configurations are evaluated by an external module; without
		// an explicit authenticator nobody could log in.
		return mgmterrors.IllegalStateErrorf("%s %q requires an authenticator", AttrLoginConfig, s.cfg.LoginConfig)
	}
	return nil
}

func (s *Server) reference() connector.Reference {
	return connector.Reference{
		Kind:    connector.HandleKind,
		Address: s.inbound.Address(),
		Object:  s.handleID,
	}
}

func (s *Server) bind(ctx context.Context) error {
	if s.inbound == nil {
		return mgmterrors.IllegalStateErrorf("binding %q in a directory requires an inbound", s.cfg.DirectoryName)
	}
	if s.directory == nil {
		if len(s.cfg.DirectoryProperties) == 0 {
			return mgmterrors.IllegalStateErrorf("binding %q requires a directory", s.cfg.DirectoryName)
		}
		d, err := redis.NewFromProperties(ctx, s.cfg.DirectoryProperties)
		if err != nil {
			return err
		}
		s.directory = d
	}
	if err := s.directory.Bind(ctx, s.cfg.DirectoryName, s.reference().Encode(), s.cfg.DirectoryRebind); err != nil {
		return err
	}
	s.bound = true
	return nil
}

func (s *Server) unexportHandle() bool {
	a := s.objects.Unexport(connector.HandleObjectID)
	b := s.objects.Unexport(s.handleID)
	return a && b
}

// Stop closes the handle, then every session, then removes the directory
// binding. It keeps going after failures and reports them all.
func (s *Server) Stop() error {
	return s.once.Stop(s.stop)
}

func (s *Server) stop() error {
	var serverErr, sessionErr error
	if !s.unexportHandle() {
		serverErr = mgmterrors.IllegalStateErrorf("connector handle was not exported")
	}

	s.mu.Lock()
	s.stopped = true
	live := make([]*session, 0, len(s.sessions))
	for _, ss := range s.sessions {
		live = append(live, ss)
	}
	s.mu.Unlock()

	ctx := context.Background()
	for _, ss := range live {
		if err := ss.Close(ctx); err != nil && sessionErr == nil {
			sessionErr = err
		}
	}

	if s.inbound != nil {
		if err := s.inbound.Stop(); err != nil && serverErr == nil {
			serverErr = err
		}
	}

	var unbindErr error
	if s.bound {
		unbindErr = s.directory.Unbind(ctx, s.cfg.DirectoryName)
	}
	s.logger.Info("connector server stopped", zap.Int("closedSessions", len(live)))
	return multierr.Combine(serverErr, sessionErr, unbindErr)
}

// IsRunning returns whether the server is started.
func (s *Server) IsRunning() bool {
	return s.once.IsRunning()
}

// Handle returns the in-process handle of the server.
func (s *Server) Handle() connector.RemoteHandle {
	return s.handle
}

// Address returns the service URL clients connect with, embedding the
// handle reference, or "" if the server has no inbound or is not started.
func (s *Server) Address() string {
	if s.inbound == nil || s.handleID == "" {
		return ""
	}
	host := ""
	if u, err := url.Parse(s.inbound.Address()); err == nil {
		host = u.Host
	}
	return connector.StubURL(s.cfg.Protocol, host, s.reference())
}

// Subscribe registers an observer of session events.
func (s *Server) Subscribe(o connector.ConnectionObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Sessions returns the ids of the live sessions, sorted.
func (s *Server) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CloseSession closes the session with the given connection id.
func (s *Server) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	ss, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return mgmterrors.NotFoundErrorf("no session %q", id)
	}
	return ss.Close(ctx)
}

func (s *Server) buffer() *notify.Buffer {
	s.bufMu.Lock()
	defer s.bufMu.Unlock()
	if s.buf == nil {
		s.buf = notify.NewBuffer(s.backend,
			notify.Size(s.cfg.BufferSize),
			notify.Clock(s.clock),
			notify.Logger(s.logger))
	}
	return s.buf
}

// newClient authenticates creds and opens a session for the peer at
// caller, which may be empty for in-process clients.
func (s *Server) newClient(ctx context.Context, caller string, creds *auth.Credentials) (*session, error) {
	if s.once.State() != lifecycle.Started {
		return nil, mgmterrors.IllegalStateErrorf("connector server is %v", s.once.State())
	}

	subject, err := s.authenticate(ctx, creds)
	if err != nil {
		s.metrics.authFailures.Inc(1)
		s.logger.Debug("authentication failed", zap.String("caller", caller), zap.Error(err))
		return nil, mgmterrors.SecurityErrorf("authentication failed")
	}

	ss := newSession(s, s.connectionID(caller, subject), subject)
	ss.objectID = s.objects.Export(newSessionObject(ss, s.registry))

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.objects.Unexport(ss.objectID)
		ss.admin.terminate()
		return nil, mgmterrors.IllegalStateErrorf("connector server is stopped")
	}
	s.sessions[ss.id] = ss
	s.mu.Unlock()

	s.metrics.sessionsOpened.Inc(1)
	s.logger.Info("session opened", zap.String("connectionID", ss.id), zap.String("caller", caller))
	s.notify(connector.ConnectionEvent{Type: connector.Opened, ConnectionID: ss.id, Message: "connection opened"})

	s.mu.Lock()
	_, live := s.sessions[ss.id]
	s.mu.Unlock()
	if !live {
		s.metrics.sessionsRefused.Inc(1)
		return nil, mgmterrors.RefusedErrorf("connection %q was refused", ss.id)
	}
	return ss, nil
}

func (s *Server) authenticate(ctx context.Context, creds *auth.Credentials) (*auth.Subject, error) {
	if creds != nil && !s.cfg.acceptsCredentials(creds.Type) {
		return nil, mgmterrors.SecurityErrorf("credential type %q is not accepted", creds.Type)
	}
	if s.authn == nil {
		return nil, nil
	}
	return s.authn.Authenticate(ctx, creds)
}

// connectionID builds "<protocol>:[//<host>] <principals> <counter>".
func (s *Server) connectionID(caller string, subject *auth.Subject) string {
	var b strings.Builder
	b.WriteString(s.cfg.Protocol)
	b.WriteString(":")
	if host := callerHost(caller); host != "" {
		b.WriteString("//")
		b.WriteString(host)
	}
	b.WriteString(" ")
	if subject != nil {
		names := make([]string, len(subject.Principals))
		for i, p := range subject.Principals {
			names[i] = strings.NewReplacer(" ", "_", ";", ":").Replace(p.Name)
		}
		b.WriteString(strings.Join(names, ";"))
	}
	b.WriteString(" ")
	b.WriteString(strconv.FormatInt(s.counter.Inc(), 10))
	return b.String()
}

func callerHost(caller string) string {
	if caller == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(caller)
	if err != nil {
		host = caller
	}
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

func (s *Server) sessionClosed(ss *session) {
	s.objects.Unexport(ss.objectID)
	s.mu.Lock()
	_, ok := s.sessions[ss.id]
	delete(s.sessions, ss.id)
	s.mu.Unlock()
	if !ok {
		return
	}
	s.metrics.sessionsClosed.Inc(1)
	s.logger.Info("session closed", zap.String("connectionID", ss.id))
	s.notify(connector.ConnectionEvent{Type: connector.Closed, ConnectionID: ss.id, Message: "connection closed"})
}

// notify delivers ev to the observers in registration order.
func (s *Server) notify(ev connector.ConnectionEvent) {
	ev.Sequence = s.eventSeq.Inc()
	s.mu.Lock()
	observers := append([]connector.ConnectionObserver(nil), s.observers...)
	s.mu.Unlock()
	for _, o := range observers {
		o.ConnectionEvent(ev)
	}
}

// handle is the RemoteHandle of a Server.
type handle struct {
	s *Server
}

var (
	_ connector.RemoteHandle = (*handle)(nil)
	_ connector.Kinded       = (*handle)(nil)
)

func (h *handle) Kind() string {
	return connector.HandleKind
}

func (h *handle) Version(context.Context) (string, error) {
	return mgmtrpc.Version, nil
}

func (h *handle) NewClient(ctx context.Context, creds *auth.Credentials) (connector.Session, error) {
	ss, err := h.s.newClient(ctx, "", creds)
	if err != nil {
		return nil, err
	}
	return ss, nil
}
