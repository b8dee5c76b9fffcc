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
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/mgmtrpc"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/backend/memory"
	dirmemory "go.uber.org/mgmtrpc/directory/memory"
	"go.uber.org/mgmtrpc/mgmterrors"
)

var (
	_cache = mgmt.MustParseName("app:type=Cache")
	_bob   = auth.NewSubject(
		auth.Principal{Kind: auth.UserPrincipal, Name: "bob"},
		auth.Principal{Kind: auth.RolePrincipal, Name: "admin"},
	)
)

func newBackend(t *testing.T) *memory.Backend {
	b := memory.New(memory.Domain("app"))
	_, err := b.Register(_cache, memory.NewObject("Cache", "").Var("Size", "int", 1, true))
	require.NoError(t, err)
	return b
}

func startServer(t *testing.T, backend mgmt.Backend, opts ...Option) *Server {
	s := New(backend, opts...)
	require.NoError(t, s.Start())
	return s
}

// passwords accepts bob with the password "secret".
func passwords() auth.Authenticator {
	return auth.AuthenticatorFunc(func(_ context.Context, c *auth.Credentials) (*auth.Subject, error) {
		if c == nil {
			return nil, mgmterrors.SecurityErrorf("credentials required")
		}
		if c.Username != "bob" || c.Password != "secret" {
			return nil, mgmterrors.SecurityErrorf("wrong password for %q", c.Username)
		}
		return _bob, nil
	})
}

type events struct {
	mu  sync.Mutex
	got []connector.ConnectionEvent
}

func (e *events) ConnectionEvent(ev connector.ConnectionEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.got = append(e.got, ev)
}

func (e *events) types() []connector.ConnectionEventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	var types []connector.ConnectionEventType
	for _, ev := range e.got {
		types = append(types, ev.Type)
	}
	return types
}

func TestStartRequiresBackend(t *testing.T) {
	err := New(nil).Start()
	assert.True(t, mgmterrors.IsIllegalState(err), "got %v", err)
}

func TestStartErrors(t *testing.T) {
	tests := []struct {
		desc    string
		opts    []Option
		wantErr func(error) bool
	}{
		{
			desc:    "login config without authenticator",
			opts:    []Option{Attributes(map[string]interface{}{AttrLoginConfig: "MgmtLogin"})},
			wantErr: mgmterrors.IsIllegalState,
		},
		{
			desc:    "missing password file",
			opts:    []Option{Attributes(map[string]interface{}{AttrPasswordFile: "/does/not/exist.yaml"})},
			wantErr: mgmterrors.IsIllegalState,
		},
		{
			desc:    "bad buffer size",
			opts:    []Option{Attributes(map[string]interface{}{AttrBufferSize: 0})},
			wantErr: mgmterrors.IsMalformedInput,
		},
		{
			desc:    "bad serial filter",
			opts:    []Option{Attributes(map[string]interface{}{AttrSerialFilter: "maxdepth=x"})},
			wantErr: mgmterrors.IsMalformedInput,
		},
		{
			desc:    "directory name without inbound",
			opts:    []Option{Attributes(map[string]interface{}{AttrDirectoryName: "cache"}), Directory(dirmemory.New())},
			wantErr: mgmterrors.IsIllegalState,
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := New(newBackend(t), tt.opts...).Start()
			assert.True(t, tt.wantErr(err), "got %v", err)
		})
	}
}

func TestLoginConfigWithAuthenticator(t *testing.T) {
	s := startServer(t, newBackend(t),
		Attributes(map[string]interface{}{AttrLoginConfig: "MgmtLogin"}),
		Authenticator(passwords()))
	assert.NoError(t, s.Stop())
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConnectionTimeout, cfg.ConnectionTimeout)
	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, []string{"password", "token"}, cfg.CredentialTypes)
	assert.Equal(t, "ws", cfg.Protocol)

	cfg, err = NewConfig(map[string]interface{}{
		AttrConnectionTimeout: "30s",
		AttrCredentialTypes:   []interface{}{"token"},
		AttrDirectoryRebind:   true,
		"unrelated.key":       1,
	})
	require.NoError(t, err)
	assert.Equal(t, "30s", cfg.ConnectionTimeout.String())
	assert.Equal(t, []string{"token"}, cfg.CredentialTypes)
	assert.True(t, cfg.DirectoryRebind)
}

func TestConfigCredentialTypesReplaceDefaults(t *testing.T) {
	cfg, err := NewConfig(map[string]interface{}{
		AttrCredentialTypes: []interface{}{"password"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"password"}, cfg.CredentialTypes)
	assert.True(t, cfg.acceptsCredentials(auth.PasswordCredentials))
	assert.False(t, cfg.acceptsCredentials(auth.TokenCredentials))

	cfg, err = NewConfig(map[string]interface{}{AttrCredentialTypes: []interface{}{}})
	require.NoError(t, err)
	assert.Equal(t, DefaultCredentialTypes(), cfg.CredentialTypes)
}

func TestLifecycle(t *testing.T) {
	s := startServer(t, newBackend(t))
	require.NoError(t, s.Start(), "start is idempotent")
	assert.True(t, s.IsRunning())

	version, err := s.Handle().Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mgmtrpc.Version, version)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	err = s.Start()
	assert.True(t, mgmterrors.IsIllegalState(err), "got %v", err)
	_, err = s.Handle().NewClient(context.Background(), nil)
	assert.True(t, mgmterrors.IsIllegalState(err), "got %v", err)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		desc    string
		opts    []Option
		give    *auth.Credentials
		wantID  string
		wantErr bool
	}{
		{
			desc:   "anonymous",
			wantID: "ws:  1",
		},
		{
			desc:   "credentials without authenticator",
			give:   &auth.Credentials{Type: auth.PasswordCredentials, Username: "bob"},
			wantID: "ws:  1",
		},
		{
			desc:   "authenticated",
			opts:   []Option{Authenticator(passwords())},
			give:   &auth.Credentials{Type: auth.PasswordCredentials, Username: "bob", Password: "secret"},
			wantID: "ws: bob;admin 1",
		},
		{
			desc:    "wrong password",
			opts:    []Option{Authenticator(passwords())},
			give:    &auth.Credentials{Type: auth.PasswordCredentials, Username: "bob", Password: "guess"},
			wantErr: true,
		},
		{
			desc:    "no credentials",
			opts:    []Option{Authenticator(passwords())},
			wantErr: true,
		},
		{
			desc: "credential type not accepted",
			opts: []Option{
				Authenticator(passwords()),
				Attributes(map[string]interface{}{AttrCredentialTypes: []interface{}{"token"}}),
			},
			give:    &auth.Credentials{Type: auth.PasswordCredentials, Username: "bob", Password: "secret"},
			wantErr: true,
		},
		{
			desc: "token credentials when only passwords are accepted",
			opts: []Option{
				Authenticator(passwords()),
				Attributes(map[string]interface{}{AttrCredentialTypes: []interface{}{"password"}}),
			},
			give:    &auth.Credentials{Type: auth.TokenCredentials, Token: "secret"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			scope := tally.NewTestScope("", nil)
			s := startServer(t, newBackend(t), append(tt.opts, Tally(scope))...)
			defer s.Stop()

			session, err := s.Handle().NewClient(context.Background(), tt.give)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, mgmterrors.IsSecurity(err), "got %v", err)
				assert.Equal(t, "authentication failed", mgmterrors.FromError(err).Message(),
					"the failure must not tell what was wrong")
				assert.Empty(t, s.Sessions())
				assert.Equal(t, int64(1), scope.Snapshot().Counters()["auth_failures+"].Value())
				return
			}
			require.NoError(t, err)
			id, err := session.ConnectionID(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, []string{id}, s.Sessions())
			assert.Equal(t, int64(1), scope.Snapshot().Counters()["sessions_opened+"].Value())
		})
	}
}

func TestConnectionID(t *testing.T) {
	s := New(nil)
	odd := auth.NewSubject(
		auth.Principal{Kind: auth.UserPrincipal, Name: "ann marie"},
		auth.Principal{Kind: auth.RolePrincipal, Name: "a;b"},
	)

	tests := []struct {
		desc    string
		caller  string
		subject *auth.Subject
		want    string
	}{
		{desc: "in-process", want: "ws:  1"},
		{desc: "ipv4", caller: "10.0.0.1:4040", subject: auth.User("bob"), want: "ws://10.0.0.1 bob 2"},
		{desc: "ipv6", caller: "[::1]:4040", want: "ws://[::1]  3"},
		{desc: "no port", caller: "example.com", want: "ws://example.com  4"},
		{desc: "sanitized principals", subject: odd, want: "ws: ann_marie;a:b 5"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, s.connectionID(tt.caller, tt.subject))
		})
	}
}

func TestObserverRefusesSession(t *testing.T) {
	s := startServer(t, newBackend(t))
	defer s.Stop()

	ev := &events{}
	s.Subscribe(ev)
	s.Subscribe(connector.ConnectionObserverFunc(func(e connector.ConnectionEvent) {
		if e.Type == connector.Opened {
			require.NoError(t, s.CloseSession(context.Background(), e.ConnectionID))
		}
	}))

	_, err := s.Handle().NewClient(context.Background(), nil)
	assert.True(t, mgmterrors.IsRefused(err), "got %v", err)
	assert.Empty(t, s.Sessions())
	assert.Equal(t, []connector.ConnectionEventType{connector.Opened, connector.Closed}, ev.types())
}

func TestStopClosesSessions(t *testing.T) {
	s := startServer(t, newBackend(t))
	ev := &events{}
	s.Subscribe(ev)

	ctx := context.Background()
	first, err := s.Handle().NewClient(ctx, nil)
	require.NoError(t, err)
	second, err := s.Handle().NewClient(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, s.Sessions(), 2)

	require.NoError(t, s.Stop())
	assert.Empty(t, s.Sessions())
	assert.Equal(t, []connector.ConnectionEventType{
		connector.Opened, connector.Opened, connector.Closed, connector.Closed,
	}, ev.types())

	for _, session := range []connector.Session{first, second} {
		_, err := session.GetDefaultDomain(ctx, nil)
		assert.True(t, mgmterrors.IsClosed(err), "got %v", err)
		assert.NoError(t, session.Close(ctx))
	}
}

func TestCloseSessionUnknown(t *testing.T) {
	s := startServer(t, newBackend(t))
	defer s.Stop()
	err := s.CloseSession(context.Background(), "ws:  42")
	assert.True(t, mgmterrors.IsNotFound(err), "got %v", err)
}

type failingDirectory struct{ *dirmemory.Directory }

func (failingDirectory) Unbind(context.Context, string) error {
	return errors.New("directory unavailable")
}

func TestStopReportsUnbindFailure(t *testing.T) {
	s := New(newBackend(t))
	require.NoError(t, s.Start())
	// Pretend the handle was bound.
	s.directory = failingDirectory{dirmemory.New()}
	s.bound = true
	s.cfg.DirectoryName = "cache"

	err := s.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory unavailable")
}
