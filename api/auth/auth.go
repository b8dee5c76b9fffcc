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

// Package auth defines identities, credentials and the pluggable
// authentication and delegation checks a connector server consults.
package auth

import (
	"context"
	"sort"
	"strings"
)

// Principal kinds used by the bundled authenticators.
const (
	UserPrincipal = "user"
	RolePrincipal = "role"
)

// Principal is one identity held by a Subject.
type Principal struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// String returns "kind:name".
func (p Principal) String() string {
	return p.Kind + ":" + p.Name
}

// Subject is a set of principals. A nil *Subject is the anonymous identity.
type Subject struct {
	Principals []Principal `json:"principals"`
}

// NewSubject builds a Subject from the given principals.
func NewSubject(principals ...Principal) *Subject {
	return &Subject{Principals: principals}
}

// User returns a Subject with a single user principal.
func User(name string) *Subject {
	return NewSubject(Principal{Kind: UserPrincipal, Name: name})
}

// Has reports whether the subject holds the principal.
func (s *Subject) Has(p Principal) bool {
	if s == nil {
		return false
	}
	for _, have := range s.Principals {
		if have == p {
			return true
		}
	}
	return false
}

// Names returns the principal names of the subject, sorted.
func (s *Subject) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Principals))
	for _, p := range s.Principals {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// String lists the principals of the subject.
func (s *Subject) String() string {
	if s == nil || len(s.Principals) == 0 {
		return "anonymous"
	}
	parts := make([]string, len(s.Principals))
	for i, p := range s.Principals {
		parts[i] = p.String()
	}
	return strings.Join(parts, ";")
}

// Credential types.
const (
	PasswordCredentials = "password"
	TokenCredentials    = "token"
)

// Credentials are presented by a client when it opens a session. A nil
// *Credentials means the client presented none.
type Credentials struct {
	Type     string `json:"type" config:"type"`
	Username string `json:"username,omitempty" config:"username"`
	Password string `json:"password,omitempty" config:"password"`
	Token    string `json:"token,omitempty" config:"token"`
}

// Authenticator verifies credentials.
type Authenticator interface {
	// Authenticate returns the Subject the credentials prove, or a security
	// error. The error must not reveal whether the identity or the secret
	// was wrong.
	Authenticate(ctx context.Context, creds *Credentials) (*Subject, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, creds *Credentials) (*Subject, error)

// Authenticate calls f(ctx, creds).
func (f AuthenticatorFunc) Authenticate(ctx context.Context, creds *Credentials) (*Subject, error) {
	return f(ctx, creds)
}

// AccessController decides whether an authenticated subject may act as a
// delegated one.
type AccessController interface {
	// CheckDelegation returns a security error if authenticated is not
	// allowed to execute calls as delegated.
	CheckDelegation(ctx context.Context, authenticated, delegated *Subject) error
}

// SecurityContext is the identity a single call executes under.
type SecurityContext struct {
	// Authenticated is the identity of the connection, nil if anonymous.
	Authenticated *Subject
	// Delegated is the identity the caller asked to act as, if any.
	Delegated *Subject
}

// Effective returns the identity the call runs as.
func (c *SecurityContext) Effective() *Subject {
	if c == nil {
		return nil
	}
	if c.Delegated != nil {
		return c.Delegated
	}
	return c.Authenticated
}

type securityContextKey struct{}

// WithSecurityContext returns a copy of ctx carrying sc.
func WithSecurityContext(ctx context.Context, sc *SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey{}, sc)
}

// FromContext returns the security context of the call, or nil.
func FromContext(ctx context.Context) *SecurityContext {
	sc, _ := ctx.Value(securityContextKey{}).(*SecurityContext)
	return sc
}
