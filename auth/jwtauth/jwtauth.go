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

// Package jwtauth authenticates token credentials carrying HMAC signed JSON
// web tokens.
package jwtauth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
)

const _authFailed = "authentication failed"

var _ auth.Authenticator = (*Authenticator)(nil)

// Option configures an Authenticator.
type Option func(*options)

type options struct {
	issuer    string
	audience  string
	leeway    time.Duration
	roleClaim string
	logger    *zap.Logger
}

// Issuer requires tokens to carry this issuer.
func Issuer(iss string) Option {
	return func(o *options) { o.issuer = iss }
}

// Audience requires tokens to be issued for this audience.
func Audience(aud string) Option {
	return func(o *options) { o.audience = aud }
}

// Leeway tolerates clock skew when checking expiry.
func Leeway(d time.Duration) Option {
	return func(o *options) { o.leeway = d }
}

// RoleClaim names the claim listing the token's roles. Defaults to "roles".
func RoleClaim(name string) Option {
	return func(o *options) { o.roleClaim = name }
}

// Logger records why tokens were rejected. Rejection reasons are never
// returned to callers.
func Logger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Authenticator verifies HS256 tokens presented as token credentials. The
// "sub" claim becomes a user principal and every entry of the role claim
// becomes a role principal.
type Authenticator struct {
	secret    []byte
	parser    *jwt.Parser
	roleClaim string
	logger    *zap.Logger
}

// New builds an Authenticator for tokens signed with secret.
func New(secret []byte, opts ...Option) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, mgmterrors.MalformedInputErrorf("a token signing secret is required")
	}
	o := options{roleClaim: "roles", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(o.leeway),
	}
	if o.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(o.issuer))
	}
	if o.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(o.audience))
	}
	return &Authenticator{
		secret:    secret,
		parser:    jwt.NewParser(parserOpts...),
		roleClaim: o.roleClaim,
		logger:    o.logger,
	}, nil
}

// Authenticate implements auth.Authenticator.
func (a *Authenticator) Authenticate(ctx context.Context, creds *auth.Credentials) (*auth.Subject, error) {
	if creds == nil || creds.Type != auth.TokenCredentials || creds.Token == "" {
		return nil, mgmterrors.SecurityErrorf(_authFailed)
	}

	claims := jwt.MapClaims{}
	_, err := a.parser.ParseWithClaims(creds.Token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		a.logger.Debug("rejected token", zap.Error(err))
		return nil, mgmterrors.SecurityErrorf(_authFailed)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		a.logger.Debug("rejected token without subject")
		return nil, mgmterrors.SecurityErrorf(_authFailed)
	}

	principals := []auth.Principal{{Kind: auth.UserPrincipal, Name: sub}}
	for _, role := range stringList(claims[a.roleClaim]) {
		principals = append(principals, auth.Principal{Kind: auth.RolePrincipal, Name: role})
	}
	return auth.NewSubject(principals...), nil
}

// Sign issues a token for subject with the given roles, valid for ttl. It is
// meant for tooling and tests; production tokens come from an identity
// provider.
func Sign(secret []byte, subject string, roles []string, ttl time.Duration, opts ...Option) (string, error) {
	o := options{roleClaim: "roles"}
	for _, opt := range opts {
		opt(&o)
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if len(roles) > 0 {
		claims[o.roleClaim] = roles
	}
	if o.issuer != "" {
		claims["iss"] = o.issuer
	}
	if o.audience != "" {
		claims["aud"] = o.audience
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func stringList(v interface{}) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
