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

package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/mgmterrors"
)

var _secret = []byte("0123456789abcdef")

func token(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key interface{}) string {
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuthenticate(t *testing.T) {
	a, err := New(_secret, Issuer("mgmt-idp"), Audience("mgmtrpc"))
	require.NoError(t, err)

	valid, err := Sign(_secret, "alice", []string{"operator"}, time.Minute, Issuer("mgmt-idp"), Audience("mgmtrpc"))
	require.NoError(t, err)
	exp := time.Now().Add(time.Minute).Unix()

	tests := []struct {
		desc string
		give *auth.Credentials
		want *auth.Subject
	}{
		{
			desc: "valid token",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: valid},
			want: auth.NewSubject(
				auth.Principal{Kind: auth.UserPrincipal, Name: "alice"},
				auth.Principal{Kind: auth.RolePrincipal, Name: "operator"},
			),
		},
		{
			desc: "wrong issuer",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: token(t,
				jwt.MapClaims{"sub": "alice", "iss": "other", "aud": "mgmtrpc", "exp": exp},
				jwt.SigningMethodHS256, _secret)},
		},
		{
			desc: "wrong audience",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: token(t,
				jwt.MapClaims{"sub": "alice", "iss": "mgmt-idp", "aud": "other", "exp": exp},
				jwt.SigningMethodHS256, _secret)},
		},
		{
			desc: "expired",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: token(t,
				jwt.MapClaims{"sub": "alice", "iss": "mgmt-idp", "aud": "mgmtrpc", "exp": time.Now().Add(-time.Hour).Unix()},
				jwt.SigningMethodHS256, _secret)},
		},
		{
			desc: "no expiry",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: token(t,
				jwt.MapClaims{"sub": "alice", "iss": "mgmt-idp", "aud": "mgmtrpc"},
				jwt.SigningMethodHS256, _secret)},
		},
		{
			desc: "wrong secret",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: token(t,
				jwt.MapClaims{"sub": "alice", "iss": "mgmt-idp", "aud": "mgmtrpc", "exp": exp},
				jwt.SigningMethodHS256, []byte("another secret!!"))},
		},
		{
			desc: "other algorithm",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: token(t,
				jwt.MapClaims{"sub": "alice", "iss": "mgmt-idp", "aud": "mgmtrpc", "exp": exp},
				jwt.SigningMethodHS512, _secret)},
		},
		{
			desc: "missing subject",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: token(t,
				jwt.MapClaims{"iss": "mgmt-idp", "aud": "mgmtrpc", "exp": exp},
				jwt.SigningMethodHS256, _secret)},
		},
		{
			desc: "password credentials",
			give: &auth.Credentials{Type: auth.PasswordCredentials, Username: "alice", Password: "x"},
		},
		{desc: "no credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := a.Authenticate(context.Background(), tt.give)
			if tt.want == nil {
				assert.True(t, mgmterrors.IsSecurity(err), "got %v", err)
				assert.Equal(t, "authentication failed", mgmterrors.FromError(err).Message())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCustomRoleClaim(t *testing.T) {
	a, err := New(_secret, RoleClaim("groups"))
	require.NoError(t, err)

	tok := token(t, jwt.MapClaims{
		"sub":    "bob",
		"groups": "admins",
		"exp":    time.Now().Add(time.Minute).Unix(),
	}, jwt.SigningMethodHS256, _secret)

	got, err := a.Authenticate(context.Background(), &auth.Credentials{Type: auth.TokenCredentials, Token: tok})
	require.NoError(t, err)
	assert.True(t, got.Has(auth.Principal{Kind: auth.RolePrincipal, Name: "admins"}))
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(nil)
	assert.True(t, mgmterrors.IsMalformedInput(err), "got %v", err)
}
