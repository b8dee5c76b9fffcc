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

package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/mgmterrors"
	"golang.org/x/crypto/bcrypt"
)

func writePasswordFile(t *testing.T) string {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "passwords.yaml")
	contents := fmt.Sprintf("users:\n  alice:\n    password: %q\n    roles: [operator, auditor]\n  bob:\n    password: %q\n", hash, hash)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestFileAuthenticator(t *testing.T) {
	a, err := NewFileAuthenticator(writePasswordFile(t))
	require.NoError(t, err)

	tests := []struct {
		desc string
		give *auth.Credentials
		want *auth.Subject
	}{
		{
			desc: "user with roles",
			give: &auth.Credentials{Type: auth.PasswordCredentials, Username: "alice", Password: "s3cret"},
			want: auth.NewSubject(
				auth.Principal{Kind: auth.UserPrincipal, Name: "alice"},
				auth.Principal{Kind: auth.RolePrincipal, Name: "operator"},
				auth.Principal{Kind: auth.RolePrincipal, Name: "auditor"},
			),
		},
		{
			desc: "user without roles",
			give: &auth.Credentials{Type: auth.PasswordCredentials, Username: "bob", Password: "s3cret"},
			want: auth.User("bob"),
		},
		{
			desc: "wrong password",
			give: &auth.Credentials{Type: auth.PasswordCredentials, Username: "alice", Password: "nope"},
		},
		{
			desc: "unknown user",
			give: &auth.Credentials{Type: auth.PasswordCredentials, Username: "mallory", Password: "s3cret"},
		},
		{
			desc: "token credentials",
			give: &auth.Credentials{Type: auth.TokenCredentials, Token: "abc"},
		},
		{desc: "no credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := a.Authenticate(context.Background(), tt.give)
			if tt.want == nil {
				require.Error(t, err)
				assert.True(t, mgmterrors.IsSecurity(err))
				assert.Equal(t, "authentication failed", mgmterrors.FromError(err).Message(),
					"failures must not reveal which part was wrong")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordFileErrors(t *testing.T) {
	tests := []struct {
		desc string
		give string
	}{
		{desc: "not yaml", give: "users: [\n"},
		{desc: "unknown field", give: "people: {}\n"},
		{desc: "plain text password", give: "users:\n  alice:\n    password: hunter2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := ParsePasswordFile([]byte(tt.give))
			assert.True(t, mgmterrors.IsMalformedInput(err), "got %v", err)
		})
	}

	_, err := NewFileAuthenticator(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, mgmterrors.IsIllegalState(err), "got %v", err)
}

func TestDelegationFile(t *testing.T) {
	d, err := ParseDelegationFile([]byte(`
user:alice:
  - user:bob
  - role:*
role:admin:
  - "*"
`))
	require.NoError(t, err)

	admin := auth.NewSubject(auth.Principal{Kind: auth.UserPrincipal, Name: "carol"}, auth.Principal{Kind: auth.RolePrincipal, Name: "admin"})

	tests := []struct {
		desc          string
		authenticated *auth.Subject
		delegated     *auth.Subject
		wantErr       bool
	}{
		{desc: "explicit rule", authenticated: auth.User("alice"), delegated: auth.User("bob")},
		{desc: "kind wildcard", authenticated: auth.User("alice"), delegated: auth.NewSubject(auth.Principal{Kind: auth.RolePrincipal, Name: "ops"})},
		{desc: "global wildcard", authenticated: admin, delegated: auth.User("anyone")},
		{desc: "own principal", authenticated: auth.User("dave"), delegated: auth.User("dave")},
		{desc: "no rule", authenticated: auth.User("alice"), delegated: auth.User("eve"), wantErr: true},
		{desc: "no rules for subject", authenticated: auth.User("dave"), delegated: auth.User("bob"), wantErr: true},
		{desc: "partially allowed", authenticated: auth.User("alice"), delegated: auth.NewSubject(
			auth.Principal{Kind: auth.UserPrincipal, Name: "bob"},
			auth.Principal{Kind: auth.UserPrincipal, Name: "eve"},
		), wantErr: true},
		{desc: "anonymous", delegated: auth.User("bob"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := d.CheckDelegation(context.Background(), tt.authenticated, tt.delegated)
			if tt.wantErr {
				assert.True(t, mgmterrors.IsSecurity(err), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDelegationFileErrors(t *testing.T) {
	_, err := ParseDelegationFile([]byte("alice:\n  - user:bob\n"))
	assert.True(t, mgmterrors.IsMalformedInput(err), "got %v", err)

	_, err = NewDelegationFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, mgmterrors.IsIllegalState(err), "got %v", err)
}
