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

// Package auth provides the file based authenticator and delegation access
// controller a connector server can be configured with.
package auth

import (
	"context"
	"os"
	"sync"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/mgmterrors"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v2"
)

// _authFailed is the only message authentication failures carry, so that
// callers cannot tell an unknown user from a wrong password.
const _authFailed = "authentication failed"

var _ auth.Authenticator = (*FileAuthenticator)(nil)

type passwordFile struct {
	Users map[string]userEntry `yaml:"users"`
}

type userEntry struct {
	// Password is a bcrypt hash.
	Password string   `yaml:"password"`
	Roles    []string `yaml:"roles"`
}

// FileAuthenticator authenticates password credentials against a YAML file
// of bcrypt hashes:
//
//	users:
//	  alice:
//	    password: $2a$10$...
//	    roles: [operator]
//
// An authenticated user's subject holds a user principal and one role
// principal per role.
type FileAuthenticator struct {
	users map[string]userEntry

	dummyOnce sync.Once
	dummy     []byte
}

// NewFileAuthenticator loads the password file at path.
func NewFileAuthenticator(path string) (*FileAuthenticator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mgmterrors.Wrapf(mgmterrors.CodeIllegalState, err, "cannot read password file %q", path)
	}
	return ParsePasswordFile(data)
}

// ParsePasswordFile builds a FileAuthenticator from the contents of a
// password file.
func ParsePasswordFile(data []byte) (*FileAuthenticator, error) {
	var f passwordFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid password file")
	}
	for name, u := range f.Users {
		if _, err := bcrypt.Cost([]byte(u.Password)); err != nil {
			return nil, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "password of user %q is not a bcrypt hash", name)
		}
	}
	return &FileAuthenticator{users: f.Users}, nil
}

// Authenticate implements auth.Authenticator.
func (a *FileAuthenticator) Authenticate(ctx context.Context, creds *auth.Credentials) (*auth.Subject, error) {
	if creds == nil || creds.Type != auth.PasswordCredentials {
		return nil, mgmterrors.SecurityErrorf(_authFailed)
	}

	u, ok := a.users[creds.Username]
	if !ok {
		// Spend the same time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(a.dummyHash(), []byte(creds.Password))
		return nil, mgmterrors.SecurityErrorf(_authFailed)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(creds.Password)); err != nil {
		return nil, mgmterrors.SecurityErrorf(_authFailed)
	}

	principals := []auth.Principal{{Kind: auth.UserPrincipal, Name: creds.Username}}
	for _, role := range u.Roles {
		principals = append(principals, auth.Principal{Kind: auth.RolePrincipal, Name: role})
	}
	return auth.NewSubject(principals...), nil
}

func (a *FileAuthenticator) dummyHash() []byte {
	a.dummyOnce.Do(func() {
		a.dummy, _ = bcrypt.GenerateFromPassword([]byte("not a password"), bcrypt.DefaultCost)
	})
	return a.dummy
}
