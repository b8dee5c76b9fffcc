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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	var anonymous *Subject
	assert.Equal(t, "anonymous", anonymous.String())
	assert.False(t, anonymous.Has(Principal{Kind: UserPrincipal, Name: "bob"}))
	assert.Nil(t, anonymous.Names())

	s := NewSubject(Principal{Kind: UserPrincipal, Name: "bob"}, Principal{Kind: RolePrincipal, Name: "admin"})
	assert.True(t, s.Has(Principal{Kind: RolePrincipal, Name: "admin"}))
	assert.Equal(t, []string{"admin", "bob"}, s.Names())
	assert.Equal(t, "user:bob;role:admin", s.String())
}

func TestSecurityContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	var none *SecurityContext
	assert.Nil(t, none.Effective())

	sc := &SecurityContext{Authenticated: User("alice")}
	ctx = WithSecurityContext(ctx, sc)
	assert.Equal(t, sc, FromContext(ctx))
	assert.Equal(t, User("alice"), FromContext(ctx).Effective())

	sc = &SecurityContext{Authenticated: User("alice"), Delegated: User("bob")}
	assert.Equal(t, User("bob"), FromContext(WithSecurityContext(ctx, sc)).Effective())
}
