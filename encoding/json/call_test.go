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

package json

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/api/transport"
)

func TestCallFromContext(t *testing.T) {
	var got *Call
	o := NewObject(Procedure("whoami", func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		got = CallFromContext(ctx)
		return nil, nil
	}))

	_, err := o.Handle(context.Background(), &transport.Request{
		Caller:  "10.0.0.1:4040",
		Object:  "obj",
		Method:  "whoami",
		Headers: transport.NewHeaders().With("trace", "abc"),
		Body:    []byte("{}"),
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "10.0.0.1:4040", got.Caller())
	assert.Equal(t, "obj", got.Object())
	assert.Equal(t, "whoami", got.Method())
	assert.Equal(t, "abc", got.Header("trace"))

	var none *Call
	assert.Nil(t, CallFromContext(context.Background()))
	assert.Equal(t, "", none.Caller())
	assert.Equal(t, "", none.Header("trace"))
}
