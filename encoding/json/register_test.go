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
)

func TestWrapHandlerInvalid(t *testing.T) {
	tests := []struct {
		Name string
		Func interface{}
	}{
		{"empty", func() {}},
		{"not-a-function", 0},
		{
			"wrong-ctx-type",
			func(string, *struct{}) (*struct{}, error) {
				return nil, nil
			},
		},
		{
			"wrong-result-count",
			func(context.Context, *struct{}) *struct{} {
				return nil
			},
		},
		{
			"non-error-result",
			func(context.Context, *struct{}) (*struct{}, string) {
				return nil, ""
			},
		},
		{
			"non-pointer-req",
			func(context.Context, struct{}) (*struct{}, error) {
				return nil, nil
			},
		},
		{
			"non-pointer-res",
			func(context.Context, *struct{}) (struct{}, error) {
				return struct{}{}, nil
			},
		},
		{
			"non-string-key",
			func(context.Context, map[int32]interface{}) (*struct{}, error) {
				return nil, nil
			},
		},
	}

	for _, tt := range tests {
		assert.Panics(t, assert.PanicTestFunc(func() {
			wrapHandler(tt.Name, tt.Func)
		}), tt.Name)
	}
}

func TestWrapHandlerValid(t *testing.T) {
	tests := []struct {
		Name string
		Func interface{}
	}{
		{
			"foo",
			func(context.Context, *struct{}) (*struct{}, error) {
				return nil, nil
			},
		},
		{
			"bar",
			func(context.Context, map[string]interface{}) (*struct{}, error) {
				return nil, nil
			},
		},
		{
			"baz",
			func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
				return nil, nil
			},
		},
		{
			"qux",
			func(context.Context, interface{}) (map[string]interface{}, error) {
				return nil, nil
			},
		},
	}

	for _, tt := range tests {
		wrapHandler(tt.Name, tt.Func)
	}
}

func TestObjectMethods(t *testing.T) {
	noop := func(context.Context, *struct{}) (*struct{}, error) { return nil, nil }
	o := NewObject(
		Procedure("b", noop),
		Procedures(Procedure("a", noop), Procedure("c", noop)),
	)
	assert.Equal(t, []string{"a", "b", "c"}, o.Methods())
}
