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

// Package directorytest holds the behavior every directory.Directory must
// show, for use by the tests of implementations.
package directorytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/api/directory"
	"go.uber.org/mgmtrpc/mgmterrors"
)

// RunDirectoryTests runs the directory conformance tests against
// directories built by newDirectory. Each test gets a fresh directory and a
// name no other test uses.
func RunDirectoryTests(t *testing.T, newDirectory func(t *testing.T) directory.Directory) {
	ctx := context.Background()

	t.Run("bind and lookup", func(t *testing.T) {
		d := newDirectory(t)
		name := t.Name()
		require.NoError(t, d.Bind(ctx, name, "ref-1", false))

		got, err := d.Lookup(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "ref-1", got)
		require.NoError(t, d.Unbind(ctx, name))
	})

	t.Run("bind without rebind fails when taken", func(t *testing.T) {
		d := newDirectory(t)
		name := t.Name()
		require.NoError(t, d.Bind(ctx, name, "ref-1", false))
		defer d.Unbind(ctx, name)

		err := d.Bind(ctx, name, "ref-2", false)
		assert.True(t, mgmterrors.IsAlreadyExists(err), "got %v", err)

		got, err := d.Lookup(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "ref-1", got, "failed bind must not overwrite")
	})

	t.Run("rebind overwrites", func(t *testing.T) {
		d := newDirectory(t)
		name := t.Name()
		require.NoError(t, d.Bind(ctx, name, "ref-1", false))
		defer d.Unbind(ctx, name)
		require.NoError(t, d.Bind(ctx, name, "ref-2", true))

		got, err := d.Lookup(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "ref-2", got)
	})

	t.Run("unknown names", func(t *testing.T) {
		d := newDirectory(t)
		name := t.Name()

		_, err := d.Lookup(ctx, name)
		assert.True(t, mgmterrors.IsNotFound(err), "got %v", err)
		err = d.Unbind(ctx, name)
		assert.True(t, mgmterrors.IsNotFound(err), "got %v", err)
	})

	t.Run("unbind removes", func(t *testing.T) {
		d := newDirectory(t)
		name := t.Name()
		require.NoError(t, d.Bind(ctx, name, "ref-1", false))
		require.NoError(t, d.Unbind(ctx, name))

		_, err := d.Lookup(ctx, name)
		assert.True(t, mgmterrors.IsNotFound(err), "got %v", err)
	})
}
