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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/backend/memory"
	"go.uber.org/mgmtrpc/server"
)

func TestLoadAttributes(t *testing.T) {
	attrs, err := loadAttributes("")
	require.NoError(t, err)
	assert.Nil(t, attrs)

	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server.connection.timeout: 5m\n"+
			"notification.buffer.size: 10\n"+
			"directory.properties:\n  addr: localhost:6379\n"), 0o600))

	attrs, err = loadAttributes(path)
	require.NoError(t, err)
	cfg, err := server.NewConfig(attrs)
	require.NoError(t, err)
	assert.Equal(t, "5m0s", cfg.ConnectionTimeout.String())
	assert.Equal(t, 10, cfg.BufferSize)
	assert.Equal(t, map[string]string{"addr": "localhost:6379"}, cfg.DirectoryProperties)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- not\n- a map\n"), 0o600))
	_, err = loadAttributes(bad)
	assert.Error(t, err)

	_, err = loadAttributes(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRuntimeResource(t *testing.T) {
	ctx := context.Background()
	b := memory.New(memory.Domain("go"))
	_, err := b.Register(_runtimeName, newRuntimeResource())
	require.NoError(t, err)

	v, err := b.GetAttribute(ctx, _runtimeName, "Version")
	require.NoError(t, err)
	assert.Equal(t, runtime.Version(), v)

	n, err := b.GetAttribute(ctx, _runtimeName, "Goroutines")
	require.NoError(t, err)
	assert.True(t, n.(int) > 0)

	_, err = b.Invoke(ctx, _runtimeName, "GC", nil, nil)
	require.NoError(t, err)
	gcs, err := b.GetAttribute(ctx, _runtimeName, "NumGC")
	require.NoError(t, err)
	assert.True(t, gcs.(int64) > 0)
}

func TestPrintAddress(t *testing.T) {
	var buf bytes.Buffer
	printAddress(&buf, "service:mgmt:ws://127.0.0.1:9875/stub/abc")
	assert.Equal(t, "serving service:mgmt:ws://127.0.0.1:9875/stub/abc\n", buf.String())
}
