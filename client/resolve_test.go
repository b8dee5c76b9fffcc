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

package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/api/connector"
	dirmemory "go.uber.org/mgmtrpc/directory/memory"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap/zaptest"
)

func TestResolve(t *testing.T) {
	const host = "127.0.0.1:1"
	ctx := context.Background()

	good := connector.Reference{Kind: connector.HandleKind, Address: "ws://" + host + "/mgmtrpc", Object: "h-1"}
	other := connector.Reference{Kind: "other.handle", Address: "ws://" + host + "/mgmtrpc", Object: "h-1"}
	plain := connector.Reference{Kind: connector.HandleKind, Address: "tcp://" + host, Object: "h-1"}

	dir := dirmemory.New()
	require.NoError(t, dir.Bind(ctx, "good", good.Encode(), false))
	require.NoError(t, dir.Bind(ctx, "other", other.Encode(), false))

	checked := map[string]interface{}{AttrCheckStub: true}
	tests := []struct {
		desc    string
		url     string
		attrs   map[string]interface{}
		want    connector.Reference
		wantErr func(error) bool
	}{
		{
			desc: "direct",
			url:  "service:mgmt:ws://" + host,
			want: connector.Reference{
				Kind:    connector.HandleKind,
				Address: "ws://" + host + "/mgmtrpc",
				Object:  connector.HandleObjectID,
			},
		},
		{
			desc: "stub",
			url:  connector.StubURL("ws", host, good),
			want: good,
		},
		{
			desc:  "checked stub",
			url:   connector.StubURL("ws", host, good),
			attrs: checked,
			want:  good,
		},
		{
			desc:    "stub over another protocol",
			url:     connector.StubURL("wss", host, good),
			attrs:   checked,
			wantErr: mgmterrors.IsSecurity,
		},
		{
			desc: "directory",
			url:  "service:mgmt:ws://" + host + "/directory/good",
			want: good,
		},
		{
			desc: "unchecked foreign kind",
			url:  "service:mgmt:ws://" + host + "/directory/other",
			want: other,
		},
		{
			desc:    "checked foreign kind",
			url:     "service:mgmt:ws://" + host + "/directory/other",
			attrs:   checked,
			wantErr: mgmterrors.IsSecurity,
		},
		{
			desc:    "unbound",
			url:     "service:mgmt:ws://" + host + "/directory/missing",
			wantErr: mgmterrors.IsNotFound,
		},
		{
			desc:    "bad stub",
			url:     "service:mgmt:ws://" + host + "/stub/not-base64!",
			wantErr: mgmterrors.IsMalformedInput,
		},
		{
			desc:    "not a service URL",
			url:     "ws://" + host,
			wantErr: mgmterrors.IsMalformedInput,
		},
		{
			desc:    "unsupported transport",
			url:     connector.StubURL("ws", host, plain),
			wantErr: mgmterrors.IsMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			c := New(tt.url, Logger(zaptest.NewLogger(t)), Directory(dir))
			defer c.Close(ctx)

			cfg, err := NewConfig(tt.attrs)
			require.NoError(t, err)
			h, err := c.resolve(ctx, cfg)
			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			stub, ok := h.(*handleStub)
			require.True(t, ok, "got %T", h)
			assert.Equal(t, tt.want, stub.ref)
			assert.Equal(t, tt.want.Kind, stub.Kind())
			assert.Equal(t, tt.want.Address, c.outbound.Address())
		})
	}
}

func TestResolveDirectoryWithoutDirectory(t *testing.T) {
	c := New("service:mgmt:ws://127.0.0.1:1/directory/cache")
	defer c.Close(context.Background())

	cfg, err := NewConfig(nil)
	require.NoError(t, err)
	_, err = c.resolve(context.Background(), cfg)
	assert.True(t, mgmterrors.IsIllegalState(err), "got %v", err)
}

func TestOutboundReuse(t *testing.T) {
	c := New("")
	defer c.Close(context.Background())

	first, err := c.outboundFor("ws://127.0.0.1:1/mgmtrpc")
	require.NoError(t, err)
	again, err := c.outboundFor("ws://127.0.0.1:1/mgmtrpc")
	require.NoError(t, err)
	assert.True(t, first == again, "the same address reuses the outbound")

	moved, err := c.outboundFor("ws://127.0.0.1:2/mgmtrpc")
	require.NoError(t, err)
	assert.False(t, first == moved)
	assert.False(t, first.IsRunning(), "the old outbound is stopped")
}

func TestCheckReference(t *testing.T) {
	tests := []struct {
		desc     string
		ref      connector.Reference
		protocol string
		wantErr  bool
	}{
		{
			desc:     "matching",
			ref:      connector.Reference{Kind: connector.HandleKind, Address: "ws://h:1/mgmtrpc"},
			protocol: "ws",
		},
		{
			desc:     "wrong kind",
			ref:      connector.Reference{Kind: "rmi.server", Address: "ws://h:1/mgmtrpc"},
			protocol: "ws",
			wantErr:  true,
		},
		{
			desc:     "wrong protocol",
			ref:      connector.Reference{Kind: connector.HandleKind, Address: "wss://h:1/mgmtrpc"},
			protocol: "ws",
			wantErr:  true,
		},
		{
			desc:     "bad address",
			ref:      connector.Reference{Kind: connector.HandleKind, Address: "ws://h:port/%zz"},
			protocol: "ws",
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := checkReference(tt.ref, tt.protocol, connector.HandleKind)
			if tt.wantErr {
				assert.True(t, mgmterrors.IsSecurity(err), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
