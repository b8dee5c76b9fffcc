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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/mgmterrors"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		desc    string
		give    map[string]interface{}
		want    Config
		wantErr string
	}{
		{
			desc: "defaults",
			want: Config{CheckPeriod: time.Minute, FetchTimeout: time.Minute, FetchMax: 1000},
		},
		{
			desc: "everything",
			give: map[string]interface{}{
				AttrCheckPeriod:             "10s",
				AttrFetchTimeout:            "2s",
				AttrFetchMax:                10,
				AttrCheckStub:               true,
				AttrSerialFilter:            "string;!*",
				AttrDirectoryProperties:     map[string]interface{}{"addr": "localhost:6379"},
				AttrCredentials:             map[string]interface{}{"type": "token", "token": "abc"},
				"server.connection.timeout": "1s",
			},
			want: Config{
				CheckPeriod:         10 * time.Second,
				FetchTimeout:        2 * time.Second,
				FetchMax:            10,
				CheckStub:           true,
				SerialFilter:        "string;!*",
				DirectoryProperties: map[string]string{"addr": "localhost:6379"},
				Credentials:         &auth.Credentials{Type: auth.TokenCredentials, Token: "abc"},
			},
		},
		{
			desc: "checking disabled",
			give: map[string]interface{}{AttrCheckPeriod: "0s"},
			want: Config{FetchTimeout: time.Minute, FetchMax: 1000},
		},
		{
			desc:    "negative check period",
			give:    map[string]interface{}{AttrCheckPeriod: "-1s"},
			wantErr: "client.connection.check.period must not be negative",
		},
		{
			desc:    "zero fetch timeout",
			give:    map[string]interface{}{AttrFetchTimeout: "0s"},
			wantErr: "notification.fetch.timeout must be positive",
		},
		{
			desc:    "zero fetch size",
			give:    map[string]interface{}{AttrFetchMax: 0},
			wantErr: "notification.fetch.max must be positive",
		},
		{
			desc:    "bad filter",
			give:    map[string]interface{}{AttrSerialFilter: "maxdepth=-1"},
			wantErr: "invalid serial filter limit",
		},
		{
			desc:    "not a duration",
			give:    map[string]interface{}{AttrCheckPeriod: "often"},
			wantErr: "invalid client attributes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := NewConfig(tt.give)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, mgmterrors.IsMalformedInput(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			got.filter = nil
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewConfigCollectsErrors(t *testing.T) {
	_, err := NewConfig(map[string]interface{}{
		AttrFetchMax:     -1,
		AttrFetchTimeout: "-1s",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), AttrFetchMax)
	assert.Contains(t, err.Error(), AttrFetchTimeout)
}
