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

package wire

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/mgmtrpc/serialize"
)

func TestErrorEncoding(t *testing.T) {
	tests := []struct {
		desc     string
		give     error
		wantCode mgmterrors.Code
		wantMsg  string
	}{
		{
			desc:     "declared error",
			give:     mgmterrors.AttributeNotFoundErrorf("no attribute %q", "Foo"),
			wantCode: mgmterrors.CodeAttributeNotFound,
			wantMsg:  `no attribute "Foo"`,
		},
		{
			desc:     "plain error",
			give:     errors.New("boom"),
			wantCode: mgmterrors.CodeUnknown,
			wantMsg:  "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := EncodeError(tt.give).Decode()
			assert.Equal(t, tt.wantCode, mgmterrors.CodeOf(got))
			assert.Equal(t, tt.wantMsg, mgmterrors.FromError(got).Message())
		})
	}

	assert.Nil(t, EncodeError(nil))
	assert.NoError(t, (*Error)(nil).Decode())
}

func TestErrorEncodingKeepsCauses(t *testing.T) {
	err := mgmterrors.Wrapf(mgmterrors.CodeCommunication, errors.New("disk on fire"), "backend failed").WithName("io")
	got := mgmterrors.FromError(EncodeError(err).Decode())
	assert.Equal(t, "io", got.Name())
	assert.Equal(t, []string{"disk on fire"}, got.Causes())
}

func TestAttributes(t *testing.T) {
	r := serialize.NewRegistry()
	give := mgmt.AttributeList{
		{Name: "Size", Value: int64(10)},
		{Name: "Label", Value: "users"},
		{Name: "Unset", Value: nil},
	}
	enc, err := EncodeAttributes(r, give)
	require.NoError(t, err)
	got, err := DecodeAttributes(r, enc)
	require.NoError(t, err)
	assert.Equal(t, give, got)

	_, err = EncodeAttributes(r, mgmt.AttributeList{{Name: "Bad", Value: struct{}{}}})
	assert.True(t, mgmterrors.IsMalformedInput(err), "got %v", err)
}

func TestQuery(t *testing.T) {
	r := serialize.NewRegistry()

	enc, err := EncodeQuery(r, nil)
	require.NoError(t, err)
	assert.Nil(t, enc)

	give := &mgmt.Query{InstanceOf: "Cache", Attribute: "Size", Equals: int64(3)}
	enc, err = EncodeQuery(r, give)
	require.NoError(t, err)
	got, err := DecodeQuery(r, enc)
	require.NoError(t, err)
	assert.Equal(t, give, got)
}

func TestResult(t *testing.T) {
	r := serialize.NewRegistry()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	give := &connector.NotificationResult{
		EarliestSeq: 3,
		NextSeq:     6,
		Lost:        1,
		Notifications: []connector.TargetedNotification{
			{
				ListenerID: 7,
				Notification: &mgmt.Notification{
					Type:      mgmt.AttributeChangeType,
					Source:    "app:type=Cache",
					Sequence:  5,
					Timestamp: ts,
					Attribute: &mgmt.AttributeChange{Name: "Size", Type: "int64", OldValue: int64(1), NewValue: int64(2)},
				},
			},
			{
				ListenerID: 8,
				Notification: &mgmt.Notification{
					Type:      "app.evicted",
					Source:    "app:type=Cache",
					Sequence:  5,
					Timestamp: ts,
					Message:   "evicted",
					UserData:  "key-1",
				},
			},
		},
	}
	enc, err := EncodeResult(r, give)
	require.NoError(t, err)
	got, err := DecodeResult(r, enc)
	require.NoError(t, err)
	assert.Equal(t, give, got)

	nilResult, err := EncodeResult(r, nil)
	require.NoError(t, err)
	assert.Nil(t, nilResult)
}

func TestDecodeNotificationUnderFilter(t *testing.T) {
	r := serialize.NewRegistry()
	n, err := EncodeNotification(r, &mgmt.Notification{Type: "x", UserData: int64(1)})
	require.NoError(t, err)

	f, err := serialize.ParseFilter("!int64")
	require.NoError(t, err)
	_, err = DecodeNotification(r.WithFilter(f), n)
	assert.True(t, mgmterrors.IsSecurity(err), "got %v", err)
}

func TestTimeouts(t *testing.T) {
	tests := []struct {
		give time.Duration
		want int64
	}{
		{give: 0, want: 0},
		{give: 1500 * time.Millisecond, want: 1500},
		{give: connector.WaitForever, want: -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeoutToMillis(tt.give))
		assert.Equal(t, tt.give, MillisToTimeout(tt.want))
	}
}
