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

package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInvokeUnaryHandler(t *testing.T) {
	tests := []struct {
		desc     string
		handler  UnaryHandlerFunc
		wantBody string
		wantCode mgmterrors.Code
	}{
		{
			desc: "success",
			handler: func(context.Context, *Request) (*Response, error) {
				return &Response{Body: []byte("ok")}, nil
			},
			wantBody: "ok",
		},
		{
			desc: "error passes through",
			handler: func(context.Context, *Request) (*Response, error) {
				return nil, mgmterrors.NotFoundErrorf("missing")
			},
			wantCode: mgmterrors.CodeNotFound,
		},
		{
			desc: "panic",
			handler: func(context.Context, *Request) (*Response, error) {
				panic("oh no")
			},
			wantCode: mgmterrors.CodeServerFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			res, err := InvokeUnaryHandler(UnaryInvokeRequest{
				Context: context.Background(),
				Request: &Request{Object: "obj", Method: "m"},
				Handler: tt.handler,
				Logger:  zap.New(core),
			})
			if tt.wantCode != mgmterrors.CodeOK {
				assert.Equal(t, tt.wantCode, mgmterrors.CodeOf(err))
				assert.Nil(t, res)
				if tt.wantCode == mgmterrors.CodeServerFatal {
					assert.Equal(t, 1, logs.FilterMessage("handler panicked").Len())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, string(res.Body))
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.True(t, mgmterrors.IsMalformedInput(ValidateRequest(nil)))
	assert.True(t, mgmterrors.IsMalformedInput(ValidateRequest(&Request{Method: "m"})))
	assert.True(t, mgmterrors.IsMalformedInput(ValidateRequest(&Request{Object: "o"})))
	assert.NoError(t, ValidateRequest(&Request{Object: "o", Method: "m"}))
}

func TestHeaders(t *testing.T) {
	h := NewHeaders().With("Foo", "bar")
	v, ok := h.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)
	assert.Equal(t, 1, h.Len())
	h.Del("FOO")
	assert.Equal(t, 0, h.Len())

	assert.Equal(t, map[string]string{"a": "b"}, HeadersFromMap(map[string]string{"A": "b"}).Items())
	assert.Equal(t, 0, HeadersFromMap(nil).Len())

	stop := errors.New("stop")
	assert.Equal(t, stop, HeadersFromMap(map[string]string{"a": "b"}).ForeachKey(func(string, string) error { return stop }))
}

func TestTracingPropagation(t *testing.T) {
	tracer := mocktracer.New()
	req := &Request{Object: "obj", Method: "getVersion"}

	create := CreateOpenTracingSpan{Tracer: tracer, TransportName: "ws"}
	_, clientSpan := create.Do(context.Background(), req)
	clientSpan.Finish()
	require.NotZero(t, req.Headers.Len(), "span context must be injected into headers")

	extract := ExtractOpenTracingSpan{Tracer: tracer, TransportName: "ws"}
	ctx, serverSpan := extract.Do(context.Background(), req)
	assert.Equal(t, serverSpan, opentracing.SpanFromContext(ctx))
	assert.Error(t, UpdateSpanWithErr(serverSpan, errors.New("great sadness")))
	serverSpan.Finish()

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[0].SpanContext.TraceID, spans[1].SpanContext.TraceID)
	assert.Equal(t, true, spans[1].Tag("error"))
}
