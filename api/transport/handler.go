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
	"fmt"

	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
)

// UnaryInvokeRequest encapsulates arguments to invoke a unary handler.
type UnaryInvokeRequest struct {
	Context context.Context
	Request *Request
	Handler UnaryHandler
	Logger  *zap.Logger // optional
}

// InvokeUnaryHandler calls the handler h, recovering panics and converting
// them to server-fatal errors. All other errors are passed through.
func InvokeUnaryHandler(i UnaryInvokeRequest) (res *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, handlePanic(i.Logger, r, i.Request)
		}
	}()

	return i.Handler.Handle(i.Context, i.Request)
}

func handlePanic(logger *zap.Logger, recovered interface{}, req *Request) error {
	err := mgmterrors.ServerFatalErrorf("panic: %v", recovered)
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Error("handler panicked",
		zap.String("object", req.Object),
		zap.String("method", req.Method),
		zap.String("caller", req.Caller),
		zap.Error(fmt.Errorf("%v", recovered)),
		zap.Stack("stack"),
	)
	return err
}
