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
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/mgmterrors"
)

func requestBodyDecodeError(req *transport.Request, err error) error {
	return mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err,
		"failed to decode JSON request body for method %q of object %q", req.Method, req.Object)
}

func responseBodyEncodeError(req *transport.Request, err error) error {
	return mgmterrors.Wrapf(mgmterrors.CodeCommunication, err,
		"failed to encode JSON response body for method %q of object %q", req.Method, req.Object)
}

func requestBodyEncodeError(method string, err error) error {
	return mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err,
		"failed to encode JSON request body for method %q", method)
}

func responseBodyDecodeError(method string, err error) error {
	return mgmterrors.Wrapf(mgmterrors.CodeCommunication, err,
		"failed to decode JSON response body for method %q", method)
}
