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

import "go.uber.org/mgmtrpc/mgmterrors"

// Error is the wire form of a failed call.
type Error struct {
	Code    mgmterrors.Code `json:"code"`
	Message string          `json:"msg"`
	Name    string          `json:"name,omitempty"`
	Causes  []string        `json:"causes,omitempty"`
}

// EncodeError converts err to its wire form. Errors outside the taxonomy
// are sent as unknown errors.
func EncodeError(err error) *Error {
	if err == nil {
		return nil
	}
	st := mgmterrors.FromError(err)
	return &Error{
		Code:    st.Code(),
		Message: st.Message(),
		Name:    st.Name(),
		Causes:  st.Causes(),
	}
}

// Decode reverses EncodeError.
func (e *Error) Decode() error {
	if e == nil {
		return nil
	}
	return mgmterrors.FromWire(e.Code, e.Name, e.Message, e.Causes)
}
