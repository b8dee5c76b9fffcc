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

package connector

import (
	"encoding/base64"
	"encoding/json"

	"go.uber.org/mgmtrpc/mgmterrors"
)

// Reference is the self-describing form of a remote handle: enough for a
// client to reach the object without any prior knowledge of the server.
type Reference struct {
	// Kind names the protocol the referenced object speaks.
	Kind string `json:"kind"`
	// Address is the transport address, e.g. "ws://host:port/mgmtrpc".
	Address string `json:"address"`
	// Object is the id the handle is exported under.
	Object string `json:"object"`
}

// Encode returns the reference as standard (RFC 2045 alphabet) base64 of
// its JSON form, suitable for embedding in a service URL.
func (r Reference) Encode() string {
	b, _ := json.Marshal(r) // cannot fail for a struct of strings
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeReference reverses Reference.Encode.
func DecodeReference(s string) (Reference, error) {
	var ref Reference
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ref, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid reference encoding")
	}
	if err := json.Unmarshal(b, &ref); err != nil {
		return ref, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid reference")
	}
	if ref.Address == "" || ref.Object == "" {
		return ref, mgmterrors.MalformedInputErrorf("reference is missing an address or object id")
	}
	return ref, nil
}
