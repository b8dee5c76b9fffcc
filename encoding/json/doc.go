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

// Package json provides the JSON encoding of remote method calls on exported
// objects.
//
// To export an object, define one function per method in the format,
//
//	f(ctx context.Context, body *ReqBody) (*ResBody, error)
//
// Where ReqBody and ResBody are structs (or map[string]interface{}), and
// build a handler from them,
//
//	obj := json.NewObject(
//		json.Procedure("getVersion", h.getVersion),
//		json.Procedure("newClient", h.newClient),
//	)
//
// The result is a transport.UnaryHandler that can be exported on an object
// table. To call methods of a remote object,
//
//	client := json.New(outbound, objectID)
//	var res VersionResponse
//	err := client.Call(ctx, "getVersion", &VersionRequest{}, &res)
package json
