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
	"context"
	"encoding/json"

	"go.uber.org/mgmtrpc/api/transport"
)

// Client calls methods of one remote object.
type Client interface {
	// Call performs a remote method call.
	//
	// reqBody may be any value json.Marshal accepts. resOut is a pointer to a
	// value that can be filled with json.Unmarshal, or nil to discard the
	// response body.
	Call(ctx context.Context, method string, reqBody interface{}, resOut interface{}) error

	// Object returns the id of the remote object.
	Object() string
}

// New builds a new JSON client for the object exported under id behind the
// outbound.
func New(o transport.Outbound, id string) Client {
	return jsonClient{o: o, id: id}
}

type jsonClient struct {
	o  transport.Outbound
	id string
}

func (c jsonClient) Object() string { return c.id }

func (c jsonClient) Call(ctx context.Context, method string, reqBody interface{}, resOut interface{}) error {
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return requestBodyEncodeError(method, err)
	}

	tres, err := c.o.Call(ctx, &transport.Request{
		Object: c.id,
		Method: method,
		Body:   encoded,
	})
	if err != nil {
		return err
	}

	if resOut == nil || len(tres.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(tres.Body, resOut); err != nil {
		return responseBodyDecodeError(method, err)
	}
	return nil
}
