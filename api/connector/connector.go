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

// Package connector defines the remote contracts of a management connector:
// the RemoteHandle a server exports, the Session it creates per client
// connection, and the references and addresses clients use to find them.
package connector

import (
	"context"
	"time"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/mgmt"
)

// HandleKind identifies handles speaking this protocol. It is carried in
// References and reported by handle stubs so clients can refuse a handle of
// the wrong kind.
const HandleKind = "mgmtrpc.handle"

// HandleObjectID is the well-known object id a server exports its handle
// under, so that a plain service URL can address it without a stub.
const HandleObjectID = "mgmtrpc.handle"

// WaitForever makes FetchNotifications block until a notification arrives
// or the session ends.
const WaitForever time.Duration = -1

// RemoteHandle is the entry point of a connector server.
type RemoteHandle interface {
	// Version returns the protocol version the server speaks.
	Version(ctx context.Context) (string, error)

	// NewClient authenticates creds, which may be nil, and opens a new
	// session. Authentication failures are security errors.
	NewClient(ctx context.Context, creds *auth.Credentials) (Session, error)
}

// Kinded is implemented by handles that can report their kind.
type Kinded interface {
	Kind() string
}

// Session is one client connection to a connector server. Every management
// operation takes a trailing delegate: nil executes the call as the
// connection's own identity, non-nil executes it as the delegated identity.
type Session interface {
	// ConnectionID returns the id the server assigned to this session.
	ConnectionID(ctx context.Context) (string, error)

	CreateResource(ctx context.Context, class string, name mgmt.Name, params []interface{}, signature []string, delegate *auth.Subject) (mgmt.Instance, error)
	UnregisterResource(ctx context.Context, name mgmt.Name, delegate *auth.Subject) error
	GetResourceInstance(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (mgmt.Instance, error)
	QueryResources(ctx context.Context, pattern mgmt.Name, query *mgmt.Query, delegate *auth.Subject) ([]mgmt.Instance, error)
	QueryNames(ctx context.Context, pattern mgmt.Name, query *mgmt.Query, delegate *auth.Subject) ([]mgmt.Name, error)
	IsRegistered(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (bool, error)
	GetResourceCount(ctx context.Context, delegate *auth.Subject) (int, error)

	GetAttribute(ctx context.Context, name mgmt.Name, attribute string, delegate *auth.Subject) (interface{}, error)
	GetAttributes(ctx context.Context, name mgmt.Name, attributes []string, delegate *auth.Subject) (mgmt.AttributeList, error)
	SetAttribute(ctx context.Context, name mgmt.Name, attribute mgmt.Attribute, delegate *auth.Subject) error
	SetAttributes(ctx context.Context, name mgmt.Name, attributes mgmt.AttributeList, delegate *auth.Subject) (mgmt.AttributeList, error)
	Invoke(ctx context.Context, name mgmt.Name, operation string, params []interface{}, signature []string, delegate *auth.Subject) (interface{}, error)

	GetDefaultDomain(ctx context.Context, delegate *auth.Subject) (string, error)
	GetDomains(ctx context.Context, delegate *auth.Subject) ([]string, error)
	GetResourceInfo(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (*mgmt.ResourceInfo, error)
	IsInstanceOf(ctx context.Context, name mgmt.Name, class string, delegate *auth.Subject) (bool, error)

	// AddNotificationListeners registers one relay listener per name, each
	// with its filter and delegate, and returns their ids in order. If any
	// registration fails the ones already made are removed and the error is
	// returned.
	AddNotificationListeners(ctx context.Context, names []mgmt.Name, filters []*mgmt.Filter, delegates []*auth.Subject) ([]int64, error)
	// RemoveNotificationListeners removes the relay listeners with the given
	// ids from name.
	RemoveNotificationListeners(ctx context.Context, name mgmt.Name, ids []int64, delegate *auth.Subject) error

	AddResourceListener(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}, delegate *auth.Subject) error
	RemoveResourceListener(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, delegate *auth.Subject) error
	RemoveResourceListenerMatching(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}, delegate *auth.Subject) error

	// FetchNotifications returns notifications with sequence numbers at
	// least fromSeq, waiting up to timeout for one to arrive. A negative
	// fromSeq starts from the next notification. A nil result means the
	// session is closing and the caller should stop fetching.
	FetchNotifications(ctx context.Context, fromSeq int64, maxCount int, timeout time.Duration) (*NotificationResult, error)

	// Close ends the session. It is idempotent.
	Close(ctx context.Context) error
}
