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

package mgmt

import "context"

//go:generate mockgen -destination=mgmttest/backend.go -package=mgmttest go.uber.org/mgmtrpc/api/mgmt Backend

// Backend is the management backend a connector server exposes: the
// registry of managed resources and their attributes, operations and
// notifications.
//
// Implementations report failures with the declared mgmterrors codes
// (not-found, registration-failed, invocation-failed, not-compliant,
// reflection-failed, attribute-not-found, invalid-value, listener-not-found,
// already-exists, security, malformed-input). Any other error is treated as
// unexpected by the connector.
//
// The security context of the caller, when there is one, is available from
// the context through auth.FromContext.
type Backend interface {
	CreateResource(ctx context.Context, class string, name Name, params []interface{}, signature []string) (Instance, error)
	UnregisterResource(ctx context.Context, name Name) error
	GetResourceInstance(ctx context.Context, name Name) (Instance, error)
	QueryResources(ctx context.Context, pattern Name, query *Query) ([]Instance, error)
	QueryNames(ctx context.Context, pattern Name, query *Query) ([]Name, error)
	IsRegistered(ctx context.Context, name Name) (bool, error)
	GetResourceCount(ctx context.Context) (int, error)

	GetAttribute(ctx context.Context, name Name, attribute string) (interface{}, error)
	GetAttributes(ctx context.Context, name Name, attributes []string) (AttributeList, error)
	SetAttribute(ctx context.Context, name Name, attribute Attribute) error
	SetAttributes(ctx context.Context, name Name, attributes AttributeList) (AttributeList, error)
	Invoke(ctx context.Context, name Name, operation string, params []interface{}, signature []string) (interface{}, error)

	GetDefaultDomain(ctx context.Context) (string, error)
	GetDomains(ctx context.Context) ([]string, error)
	GetResourceInfo(ctx context.Context, name Name) (*ResourceInfo, error)
	IsInstanceOf(ctx context.Context, name Name, class string) (bool, error)

	// AddNotificationListener registers listener for notifications emitted
	// by the named resource. The same listener may be registered several
	// times with different filters and handbacks.
	AddNotificationListener(ctx context.Context, name Name, listener Listener, filter *Filter, handback interface{}) error
	// RemoveNotificationListener removes every registration of listener on
	// the named resource.
	RemoveNotificationListener(ctx context.Context, name Name, listener Listener) error
	// RemoveNotificationListenerMatching removes the registration of
	// listener with exactly this filter and handback.
	RemoveNotificationListenerMatching(ctx context.Context, name Name, listener Listener, filter *Filter, handback interface{}) error

	// AddResourceListener registers the resource listenerName, which must
	// implement Listener, for notifications emitted by name.
	AddResourceListener(ctx context.Context, name Name, listenerName Name, filter *Filter, handback interface{}) error
	RemoveResourceListener(ctx context.Context, name Name, listenerName Name) error
	RemoveResourceListenerMatching(ctx context.Context, name Name, listenerName Name, filter *Filter, handback interface{}) error
}
