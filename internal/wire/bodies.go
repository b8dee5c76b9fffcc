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
	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/serialize"
)

// Empty is the body of methods without arguments or results.
type Empty struct{}

// VersionResponse is returned by MethodVersion.
type VersionResponse struct {
	Version string `json:"version"`
}

// NewClientRequest is the body of MethodNewClient.
type NewClientRequest struct {
	Credentials *auth.Credentials `json:"credentials,omitempty"`
}

// NewClientResponse identifies the session object a handle opened.
type NewClientResponse struct {
	// Session is the object id the session is exported under.
	Session      string `json:"session"`
	ConnectionID string `json:"connectionId"`
}

// DelegateRequest is the body of session methods that take nothing but a
// delegate.
type DelegateRequest struct {
	Delegate *auth.Subject `json:"delegate,omitempty"`
}

// NameRequest is the body of session methods that take a resource name.
type NameRequest struct {
	Name     mgmt.Name     `json:"name"`
	Delegate *auth.Subject `json:"delegate,omitempty"`
}

// CreateResourceRequest is the body of MethodCreateResource.
type CreateResourceRequest struct {
	Class     string            `json:"class"`
	Name      mgmt.Name         `json:"name"`
	Params    []serialize.Value `json:"params,omitempty"`
	Signature []string          `json:"signature,omitempty"`
	Delegate  *auth.Subject     `json:"delegate,omitempty"`
}

// QueryRequest is the body of MethodQueryResources and MethodQueryNames.
type QueryRequest struct {
	Pattern  mgmt.Name     `json:"pattern"`
	Query    *Query        `json:"query,omitempty"`
	Delegate *auth.Subject `json:"delegate,omitempty"`
}

// GetAttributeRequest is the body of MethodGetAttribute.
type GetAttributeRequest struct {
	Name      mgmt.Name     `json:"name"`
	Attribute string        `json:"attribute"`
	Delegate  *auth.Subject `json:"delegate,omitempty"`
}

// GetAttributesRequest is the body of MethodGetAttributes.
type GetAttributesRequest struct {
	Name       mgmt.Name     `json:"name"`
	Attributes []string      `json:"attributes"`
	Delegate   *auth.Subject `json:"delegate,omitempty"`
}

// SetAttributeRequest is the body of MethodSetAttribute.
type SetAttributeRequest struct {
	Name      mgmt.Name     `json:"name"`
	Attribute Attribute     `json:"attribute"`
	Delegate  *auth.Subject `json:"delegate,omitempty"`
}

// SetAttributesRequest is the body of MethodSetAttributes.
type SetAttributesRequest struct {
	Name       mgmt.Name     `json:"name"`
	Attributes []Attribute   `json:"attributes"`
	Delegate   *auth.Subject `json:"delegate,omitempty"`
}

// InvokeRequest is the body of MethodInvoke.
type InvokeRequest struct {
	Name      mgmt.Name         `json:"name"`
	Operation string            `json:"operation"`
	Params    []serialize.Value `json:"params,omitempty"`
	Signature []string          `json:"signature,omitempty"`
	Delegate  *auth.Subject     `json:"delegate,omitempty"`
}

// InstanceOfRequest is the body of MethodIsInstanceOf.
type InstanceOfRequest struct {
	Name     mgmt.Name     `json:"name"`
	Class    string        `json:"class"`
	Delegate *auth.Subject `json:"delegate,omitempty"`
}

// AddListenersRequest is the body of MethodAddNotificationListeners. The
// three lists are parallel.
type AddListenersRequest struct {
	Names     []mgmt.Name     `json:"names"`
	Filters   []*mgmt.Filter  `json:"filters"`
	Delegates []*auth.Subject `json:"delegates"`
}

// RemoveListenersRequest is the body of MethodRemoveNotificationListeners.
type RemoveListenersRequest struct {
	Name     mgmt.Name     `json:"name"`
	IDs      []int64       `json:"ids"`
	Delegate *auth.Subject `json:"delegate,omitempty"`
}

// ResourceListenerRequest is the body of the resource listener methods.
// Filter and Handback are ignored by MethodRemoveResourceListener.
type ResourceListenerRequest struct {
	Name         mgmt.Name        `json:"name"`
	ListenerName mgmt.Name        `json:"listener"`
	Filter       *mgmt.Filter     `json:"filter,omitempty"`
	Handback     *serialize.Value `json:"handback,omitempty"`
	Delegate     *auth.Subject    `json:"delegate,omitempty"`
}

// FetchRequest is the body of MethodFetchNotifications.
type FetchRequest struct {
	FromSeq  int64 `json:"from"`
	MaxCount int   `json:"max"`
	// TimeoutMillis is negative to wait forever.
	TimeoutMillis int64 `json:"timeoutMs"`
}

// FetchResponse carries a fetch result. A nil Result tells the client to
// stop fetching.
type FetchResponse struct {
	Result *NotificationResult `json:"result"`
}

// InstanceResponse returns one resource instance.
type InstanceResponse struct {
	Instance mgmt.Instance `json:"instance"`
}

// InstancesResponse returns resource instances.
type InstancesResponse struct {
	Instances []mgmt.Instance `json:"instances"`
}

// NamesResponse returns resource names.
type NamesResponse struct {
	Names []mgmt.Name `json:"names"`
}

// BoolResponse returns a boolean.
type BoolResponse struct {
	Value bool `json:"value"`
}

// IntResponse returns an integer.
type IntResponse struct {
	Value int `json:"value"`
}

// StringResponse returns a string.
type StringResponse struct {
	Value string `json:"value"`
}

// StringsResponse returns a list of strings.
type StringsResponse struct {
	Values []string `json:"values"`
}

// ValueResponse returns a dynamically typed value.
type ValueResponse struct {
	Value serialize.Value `json:"value"`
}

// AttributesResponse returns an attribute list.
type AttributesResponse struct {
	Attributes []Attribute `json:"attributes"`
}

// InfoResponse returns resource metadata.
type InfoResponse struct {
	Info *mgmt.ResourceInfo `json:"info"`
}

// IDsResponse returns listener ids.
type IDsResponse struct {
	IDs []int64 `json:"ids"`
}
